package ports

import (
	"context"
	"io"
)

// CommandSource produces input lines one at a time.
// Implementations read from a stream, a followed file, or a test fixture.
type CommandSource interface {
	// Next returns the next line without its trailing newline.
	// Returns io.EOF when the input has ended (including cancellation of ctx).
	// Returns other errors for unrecoverable read failures.
	Next(ctx context.Context) (string, error)
}

// ErrEndOfInput indicates that the source has no more lines.
var ErrEndOfInput = io.EOF
