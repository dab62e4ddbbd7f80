package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReaderSource reads lines from an io.Reader.
//
// Each read runs in its own goroutine so a cancelled context ends the input
// even while the reader is blocked, as with an interactive terminal. The
// abandoned read is left to finish on its own and no further reads start.
type ReaderSource struct {
	r    *bufio.Reader
	done bool
}

type readResult struct {
	line string
	err  error
}

// NewReaderSource creates a source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r)}
}

// Next returns the next line. A cancelled context ends the input.
func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	if s.done || ctx.Err() != nil {
		s.done = true
		return "", io.EOF
	}

	results := make(chan readResult, 1)
	go func() {
		line, err := s.r.ReadString('\n')
		results <- readResult{line: line, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		s.done = true
		return "", io.EOF
	case res = <-results:
	}

	if res.err == nil {
		return strings.TrimSuffix(res.line, "\n"), nil
	}
	if !errors.Is(res.err, io.EOF) {
		return "", fmt.Errorf("read line: %w", res.err)
	}
	s.done = true
	if res.line == "" {
		return "", io.EOF
	}
	return res.line, nil
}
