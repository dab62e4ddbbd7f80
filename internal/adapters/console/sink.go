// Package console provides a sink that prints batches to a text stream.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// Sink writes "bulk: a, b, c" lines to an io.Writer.
type Sink struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.Sink = (*Sink)(nil)

// NewSink creates a console sink writing to out.
func NewSink(out io.Writer) *Sink {
	return &Sink{out: out}
}

// Deliver prints the batch.
func (s *Sink) Deliver(batch domain.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.out, domain.Format(batch)); err != nil {
		return fmt.Errorf("console: write batch %d: %w", batch.Seq(), err)
	}
	return nil
}
