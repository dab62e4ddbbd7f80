package ports

import "github.com/bft-labs/bulk/internal/domain"

// Sink consumes completed batches.
// Deliver is called at most once per batch. The batch is an immutable
// snapshot and may be retained by the sink.
type Sink interface {
	// Deliver outputs the batch. A returned error is reported by the caller
	// but never stops delivery to other sinks.
	Deliver(batch domain.Batch) error
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(batch domain.Batch) error

// Deliver calls f(batch).
func (f SinkFunc) Deliver(batch domain.Batch) error {
	return f(batch)
}
