package bulk

import (
	"time"

	"github.com/bft-labs/bulk/internal/ports"
	"github.com/bft-labs/bulk/pkg/log"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// ErrorHandler is called when a sink fails to deliver a batch.
type ErrorHandler func(sink Sink, batch Batch, err error)

// Option configures optional behavior of a Pipeline.
type Option func(*options)

// options holds the optional configuration for a Pipeline.
type options struct {
	logger       ports.Logger
	sinks        []Sink
	errorHandler ErrorHandler
	clock        func() time.Time
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSink registers a sink. Sinks are notified in registration order.
func WithSink(s Sink) Option {
	return func(o *options) {
		o.sinks = append(o.sinks, s)
	}
}

// WithErrorHandler sets a handler for sink delivery faults.
// If not provided, faults are logged at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		o.errorHandler = h
	}
}

// WithClock overrides the wall clock used to stamp batches.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}
