package app

import (
	"fmt"
	"time"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
	"github.com/bft-labs/bulk/internal/pubsub"
	"github.com/bft-labs/bulk/pkg/log"
)

// ErrorHandler is called when a sink fails to deliver a batch.
// Delivery continues with the next sink regardless of the handler.
type ErrorHandler func(sink ports.Sink, batch domain.Batch, err error)

// AccumulatorOption configures optional behavior of an Accumulator.
type AccumulatorOption func(*Accumulator)

// WithLogger sets the accumulator logger.
func WithLogger(logger ports.Logger) AccumulatorOption {
	return func(a *Accumulator) {
		a.logger = logger
	}
}

// WithErrorHandler sets a handler for sink delivery faults.
// The default logs the fault at error level.
func WithErrorHandler(h ErrorHandler) AccumulatorOption {
	return func(a *Accumulator) {
		a.onError = h
	}
}

// WithClock overrides the wall clock used to stamp batches.
func WithClock(now func() time.Time) AccumulatorOption {
	return func(a *Accumulator) {
		a.now = now
	}
}

// Accumulator holds the open batch and decides when it is complete.
// In static mode a batch closes once it holds blockSize commands; in
// dynamic mode only Flush or BlockEnd close it. Completed batches are
// delivered to every live sink in subscription order.
type Accumulator struct {
	blockSize int
	mode      domain.Mode
	commands  []domain.Command
	timestamp int64
	seq       uint64
	failures  uint64

	sinks   pubsub.Registry[ports.Sink]
	logger  ports.Logger
	onError ErrorHandler
	now     func() time.Time
}

var _ ports.Storage = (*Accumulator)(nil)

// NewAccumulator creates an accumulator with the given static block size.
// Returns domain.ErrInvalidBlockSize if blockSize is not positive.
func NewAccumulator(blockSize int, opts ...AccumulatorOption) (*Accumulator, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidBlockSize, blockSize)
	}
	a := &Accumulator{
		blockSize: blockSize,
		mode:      domain.ModeStatic,
		commands:  make([]domain.Command, 0, blockSize),
		logger:    log.NewNoopLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.onError == nil {
		a.onError = a.logFailure
	}
	return a, nil
}

// Subscribe registers a sink. Registering the same sink twice is a no-op.
func (a *Accumulator) Subscribe(ref pubsub.Ref[ports.Sink]) {
	a.sinks.Subscribe(ref)
}

// Unsubscribe removes a sink if it is registered.
func (a *Accumulator) Unsubscribe(ref pubsub.Ref[ports.Sink]) {
	a.sinks.Unsubscribe(ref)
}

// Push appends a command to the open batch, stamping the batch with the
// current time if it was empty. In static mode the batch is emitted as
// soon as it reaches the block size.
func (a *Accumulator) Push(command string) {
	if len(a.commands) == 0 {
		a.timestamp = a.now().UnixMicro()
	}
	a.commands = append(a.commands, command)
	if a.mode == domain.ModeStatic && len(a.commands) >= a.blockSize {
		a.emit()
	}
}

// Flush emits the open batch if it holds any commands.
func (a *Accumulator) Flush() {
	if len(a.commands) == 0 {
		return
	}
	a.emit()
}

// BlockStart closes the static batch and switches to dynamic mode.
func (a *Accumulator) BlockStart() {
	a.Flush()
	a.mode = domain.ModeDynamic
}

// BlockEnd closes the dynamic batch whatever its size and switches back to static mode.
func (a *Accumulator) BlockEnd() {
	a.Flush()
	a.mode = domain.ModeStatic
}

// Mode returns the current batching mode.
func (a *Accumulator) Mode() domain.Mode {
	return a.mode
}

// Pending returns the number of commands in the open batch.
func (a *Accumulator) Pending() int {
	return len(a.commands)
}

// Emitted returns the number of batches emitted so far.
func (a *Accumulator) Emitted() uint64 {
	return a.seq
}

// Failures returns the number of failed sink deliveries so far.
func (a *Accumulator) Failures() uint64 {
	return a.failures
}

// emit snapshots and clears the open batch before any sink sees it,
// so sink faults never leave the accumulator holding a delivered batch.
func (a *Accumulator) emit() {
	a.seq++
	batch := domain.NewBatch(a.seq, a.timestamp, a.commands)
	a.commands = a.commands[:0]

	a.logger.Debug("batch emitted",
		log.Uint64("seq", batch.Seq()),
		log.Int64("timestamp", batch.Timestamp()),
		log.Int("size", batch.Size()),
	)

	a.sinks.Notify(func(sink ports.Sink) {
		if err := deliver(sink, batch); err != nil {
			a.failures++
			a.onError(sink, batch, err)
		}
	})
}

// deliver isolates a single sink, turning a panic into an error.
func deliver(sink ports.Sink, batch domain.Batch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrSinkPanic, r)
		}
	}()
	return sink.Deliver(batch)
}

func (a *Accumulator) logFailure(sink ports.Sink, batch domain.Batch, err error) {
	a.logger.Error("sink delivery failed",
		log.String("sink", fmt.Sprintf("%T", sink)),
		log.Uint64("seq", batch.Seq()),
		log.Err(err),
	)
}
