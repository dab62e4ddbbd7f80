// Package bulk groups a stream of commands into batches and delivers each
// completed batch to one or more sinks.
//
// Batches close after a fixed number of commands, or, between a "{" line
// and its matching "}" line, when the block ends. Nested markers are
// ignored. Input that ends inside an open block drops that block.
//
// Example usage:
//
//	p, err := bulk.New(3, bulk.WithSink(bulk.NewConsoleSink(os.Stdout)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.RunReader(context.Background(), os.Stdin); err != nil {
//	    log.Fatal(err)
//	}
package bulk

import (
	"context"
	"io"
	"reflect"
	"runtime"

	"github.com/bft-labs/bulk/internal/adapters/source"
	"github.com/bft-labs/bulk/internal/app"
	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
	"github.com/bft-labs/bulk/internal/pubsub"
)

// Batch is an immutable, ordered group of commands.
type Batch = domain.Batch

// Sink consumes completed batches.
type Sink = ports.Sink

// SinkFunc adapts a function to the Sink interface.
type SinkFunc = ports.SinkFunc

// CommandSource produces input lines.
type CommandSource = ports.CommandSource

// ErrInvalidBlockSize is returned by New when the block size is not positive.
var ErrInvalidBlockSize = domain.ErrInvalidBlockSize

// Pipeline owns a controller, its accumulator and the sinks.
// The registries between them hold weak references, so the Pipeline is
// what keeps every stage alive.
type Pipeline struct {
	controller *app.Controller
	storage    *app.Accumulator
	sinks      []*sinkHolder
}

// sinkHolder gives every sink, including func and value types, a pointer
// identity the weak registry can track.
type sinkHolder struct {
	Sink
}

// New creates a pipeline with the given static block size.
func New(blockSize int, opts ...Option) (*Pipeline, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	accOpts := []app.AccumulatorOption{app.WithLogger(o.logger)}
	if o.clock != nil {
		accOpts = append(accOpts, app.WithClock(o.clock))
	}
	if o.errorHandler != nil {
		h := o.errorHandler
		accOpts = append(accOpts, app.WithErrorHandler(func(s ports.Sink, b domain.Batch, err error) {
			if holder, ok := s.(*sinkHolder); ok {
				s = holder.Sink
			}
			h(s, b, err)
		}))
	}

	storage, err := app.NewAccumulator(blockSize, accOpts...)
	if err != nil {
		return nil, err
	}
	controller := app.NewController(o.logger)
	controller.Subscribe(pubsub.Weak[ports.Storage](storage))

	p := &Pipeline{
		controller: controller,
		storage:    storage,
	}
	for _, s := range o.sinks {
		p.AddSink(s)
	}
	return p, nil
}

// AddSink registers a sink after the existing ones and returns a function
// that removes it again. Adding a sink that is already registered keeps its
// position and returns a remover for the existing registration. Sinks of
// non-comparable types, such as SinkFunc, are always added.
func (p *Pipeline) AddSink(s Sink) (remove func()) {
	if h := p.findSink(s); h != nil {
		return func() { p.removeSink(h) }
	}
	h := &sinkHolder{Sink: s}
	p.sinks = append(p.sinks, h)
	p.storage.Subscribe(pubsub.Weak[ports.Sink](h))
	return func() { p.removeSink(h) }
}

func (p *Pipeline) findSink(s Sink) *sinkHolder {
	t := reflect.TypeOf(s)
	if t == nil || !t.Comparable() {
		return nil
	}
	for _, h := range p.sinks {
		if reflect.TypeOf(h.Sink) == t && h.Sink == s {
			return h
		}
	}
	return nil
}

func (p *Pipeline) removeSink(h *sinkHolder) {
	p.storage.Unsubscribe(pubsub.Weak[ports.Sink](h))
	for i, existing := range p.sinks {
		if existing == h {
			p.sinks = append(p.sinks[:i], p.sinks[i+1:]...)
			return
		}
	}
}

// Run processes src until end of input. Commands are handled one at a time
// and every resulting delivery completes before the next line is read.
func (p *Pipeline) Run(ctx context.Context, src CommandSource) error {
	err := p.controller.Process(ctx, src)
	runtime.KeepAlive(p)
	return err
}

// RunReader processes newline-separated commands from r.
func (p *Pipeline) RunReader(ctx context.Context, r io.Reader) error {
	return p.Run(ctx, source.NewReaderSource(r))
}

// Emitted returns the number of batches emitted so far.
func (p *Pipeline) Emitted() uint64 {
	return p.storage.Emitted()
}

// Failures returns the number of failed sink deliveries so far.
func (p *Pipeline) Failures() uint64 {
	return p.storage.Failures()
}
