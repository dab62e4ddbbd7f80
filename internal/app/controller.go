package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
	"github.com/bft-labs/bulk/internal/pubsub"
	"github.com/bft-labs/bulk/pkg/log"
)

// Controller classifies input lines and turns them into storage signals.
//
// A line equal to "{" opens a block and a line equal to "}" closes one.
// Only transitions of the nesting depth between 0 and 1 are signalled;
// nested markers are swallowed. A "}" at depth 0 signals BlockEnd without
// touching the depth. Every other line, empty ones included, is pushed
// as a command.
type Controller struct {
	storages pubsub.Registry[ports.Storage]
	depth    int
	logger   ports.Logger
}

// NewController creates a controller. A nil logger discards output.
func NewController(logger ports.Logger) *Controller {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Controller{logger: logger}
}

// Subscribe registers a storage. Registering the same storage twice is a no-op.
func (c *Controller) Subscribe(ref pubsub.Ref[ports.Storage]) {
	c.storages.Subscribe(ref)
}

// Unsubscribe removes a storage if it is registered.
func (c *Controller) Unsubscribe(ref pubsub.Ref[ports.Storage]) {
	c.storages.Unsubscribe(ref)
}

// Depth returns the current block nesting depth.
func (c *Controller) Depth() int {
	return c.depth
}

// Process feeds every line from src until it reports end of input, then
// calls End. A read error other than ports.ErrEndOfInput is returned
// without the final flush.
func (c *Controller) Process(ctx context.Context, src ports.CommandSource) error {
	for {
		line, err := src.Next(ctx)
		if errors.Is(err, ports.ErrEndOfInput) {
			c.End()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		c.Feed(line)
	}
}

// Feed classifies one raw line and signals subscribers accordingly.
func (c *Controller) Feed(line string) {
	switch line {
	case domain.BlockStartMarker:
		c.depth++
		if c.depth == 1 {
			c.logger.Debug("block start")
			c.storages.Notify(ports.Storage.BlockStart)
		}
	case domain.BlockEndMarker:
		switch {
		case c.depth == 0:
			c.logger.Debug("unmatched block end")
			c.storages.Notify(ports.Storage.BlockEnd)
		case c.depth == 1:
			c.depth--
			c.logger.Debug("block end")
			c.storages.Notify(ports.Storage.BlockEnd)
		default:
			c.depth--
		}
	default:
		c.storages.Notify(func(s ports.Storage) { s.Push(line) })
	}
}

// End signals end of input. The open batch is flushed only outside a
// block; an unterminated block is dropped.
func (c *Controller) End() {
	if c.depth > 0 {
		c.logger.Warn("input ended inside an open block, discarding it", log.Int("depth", c.depth))
		return
	}
	c.storages.Notify(ports.Storage.Flush)
}
