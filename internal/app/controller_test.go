package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bft-labs/bulk/internal/ports"
	"github.com/bft-labs/bulk/internal/pubsub"
)

// recordingStorage records the controller's signals.
type recordingStorage struct {
	signals []string
}

func (s *recordingStorage) Push(command string) { s.signals = append(s.signals, "push:"+command) }
func (s *recordingStorage) Flush()              { s.signals = append(s.signals, "flush") }
func (s *recordingStorage) BlockStart()         { s.signals = append(s.signals, "start") }
func (s *recordingStorage) BlockEnd()           { s.signals = append(s.signals, "end") }

func TestController_Signals(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"plain commands", []string{"a", "b"}, "push:a push:b flush"},
		{"empty line is a command", []string{""}, "push: flush"},
		{"block", []string{"{", "a", "}"}, "start push:a end flush"},
		{"nested markers swallowed", []string{"{", "{", "a", "}", "}"}, "start push:a end flush"},
		{"stray end marker", []string{"a", "}", "b"}, "push:a end push:b flush"},
		{"marker fused with text", []string{"{foo", "}bar", " {", "{ "}, "push:{foo push:}bar push: { push:{  flush"},
		{"unterminated block has no flush", []string{"a", "{", "b"}, "push:a start push:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(nil)
			s := &recordingStorage{}
			c.Subscribe(pubsub.Weak[ports.Storage](s))

			if err := c.Process(context.Background(), &sliceSource{lines: tt.lines}); err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if got := strings.Join(s.signals, " "); got != tt.want {
				t.Errorf("signals = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestController_StrayEndKeepsDepth(t *testing.T) {
	c := NewController(nil)
	c.Feed("}")
	c.Feed("}")
	if c.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", c.Depth())
	}
	c.Feed("{")
	c.Feed("{")
	if c.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", c.Depth())
	}
}

func TestController_ReadErrorSkipsFlush(t *testing.T) {
	c := NewController(nil)
	s := &recordingStorage{}
	c.Subscribe(pubsub.Weak[ports.Storage](s))

	readErr := errors.New("broken pipe")
	err := c.Process(context.Background(), &sliceSource{lines: []string{"a"}, err: readErr})
	if !errors.Is(err, readErr) {
		t.Fatalf("Process() error = %v, want %v", err, readErr)
	}
	if got := strings.Join(s.signals, " "); got != "push:a" {
		t.Errorf("signals = %q, want %q", got, "push:a")
	}
}

func TestController_WarnsOnUnterminatedBlock(t *testing.T) {
	logger := &mockLogger{}
	c := NewController(logger)
	c.Feed("{")
	c.End()
	if len(logger.warnings) != 1 {
		t.Errorf("warnings = %v, want one", logger.warnings)
	}
}

func TestController_NotifiesEveryStorage(t *testing.T) {
	c := NewController(nil)
	first, second := &recordingStorage{}, &recordingStorage{}
	c.Subscribe(pubsub.Weak[ports.Storage](first))
	c.Subscribe(pubsub.Weak[ports.Storage](second))

	c.Feed("a")
	c.Unsubscribe(pubsub.Weak[ports.Storage](first))
	c.Feed("b")

	if got := strings.Join(first.signals, " "); got != "push:a" {
		t.Errorf("first = %q, want push:a", got)
	}
	if got := strings.Join(second.signals, " "); got != "push:a push:b" {
		t.Errorf("second = %q, want push:a push:b", got)
	}
}
