package app

import (
	"context"
	"io"
	"time"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct {
	warnings []string
	errors   []string
}

func (*mockLogger) Debug(msg string, fields ...ports.Field) {}
func (*mockLogger) Info(msg string, fields ...ports.Field)  {}
func (m *mockLogger) Warn(msg string, fields ...ports.Field) {
	m.warnings = append(m.warnings, msg)
}
func (m *mockLogger) Error(msg string, fields ...ports.Field) {
	m.errors = append(m.errors, msg)
}

// recordingSink keeps every batch it receives.
type recordingSink struct {
	batches []domain.Batch
}

func (s *recordingSink) Deliver(b domain.Batch) error {
	s.batches = append(s.batches, b)
	return nil
}

func (s *recordingSink) commands() [][]string {
	out := make([][]string, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, b.Commands())
	}
	return out
}

// sliceSource yields fixed lines and then io.EOF.
type sliceSource struct {
	lines []string
	err   error
}

func (s *sliceSource) Next(ctx context.Context) (string, error) {
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// fakeClock advances one microsecond per call.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.UnixMicro(1_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Microsecond)
	return c.t
}

func equalBatches(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
