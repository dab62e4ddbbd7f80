package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bft-labs/bulk/internal/codec"
	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// JournalSink appends one JSON record per batch to a single file.
type JournalSink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

var _ ports.Sink = (*JournalSink)(nil)

// NewJournalSink opens (or creates) the journal at path for appending.
func NewJournalSink(path string) (*JournalSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	return &JournalSink{path: path, file: f}, nil
}

// Deliver appends the batch record followed by a newline.
func (s *JournalSink) Deliver(batch domain.Batch) error {
	data, err := codec.Encode(batch)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.path, err)
	}
	return nil
}

// Path returns the journal file path.
func (s *JournalSink) Path() string {
	return s.path
}

// Close closes the journal file.
func (s *JournalSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
