package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// File sink errors. Delivery errors wrap one of these and can be checked with errors.Is.
var (
	// ErrOpen is returned when the output file cannot be created.
	ErrOpen = errors.New("file sink: can't open file for output")

	// ErrWrite is returned when writing the output file fails.
	ErrWrite = errors.New("file sink: failed to write to file")
)

// FileSink writes every batch to its own file named after the batch timestamp.
type FileSink struct {
	dir       string
	onWritten func(path string)
}

var _ ports.Sink = (*FileSink)(nil)

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithOnWritten registers a hook called with the path of every file
// written successfully.
func WithOnWritten(fn func(path string)) FileSinkOption {
	return func(s *FileSink) {
		s.onWritten = fn
	}
}

// NewFileSink creates a sink writing into dir. An empty dir means the
// working directory.
func NewFileSink(dir string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file a batch with the given timestamp is written to.
func (s *FileSink) Path(timestamp int64) string {
	return filepath.Join(s.dir, domain.MakeFilename(timestamp))
}

// Deliver writes the batch, replacing any file of the same name.
// Data goes to a temp file first and is renamed into place, so a failed
// write never leaves a partial log behind.
func (s *FileSink) Deliver(batch domain.Batch) error {
	path := s.Path(batch.Timestamp())

	dir := s.dir
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".bulk-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	if err := writeAndClose(tmp, domain.Format(batch)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	// Atomic rename
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	if s.onWritten != nil {
		s.onWritten(path)
	}
	return nil
}

func writeAndClose(f *os.File, data string) error {
	if _, err := f.WriteString(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
