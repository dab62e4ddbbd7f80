package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/bulk/internal/ports"
	"github.com/bft-labs/bulk/pkg/log"
)

// FollowSource tails a file. It returns lines already in the file, then
// blocks for appended lines. Input ends when ctx is cancelled or the file
// is removed or renamed; a trailing partial line is returned at that point.
type FollowSource struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	watcher *fsnotify.Watcher
	logger  ports.Logger

	partial strings.Builder
	done    bool
}

// NewFollowSource opens path and starts watching it.
func NewFollowSource(path string, logger ports.Logger) (*FollowSource, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: a watch on the file itself never reports removal
	// while the file is held open.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		_ = f.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &FollowSource{
		path:    filepath.Clean(path),
		file:    f,
		reader:  bufio.NewReader(f),
		watcher: w,
		logger:  logger,
	}, nil
}

// Next returns the next complete line, waiting for the file to grow.
func (s *FollowSource) Next(ctx context.Context) (string, error) {
	for {
		chunk, err := s.reader.ReadString('\n')
		s.partial.WriteString(chunk)
		if err == nil {
			line := strings.TrimSuffix(s.partial.String(), "\n")
			s.partial.Reset()
			return line, nil
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read %s: %w", s.path, err)
		}
		// Input has ended and everything written before that is consumed.
		if s.done {
			return s.drain()
		}
		if s.wait(ctx) {
			s.done = true
		}
	}
}

// wait blocks until the file may have new data. It returns true when the
// input has ended.
func (s *FollowSource) wait(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return true
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				s.logger.Info("followed file went away", log.String("path", s.path))
				return true
			}
			if ev.Has(fsnotify.Write) {
				s.rewindIfTruncated()
				return false
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return true
			}
			s.logger.Warn("watch error", log.String("path", s.path), log.Err(err))
		}
	}
}

// rewindIfTruncated restarts from the beginning when the file shrank
// below the current read position.
func (s *FollowSource) rewindIfTruncated() {
	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}
	info, err := s.file.Stat()
	if err != nil || info.Size() >= pos {
		return
	}
	s.logger.Warn("followed file truncated, reading from start", log.String("path", s.path))
	if _, err := s.file.Seek(0, io.SeekStart); err == nil {
		s.reader.Reset(s.file)
		s.partial.Reset()
	}
}

func (s *FollowSource) drain() (string, error) {
	if s.partial.Len() == 0 {
		return "", io.EOF
	}
	line := s.partial.String()
	s.partial.Reset()
	return line, nil
}

// Close stops watching and closes the file.
func (s *FollowSource) Close() error {
	return errors.Join(s.watcher.Close(), s.file.Close())
}
