package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// appendFile runs off the test goroutine, so failures surface as a
// missing line rather than through t.
func appendFile(path, data string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(data)
}

func TestFollowSource_ReadsExistingAndAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewFollowSource(path, nil)
	if err != nil {
		t.Fatalf("NewFollowSource() error = %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, want := range []string{"a", "b"} {
		got, err := src.Next(ctx)
		if err != nil || got != want {
			t.Fatalf("Next() = %q, %v, want %q", got, err, want)
		}
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		appendFile(path, "c\nd")
	}()

	got, err := src.Next(ctx)
	if err != nil || got != "c" {
		t.Fatalf("Next() = %q, %v, want c", got, err)
	}

	// The partial "d" is returned once the input ends.
	stopCtx, stop := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer stop()
	got, err = src.Next(stopCtx)
	if err != nil || got != "d" {
		t.Fatalf("Next() = %q, %v, want d", got, err)
	}
	if _, err := src.Next(stopCtx); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestFollowSource_EndsWhenFileRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewFollowSource(path, nil)
	if err != nil {
		t.Fatalf("NewFollowSource() error = %v", err)
	}
	defer src.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.Remove(path)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
	if ctx.Err() != nil {
		t.Error("input ended by timeout instead of removal")
	}
}

func TestNewFollowSource_MissingFile(t *testing.T) {
	if _, err := NewFollowSource(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Error("NewFollowSource() expected error for missing file")
	}
}

// endingCtx is already done. The first call to Done runs hook, which
// lets a test write to the file at the moment the source sees the end.
type endingCtx struct {
	context.Context
	once sync.Once
	hook func()
}

func (c *endingCtx) Done() <-chan struct{} {
	c.once.Do(c.hook)
	return c.Context.Done()
}

func TestFollowSource_ReadsDataWrittenBeforeEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewFollowSource(path, nil)
	if err != nil {
		t.Fatalf("NewFollowSource() error = %v", err)
	}
	defer src.Close()

	base, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := &endingCtx{Context: base, hook: func() { appendFile(path, "late\ntail") }}

	for _, want := range []string{"late", "tail"} {
		got, err := src.Next(ctx)
		if err != nil || got != want {
			t.Fatalf("Next() = %q, %v, want %q", got, err, want)
		}
	}
	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}
