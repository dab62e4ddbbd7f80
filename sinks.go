package bulk

import (
	"context"
	"io"
	"time"

	"github.com/bft-labs/bulk/internal/adapters/console"
	"github.com/bft-labs/bulk/internal/adapters/fs"
	httpsink "github.com/bft-labs/bulk/internal/adapters/http"
	"github.com/bft-labs/bulk/internal/adapters/redis"
	"github.com/bft-labs/bulk/internal/domain"
)

// Built-in sinks.
type (
	// ConsoleSink prints "bulk: a, b, c" lines to a writer.
	ConsoleSink = console.Sink

	// FileSink writes each batch to bulk<timestamp>.log.
	FileSink = fs.FileSink

	// FileSinkOption configures a FileSink.
	FileSinkOption = fs.FileSinkOption

	// JournalSink appends one JSON record per batch to a file.
	JournalSink = fs.JournalSink

	// RedisSink pushes one JSON record per batch onto a redis list.
	RedisSink = redis.Sink

	// RedisListPusher is the redis client capability RedisSink needs.
	RedisListPusher = redis.ListPusher

	// HTTPSink POSTs one JSON record per batch to a webhook.
	HTTPSink = httpsink.Sink

	// HTTPClient executes webhook requests. *http.Client satisfies it.
	HTTPClient = httpsink.Client
)

// File sink errors, checkable with errors.Is.
var (
	ErrFileOpen  = fs.ErrOpen
	ErrFileWrite = fs.ErrWrite
)

// NewConsoleSink creates a sink printing to out.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return console.NewSink(out)
}

// NewFileSink creates a sink writing log files into dir.
func NewFileSink(dir string, opts ...FileSinkOption) *FileSink {
	return fs.NewFileSink(dir, opts...)
}

// WithOnWritten registers a hook called with the path of every log file written.
func WithOnWritten(fn func(path string)) FileSinkOption {
	return fs.WithOnWritten(fn)
}

// NewJournalSink opens a JSON-lines journal at path. Close it when done.
func NewJournalSink(path string) (*JournalSink, error) {
	return fs.NewJournalSink(path)
}

// NewRedisSink creates a sink pushing to key through client.
func NewRedisSink(client RedisListPusher, key string, timeout time.Duration) *RedisSink {
	return redis.NewSink(client, key, timeout)
}

// DialRedis connects to a single redis instance and returns a sink for key.
// The returned close function releases the connection.
func DialRedis(ctx context.Context, addr, username, password string, db int, key string, timeout time.Duration) (*RedisSink, func() error, error) {
	client, err := redis.NewClient(ctx, addr, username, password, db)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewSink(client, key, timeout), client.Close, nil
}

// NewHTTPSink creates a webhook sink. A nil client uses a default
// *http.Client with the given timeout.
func NewHTTPSink(client HTTPClient, url, token string, timeout time.Duration) *HTTPSink {
	return httpsink.NewSink(client, url, token, timeout)
}

// Format renders a batch as "bulk: a, b, c\n".
func Format(b Batch) string {
	return domain.Format(b)
}

// MakeFilename returns the log file name for a batch timestamp.
func MakeFilename(timestamp int64) string {
	return domain.MakeFilename(timestamp)
}
