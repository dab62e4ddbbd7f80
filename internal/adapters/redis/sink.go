// Package redis provides a sink that pushes batch records onto a redis list.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bft-labs/bulk/internal/codec"
	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// DefaultKey is the list key used when none is configured.
const DefaultKey = "bulk"

// DefaultTimeout bounds a single delivery.
const DefaultTimeout = 5 * time.Second

// ListPusher is the part of redis.Cmdable the sink needs.
type ListPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Sink RPUSHes one JSON record per batch onto a list.
type Sink struct {
	client  ListPusher
	key     string
	timeout time.Duration
}

var _ ports.Sink = (*Sink)(nil)

// NewSink creates a sink pushing to key through client.
func NewSink(client ListPusher, key string, timeout time.Duration) *Sink {
	if key == "" {
		key = DefaultKey
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sink{client: client, key: key, timeout: timeout}
}

// Deliver pushes the batch record.
func (s *Sink) Deliver(batch domain.Batch) error {
	data, err := codec.Encode(batch)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("redis: rpush %s batch %d: %w", s.key, batch.Seq(), err)
	}
	return nil
}

// Key returns the list key.
func (s *Sink) Key() string {
	return s.key
}

// NewClient connects to a single redis instance and pings it.
func NewClient(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	opt := &redis.Options{Addr: addr, DB: db}
	if username != "" {
		opt.Username = username
	}
	if password != "" {
		opt.Password = password
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}
