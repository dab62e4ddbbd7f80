// Package http provides a sink that POSTs batch records to a webhook.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/bft-labs/bulk/internal/codec"
	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// DefaultTimeout bounds a single delivery.
const DefaultTimeout = 10 * time.Second

// Client abstracts HTTP request execution for testing and custom transports.
// The standard *http.Client satisfies this interface.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sink POSTs one JSON record per batch to a URL.
type Sink struct {
	client   Client
	url      string
	token    string
	timeout  time.Duration
	hostname string
}

var _ ports.Sink = (*Sink)(nil)

// NewSink creates a webhook sink. An empty token sends no Authorization header.
func NewSink(client Client, url, token string, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	host, _ := os.Hostname()
	return &Sink{
		client:   client,
		url:      url,
		token:    token,
		timeout:  timeout,
		hostname: host,
	}
}

// Deliver posts the batch record. Any non-2xx response is an error.
func (s *Sink) Deliver(batch domain.Batch) error {
	body, err := codec.Encode(batch)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Bulk-Hostname", s.hostname)
	req.Header.Set("X-Bulk-OSArch", runtime.GOOS+"/"+runtime.GOARCH)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http: send batch %d: %w", batch.Seq(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("http: server returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
