package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds configuration for downloading source audio.
type Config struct {
	Timeout  time.Duration // 0 keeps the http.Client default
	MaxBytes int64         // 0 means unlimited
}

// Client downloads remote audio into memory.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
}

// StatusError is returned when the remote server answers with a failure status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s for url: %s", e.Status, e.URL)
}

func New(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxBytes:   cfg.MaxBytes,
	}
}

// Fetch issues a GET for rawURL and returns the full body.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body io.Reader = resp.Body
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("audio at %s exceeds %d bytes", rawURL, c.maxBytes)
	}

	return data, nil
}
