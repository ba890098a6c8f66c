// Package fetch downloads remote request assets (images, audio) to the job
// workspace with a timeout and a size cap.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 64 << 20
	userAgent       = "storyreel/1.0"
)

// Client bounds every download it performs.
type Client struct {
	HTTP     *http.Client
	Timeout  time.Duration
	MaxBytes int64
}

// NewClient builds a Client, substituting defaults for zero values.
func NewClient(timeout time.Duration, maxBytes int64) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Client{HTTP: &http.Client{}, Timeout: timeout, MaxBytes: maxBytes}
}

// ToFile streams rawURL into destPath, writing through a temp file in the
// same directory and renaming on success so a failed download never leaves a
// partial asset behind.
func (c *Client) ToFile(ctx context.Context, rawURL, destPath string) error {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return fmt.Errorf("fetch: invalid url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch: unexpected http status %s for %s", resp.Status, rawURL)
	}
	if resp.ContentLength > 0 && resp.ContentLength > c.MaxBytes {
		return fmt.Errorf("fetch: content-length %d exceeds limit %d", resp.ContentLength, c.MaxBytes)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*")
	if err != nil {
		return fmt.Errorf("fetch: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	// +1 so a body at exactly the limit is distinguishable from one over it.
	written, err := io.Copy(tmp, io.LimitReader(resp.Body, c.MaxBytes+1))
	closeErr := tmp.Close()
	if err != nil {
		return fmt.Errorf("fetch: read body: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("fetch: close temp file: %w", closeErr)
	}
	if written > c.MaxBytes {
		return fmt.Errorf("fetch: body exceeds limit %d bytes", c.MaxBytes)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("fetch: move into place: %w", err)
	}
	return nil
}
