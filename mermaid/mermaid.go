// Package mermaid provides a client for the mermaid.ink rendering
// service, which turns a textual diagram description into SVG markup.
package mermaid

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public rendering endpoint. The encoded graph is
// appended directly to it.
const DefaultBaseURL = "https://mermaid.ink/svg/"

// renderRejected is the body the service answers with when the encoded
// graph is not a diagram it can render.
const renderRejected = "invalid encoded code"

// renderTimeouts is the per-attempt deadline ladder. Each retry gets a
// longer allowance so slow renders of large diagrams still succeed.
var renderTimeouts = []time.Duration{
	2 * time.Second,
	4 * time.Second,
	6 * time.Second,
	8 * time.Second,
}

// Client renders diagram descriptions through a mermaid.ink compatible
// HTTP endpoint.
type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the rendering endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// WithHTTPClient overrides the underlying HTTP client. Per-attempt
// deadlines are applied through the request context, so the client's
// own Timeout should usually stay zero.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLogger sets the logger used for retry and rejection reporting.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient returns a Client talking to DefaultBaseURL unless
// configured otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		base: DefaultBaseURL,
		hc:   http.DefaultClient,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render submits the graph and returns the SVG markup produced for it.
// The graph travels base64-encoded in the URL path. Timed out attempts
// are retried with a longer deadline; other failures abort immediately.
// A graph the service rejects yields an empty string and a nil error,
// since there is nothing to reconstruct from it.
func (c *Client) Render(ctx context.Context, graph string) (string, error) {
	uri := c.base + base64.StdEncoding.EncodeToString([]byte(graph))

	var last error
	for _, timeout := range renderTimeouts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		attempt, cancel := context.WithTimeout(ctx, timeout)
		body, err := c.fetch(attempt, uri)
		cancel()
		if err == nil {
			if strings.TrimSpace(body) == renderRejected {
				c.log.Debug("renderer rejected the graph", zap.Int("bytes", len(graph)))
				return "", nil
			}
			return body, nil
		}
		if !timedOut(err) {
			return "", err
		}
		last = err
		c.log.Warn("render attempt timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err))
	}
	return "", fmt.Errorf("mermaid: render failed after %d attempts: %w", len(renderTimeouts), last)
}

func (c *Client) fetch(ctx context.Context, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	text := string(body)
	if resp.StatusCode >= http.StatusBadRequest && strings.TrimSpace(text) != renderRejected {
		return "", fmt.Errorf("mermaid: render failed: %s", resp.Status)
	}
	return text, nil
}

// timedOut reports whether err was caused by an attempt deadline rather
// than a hard transport failure.
func timedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
