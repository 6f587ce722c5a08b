package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/savage13/fern/internal/ports"
	"github.com/savage13/fern/pkg/log"
)

// DefaultUserAgent identifies requests sent by fern.
const DefaultUserAgent = "fern/1.0"

// Config configures a Client.
type Config struct {
	// Retries is the number of extra attempts after a network error or 5xx.
	Retries int

	// BackoffInitial and BackoffMax bound the wait between attempts.
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	UserAgent string
}

// Client implements ports.Transport over an HTTP client.
type Client struct {
	client ports.HTTPClient
	config Config
	logger log.Logger
}

// NewClient creates a transport. client is usually an *http.Client with a timeout.
func NewClient(client ports.HTTPClient, config Config, logger log.Logger) *Client {
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = DefaultBackoffInitial
	}
	if config.BackoffMax <= 0 {
		config.BackoffMax = DefaultBackoffMax
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	return &Client{client: client, config: config, logger: log.OrNoop(logger)}
}

// Get fetches url.
func (c *Client) Get(ctx context.Context, url string) (ports.Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post sends body to url as plain text.
func (c *Client) Post(ctx context.Context, url string, body []byte) (ports.Response, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (ports.Response, error) {
	b := newBackoff(c.config.BackoffInitial, c.config.BackoffMax)
	for attempt := 0; ; attempt++ {
		resp, err := c.once(ctx, method, url, body)
		retryable := err != nil || resp.StatusCode/100 == 5
		if !retryable || attempt >= c.config.Retries || ctx.Err() != nil {
			return resp, err
		}

		fields := []log.Field{
			log.String("method", method),
			log.String("url", url),
			log.Int("attempt", attempt+1),
		}
		if err != nil {
			fields = append(fields, log.Err(err))
		} else {
			fields = append(fields, log.Int("status", resp.StatusCode))
		}
		c.logger.Warn("request failed, retrying", fields...)

		if err := b.Sleep(ctx); err != nil {
			return resp, err
		}
	}
}

func (c *Client) once(ctx context.Context, method, url string, body []byte) (ports.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return ports.Response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "text/plain")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.Response{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.Response{}, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("http exchange",
		log.String("method", method),
		log.String("url", url),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(data)),
	)
	return ports.Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Filename:   filename(resp.Header.Get("Content-Disposition")),
	}, nil
}

// filename extracts the filename parameter of a Content-Disposition header.
func filename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
