// Package opendota provides a minimal client for the OpenDota API with
// bounded retry and exponential backoff against upstream rate limiting.
package opendota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// baseURL is the root endpoint for the OpenDota API.
const baseURL = "https://api.opendota.com/api"

const (
	// maxAttempts bounds the attempt count per call, retries included.
	maxAttempts = 3
	// backoffUnit scales the exponential backoff: attempt n waits 2^n units.
	backoffUnit = 2 * time.Second
)

// fetchState tracks where a single call is in its retry cycle. Kept explicit
// rather than encoded in recursive re-invocation.
type fetchState int

const (
	stateRequesting fetchState = iota
	stateWaiting
	stateDone
)

// Client is a minimal OpenDota API client. The zero value is not usable;
// construct with NewClient.
type Client struct {
	http    *http.Client
	log     *slog.Logger
	base    string
	backoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.base = strings.TrimRight(u, "/") }
}

// WithBackoffUnit overrides the backoff time unit, used by tests.
func WithBackoffUnit(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient returns an OpenDota client.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger,
		base:    baseURL,
		backoff: backoffUnit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rateLimitBody matches the structured error payload OpenDota returns when a
// request is over quota but the status code is still usable.
type rateLimitBody struct {
	Error string `json:"error"`
}

// get performs a GET against the API and JSON-decodes the body into out.
//
// Rate-limit responses (HTTP 429/503, or an error payload mentioning the
// rate limit) and network-level failures are retried up to maxAttempts with
// a wait of 2^attempt backoff units after each failed attempt. Any other
// non-2xx status fails immediately with *UpstreamError.
func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.base + path

	var (
		state    = stateRequesting
		attempt  int
		lastKind error
	)

	for state != stateDone {
		switch state {
		case stateRequesting:
			retryable, err := c.attempt(ctx, url, out)
			if err == nil {
				return nil
			}
			if !retryable {
				return err
			}
			lastKind = err
			state = stateWaiting

		case stateWaiting:
			wait := (1 << attempt) * c.backoff
			c.log.Debug("retrying after backoff",
				slog.String("path", path),
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait))
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			attempt++
			if attempt >= maxAttempts {
				state = stateDone
			} else {
				state = stateRequesting
			}
		}
	}

	if errors.Is(lastKind, ErrNetwork) {
		return ErrNetwork
	}
	return ErrRateLimited
}

// attempt performs one HTTP round trip. The bool result reports whether the
// failure is retryable (rate limit or network), as opposed to terminal.
func (c *Client) attempt(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusServiceUnavailable:
		return true, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return false, &UpstreamError{Status: resp.StatusCode}
	}

	// Some over-quota responses come back 200 with an error payload instead
	// of a 429, so sniff the body before decoding the real shape.
	var rl rateLimitBody
	if json.Unmarshal(body, &rl) == nil && rl.Error != "" {
		if strings.Contains(strings.ToLower(rl.Error), "rate limit") {
			return true, ErrRateLimited
		}
		return false, fmt.Errorf("%w: upstream error %q", ErrDecode, rl.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return false, nil
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
