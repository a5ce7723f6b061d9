package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"hrportal/internal/domain/auth"
	"hrportal/internal/requestctx"
)

const (
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
	maxResponseBytes    = 8 << 20
)

// Credentials authenticate one backend call.
type Credentials = auth.Credentials

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// OnCall observes every finished round trip; status is 0 on transport failure.
	OnCall func(method string, status int)
}

// Client talks to the HR backend. Only GET requests are retried; mutations go
// out exactly once.
type Client struct {
	baseURL *url.URL
	retry   *retryablehttp.Client
	onCall  func(method string, status int)
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("backend url %q is not absolute", opts.BaseURL)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = orDuration(opts.RetryWaitMin, defaultRetryWaitMin)
	retryClient.RetryWaitMax = orDuration(opts.RetryWaitMax, defaultRetryWaitMax)
	retryClient.HTTPClient.Timeout = orDuration(opts.Timeout, 10*time.Second)
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{baseURL: base, retry: retryClient, onCall: opts.OnCall}, nil
}

func (c *Client) get(ctx context.Context, creds Credentials, path string, query url.Values, out any) error {
	return c.do(ctx, creds, http.MethodGet, path, query, nil, out)
}

func (c *Client) send(ctx context.Context, creds Credentials, method, path string, body, out any) error {
	return c.do(ctx, creds, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, creds Credentials, method, path string, query url.Values, body, out any) error {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	setHeaders(ctx, req, creds)

	var resp *http.Response
	if method == http.MethodGet {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return err
		}
		resp, err = c.retry.Do(retryReq)
		if err != nil {
			c.observe(method, 0)
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	} else {
		resp, err = c.retry.HTTPClient.Do(req)
		if err != nil {
			c.observe(method, 0)
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
	defer resp.Body.Close()
	c.observe(method, resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(path, resp.StatusCode, decodePayload(raw))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func setHeaders(ctx context.Context, req *http.Request, creds Credentials) {
	role := creds.Role
	if role == "" {
		role = auth.RoleEmployee
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-User-Role", string(role))
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}
	if id := requestctx.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
}

// decodePayload keeps JSON bodies structured and anything else as text.
func decodePayload(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return v
	}
	return string(raw)
}

func (c *Client) observe(method string, status int) {
	if c.onCall != nil {
		c.onCall(method, status)
	}
}

// Unavailable reports whether err is a transport failure rather than a
// backend answer.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

func orDuration(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
