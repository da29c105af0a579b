// Package apiclient is the one HTTP client used to talk to the food ordering
// backend. Every request carries the current bearer token, if any.
package apiclient

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

	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

const (
	maxErrorBody   = 64 << 10
	maxSuccessBody = 8 << 20
)

// TokenSource hands out the bearer credential for the next request.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	baseURL    string
	httpClient *http.Client
	bearer     *bearerTransport
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTransport replaces the underlying round tripper; the bearer interceptor
// stays in front of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.bearer.next = rt
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.bearer.tokens = ts
	}
}

func New(baseURL string, opts ...Option) *Client {
	bt := &bearerTransport{
		next: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: bt,
		},
		bearer: bt,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource wires the token provider after construction. The session
// manager needs the client and the client needs the session's token.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.bearer.setTokens(ts)
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request and decodes a 2xx JSON body into out (when out is not
// nil). Any other outcome is an *apierr.Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	l := logging.FromContext(ctx).With("component", "apiclient", "method", method, "path", path)

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apierr.Wrap(apierr.KindDecode, "encode request body", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return apierr.Wrap(apierr.KindNetwork, "create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The token is read once so a 401 can be matched to the credential that
	// caused it.
	tok := c.bearer.token()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("api_request_failed", "error", err)
		return apierr.Wrap(apierr.KindNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	l = l.With("status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := apierr.FromResponse(resp.StatusCode, data)
		apiErr.Token = tok
		l.Warn("api_request_rejected", "kind", apiErr.Kind, "message", apiErr.Message)
		return apiErr
	}

	l.Debug("api_request_ok")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSuccessBody))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSuccessBody)).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &apierr.Error{
			Kind:       apierr.KindDecode,
			Message:    fmt.Sprintf("decode response: %v", err),
			HTTPStatus: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}
