// Package camunda is a small client for the Camunda BPM engine-rest API used
// by the camunda repository implementations.
package camunda

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

	"go.opentelemetry.io/otel/attribute"

	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/tracing"
)

type Client struct {
	baseURL  string
	http     *http.Client
	user     string
	password string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBasicAuth authenticates against engine-rest with HTTP basic auth.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithTimeout sets the request timeout on a copy of the HTTP client, so a
// client passed with WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// engineError is the error body returned by engine-rest.
type engineError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := tracing.StartSpan(ctx, "camunda "+method,
		attribute.String("http.method", method),
		attribute.String("camunda.path", path),
	)
	defer func() { tracing.EndSpan(span, err) }()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to encode engine request: %w", err))
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to build engine request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return cerr.NewError(cerr.DeadlineExceeded, "process engine timed out", fmt.Errorf("%s %s: %w", method, path, ctx.Err()))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return cerr.NewError(cerr.Unavailable, "process engine unavailable", fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 300 {
		return responseError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to decode engine response of %s %s: %w", method, path, err))
	}
	return nil
}

func responseError(method, path string, resp *http.Response) error {
	var ee engineError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &ee)
	underlying := fmt.Errorf("%s %s: status %d: %s: %s", method, path, resp.StatusCode, ee.Type, ee.Message)

	code := cerr.CodeFromHTTPStatus(resp.StatusCode)
	switch code {
	case cerr.NotFound:
		return cerr.NewError(code, "not found", underlying)
	case cerr.Unauthenticated, cerr.PermissionDenied:
		// The engine credentials are ours, not the caller's.
		return cerr.NewError(cerr.Internal, "server error", underlying)
	case cerr.InvalidArgument, cerr.Aborted, cerr.ResourceExhausted:
		msg := ee.Message
		if msg == "" {
			msg = "process engine rejected the request"
		}
		return cerr.NewError(code, msg, underlying)
	default:
		return cerr.NewError(cerr.Unavailable, "process engine unavailable", underlying)
	}
}

// NotFoundAs relabels a NotFound engine error with a message naming target.
func NotFoundAs(target string, err error) error {
	if cerr.IsCode(err, cerr.NotFound) {
		return cerr.NewError(cerr.NotFound, target+" not found", err)
	}
	return err
}
