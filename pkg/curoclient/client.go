// Package curoclient is a typed client for the Curo REST API.
package curoclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Credential is the Authorization header value sent with every request.
type Credential struct {
	Scheme string
	Value  string
}

func CuroBasic(user, password string) Credential {
	return Credential{Scheme: "CuroBasic", Value: base64.StdEncoding.EncodeToString([]byte(user + ":" + password))}
}

func Basic(user, password string) Credential {
	return Credential{Scheme: "Basic", Value: base64.StdEncoding.EncodeToString([]byte(user + ":" + password))}
}

func Bearer(token string) Credential {
	return Credential{Scheme: "Bearer", Value: token}
}

func (c Credential) Header() string {
	return c.Scheme + " " + c.Value
}

// AuthTransport sets a fixed Authorization header on a copy of every request.
type AuthTransport struct {
	Header string
	Base   http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", t.Header)
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	credential *Credential
}

type Option func(*Client)

func WithCredential(c Credential) Option {
	return func(cl *Client) {
		cl.credential = &c
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = hc
	}
}

// New returns a client for the API at baseURL, e.g. http://localhost:8090/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.credential != nil {
		hc := *c.httpClient
		hc.Transport = &AuthTransport{Header: c.credential.Header(), Base: hc.Transport}
		c.httpClient = &hc
	}
	return c, nil
}

// RequestOption adjusts a single request.
type RequestOption func(*http.Request)

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...RequestOption) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}
