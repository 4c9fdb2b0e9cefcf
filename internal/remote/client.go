package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RequestOptions configures a single request
type RequestOptions struct {
	Method string
	Body   any
	Header http.Header
}

// validator is implemented by decoded records that can check themselves
type validator interface {
	Validate() error
}

// Client performs JSON requests against the ideas backend
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL. A nil httpClient uses
// http.DefaultClient, so only the transport's own timeouts apply.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the backend root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request to path and decodes a successful JSON response into out.
// When out is nil the response body is discarded.
func (c *Client) Do(ctx context.Context, path string, opts *RequestOptions, out any) error {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		jsonBody, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, vs := range opts.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &MalformedResponseError{Path: path, Err: err}
	}
	if err := validate(out); err != nil {
		return &MalformedResponseError{Path: path, Err: err}
	}

	return nil
}

// validate runs Validate on decoded values that support it
func validate(out any) error {
	if v, ok := out.(validator); ok {
		return v.Validate()
	}
	return nil
}
