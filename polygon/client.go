// Package polygon is a small client for the Polygon.io reference and
// aggregates REST endpoints used to price options.
package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang/glog"
)

// BaseURL is the production REST endpoint.
const BaseURL = "https://api.polygon.io"

var (
	// ErrBadStatus is returned for a non-200 HTTP response or when the
	// response body carries a status other than the ones the endpoint accepts.
	ErrBadStatus = errors.New("unexpected response status")
	// ErrNoResults is returned when a query succeeds but matches nothing.
	ErrNoResults = errors.New("no results")
)

// Client talks to the Polygon REST API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sends requests through a copy of hc. hc itself is
// never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout. It applies whatever the order of
// options.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    BaseURL,
		apiKey:     apiKey,
		timeout:    30 * time.Second,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.httpClient == nil {
		return nil, fmt.Errorf("http client is nil")
	}

	hc := *c.httpClient
	hc.Timeout = c.timeout
	c.httpClient = &hc
	return c, nil
}

// get fetches path with params and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)
	apiURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	glog.V(1).Infof("GET %s%s", c.baseURL, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: HTTP %d: %s", ErrBadStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(status string, accepted ...string) error {
	for _, a := range accepted {
		if status == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrBadStatus, status)
}
