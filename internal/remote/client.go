package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoValue is returned by GetInt when the path holds no value.
var ErrNoValue = errors.New("no value at path")

// Source is the remote key/value data source consumed by the sync engine.
// A missing or null string value is returned as "" with a nil error; slots
// are contiguous so callers treat "" as end of data.
type Source interface {
	GetString(ctx context.Context, path string) (string, error)
	GetInt(ctx context.Context, path string) (int, error)
}

// Ensure Client implements Source at compile time.
var _ Source = (*Client)(nil)

// Client talks to a hierarchical JSON database over its REST interface:
// every node is readable at GET {base}{path}.json.
type Client struct {
	baseURL   *url.URL
	auth      string
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "marquee/0.1"
	requestTimeout   = 5 * time.Second
	maxBodyBytes     = 64 * 1024
)

// NewClient builds a Client for the database at rawURL. auth, when set, is
// sent as the auth query parameter on every request.
func NewClient(rawURL, auth string) (*Client, error) {
	base, err := parseBaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		auth:    strings.TrimSpace(auth),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Addr returns the database host:port, for reachability probes.
func (c *Client) Addr() string {
	if c.baseURL.Port() != "" {
		return c.baseURL.Host
	}
	port := "80"
	if c.baseURL.Scheme == "https" {
		port = "443"
	}
	return net.JoinHostPort(c.baseURL.Hostname(), port)
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// GetString reads a string node.
func (c *Client) GetString(ctx context.Context, path string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	raw, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s is not a string: %w", path, err)
	}
	return s, nil
}

// GetInt reads an integer node.
func (c *Client) GetInt(ctx context.Context, path string) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	raw, err := c.get(ctx, path)
	if err != nil {
		return 0, err
	}
	if isNull(raw) {
		return 0, fmt.Errorf("%s: %w", path, ErrNoValue)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, fmt.Errorf("%s is not a number: %w", path, err)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer: %w", path, err)
	}
	return int(v), nil
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	rel := &url.URL{Path: nodePath(c.baseURL.Path, path)}
	if c.auth != "" {
		rel.RawQuery = url.Values{"auth": {c.auth}}.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode response: invalid JSON from %s", path)
	}
	return json.RawMessage(body), nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// nodePath joins the base path and node path and appends the .json suffix.
func nodePath(basePath, path string) string {
	p := strings.TrimRight(basePath, "/") + "/" + strings.Trim(path, "/")
	return p + ".json"
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("remote url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse remote url %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
