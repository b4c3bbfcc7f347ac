// Package postgrest is a small client for the row-query REST dialect spoken by
// PostgREST and hosted Postgres services built on it (Supabase and friends).
// Only the two calls the survey stack needs are implemented: select and insert.
package postgrest

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
)

// DefaultRESTPath is where hosted services mount the row-query API.
const DefaultRESTPath = "/rest/v1"

// ErrNotConfigured is returned by New when the URL or key is missing.
var ErrNotConfigured = errors.New("postgrest: url and key are required")

// Config holds connection settings.
type Config struct {
	URL      string
	Key      string
	Table    string
	RESTPath string
	Timeout  time.Duration
}

// APIError is a failure reported by the service itself (non-2xx response).
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("postgrest: %s (code %s, status %d)", msg, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("postgrest: %s (status %d)", msg, e.StatusCode)
}

// Client talks to one table.
type Client struct {
	endpoint string
	key      string
	client   *http.Client
}

// New validates cfg and returns a Client for cfg.Table.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" || strings.TrimSpace(cfg.Key) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Table == "" {
		cfg.Table = "submissions"
	}
	if cfg.RESTPath == "" {
		cfg.RESTPath = DefaultRESTPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	base := strings.TrimRight(cfg.URL, "/")
	path := "/" + strings.Trim(cfg.RESTPath, "/")

	return &Client{
		endpoint: base + path + "/" + url.PathEscape(cfg.Table),
		key:      cfg.Key,
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Endpoint returns the table URL, without query string.
func (c *Client) Endpoint() string { return c.endpoint }

// Select fetches rows projecting columns, ordered by order (e.g. "id.asc"),
// and decodes the JSON array into dest.
func (c *Client) Select(ctx context.Context, columns []string, order string, dest any) error {
	q := url.Values{}
	q.Set("select", strings.Join(columns, ","))
	if order != "" {
		q.Set("order", order)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build select request: %w", err)
	}
	return c.do(req, dest)
}

// Insert posts rows (a slice of objects) and decodes the returned
// representation, projected to returning, into dest.
func (c *Client) Insert(ctx context.Context, rows any, returning []string, dest any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	target := c.endpoint
	if len(returning) > 0 {
		target += "?" + url.Values{"select": {strings.Join(returning, ",")}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build insert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("postgrest request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read postgrest response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode postgrest response: %w", err)
	}
	return nil
}
