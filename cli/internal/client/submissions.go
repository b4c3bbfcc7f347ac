package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/multillm/survey-stack/common/models"
)

// SubmissionsClient talks to the submissions service endpoints.
type SubmissionsClient struct {
	baseURL string
	client  *http.Client
}

// NewSubmissionsClient creates a client for the service at baseURL.
func NewSubmissionsClient(baseURL string) *SubmissionsClient {
	return &SubmissionsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetTimeout bounds every request made by the client.
func (c *SubmissionsClient) SetTimeout(d time.Duration) {
	c.client.Timeout = d
}

func (c *SubmissionsClient) BaseURL() string { return c.baseURL }

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

type submitResponse struct {
	OK    bool   `json:"ok"`
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// Submit posts payload to /api/submit and returns the assigned id.
func (c *SubmissionsClient) Submit(ctx context.Context, payload models.Payload) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, readAPIError(resp)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if !out.OK {
		return 0, &APIError{StatusCode: resp.StatusCode, Message: out.Error}
	}
	return out.ID, nil
}

// List fetches every submission from /api/submissions, ascending by id.
func (c *SubmissionsClient) List(ctx context.Context) ([]models.Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/submissions", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readAPIError(resp)
	}

	var subs []models.Submission
	if err := json.NewDecoder(resp.Body).Decode(&subs); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return subs, nil
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
