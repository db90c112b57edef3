// Package tracker mirrors brief lifecycle transitions to the external
// system of record. Delivery is best effort everywhere: the portal's own
// database is authoritative and a flaky tracker must never block a creator's
// submission from being recorded.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ActionUpdateStatus is the only action the tracker currently understands.
const ActionUpdateStatus = "update_status"

// Payload is the wire format of an outbound status mirror.
type Payload struct {
	Action  string `json:"action"`
	BriefID string `json:"briefId"`
	Status  string `json:"status"`
	MarkURL string `json:"markUrl"`
}

// Result is the tracker's response envelope.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Client handles communication with the external tracker's sync endpoint
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	stubMode   bool
}

// NewClient creates a new tracker client with the given configuration.
// In stub mode every call succeeds locally without touching the network,
// which keeps development environments independent of tracker credentials.
func NewClient(baseURL, secret string, stubMode bool) *Client {
	return &Client{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		stubMode:   stubMode,
	}
}

// Notify pushes a status change for one brief. A transport error, a non-200
// response and a success=false body are all reported the same way: as an
// error for the caller to log and move past.
func (c *Client) Notify(ctx context.Context, payload Payload) (*Result, error) {
	if c.stubMode {
		return &Result{Success: true, Message: "stub mode: tracker update skipped"}, nil
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/sync-briefs", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-TRACKER-SECRET", c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tracker returned status %d: %s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = result.Message
		}
		return &result, fmt.Errorf("tracker rejected update: %s", msg)
	}

	return &result, nil
}
