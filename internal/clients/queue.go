package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// QueueClient calls the queue-management join endpoint.
type QueueClient struct {
	baseURL string
	client  *http.Client
}

// NewQueueClient creates a queue client.
func NewQueueClient(baseURL string, timeout time.Duration) *QueueClient {
	return &QueueClient{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

// Enabled reports whether a queue endpoint is configured.
func (c *QueueClient) Enabled() bool {
	return c.baseURL != ""
}

// JoinRequest asks for a place in the clerk queue.
type JoinRequest struct {
	CaseType string            `json:"caseType"`
	Language string            `json:"language"`
	UserInfo map[string]string `json:"userInfo,omitempty"`
}

// Ticket is the queue service's answer.
type Ticket struct {
	QueueNumber       string `json:"queueNumber"`
	EstimatedWaitTime int    `json:"estimatedWaitTime"`
	PriorityLevel     string `json:"priorityLevel"`
}

// Join forwards the request and returns the issued ticket.
func (c *QueueClient) Join(ctx context.Context, req JoinRequest) (*Ticket, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("queue service is not configured")
	}

	resp, err := postJSON(ctx, c.client, c.baseURL, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("queue service returned status %d", resp.StatusCode)
	}

	var ticket Ticket
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return nil, fmt.Errorf("failed to decode queue response: %w", err)
	}
	return &ticket, nil
}
