// Package clients holds the HTTP callers for the external collaborators:
// the email sender, the PDF generator and the queue-management service.
//
// All three are opaque request/response services. Failures are surfaced to
// the caller as errors and logged; nothing here retries or blocks the user's
// traversal, which has already completed by the time these calls fire.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

const defaultTimeout = 10 * time.Second

// CasePayload is the case summary shipped to the email and PDF services.
type CasePayload struct {
	Email   string                   `json:"email,omitempty"`
	FlowID  string                   `json:"flow_id"`
	Locale  string                   `json:"language,omitempty"`
	Forms   []domain.RecommendedForm `json:"forms"`
	Answers map[string]string        `json:"answers,omitempty"`
	Steps   []string                 `json:"steps,omitempty"`
	Notes   string                   `json:"notes,omitempty"`
}

// newHTTPClient builds the shared transport configuration.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// postJSON sends a JSON body and returns the raw response. The caller owns
// closing the body on success.
func postJSON(ctx context.Context, client *http.Client, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
