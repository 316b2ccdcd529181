package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// EmailClient calls the email-send endpoint.
type EmailClient struct {
	baseURL string
	from    string
	client  *http.Client
}

// NewEmailClient creates an email client. An empty baseURL yields a disabled
// client whose Send always errors; callers gate on Enabled.
func NewEmailClient(baseURL, from string, timeout time.Duration) *EmailClient {
	return &EmailClient{
		baseURL: baseURL,
		from:    from,
		client:  newHTTPClient(timeout),
	}
}

// Enabled reports whether a delivery endpoint is configured.
func (c *EmailClient) Enabled() bool {
	return c.baseURL != ""
}

type emailRequest struct {
	To       string      `json:"to"`
	From     string      `json:"from,omitempty"`
	CaseData CasePayload `json:"caseData"`
}

type emailResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Send posts the case summary to the email service. A non-2xx status or a
// success=false body is an error; the caller logs it and moves on.
func (c *EmailClient) Send(ctx context.Context, to string, payload CasePayload) error {
	if !c.Enabled() {
		return fmt.Errorf("email delivery is not configured")
	}

	resp, err := postJSON(ctx, c.client, c.baseURL, emailRequest{To: to, From: c.from, CaseData: payload})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	var body emailResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode email response: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("email service rejected the message: %s", body.Error)
	}
	return nil
}
