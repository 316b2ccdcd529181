package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PDFClient calls the PDF-generation endpoint.
type PDFClient struct {
	baseURL string
	client  *http.Client
}

// NewPDFClient creates a PDF client.
func NewPDFClient(baseURL string, timeout time.Duration) *PDFClient {
	return &PDFClient{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

// Enabled reports whether a generation endpoint is configured.
func (c *PDFClient) Enabled() bool {
	return c.baseURL != ""
}

// Generate posts the case summary and returns the binary stream plus its
// content type. The caller must close the reader.
func (c *PDFClient) Generate(ctx context.Context, payload CasePayload) (io.ReadCloser, string, error) {
	if !c.Enabled() {
		return nil, "", fmt.Errorf("pdf generation is not configured")
	}

	resp, err := postJSON(ctx, c.client, c.baseURL, payload)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("pdf service returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return resp.Body, contentType, nil
}
