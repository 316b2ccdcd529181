package clients_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskflow/kioskflow/internal/clients"
	"github.com/kioskflow/kioskflow/pkg/domain"
)

func samplePayload() clients.CasePayload {
	return clients.CasePayload{
		Email:  "user@example.org",
		FlowID: "dvro",
		Locale: "en",
		Forms: []domain.RecommendedForm{
			{Number: "DV-100", Name: "Request for Domestic Violence Restraining Order"},
		},
		Answers: map[string]string{"relationship": "domestic"},
	}
}

func TestEmailClient_Send(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	client := clients.NewEmailClient(srv.URL, "selfhelp@court.local", time.Second)
	err := client.Send(context.Background(), "user@example.org", samplePayload())
	require.NoError(t, err)

	assert.Equal(t, "user@example.org", received["to"])
	caseData, ok := received["caseData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dvro", caseData["flow_id"])
}

func TestEmailClient_ServiceRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "mailbox full"})
	}))
	defer srv.Close()

	client := clients.NewEmailClient(srv.URL, "", time.Second)
	err := client.Send(context.Background(), "user@example.org", samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mailbox full")
}

func TestEmailClient_Disabled(t *testing.T) {
	client := clients.NewEmailClient("", "", time.Second)
	assert.False(t, client.Enabled())
	assert.Error(t, client.Send(context.Background(), "user@example.org", samplePayload()))
}

func TestPDFClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	client := clients.NewPDFClient(srv.URL, time.Second)
	stream, contentType, err := client.Generate(context.Background(), samplePayload())
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, "application/pdf", contentType)
	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Contains(t, string(data), "%PDF")
}

func TestPDFClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := clients.NewPDFClient(srv.URL, time.Second)
	_, _, err := client.Generate(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestQueueClient_Join(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dvro", req["caseType"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"queueNumber":       "A042",
			"estimatedWaitTime": 15,
			"priorityLevel":     "standard",
		})
	}))
	defer srv.Close()

	client := clients.NewQueueClient(srv.URL, time.Second)
	ticket, err := client.Join(context.Background(), clients.JoinRequest{CaseType: "dvro", Language: "en"})
	require.NoError(t, err)

	assert.Equal(t, "A042", ticket.QueueNumber)
	assert.Equal(t, 15, ticket.EstimatedWaitTime)
	assert.Equal(t, "standard", ticket.PriorityLevel)
}

func TestQueueClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := clients.NewQueueClient(srv.URL, 50*time.Millisecond)
	_, err := client.Join(context.Background(), clients.JoinRequest{CaseType: "dvro", Language: "en"})
	assert.Error(t, err)
}
