package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/kioskflow/kioskflow/internal/clients"
	"github.com/kioskflow/kioskflow/internal/presentation/graph"
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/runner"
)

type createSessionRequest struct {
	FlowID string `json:"flow_id"`
	Locale string `json:"locale,omitempty"`
}

type sessionResponse struct {
	SessionID string      `json:"session_id"`
	Page      pagePayload `json:"page"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FlowID == "" {
		writeError(w, r, http.StatusBadRequest, "flow_id is required")
		return
	}

	rn, err := s.runner(r.Context(), req.FlowID)
	if err != nil {
		if errors.Is(err, domain.ErrFlowNotFound) {
			writeError(w, r, http.StatusNotFound, fmt.Sprintf("flow %q not found", req.FlowID))
			return
		}
		s.log.Error("failed to load flow", "flow", req.FlowID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load flow")
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = s.defaultLocale
	}

	state, err := rn.Start(locale)
	if err != nil {
		s.log.Error("failed to start session", "flow", req.FlowID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to start session")
		return
	}

	sessionID := uuid.NewString()
	state.SessionID = sessionID
	if err := s.sessions.Save(r.Context(), sessionID, state); err != nil {
		s.log.Error("failed to save session", "session_id", sessionID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save session")
		return
	}

	s.metrics.SessionsStarted.WithLabelValues(req.FlowID).Inc()
	s.log.Info("session started", "flow", req.FlowID, "session_id", sessionID, "locale", locale)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse{SessionID: sessionID, Page: renderPage(rn, state)})
}

// sessionRunner loads a session's state and its flow's runner.
func (s *Server) sessionRunner(ctx context.Context, sessionID string) (*runner.Runner, *domain.State, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	rn, err := s.runner(ctx, state.FlowID)
	if err != nil {
		return nil, nil, err
	}
	return rn, state, nil
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	rn, state, err := s.sessionRunner(r.Context(), sessionID)
	if err != nil {
		s.sessionError(w, r, sessionID, err)
		return
	}
	render.JSON(w, r, renderPage(rn, state))
}

type answerRequest struct {
	Value string `json:"value"`
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Value == "" {
		writeError(w, r, http.StatusBadRequest, "value is required")
		return
	}

	s.step(w, r, func(ctx context.Context, rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.SelectOption(ctx, state, req.Value)
	})
}

func (s *Server) next(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, func(ctx context.Context, rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.Continue(ctx, state)
	})
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, func(ctx context.Context, rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.Back(state)
	})
}

func (s *Server) restart(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, func(ctx context.Context, rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.Restart(state)
	})
}

// step applies one traversal operation under the session lock and returns
// the resulting page.
func (s *Server) step(w http.ResponseWriter, r *http.Request, op func(context.Context, *runner.Runner, *domain.State) (*domain.State, error)) {
	sessionID := chi.URLParam(r, "id")

	var rn *runner.Runner
	state, err := s.sessions.Update(r.Context(), sessionID, func(state *domain.State) (*domain.State, error) {
		var err error
		rn, err = s.runner(r.Context(), state.FlowID)
		if err != nil {
			return nil, err
		}
		return op(r.Context(), rn, state)
	})
	if err != nil {
		s.sessionError(w, r, sessionID, err)
		return
	}

	render.JSON(w, r, renderPage(rn, state))
}

// sessionError maps traversal and lookup failures onto status codes.
func (s *Server) sessionError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrFlowNotFound):
		writeError(w, r, http.StatusNotFound, "flow not found")
	case errors.Is(err, domain.ErrCompleted):
		writeError(w, r, http.StatusConflict, "flow already completed")
	case errors.Is(err, domain.ErrHistoryEmpty):
		writeError(w, r, http.StatusConflict, "nothing to go back to")
	default:
		var unknown *domain.UnknownNodeError
		if errors.As(err, &unknown) {
			writeError(w, r, http.StatusConflict, unknown.Error())
			return
		}
		s.log.Warn("session operation rejected", "session_id", sessionID, "error", err)
		writeError(w, r, http.StatusBadRequest, err.Error())
	}
}

type summaryPayload struct {
	SessionID string                   `json:"session_id"`
	FlowID    string                   `json:"flow_id"`
	Locale    string                   `json:"locale,omitempty"`
	Completed bool                     `json:"completed"`
	Answers   map[string]string        `json:"answers"`
	Forms     []domain.RecommendedForm `json:"forms"`
}

// buildSummary enriches the recommendation with catalog display names. For
// sessions still in progress the forms reflect the answers so far.
func buildSummary(rn *runner.Runner, state *domain.State) summaryPayload {
	codes := state.Forms
	if !state.Completed {
		codes = rn.Recommend(state)
	}

	forms := make([]domain.RecommendedForm, 0, len(codes))
	for _, code := range codes {
		forms = append(forms, domain.RecommendedForm{
			Number: code,
			Name:   rn.Flow().FormName(code),
		})
	}

	return summaryPayload{
		SessionID: state.SessionID,
		FlowID:    state.FlowID,
		Locale:    state.Locale,
		Completed: state.Completed,
		Answers:   state.Answers,
		Forms:     forms,
	}
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	rn, state, err := s.sessionRunner(r.Context(), sessionID)
	if err != nil {
		s.sessionError(w, r, sessionID, err)
		return
	}
	render.JSON(w, r, buildSummary(rn, state))
}

// casePayload assembles the summary shipped to the delivery collaborators.
func casePayload(rn *runner.Runner, state *domain.State, email string) clients.CasePayload {
	summary := buildSummary(rn, state)
	steps := append([]string(nil), state.History...)
	steps = append(steps, state.CurrentNodeID)

	return clients.CasePayload{
		Email:   email,
		FlowID:  state.FlowID,
		Locale:  state.Locale,
		Forms:   summary.Forms,
		Answers: state.Answers,
		Steps:   steps,
	}
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) emailSummary(w http.ResponseWriter, r *http.Request) {
	if s.email == nil || !s.email.Enabled() {
		writeError(w, r, http.StatusServiceUnavailable, "email delivery is not configured")
		return
	}

	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "a valid email address is required")
		return
	}

	sessionID := chi.URLParam(r, "id")
	rn, state, err := s.sessionRunner(r.Context(), sessionID)
	if err != nil {
		s.sessionError(w, r, sessionID, err)
		return
	}

	payload := casePayload(rn, state, req.Email)

	// Fire and forget: the visitor should not wait on the mail service.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.email.Send(ctx, req.Email, payload); err != nil {
			s.metrics.DeliveryFailures.WithLabelValues("email").Inc()
			s.log.Error("email delivery failed", "session_id", sessionID, "error", err)
		}
	}()

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "queued"})
}

func (s *Server) print(w http.ResponseWriter, r *http.Request) {
	if s.pdf == nil || !s.pdf.Enabled() {
		writeError(w, r, http.StatusServiceUnavailable, "pdf generation is not configured")
		return
	}

	sessionID := chi.URLParam(r, "id")
	rn, state, err := s.sessionRunner(r.Context(), sessionID)
	if err != nil {
		s.sessionError(w, r, sessionID, err)
		return
	}

	stream, contentType, err := s.pdf.Generate(r.Context(), casePayload(rn, state, ""))
	if err != nil {
		s.metrics.DeliveryFailures.WithLabelValues("pdf").Inc()
		s.log.Error("pdf generation failed", "session_id", sessionID, "error", err)
		writeError(w, r, http.StatusBadGateway, "pdf generation failed")
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", state.FlowID+"-summary.pdf"))
	if _, err := io.Copy(w, stream); err != nil {
		s.log.Warn("pdf stream interrupted", "session_id", sessionID, "error", err)
	}
}

func (s *Server) queueJoin(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil || !s.queue.Enabled() {
		writeError(w, r, http.StatusServiceUnavailable, "queue service is not configured")
		return
	}

	var req clients.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CaseType == "" {
		writeError(w, r, http.StatusBadRequest, "caseType is required")
		return
	}

	ticket, err := s.queue.Join(r.Context(), req)
	if err != nil {
		s.metrics.DeliveryFailures.WithLabelValues("queue").Inc()
		s.log.Error("queue join failed", "error", err)
		writeError(w, r, http.StatusBadGateway, "queue service unavailable")
		return
	}

	render.JSON(w, r, ticket)
}

type flowInfo struct {
	ID      string   `json:"id"`
	Start   string   `json:"start"`
	Locales []string `json:"locales,omitempty"`
	Nodes   int      `json:"nodes"`
}

func (s *Server) listFlows(w http.ResponseWriter, r *http.Request) {
	ids, err := s.flows.List(r.Context())
	if err != nil {
		s.log.Error("failed to list flows", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to list flows")
		return
	}
	sort.Strings(ids)

	infos := make([]flowInfo, 0, len(ids))
	for _, id := range ids {
		flow, err := s.flows.Flow(r.Context(), id)
		if err != nil {
			continue
		}
		infos = append(infos, flowInfo{
			ID:      flow.ID,
			Start:   flow.Start,
			Locales: flow.Locales,
			Nodes:   len(flow.Nodes),
		})
	}

	render.JSON(w, r, infos)
}

func (s *Server) flowGraph(w http.ResponseWriter, r *http.Request) {
	flowID := chi.URLParam(r, "id")
	flow, err := s.flows.Flow(r.Context(), flowID)
	if err != nil {
		if errors.Is(err, domain.ErrFlowNotFound) {
			writeError(w, r, http.StatusNotFound, fmt.Sprintf("flow %q not found", flowID))
			return
		}
		s.log.Error("failed to load flow", "flow", flowID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load flow")
		return
	}

	render.PlainText(w, r, graph.GenerateMermaid(flow, nil))
}
