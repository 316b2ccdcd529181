// Package server exposes the kiosk HTTP API: session lifecycle, page
// navigation, summaries and the delivery endpoints backed by the external
// collaborators.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/kioskflow/kioskflow/internal/clients"
	"github.com/kioskflow/kioskflow/internal/logging"
	"github.com/kioskflow/kioskflow/internal/metrics"
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/ports"
	"github.com/kioskflow/kioskflow/pkg/runner"
	"github.com/kioskflow/kioskflow/pkg/session"
)

// Options carries the server's collaborators. Flows and Sessions are
// required; nil clients disable their endpoints with 503.
type Options struct {
	Logger        *slog.Logger
	Flows         ports.FlowSource
	Sessions      *session.Manager
	Metrics       *metrics.Metrics
	Email         *clients.EmailClient
	PDF           *clients.PDFClient
	Queue         *clients.QueueClient
	DefaultLocale string

	// Sink receives every completed session after the built-in metrics
	// accounting. Compose several with a registry.
	Sink ports.CompletionSink
}

// Server holds the API dependencies and the per-flow runner cache.
type Server struct {
	log      *slog.Logger
	flows    ports.FlowSource
	sessions *session.Manager
	metrics  *metrics.Metrics
	validate *validator.Validate

	email *clients.EmailClient
	pdf   *clients.PDFClient
	queue *clients.QueueClient

	defaultLocale string
	sink          ports.CompletionSink

	mu      sync.RWMutex
	runners map[string]*runner.Runner
}

// New creates the server. Runners are built lazily per flow so a flow source
// reload is picked up without a restart.
func New(opts Options) (*Server, error) {
	if opts.Flows == nil {
		return nil, fmt.Errorf("server requires a flow source")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("server requires a session manager")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}

	return &Server{
		log:           opts.Logger,
		flows:         opts.Flows,
		sessions:      opts.Sessions,
		metrics:       opts.Metrics,
		validate:      validator.New(),
		email:         opts.Email,
		pdf:           opts.PDF,
		queue:         opts.Queue,
		defaultLocale: opts.DefaultLocale,
		sink:          opts.Sink,
		runners:       make(map[string]*runner.Runner),
	}, nil
}

// runner returns the cached runner for a flow, building it on first use.
func (s *Server) runner(ctx context.Context, flowID string) (*runner.Runner, error) {
	s.mu.RLock()
	rn, ok := s.runners[flowID]
	s.mu.RUnlock()
	if ok {
		return rn, nil
	}

	flow, err := s.flows.Flow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	rn, err = runner.New(flow,
		runner.WithLogger(s.log),
		runner.WithCompletionSink(s.completionSink()),
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.runners[flowID] = rn
	s.mu.Unlock()
	return rn, nil
}

// completionSink records completion metrics and logs the outcome before
// handing the result to the configured sink, if any.
func (s *Server) completionSink() ports.CompletionSink {
	return ports.SinkFunc(func(ctx context.Context, result domain.Result) error {
		s.metrics.SessionsCompleted.WithLabelValues(result.FlowID).Inc()
		s.metrics.FormsRecommended.Add(float64(len(result.Forms)))
		s.log.Info("session completed",
			"flow", result.FlowID,
			"session_id", result.SessionID,
			"forms", len(result.Forms),
		)
		if s.sink != nil {
			return s.sink.Deliver(ctx, result)
		}
		return nil
	})
}

// Router builds the chi handler with the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/page", s.getPage)
				r.Post("/answer", s.answer)
				r.Post("/next", s.next)
				r.Post("/back", s.back)
				r.Post("/restart", s.restart)
				r.Get("/summary", s.summary)
				r.Post("/email", s.emailSummary)
				r.Get("/print", s.print)
			})
		})
		v1.Post("/queue/join", s.queueJoin)
		v1.Route("/flows", func(r chi.Router) {
			r.Get("/", s.listFlows)
			r.Get("/{id}/graph", s.flowGraph)
		})
	})

	return enableCORS(r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
