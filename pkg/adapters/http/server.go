// Package http exposes a loaded form and its submission journal over a small
// read-only JSON API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/internal/inspect"
	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Journal is the read side of the submission journal.
type Journal interface {
	List(ctx context.Context, formURL string) ([]*domain.Submission, error)
	Get(ctx context.Context, id string) (*domain.Submission, error)
}

// Server holds the handler dependencies.
type Server struct {
	inspector *inspect.Inspector
	journal   Journal
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithJournal enables the /submissions routes.
func WithJournal(j Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithGatherer enables /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewHandler creates the HTTP handler for the inspected form.
func NewHandler(in *inspect.Inspector, opts ...Option) http.Handler {
	s := &Server{
		inspector: in,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.GetHealth)
	r.Get("/form", s.GetForm)
	r.Get("/graph", s.GetGraph)
	r.Post("/validate", s.Validate)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.journal != nil {
		r.Get("/submissions", s.ListSubmissions)
		r.Get("/submissions/{id}", s.GetSubmission)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetForm handles GET /form. ?answers=true includes the current values.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	withAnswers := r.URL.Query().Get("answers") == "true"
	s.writeJSON(w, http.StatusOK, s.inspector.Describe(withAnswers))
}

// GetGraph handles GET /graph with the mermaid page graph.
func (s *Server) GetGraph(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.inspector.Graph()))
}

type validateRequest struct {
	FillOptional bool           `json:"fill_optional"`
	Answers      map[string]any `json:"answers"`
}

// Validate handles POST /validate: a dry run of the answers in the body.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body validateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("validate: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	report := s.inspector.Validate(r.Context(), &answers.File{
		FillOptional: body.FillOptional,
		Answers:      body.Answers,
	})
	status := http.StatusOK
	if !report.Valid {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, report)
}

// ListSubmissions handles GET /submissions. Records of the inspected form
// are listed unless ?all=true.
func (s *Server) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	formURL := s.inspector.URL()
	if r.URL.Query().Get("all") == "true" {
		formURL = ""
	}
	subs, err := s.journal.List(r.Context(), formURL)
	if err != nil {
		s.logger.Error("list submissions failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	if subs == nil {
		subs = []*domain.Submission{}
	}
	s.writeJSON(w, http.StatusOK, subs)
}

// GetSubmission handles GET /submissions/{id}.
func (s *Server) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.journal.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		s.logger.Error("get submission failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "journal unavailable")
	default:
		s.writeJSON(w, http.StatusOK, sub)
	}
}
