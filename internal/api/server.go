// Package api exposes the HTTP surface: persona matching, deep-dive
// analysis, per-collection classifiers, and cache/status endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"nft-persona-lab/internal/analytics"
	"nft-persona-lab/internal/cache"
	"nft-persona-lab/internal/observability"
	"nft-persona-lab/internal/persona"
	"nft-persona-lab/internal/synthesis"
	"nft-persona-lab/internal/workflow"
)

// Server holds the engines behind the HTTP handlers.
type Server struct {
	cache      *cache.Cache
	analyzer   *analytics.Analyzer
	matcher    *persona.Matcher
	provider   synthesis.Synthesizer // nil when no generation credential
	controller *workflow.Controller
	logger     *zap.Logger
	startedAt  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithProvider sets the provider-delegated synthesizer. Leaving it unset
// makes /ai-analysis report the missing credential.
func WithProvider(p synthesis.Synthesizer) Option {
	return func(s *Server) { s.provider = p }
}

// NewServer creates a Server over the shared engines.
func NewServer(c *cache.Cache, a *analytics.Analyzer, m *persona.Matcher, ctl *workflow.Controller, opts ...Option) *Server {
	s := &Server{
		cache:      c,
		analyzer:   a,
		matcher:    m,
		controller: ctl,
		logger:     zap.NewNop(),
		startedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/analyze-persona", s.instrument("/analyze-persona", s.handleAnalyzePersona))
	mux.Handle("/ai-analysis", s.instrument("/ai-analysis", s.handleAIAnalysis))
	mux.Handle("/analytics/market", s.instrument("/analytics/market", s.handleClassifier(workflow.MetricMarket)))
	mux.Handle("/analytics/holders", s.instrument("/analytics/holders", s.handleClassifier(workflow.MetricHolders)))
	mux.Handle("/analytics/activity", s.instrument("/analytics/activity", s.handleClassifier(workflow.MetricActivity)))
	mux.Handle("/collections", s.instrument("/collections", s.handleCollections))
	mux.Handle("/personas", s.instrument("/personas", s.handlePersonas))
	mux.Handle("/status", s.instrument("/status", s.handleStatus))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/ws/progress", s.handleProgressWS)

	return mux
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg, details string) {
	s.writeJSON(w, code, errorResponse{Error: msg, Details: details})
}
