package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/observability"
	"nft-persona-lab/internal/persona"
	"nft-persona-lab/internal/synthesis"
	"nft-persona-lab/internal/workflow"
)

// analyzePersonaRequest is the /analyze-persona request body. Collections is
// held raw so a non-array value can be rejected rather than zeroed.
type analyzePersonaRequest struct {
	Persona     string          `json:"persona"`
	Collections json.RawMessage `json:"collections"`
}

// analyzePersonaResponse is the /analyze-persona success envelope.
type analyzePersonaResponse struct {
	Success  bool                `json:"success"`
	Analysis domain.PersonaMatch `json:"analysis"`
}

func (s *Server) handleAnalyzePersona(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req analyzePersonaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Persona == "" {
		s.writeError(w, http.StatusBadRequest, "persona is required", "")
		return
	}
	p := domain.Persona(req.Persona)
	if _, ok := persona.Lookup(p); !ok {
		s.writeError(w, http.StatusBadRequest, "unknown persona", string(p))
		return
	}

	// A JSON null unmarshals into a nil slice without error, so reject the
	// token explicitly along with a missing field.
	var collections []domain.Collection
	if len(req.Collections) == 0 || string(req.Collections) == "null" {
		s.writeError(w, http.StatusBadRequest, "collections must be an array", "")
		return
	}
	if err := json.Unmarshal(req.Collections, &collections); err != nil {
		s.writeError(w, http.StatusBadRequest, "collections must be an array", err.Error())
		return
	}

	match := s.matcher.Match(r.Context(), p, collections)
	observability.RecordPersonaMatch(matchOutcome(match))

	s.writeJSON(w, http.StatusOK, analyzePersonaResponse{Success: true, Analysis: match})
}

// matchOutcome labels a persona match for metrics.
func matchOutcome(m domain.PersonaMatch) string {
	switch {
	case !m.Fallback:
		return "ai"
	case m.Confidence <= persona.ConfidenceCallFailure:
		return "fallback_call"
	default:
		return "fallback_parse"
	}
}

// aiAnalysisRequest is the /ai-analysis request body. The analytics
// snapshots are optional; missing ones are marked unavailable in the prompt.
type aiAnalysisRequest struct {
	Collection     *domain.Collection     `json:"collection"`
	MarketHealth   *domain.MarketHealth   `json:"marketHealth"`
	HolderAnalysis *domain.HolderAnalysis `json:"holderAnalysis"`
	ActivityTrends *domain.ActivityTrends `json:"activityTrends"`
}

// aiAnalysisResponse is the /ai-analysis success envelope.
type aiAnalysisResponse struct {
	Success  bool                `json:"success"`
	Analysis *domain.AIAnalytics `json:"analysis"`
}

func (s *Server) handleAIAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req aiAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Collection == nil || req.Collection.ContractAddress == "" {
		s.writeError(w, http.StatusBadRequest, "collection.contractAddress is required", "")
		return
	}
	if s.provider == nil {
		s.writeError(w, http.StatusInternalServerError, "AI analysis unavailable",
			"text generation credential is not configured")
		return
	}

	in := synthesis.Inputs{
		Collection: *req.Collection,
		Market:     req.MarketHealth,
		Holders:    req.HolderAnalysis,
		Activity:   req.ActivityTrends,
	}
	verdict, err := s.provider.Synthesize(r.Context(), in)
	observability.RecordSynthesis("provider", err)
	if err != nil {
		s.logger.Warn("deep-dive synthesis failed",
			zap.String("address", req.Collection.ContractAddress),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "AI analysis failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, aiAnalysisResponse{Success: true, Analysis: verdict})
}

// classifierRequest is the body of the three /analytics/* endpoints.
type classifierRequest struct {
	ContractAddress string `json:"contractAddress"`
}

// classifierResponse is the /analytics/* success envelope.
type classifierResponse struct {
	Success  bool `json:"success"`
	Analysis any  `json:"analysis"`
}

// handleClassifier serves one classifier kind. Classifier errors are not
// masked: a stale or fabricated metric would be worse than a visible
// failure, so upstream trouble surfaces as 502.
func (s *Server) handleClassifier(kind workflow.MetricKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		var req classifierRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
		if req.ContractAddress == "" {
			s.writeError(w, http.StatusBadRequest, "contractAddress is required", "")
			return
		}

		col := s.lookupCollection(req.ContractAddress)

		var result any
		var err error
		switch kind {
		case workflow.MetricMarket:
			result, err = s.analyzer.MarketHealth(r.Context(), col)
		case workflow.MetricHolders:
			result, err = s.analyzer.HolderAnalysis(r.Context(), col)
		case workflow.MetricActivity:
			result, err = s.analyzer.ActivityTrends(r.Context(), col)
		}
		observability.RecordClassifierRun(string(kind), err)
		if err != nil {
			s.writeError(w, http.StatusBadGateway, "classifier failed", err.Error())
			return
		}

		s.writeJSON(w, http.StatusOK, classifierResponse{Success: true, Analysis: result})
	}
}

// lookupCollection resolves an address against the cache, falling back to a
// bare record so classifiers can still run for uncached addresses.
func (s *Server) lookupCollection(address string) domain.Collection {
	for _, c := range s.cache.Collections() {
		if c.ContractAddress == address {
			return c
		}
	}
	return domain.Collection{ContractAddress: address}
}

// collectionsResponse is the /collections envelope.
type collectionsResponse struct {
	Success      bool                `json:"success"`
	Collections  []domain.Collection `json:"collections"`
	Count        int                 `json:"count"`
	FromFallback bool                `json:"fromFallback"`
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	result := s.controller.EnsureCache(r.Context())
	s.writeJSON(w, http.StatusOK, collectionsResponse{
		Success:      true,
		Collections:  result.Collections,
		Count:        len(result.Collections),
		FromFallback: result.FromFallback,
	})
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"personas": persona.All(),
	})
}

// statusResponse is the JSON response for the /status endpoint.
type statusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	CacheState  string `json:"cacheState"`
	Collections int    `json:"collections"`
	AIEnabled   bool   `json:"aiEnabled"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{
		Status:      "running",
		Uptime:      time.Since(s.startedAt).Round(time.Second).String(),
		CacheState:  string(s.cache.State()),
		Collections: len(s.cache.Collections()),
		AIEnabled:   s.provider != nil,
	})
}
