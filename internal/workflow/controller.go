// Package workflow drives the per-session step machine: cache load, persona
// selection, and on-demand per-collection analytics.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nft-persona-lab/internal/analytics"
	"nft-persona-lab/internal/cache"
	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/persona"
	"nft-persona-lab/internal/synthesis"
)

// Step is the main per-session state.
type Step string

const (
	StepIdle              Step = "IDLE"
	StepLoadingCache      Step = "LOADING_CACHE"
	StepReadyCollapsed    Step = "READY_COLLAPSED"
	StepExpandedSelecting Step = "EXPANDED_SELECTING"
	StepAnalyzingPersona  Step = "ANALYZING_PERSONA"
	StepShowingResults    Step = "SHOWING_RESULTS"
)

// MetricKind identifies one per-collection analytics panel.
type MetricKind string

const (
	MetricMarket   MetricKind = "market"
	MetricHolders  MetricKind = "holders"
	MetricActivity MetricKind = "activity"
	MetricDeepDive MetricKind = "deepdive"
)

// MetricState is the orthogonal per-metric sub-state.
type MetricState string

const (
	MetricIdle    MetricState = "IDLE"
	MetricLoading MetricState = "LOADING"
	MetricLoaded  MetricState = "LOADED"
	MetricFailed  MetricState = "FAILED"
)

// Workflow errors.
var (
	ErrUnknownSession = errors.New("unknown session")
	ErrBadTransition  = errors.New("invalid step transition")
	ErrUnknownMetric  = errors.New("unknown metric kind")
)

// ProgressEvent is broadcast to observers during cache loading.
type ProgressEvent struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
}

// Controller orchestrates sessions over the shared cache and engines.
type Controller struct {
	cache    *cache.Cache
	analyzer *analytics.Analyzer
	matcher  *persona.Matcher
	local    synthesis.Synthesizer
	logger   *zap.Logger

	mu        sync.Mutex
	sessions  map[string]*Session
	observers map[int]chan ProgressEvent
	nextObs   int
}

// NewController creates a Controller.
func NewController(c *cache.Cache, a *analytics.Analyzer, m *persona.Matcher, local synthesis.Synthesizer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cache:     c,
		analyzer:  a,
		matcher:   m,
		local:     local,
		logger:    logger,
		sessions:  make(map[string]*Session),
		observers: make(map[int]chan ProgressEvent),
	}
}

// Subscribe registers a progress observer. The returned cancel func must be
// called to release the channel.
func (c *Controller) Subscribe() (<-chan ProgressEvent, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObs
	c.nextObs++
	ch := make(chan ProgressEvent, 64)
	c.observers[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.observers[id]; ok {
			delete(c.observers, id)
			close(existing)
		}
	}
}

// publish fans an event out to observers; slow observers drop events rather
// than block the workflow.
func (c *Controller) publish(ev ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.observers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// EnsureCache loads the collection cache if needed, forwarding progress to
// observers. Safe to call from any number of sessions.
func (c *Controller) EnsureCache(ctx context.Context) cache.LoadResult {
	return c.cache.Load(ctx, func(p int, msg string) {
		c.publish(ProgressEvent{Stage: "cache", Progress: p, Message: msg})
	})
}

// StartSession creates a session and runs the mount sequence: cache load
// (success or fallback) always lands the session in READY_COLLAPSED.
func (c *Controller) StartSession(ctx context.Context) *Session {
	s := &Session{
		id:     uuid.New().String(),
		step:   StepIdle,
		panels: make(map[string]*panel),
	}
	c.mu.Lock()
	c.sessions[s.id] = s
	c.mu.Unlock()

	s.setStep(StepLoadingCache)
	result := c.EnsureCache(ctx)
	s.setStep(StepReadyCollapsed)

	c.logger.Debug("session started",
		zap.String("session", s.id),
		zap.Int("collections", len(result.Collections)),
		zap.Bool("fallback", result.FromFallback))
	return s
}

// Session returns a session by ID.
func (c *Controller) Session(id string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	return s, ok
}

// Expand moves a session into persona selection.
func (c *Controller) Expand(id string) error {
	s, ok := c.Session(id)
	if !ok {
		return ErrUnknownSession
	}
	return s.transition(StepReadyCollapsed, StepExpandedSelecting)
}

// SelectPersona runs the persona matching engine for a session. The engine
// never fails, so the session always reaches SHOWING_RESULTS; a degraded
// match is only visible through the result's Fallback/Confidence fields.
func (c *Controller) SelectPersona(ctx context.Context, id string, p domain.Persona) (domain.PersonaMatch, error) {
	s, ok := c.Session(id)
	if !ok {
		return domain.PersonaMatch{}, ErrUnknownSession
	}
	if err := s.transition(StepExpandedSelecting, StepAnalyzingPersona); err != nil {
		// Re-selection from the results view is allowed.
		if err2 := s.transition(StepShowingResults, StepAnalyzingPersona); err2 != nil {
			return domain.PersonaMatch{}, err
		}
	}

	collections := c.cache.Collections()
	match := c.matcher.Match(ctx, p, collections)

	s.setMatch(p, match)
	s.setStep(StepShowingResults)
	return match, nil
}

// RunMetric computes one analytics panel for one collection. Panels are
// independent: calls may run concurrently across collections and metric
// kinds. Classifier errors are recorded as FAILED and returned.
func (c *Controller) RunMetric(ctx context.Context, id, address string, kind MetricKind) error {
	s, ok := c.Session(id)
	if !ok {
		return ErrUnknownSession
	}

	col, ok := c.findCollection(address)
	if !ok {
		return fmt.Errorf("collection %s not cached", address)
	}

	s.setMetricState(address, kind, MetricLoading)

	var err error
	switch kind {
	case MetricMarket:
		var mh *domain.MarketHealth
		if mh, err = c.analyzer.MarketHealth(ctx, col); err == nil {
			s.storeMarket(address, mh)
		}
	case MetricHolders:
		var ha *domain.HolderAnalysis
		if ha, err = c.analyzer.HolderAnalysis(ctx, col); err == nil {
			s.storeHolders(address, ha)
		}
	case MetricActivity:
		var at *domain.ActivityTrends
		if at, err = c.analyzer.ActivityTrends(ctx, col); err == nil {
			s.storeActivity(address, at)
		}
	case MetricDeepDive:
		// Reads whatever snapshots have completed; never waits for the rest.
		in := synthesis.Inputs{Collection: col}
		in.Market, in.Holders, in.Activity = s.snapshots(address)
		var verdict *domain.AIAnalytics
		if verdict, err = c.local.Synthesize(ctx, in); err == nil {
			s.storeDeepDive(address, verdict)
		}
	default:
		return ErrUnknownMetric
	}

	if err != nil {
		s.setMetricState(address, kind, MetricFailed)
		c.logger.Warn("metric failed",
			zap.String("session", id),
			zap.String("address", address),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return err
	}
	s.setMetricState(address, kind, MetricLoaded)
	return nil
}

func (c *Controller) findCollection(address string) (domain.Collection, bool) {
	for _, col := range c.cache.Collections() {
		if col.ContractAddress == address {
			return col, true
		}
	}
	return domain.Collection{}, false
}
