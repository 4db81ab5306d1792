package workflow

import (
	"fmt"
	"sync"

	"nft-persona-lab/internal/domain"
)

// Session tracks one user's step state plus per-collection analytics panels.
type Session struct {
	id string

	mu      sync.Mutex
	step    Step
	persona domain.Persona
	match   *domain.PersonaMatch
	panels  map[string]*panel // keyed by contract address
}

// panel holds the orthogonal per-collection sub-state and computed metrics.
type panel struct {
	expanded bool
	states   map[MetricKind]MetricState
	market   *domain.MarketHealth
	holders  *domain.HolderAnalysis
	activity *domain.ActivityTrends
	deepDive *domain.AIAnalytics
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Step returns the current main-machine step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Match returns the last persona match, if any.
func (s *Session) Match() (domain.Persona, *domain.PersonaMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona, s.match
}

// TogglePanel flips a collection card between collapsed and expanded.
// Independent of the main step machine.
func (s *Session) TogglePanel(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.panelLocked(address)
	p.expanded = !p.expanded
	return p.expanded
}

// MetricState returns the sub-state of one metric panel.
func (s *Session) MetricState(address string, kind MetricKind) MetricState {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.panels[address]
	if !ok {
		return MetricIdle
	}
	st, ok := p.states[kind]
	if !ok {
		return MetricIdle
	}
	return st
}

// Metrics returns the computed values for one collection (nil where not
// loaded).
func (s *Session) Metrics(address string) (*domain.MarketHealth, *domain.HolderAnalysis, *domain.ActivityTrends, *domain.AIAnalytics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.panels[address]
	if !ok {
		return nil, nil, nil, nil
	}
	return p.market, p.holders, p.activity, p.deepDive
}

func (s *Session) setStep(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
}

// transition moves from a required step to the next, failing on mismatch.
func (s *Session) transition(from, to Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != from {
		return fmt.Errorf("%w: %s -> %s (current %s)", ErrBadTransition, from, to, s.step)
	}
	s.step = to
	return nil
}

func (s *Session) setMatch(p domain.Persona, match domain.PersonaMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persona = p
	s.match = &match
}

func (s *Session) setMetricState(address string, kind MetricKind, st MetricState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelLocked(address).states[kind] = st
}

func (s *Session) storeMarket(address string, v *domain.MarketHealth) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelLocked(address).market = v
}

func (s *Session) storeHolders(address string, v *domain.HolderAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelLocked(address).holders = v
}

func (s *Session) storeActivity(address string, v *domain.ActivityTrends) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelLocked(address).activity = v
}

func (s *Session) storeDeepDive(address string, v *domain.AIAnalytics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelLocked(address).deepDive = v
}

// snapshots returns the completed classifier results for a collection.
func (s *Session) snapshots(address string) (*domain.MarketHealth, *domain.HolderAnalysis, *domain.ActivityTrends) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.panels[address]
	if !ok {
		return nil, nil, nil
	}
	return p.market, p.holders, p.activity
}

func (s *Session) panelLocked(address string) *panel {
	p, ok := s.panels[address]
	if !ok {
		p = &panel{states: make(map[MetricKind]MetricState)}
		s.panels[address] = p
	}
	return p
}
