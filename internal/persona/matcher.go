package persona

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/textgen"
)

// Fallback confidence levels. Two distinct values so callers can tell
// "provider call failed" (0.1) apart from "provider replied garbage" (0.2).
const (
	ConfidenceCallFailure  = 0.1
	ConfidenceParseFailure = 0.2
	confidenceDefault      = 0.5

	maxSelections    = 4
	fallbackSelectN  = 2
	defaultReasoning = "Selected based on overall collection fundamentals."
)

// Matcher is the persona matching engine. Match never fails: every error is
// converted into a degraded first-N selection.
type Matcher struct {
	gen    textgen.Generator
	logger *zap.Logger
}

// NewMatcher creates a Matcher over the given generator.
func NewMatcher(gen textgen.Generator, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{gen: gen, logger: logger}
}

// matchResponse is the untrusted reply shape. SelectedCollections stays a
// RawMessage so a missing field and a wrongly-typed field are both caught.
// Confidence is raw too: a string or object there must not fail the whole
// decode and discard an otherwise valid selection.
type matchResponse struct {
	SelectedCollections json.RawMessage `json:"selectedCollections"`
	Reasoning           string          `json:"reasoning"`
	Confidence          json.RawMessage `json:"confidence"`
}

// Match selects 3-4 collections for the persona. The returned match is
// always usable; inspect Fallback/Confidence to detect degraded results.
func (m *Matcher) Match(ctx context.Context, p domain.Persona, collections []domain.Collection) domain.PersonaMatch {
	d, ok := Lookup(p)
	if !ok {
		// Callers validate persona at the boundary; an unknown value here
		// still degrades instead of failing.
		return m.fallback(collections, ConfidenceCallFailure, fmt.Sprintf("unknown persona %q", p))
	}

	prompt := buildPrompt(d, collections)

	// No output cap on this call, unlike the deep-dive path.
	reply, err := m.gen.Generate(ctx, prompt, nil)
	if err != nil {
		m.logger.Warn("persona generation failed", zap.String("persona", string(p)), zap.Error(err))
		return m.fallback(collections, ConfidenceCallFailure, err.Error())
	}

	raw, found := textgen.ExtractJSONObject(reply)
	if !found {
		m.logger.Warn("persona reply had no JSON object", zap.String("persona", string(p)))
		return m.fallback(collections, ConfidenceParseFailure, "no JSON object in model reply")
	}

	var resp matchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		m.logger.Warn("persona reply JSON invalid", zap.String("persona", string(p)), zap.Error(err))
		return m.fallback(collections, ConfidenceParseFailure, "malformed JSON in model reply")
	}

	var indices []int
	if resp.SelectedCollections == nil || json.Unmarshal(resp.SelectedCollections, &indices) != nil {
		m.logger.Warn("selectedCollections missing or not an array", zap.String("persona", string(p)))
		return m.fallback(collections, ConfidenceParseFailure, "selectedCollections missing or not an array")
	}

	// Map 1-based indices, dropping out-of-range entries silently and
	// keeping the model's order, capped at 4.
	selected := make([]domain.Collection, 0, maxSelections)
	for _, idx := range indices {
		if idx < 1 || idx > len(collections) {
			continue
		}
		selected = append(selected, collections[idx-1])
		if len(selected) == maxSelections {
			break
		}
	}

	// Absent, null or non-numeric confidence defaults rather than degrading.
	confidence := confidenceDefault
	var c *float64
	if resp.Confidence != nil && json.Unmarshal(resp.Confidence, &c) == nil && c != nil {
		confidence = clamp01(*c)
	}

	reasoning := resp.Reasoning
	if reasoning == "" {
		reasoning = defaultReasoning
	}

	return domain.PersonaMatch{
		SelectedCollections: selected,
		Reasoning:           reasoning,
		Confidence:          confidence,
	}
}

// fallback selects the first N input collections in input order.
func (m *Matcher) fallback(collections []domain.Collection, confidence float64, reason string) domain.PersonaMatch {
	n := fallbackSelectN
	if n > len(collections) {
		n = len(collections)
	}
	selected := make([]domain.Collection, n)
	copy(selected, collections[:n])

	return domain.PersonaMatch{
		SelectedCollections: selected,
		Reasoning:           fmt.Sprintf("Fallback selection (%s).", reason),
		Confidence:          confidence,
		Fallback:            true,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
