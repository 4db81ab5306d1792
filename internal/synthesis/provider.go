package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/textgen"
)

// ErrNoJSON is returned when the generation reply contains no JSON object.
// Unlike the persona engine, this path propagates the failure: the caller
// decides how to surface it.
var ErrNoJSON = errors.New("no JSON object in generation reply")

// DefaultMaxOutputTokens caps the deep-dive reply length.
const DefaultMaxOutputTokens = 1024

// Provider is the provider-delegated synthesis strategy: the verdict text
// is authored by the text-generation capability and then coerced, field by
// field, into the declared shape.
type Provider struct {
	gen             textgen.Generator
	maxOutputTokens int32
	logger          *zap.Logger
}

// NewProvider creates the provider-delegated strategy.
func NewProvider(gen textgen.Generator, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		gen:             gen,
		maxOutputTokens: DefaultMaxOutputTokens,
		logger:          logger,
	}
}

// providerResponse is the untrusted reply shape; every field is defaulted,
// clamped or truncated after decode.
type providerResponse struct {
	Thesis                string   `json:"thesis"`
	Confidence            *float64 `json:"confidence"`
	CulturalSignificance  string   `json:"culturalSignificance"`
	RiskFactors           []string `json:"riskFactors"`
	Opportunities         []string `json:"opportunities"`
	ComparableCollections []string `json:"comparableCollections"`
	CollectorProfile      string   `json:"collectorProfile"`
	Reasoning             string   `json:"reasoning"`
}

// Synthesize prompts the generation capability and coerces its reply.
// A reply without any JSON object is a hard failure (ErrNoJSON).
func (p *Provider) Synthesize(ctx context.Context, in Inputs) (*domain.AIAnalytics, error) {
	prompt := buildDeepDivePrompt(in)

	reply, err := p.gen.Generate(ctx, prompt, &textgen.Options{MaxOutputTokens: p.maxOutputTokens})
	if err != nil {
		return nil, fmt.Errorf("deep-dive generation: %w", err)
	}

	raw, found := textgen.ExtractJSONObject(reply)
	if !found {
		return nil, ErrNoJSON
	}

	var resp providerResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode deep-dive reply: %w", err)
	}

	name := displayName(in.Collection)
	out := &domain.AIAnalytics{
		ContractAddress:       in.Collection.ContractAddress,
		Thesis:                normalizeThesis(resp.Thesis),
		Confidence:            clampConfidence(resp.Confidence),
		CulturalSignificance:  defaultString(resp.CulturalSignificance, fmt.Sprintf("%s occupies an established place in its market segment.", name)),
		RiskFactors:           coerceList(resp.RiskFactors, maxRiskFactors, fmt.Sprintf("General market risk applies to %s.", name)),
		Opportunities:         coerceList(resp.Opportunities, maxOpportunities, fmt.Sprintf("Broader market recovery would benefit %s.", name)),
		ComparableCollections: coerceList(resp.ComparableCollections, maxComparables, "Comparable large-cap NFT collections"),
		CollectorProfile:      defaultString(resp.CollectorProfile, fmt.Sprintf("Collectors with conviction about %s and its category.", name)),
		Reasoning:             defaultString(resp.Reasoning, fmt.Sprintf("Verdict synthesized from the available analytics for %s.", name)),
	}
	return out, nil
}

// buildDeepDivePrompt embeds collection identity plus whichever snapshots
// are available; missing sections carry an explicit unavailable marker so
// the model does not invent numbers.
func buildDeepDivePrompt(in Inputs) string {
	c := in.Collection
	var b strings.Builder

	b.WriteString("You are an NFT investment analyst. Produce a deep-dive verdict for one collection.\n\n")
	fmt.Fprintf(&b, "Collection: %s (contract %s)\n", displayName(c), c.ContractAddress)
	fmt.Fprintf(&b, "Total supply: %s. Owner count: %s.\n\n", supplyString(c), ownerString(c))

	b.WriteString("Market health: ")
	if in.Market != nil {
		fmt.Fprintf(&b, "%d recent transfers, %d unique traders, momentum %s, liquidity score %d.\n",
			in.Market.TransferCount, in.Market.UniqueTraders, in.Market.Momentum, in.Market.LiquidityScore)
	} else {
		b.WriteString("unavailable.\n")
	}

	b.WriteString("Holder analysis: ")
	if in.Holders != nil {
		fmt.Fprintf(&b, "%d holders, concentration ratio %.1f%%, distribution %s.\n",
			in.Holders.TotalHolders, in.Holders.ConcentrationRatio, in.Holders.Distribution)
	} else {
		b.WriteString("unavailable.\n")
	}

	b.WriteString("Activity trends: ")
	if in.Activity != nil {
		fmt.Fprintf(&b, "transfer velocity %.1f/day, pattern %s, trend %s.\n",
			in.Activity.TransferVelocity, in.Activity.TradingPattern, in.Activity.TrendDirection)
	} else {
		b.WriteString("unavailable.\n")
	}

	b.WriteString("\nRespond with ONLY a JSON object, no other text:\n")
	b.WriteString(`{"thesis": "buy"|"hold"|"avoid", "confidence": <integer 0-100>, ` +
		`"culturalSignificance": "<paragraph>", "riskFactors": [<2-3 strings>], ` +
		`"opportunities": [<2-3 strings>], "comparableCollections": [<exactly 2 strings>], ` +
		`"collectorProfile": "<one sentence>", "reasoning": "<one sentence>"}`)
	b.WriteString("\n")

	return b.String()
}

func normalizeThesis(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case domain.ThesisBuy:
		return domain.ThesisBuy
	case domain.ThesisAvoid:
		return domain.ThesisAvoid
	default:
		return domain.ThesisHold
	}
}

func clampConfidence(v *float64) int {
	if v == nil {
		return 50
	}
	c := int(*v)
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// coerceList truncates to max and substitutes a single templated default
// when the list is missing or empty.
func coerceList(list []string, max int, fallback string) []string {
	var out []string
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}
