package synthesis

import (
	"context"
	"fmt"
	"math"

	"nft-persona-lab/internal/domain"
)

// Local is the heuristic synthesis strategy. Deterministic given inputs and
// never fails.
type Local struct{}

// NewLocal creates the local strategy.
func NewLocal() *Local {
	return &Local{}
}

// Synthesize combines the snapshots via the fixed score table, or falls back
// to raw collection fields when any snapshot is missing.
func (l *Local) Synthesize(_ context.Context, in Inputs) (*domain.AIAnalytics, error) {
	c := in.Collection
	thesis, confidence := scoreInputs(in)

	out := &domain.AIAnalytics{
		ContractAddress:       c.ContractAddress,
		Thesis:                thesis,
		Confidence:            confidence,
		RiskFactors:           riskFactors(in),
		Opportunities:         opportunities(in),
		ComparableCollections: comparables(thesis),
		CulturalSignificance: fmt.Sprintf(
			"%s holds a supply of %s across %s owners, placing it among the %s tier of its cohort.",
			displayName(c), supplyString(c), ownerString(c), tierWord(thesis)),
		CollectorProfile: fmt.Sprintf(
			"Best suited to collectors comfortable with a %q stance on %s.",
			thesis, displayName(c)),
		Reasoning: fmt.Sprintf(
			"Combined market, holder and activity signals for %s resolve to %q with %d%% confidence.",
			displayName(c), thesis, confidence),
	}
	return out, nil
}

// scoreInputs applies the fixed score table when all three snapshots are
// present, otherwise the raw-field fallback.
func scoreInputs(in Inputs) (string, int) {
	if in.Market != nil && in.Holders != nil && in.Activity != nil {
		marketScore := 40
		switch in.Market.Momentum {
		case domain.MomentumBullish:
			marketScore = 80
		case domain.MomentumNeutral:
			marketScore = 60
		}

		holderScore := 60
		if in.Holders.ConcentrationRatio < 50 {
			holderScore = 80
		}

		activityScore := 50
		switch in.Activity.TradingPattern {
		case domain.PatternActive:
			activityScore = 80
		case domain.PatternAccumulating:
			activityScore = 70
		}

		overall := float64(marketScore+holderScore+activityScore) / 3

		thesis := domain.ThesisHold
		switch {
		case overall > 75:
			thesis = domain.ThesisBuy
		case overall < 50:
			thesis = domain.ThesisAvoid
		}
		return thesis, int(math.Round(overall))
	}

	// Partial or no data: classify on raw collection fields.
	c := in.Collection
	supply, holders := 0, 0
	if c.TotalSupply != nil {
		supply = *c.TotalSupply
	}
	if c.OwnerCount != nil {
		holders = *c.OwnerCount
	}

	switch {
	case supply > 0 && float64(holders) > 0.3*float64(supply):
		return domain.ThesisBuy, 65
	case supply > 10000:
		return domain.ThesisAvoid, 60
	default:
		return domain.ThesisHold, 50
	}
}

func riskFactors(in Inputs) []string {
	var risks []string
	if in.Market != nil && in.Market.LiquidityScore < 30 {
		risks = append(risks, "Thin recent liquidity; exits may require deep discounts.")
	}
	if in.Holders != nil && in.Holders.ConcentrationRatio > 70 {
		risks = append(risks, "Supply concentrated among few holders; a single seller can move the floor.")
	}
	if in.Activity == nil || in.Activity.TradingPattern == domain.PatternDormant {
		risks = append(risks, "Little observable trading activity; price discovery is weak.")
	}
	if len(risks) == 0 {
		risks = []string{
			"General NFT market volatility.",
			"Valuations depend on sustained collector interest.",
		}
	}
	if len(risks) > maxRiskFactors {
		risks = risks[:maxRiskFactors]
	}
	return risks
}

func opportunities(in Inputs) []string {
	var opps []string
	if in.Market != nil && in.Market.Momentum == domain.MomentumBullish {
		opps = append(opps, "Bullish transfer momentum could carry the floor higher near term.")
	}
	if in.Holders != nil && in.Holders.CrossCollectionHolders > 0 {
		opps = append(opps, "Meaningful cross-collection holder overlap suggests a sticky collector base.")
	}
	if in.Activity != nil && in.Activity.GasEfficiency == "high" {
		opps = append(opps, "High gas efficiency keeps small-lot trading viable.")
	}
	if len(opps) == 0 {
		opps = []string{
			"Entry pricing is attractive relative to historical interest.",
			"Renewed market attention would disproportionately benefit established records.",
		}
	}
	if len(opps) > maxOpportunities {
		opps = opps[:maxOpportunities]
	}
	return opps
}

func comparables(thesis string) []string {
	if thesis == domain.ThesisBuy {
		return []string{"Azuki", "Doodles"}
	}
	return []string{"Cool Cats", "World of Women"}
}

func displayName(c domain.Collection) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ContractAddress
}

func supplyString(c domain.Collection) string {
	if c.TotalSupply == nil {
		return "an unknown number of tokens"
	}
	return fmt.Sprintf("%d tokens", *c.TotalSupply)
}

func ownerString(c domain.Collection) string {
	if c.OwnerCount == nil {
		return "an unknown number of"
	}
	return fmt.Sprintf("%d", *c.OwnerCount)
}

func tierWord(thesis string) string {
	switch thesis {
	case domain.ThesisBuy:
		return "stronger"
	case domain.ThesisAvoid:
		return "weaker"
	default:
		return "middle"
	}
}
