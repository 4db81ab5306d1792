// Package synthesis merges per-collection analytics snapshots into a single
// investment verdict. Two strategies produce the same shape: a local
// heuristic for quick client-side estimates and a provider-delegated path
// for the authoritative server-side call.
package synthesis

import (
	"context"

	"nft-persona-lab/internal/domain"
)

// Inputs carries the collection plus whichever snapshots have completed.
// Nil snapshots are allowed; both strategies handle partial data.
type Inputs struct {
	Collection domain.Collection
	Market     *domain.MarketHealth
	Holders    *domain.HolderAnalysis
	Activity   *domain.ActivityTrends
}

// Synthesizer produces one verdict from the inputs.
type Synthesizer interface {
	Synthesize(ctx context.Context, in Inputs) (*domain.AIAnalytics, error)
}

// List caps shared by both strategies.
const (
	maxRiskFactors   = 3
	maxOpportunities = 3
	maxComparables   = 2
)
