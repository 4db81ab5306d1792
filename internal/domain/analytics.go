package domain

// Momentum classification for MarketHealth.
const (
	MomentumBullish = "bullish"
	MomentumNeutral = "neutral"
	MomentumBearish = "bearish"
)

// Distribution classification for HolderAnalysis.
const (
	DistributionConcentrated = "concentrated"
	DistributionBalanced     = "balanced"
	DistributionDistributed  = "distributed"
)

// Trading pattern classification for ActivityTrends.
const (
	PatternActive       = "active"
	PatternAccumulating = "accumulating"
	PatternDormant      = "dormant"
)

// Trend direction classification for ActivityTrends.
const (
	TrendUp     = "up"
	TrendStable = "stable"
	TrendDown   = "down"
)

// MarketHealth is a point-in-time snapshot of recent trading activity for
// one collection. Not cached; recomputed per request.
type MarketHealth struct {
	ContractAddress     string  `json:"contractAddress"`
	TransferCount       int     `json:"transferCount"`  // |recent transfer events|, max 20 fetched
	UniqueTraders       int     `json:"uniqueTraders"`  // |{from} ∪ {to}|
	Momentum            string  `json:"momentum"`       // bullish | neutral | bearish
	LiquidityScore      int     `json:"liquidityScore"` // min(100, transferCount*5)
	AvgTransactionValue float64 `json:"avgTransactionValue"`
}

// HolderAnalysis is a point-in-time snapshot of the ownership distribution
// for one collection.
type HolderAnalysis struct {
	ContractAddress        string  `json:"contractAddress"`
	TotalHolders           int     `json:"totalHolders"`
	ConcentrationRatio     float64 `json:"concentrationRatio"` // percent, clamp(100-holders/10, 10, 90)
	WhaleHolders           int     `json:"whaleHolders"`
	CrossCollectionHolders int     `json:"crossCollectionHolders"`
	Distribution           string  `json:"distribution"` // concentrated | balanced | distributed
}

// ActivityTrends is a point-in-time snapshot of transfer velocity for one
// collection.
type ActivityTrends struct {
	ContractAddress  string  `json:"contractAddress"`
	TransferVelocity float64 `json:"transferVelocity"` // |events| * 2.4, implied daily rate
	TradingPattern   string  `json:"tradingPattern"`   // active | accumulating | dormant
	GasEfficiency    string  `json:"gasEfficiency"`
	PeakActivity     string  `json:"peakActivity"`
	TrendDirection   string  `json:"trendDirection"` // up | stable | down
}
