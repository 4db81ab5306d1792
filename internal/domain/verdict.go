package domain

// Investment thesis for AIAnalytics.
const (
	ThesisBuy   = "buy"
	ThesisHold  = "hold"
	ThesisAvoid = "avoid"
)

// AIAnalytics is the deep-dive synthesis record: one investment verdict
// combining whatever analytics snapshots were available. Both the local
// heuristic and the provider-delegated synthesis paths produce this shape.
type AIAnalytics struct {
	ContractAddress       string   `json:"contractAddress"`
	Thesis                string   `json:"thesis"`     // buy | hold | avoid
	Confidence            int      `json:"confidence"` // integer in [0,100]
	CulturalSignificance  string   `json:"culturalSignificance"`
	RiskFactors           []string `json:"riskFactors"`           // 2-3 entries
	Opportunities         []string `json:"opportunities"`         // 2-3 entries
	ComparableCollections []string `json:"comparableCollections"` // 1-2 entries
	CollectorProfile      string   `json:"collectorProfile"`
	Reasoning             string   `json:"reasoning"`
}
