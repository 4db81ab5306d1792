package domain

// Collection represents an NFT collection as a single aggregate record,
// identified by its contract address. Optional fields are nil when the
// upstream provider did not return them; nil means "unknown", not zero.
type Collection struct {
	ContractAddress string `json:"contractAddress"` // stable external key, case preserved as received
	Name            string `json:"name,omitempty"`
	Symbol          string `json:"symbol,omitempty"`
	TotalSupply     *int   `json:"totalSupply,omitempty"`
	OwnerCount      *int   `json:"ownerCount,omitempty"`
	ImageURL        string `json:"imageUrl"` // always present, placeholder default
	OpenseaURL      string `json:"openseaUrl"`
	EtherscanURL    string `json:"etherscanUrl"`

	// Degraded marks a record populated with placeholder values after an
	// upstream fetch failure.
	Degraded bool `json:"degraded,omitempty"`
}

// IntPtr returns a pointer to v. Helper for optional Collection fields.
func IntPtr(v int) *int {
	return &v
}
