package alchemy

import "context"

// Provider defines the blockchain-data capability consumed by the gateway
// and the analytics classifiers.
type Provider interface {
	// GetContractMetadata retrieves collection-level metadata for a contract.
	GetContractMetadata(ctx context.Context, address string) (*ContractMetadata, error)

	// GetOwners retrieves the current full owner set for a contract.
	GetOwners(ctx context.Context, address string) ([]string, error)

	// GetAssetTransfers retrieves up to maxCount most recent transfer events
	// for a contract, newest first.
	GetAssetTransfers(ctx context.Context, address string, maxCount int) ([]Transfer, error)

	// GetLatestBlockNumber retrieves the current block height.
	// Used only as a liveness probe.
	GetLatestBlockNumber(ctx context.Context) (uint64, error)
}

// ContractMetadata represents collection metadata returned by the NFT API.
type ContractMetadata struct {
	Address     string
	Name        string
	Symbol      string
	TotalSupply string // decimal string as returned upstream, may be empty
	ImageURL    string
}

// Transfer represents a single asset transfer event.
type Transfer struct {
	From     string
	To       string
	TokenID  string
	Category string
	BlockNum string
}
