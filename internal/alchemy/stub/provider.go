package stub

import (
	"context"
	"errors"

	"nft-persona-lab/internal/alchemy"
)

// ErrUnavailable is returned for addresses without stub data when FailAll is
// not set, and for every call when it is.
var ErrUnavailable = errors.New("upstream unavailable")

// Provider implements alchemy.Provider for testing.
type Provider struct {
	Metadata    map[string]*alchemy.ContractMetadata
	Owners      map[string][]string
	Transfers   map[string][]alchemy.Transfer
	BlockNumber uint64

	// FailAll makes every call return ErrUnavailable.
	FailAll bool
	// FailProbe makes only GetLatestBlockNumber fail.
	FailProbe bool

	// Calls counts invocations per method name.
	Calls map[string]int
}

// NewProvider creates an empty stub provider.
func NewProvider() *Provider {
	return &Provider{
		Metadata:    make(map[string]*alchemy.ContractMetadata),
		Owners:      make(map[string][]string),
		Transfers:   make(map[string][]alchemy.Transfer),
		BlockNumber: 19000000,
		Calls:       make(map[string]int),
	}
}

func (p *Provider) GetContractMetadata(_ context.Context, address string) (*alchemy.ContractMetadata, error) {
	p.Calls["GetContractMetadata"]++
	if p.FailAll {
		return nil, ErrUnavailable
	}
	md, ok := p.Metadata[address]
	if !ok {
		return nil, ErrUnavailable
	}
	return md, nil
}

func (p *Provider) GetOwners(_ context.Context, address string) ([]string, error) {
	p.Calls["GetOwners"]++
	if p.FailAll {
		return nil, ErrUnavailable
	}
	owners, ok := p.Owners[address]
	if !ok {
		return nil, ErrUnavailable
	}
	return owners, nil
}

func (p *Provider) GetAssetTransfers(_ context.Context, address string, maxCount int) ([]alchemy.Transfer, error) {
	p.Calls["GetAssetTransfers"]++
	if p.FailAll {
		return nil, ErrUnavailable
	}
	transfers, ok := p.Transfers[address]
	if !ok {
		return nil, ErrUnavailable
	}
	if maxCount > 0 && maxCount < len(transfers) {
		return transfers[:maxCount], nil
	}
	return transfers, nil
}

func (p *Provider) GetLatestBlockNumber(_ context.Context) (uint64, error) {
	p.Calls["GetLatestBlockNumber"]++
	if p.FailAll || p.FailProbe {
		return 0, ErrUnavailable
	}
	return p.BlockNumber, nil
}
