// Package gateway wraps the blockchain-data provider behind per-item failure
// isolation: a bad contract yields a degraded placeholder record, never an
// error to the caller.
package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"nft-persona-lab/internal/alchemy"
	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/observability"
)

// Default configuration values.
const (
	// DefaultItemDelay spaces sequential per-contract fetches to respect
	// upstream rate limits.
	DefaultItemDelay = 150 * time.Millisecond

	placeholderImage = "https://placehold.co/400x400?text=NFT"
	errorImage       = "https://placehold.co/400x400?text=Error"
)

// ProgressFunc receives monotonically non-decreasing progress in [0,100]
// with a human-readable status message.
type ProgressFunc func(progress int, message string)

// Gateway fetches collection records from the blockchain-data provider.
type Gateway struct {
	provider  alchemy.Provider
	addresses []string
	itemDelay time.Duration
	logger    *zap.Logger
}

// Option configures Gateway.
type Option func(*Gateway)

// WithAddresses overrides the curated contract list.
func WithAddresses(addresses []string) Option {
	return func(g *Gateway) {
		g.addresses = addresses
	}
}

// WithItemDelay sets the delay between sequential per-contract fetches.
// Zero disables the delay (tests).
func WithItemDelay(d time.Duration) Option {
	return func(g *Gateway) {
		g.itemDelay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// New creates a Gateway over the given provider.
func New(provider alchemy.Provider, opts ...Option) *Gateway {
	g := &Gateway{
		provider:  provider,
		addresses: CuratedAddresses,
		itemDelay: DefaultItemDelay,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Addresses returns the contract list this gateway iterates.
func (g *Gateway) Addresses() []string {
	return g.addresses
}

// FetchOne fetches a single collection record. It never returns an error:
// any upstream failure produces a degraded record so a single bad contract
// cannot block the batch.
func (g *Gateway) FetchOne(ctx context.Context, address string) domain.Collection {
	md, err := g.provider.GetContractMetadata(ctx, address)
	if err != nil {
		g.logger.Warn("contract metadata fetch failed",
			zap.String("address", address),
			zap.Error(err))
		return degradedCollection(address)
	}

	c := domain.Collection{
		ContractAddress: address,
		Name:            md.Name,
		Symbol:          md.Symbol,
		ImageURL:        md.ImageURL,
		OpenseaURL:      openseaURL(address),
		EtherscanURL:    etherscanURL(address),
	}
	if c.ImageURL == "" {
		c.ImageURL = placeholderImage
	}
	if supply, err := strconv.Atoi(md.TotalSupply); err == nil && supply >= 0 {
		c.TotalSupply = domain.IntPtr(supply)
	}

	// Owner count is best-effort: a failure here leaves the field unknown
	// rather than degrading the whole record.
	if owners, err := g.provider.GetOwners(ctx, address); err == nil {
		c.OwnerCount = domain.IntPtr(len(owners))
	} else {
		g.logger.Debug("owner fetch failed",
			zap.String("address", address),
			zap.Error(err))
	}

	return c
}

// FetchAll fetches the full curated list strictly in order, reporting
// progress after each item. Failure isolation is per-item: degraded records
// are appended and the loop continues.
func (g *Gateway) FetchAll(ctx context.Context, onProgress ProgressFunc) []domain.Collection {
	total := len(g.addresses)
	collections := make([]domain.Collection, 0, total)

	for i, address := range g.addresses {
		if i > 0 && g.itemDelay > 0 {
			select {
			case <-ctx.Done():
				return collections
			case <-time.After(g.itemDelay):
			}
		}

		c := g.FetchOne(ctx, address)
		collections = append(collections, c)
		observability.RecordCollectionFetched(c.Degraded)

		if onProgress != nil {
			progress := (i + 1) * 100 / total
			name := c.Name
			if name == "" {
				name = shortAddress(address)
			}
			onProgress(progress, fmt.Sprintf("Fetched %d/%d collections (%s)", i+1, total, name))
		}
	}

	return collections
}

// TestConnection probes upstream liveness. Failure returns false, never an
// error.
func (g *Gateway) TestConnection(ctx context.Context) bool {
	_, err := g.provider.GetLatestBlockNumber(ctx)
	if err != nil {
		g.logger.Warn("liveness probe failed", zap.Error(err))
		observability.RecordProbeFailure()
		return false
	}
	return true
}

// degradedCollection builds the placeholder record for a failed fetch.
func degradedCollection(address string) domain.Collection {
	return domain.Collection{
		ContractAddress: address,
		Name:            fmt.Sprintf("Unknown Collection (%s...)", shortAddress(address)),
		ImageURL:        errorImage,
		OpenseaURL:      openseaURL(address),
		EtherscanURL:    etherscanURL(address),
		Degraded:        true,
	}
}

func shortAddress(address string) string {
	if len(address) <= 6 {
		return address
	}
	return address[:6]
}

func openseaURL(address string) string {
	return "https://opensea.io/assets/ethereum/" + address
}

func etherscanURL(address string) string {
	return "https://etherscan.io/address/" + address
}
