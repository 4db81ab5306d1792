// Package cache holds the process-wide collection set. The store is
// write-once-then-read-only for the process lifetime; Clear exists for
// tests and dev use only.
package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/gateway"
	"nft-persona-lab/internal/observability"
)

// State is the cache lifecycle state.
type State string

const (
	StateEmpty     State = "EMPTY"
	StateLoading   State = "LOADING"
	StatePopulated State = "POPULATED"
)

// Progress sub-range defaults: gateway progress (0-100) is remapped into
// [floor, ceil] of the caller's scale, leaving room for the connect and
// finalize stages.
const (
	DefaultProgressFloor = 10
	DefaultProgressCeil  = 95
)

// Loader is the slice of the gateway the cache needs.
type Loader interface {
	FetchAll(ctx context.Context, onProgress gateway.ProgressFunc) []domain.Collection
	TestConnection(ctx context.Context) bool
}

// LoadResult reports where the held collection set came from.
type LoadResult struct {
	Collections  []domain.Collection
	FromFallback bool // static dataset, gateway unreachable or batch empty
}

// Cache is the process-wide collection store. Load is serialized with a
// mutex so concurrent callers perform at most one upstream batch fetch.
type Cache struct {
	loader        Loader
	logger        *zap.Logger
	progressFloor int
	progressCeil  int

	mu           sync.Mutex
	state        State
	collections  []domain.Collection
	fromFallback bool
}

// Option configures Cache.
type Option func(*Cache)

// WithProgressWindow sets the sub-range of the caller's progress scale the
// gateway batch occupies.
func WithProgressWindow(floor, ceil int) Option {
	return func(c *Cache) {
		c.progressFloor = floor
		c.progressCeil = ceil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New creates an empty cache over the given loader.
func New(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		loader:        loader,
		logger:        zap.NewNop(),
		progressFloor: DefaultProgressFloor,
		progressCeil:  DefaultProgressCeil,
		state:         StateEmpty,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Collections returns the held set without triggering a load. Nil while the
// cache is not populated.
func (c *Cache) Collections() []domain.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load returns the held collection set, fetching it on first call. Within
// one process lifetime the upstream is contacted for the full set at most
// once; the cache always reaches POPULATED, falling back to the static
// dataset when the gateway is unreachable or the batch comes back empty.
func (c *Cache) Load(ctx context.Context, onProgress gateway.ProgressFunc) LoadResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePopulated {
		observability.RecordCacheLoad("hit", 2)
		report(onProgress, 100, "Collections ready")
		return LoadResult{Collections: c.snapshotLocked(), FromFallback: c.fromFallback}
	}

	c.state = StateLoading
	report(onProgress, 0, "Connecting to collection gateway")

	if !c.loader.TestConnection(ctx) {
		c.logger.Warn("gateway unreachable, loading static fallback set")
		c.storeLocked(FallbackCollections(), true)
		observability.RecordCacheLoad("fallback", 2)
		report(onProgress, 100, "Loaded fallback collections")
		return LoadResult{Collections: c.snapshotLocked(), FromFallback: true}
	}

	report(onProgress, c.progressFloor, "Fetching collections")
	span := c.progressCeil - c.progressFloor
	collections := c.loader.FetchAll(ctx, func(p int, msg string) {
		report(onProgress, c.progressFloor+p*span/100, msg)
	})

	if len(collections) == 0 {
		// The batch path must still leave the cache POPULATED.
		c.logger.Warn("gateway batch returned nothing, loading static fallback set")
		c.storeLocked(FallbackCollections(), true)
		observability.RecordCacheLoad("fallback", 2)
		report(onProgress, 100, "Loaded fallback collections")
		return LoadResult{Collections: c.snapshotLocked(), FromFallback: true}
	}

	c.storeLocked(collections, false)
	observability.RecordCacheLoad("network", 2)
	c.logger.Info("collection cache populated", zap.Int("count", len(collections)))
	report(onProgress, 100, "Collections ready")
	return LoadResult{Collections: c.snapshotLocked(), FromFallback: false}
}

// Clear resets the cache to EMPTY. Dev/test only.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEmpty
	c.collections = nil
	c.fromFallback = false
}

func (c *Cache) storeLocked(collections []domain.Collection, fromFallback bool) {
	c.collections = collections
	c.fromFallback = fromFallback
	c.state = StatePopulated
}

func (c *Cache) snapshotLocked() []domain.Collection {
	if c.collections == nil {
		return nil
	}
	out := make([]domain.Collection, len(c.collections))
	copy(out, c.collections)
	return out
}

func report(onProgress gateway.ProgressFunc, p int, msg string) {
	if onProgress != nil {
		onProgress(p, msg)
	}
}
