package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/gateway"
)

// fakeLoader implements Loader with scriptable behavior.
type fakeLoader struct {
	reachable   bool
	collections []domain.Collection
	fetchCalls  atomic.Int64
}

func (f *fakeLoader) TestConnection(context.Context) bool {
	return f.reachable
}

func (f *fakeLoader) FetchAll(_ context.Context, onProgress gateway.ProgressFunc) []domain.Collection {
	f.fetchCalls.Add(1)
	if onProgress != nil {
		for i := range f.collections {
			onProgress((i+1)*100/len(f.collections), "fetching")
		}
	}
	return f.collections
}

func someCollections(n int) []domain.Collection {
	out := make([]domain.Collection, n)
	for i := range out {
		out[i] = domain.Collection{ContractAddress: string(rune('a' + i))}
	}
	return out
}

func TestLoad_PopulatesOnce(t *testing.T) {
	loader := &fakeLoader{reachable: true, collections: someCollections(3)}
	c := New(loader)

	require.Equal(t, StateEmpty, c.State())

	first := c.Load(context.Background(), nil)
	require.Equal(t, StatePopulated, c.State())
	require.Len(t, first.Collections, 3)
	assert.False(t, first.FromFallback)

	second := c.Load(context.Background(), nil)
	assert.Equal(t, first.Collections, second.Collections)
	assert.EqualValues(t, 1, loader.fetchCalls.Load(), "second Load must not refetch")
}

func TestLoad_FallbackWhenUnreachable(t *testing.T) {
	loader := &fakeLoader{reachable: false}
	c := New(loader)

	result := c.Load(context.Background(), nil)

	require.Equal(t, StatePopulated, c.State(), "cache must always reach POPULATED")
	assert.True(t, result.FromFallback)
	assert.GreaterOrEqual(t, len(result.Collections), 3, "fallback set holds at least 3 collections")
	assert.EqualValues(t, 0, loader.fetchCalls.Load())
}

func TestLoad_FallbackWhenBatchEmpty(t *testing.T) {
	loader := &fakeLoader{reachable: true, collections: nil}
	c := New(loader)

	result := c.Load(context.Background(), nil)

	require.Equal(t, StatePopulated, c.State())
	assert.True(t, result.FromFallback)
}

func TestLoad_ProgressRemappedAndMonotone(t *testing.T) {
	loader := &fakeLoader{reachable: true, collections: someCollections(4)}
	c := New(loader, WithProgressWindow(10, 95))

	var progress []int
	c.Load(context.Background(), func(p int, _ string) {
		progress = append(progress, p)
	})

	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress must be non-decreasing: %v", progress)
	}
	assert.Equal(t, 100, progress[len(progress)-1])

	// Batch progress stays inside the configured window.
	for _, p := range progress[1 : len(progress)-1] {
		assert.LessOrEqual(t, p, 95)
	}
}

func TestLoad_ConcurrentCallersSingleFetch(t *testing.T) {
	loader := &fakeLoader{reachable: true, collections: someCollections(5)}
	c := New(loader)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Load(context.Background(), nil)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, loader.fetchCalls.Load(), "initialization must be serialized")
}

func TestClear_ResetsToEmpty(t *testing.T) {
	loader := &fakeLoader{reachable: true, collections: someCollections(2)}
	c := New(loader)

	c.Load(context.Background(), nil)
	require.Equal(t, StatePopulated, c.State())

	c.Clear()
	assert.Equal(t, StateEmpty, c.State())
	assert.Nil(t, c.Collections())

	c.Load(context.Background(), nil)
	assert.EqualValues(t, 2, loader.fetchCalls.Load(), "load after clear refetches")
}
