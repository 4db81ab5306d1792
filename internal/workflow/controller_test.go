package workflow

import (
	"context"
	"sync"
	"testing"

	"nft-persona-lab/internal/alchemy"
	alchemystub "nft-persona-lab/internal/alchemy/stub"
	"nft-persona-lab/internal/analytics"
	"nft-persona-lab/internal/cache"
	"nft-persona-lab/internal/domain"
	"nft-persona-lab/internal/gateway"
	"nft-persona-lab/internal/persona"
	"nft-persona-lab/internal/synthesis"
	textgenstub "nft-persona-lab/internal/textgen/stub"
)

// harness wires a controller over stub upstreams.
type harness struct {
	provider *alchemystub.Provider
	gen      *textgenstub.Generator
	cache    *cache.Cache
	ctl      *Controller
}

func newHarness(t *testing.T, addresses []string) *harness {
	t.Helper()

	provider := alchemystub.NewProvider()
	for _, a := range addresses {
		provider.Metadata[a] = &alchemy.ContractMetadata{Name: "Collection " + a, TotalSupply: "10000"}
		provider.Owners[a] = []string{"0x1", "0x2", "0x3"}
		provider.Transfers[a] = []alchemy.Transfer{
			{From: "0xa", To: "0xb"},
			{From: "0xb", To: "0xc"},
		}
	}

	g := gateway.New(provider, gateway.WithAddresses(addresses), gateway.WithItemDelay(0))
	c := cache.New(g)
	gen := &textgenstub.Generator{Response: `{"selectedCollections": [1, 2], "reasoning": "fit", "confidence": 0.9}`}

	ctl := NewController(c, analytics.NewAnalyzer(provider), persona.NewMatcher(gen, nil), synthesis.NewLocal(), nil)
	return &harness{provider: provider, gen: gen, cache: c, ctl: ctl}
}

func TestStartSession_LandsReadyCollapsed(t *testing.T) {
	h := newHarness(t, []string{"0x1", "0x2", "0x3"})

	s := h.ctl.StartSession(context.Background())
	if s.Step() != StepReadyCollapsed {
		t.Fatalf("expected READY_COLLAPSED, got %s", s.Step())
	}
	if s.ID() == "" {
		t.Error("expected a session ID")
	}
}

func TestStartSession_FallbackStillLandsReady(t *testing.T) {
	h := newHarness(t, []string{"0x1"})
	h.provider.FailProbe = true

	s := h.ctl.StartSession(context.Background())
	if s.Step() != StepReadyCollapsed {
		t.Fatalf("fallback cache load must still reach READY_COLLAPSED, got %s", s.Step())
	}
	if h.cache.State() != cache.StatePopulated {
		t.Error("cache must be populated from the fallback set")
	}
}

func TestProgressObserversReceiveMonotoneEvents(t *testing.T) {
	h := newHarness(t, []string{"0x1", "0x2", "0x3", "0x4"})

	events, cancel := h.ctl.Subscribe()
	defer cancel()

	h.ctl.StartSession(context.Background())

	var progress []int
	for {
		select {
		case ev := <-events:
			progress = append(progress, ev.Progress)
			if ev.Progress == 100 {
				goto done
			}
		default:
			goto done
		}
	}
done:
	if len(progress) == 0 {
		t.Fatal("expected progress events")
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Fatalf("progress must be non-decreasing: %v", progress)
		}
	}
	if progress[len(progress)-1] != 100 {
		t.Errorf("final progress must be 100, got %d", progress[len(progress)-1])
	}
}

func TestPersonaSelectionFlow(t *testing.T) {
	h := newHarness(t, []string{"0x1", "0x2", "0x3"})
	s := h.ctl.StartSession(context.Background())

	if _, err := h.ctl.SelectPersona(context.Background(), s.ID(), domain.PersonaDegen); err == nil {
		t.Fatal("persona selection before expand must fail")
	}

	if err := h.ctl.Expand(s.ID()); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if s.Step() != StepExpandedSelecting {
		t.Fatalf("expected EXPANDED_SELECTING, got %s", s.Step())
	}

	match, err := h.ctl.SelectPersona(context.Background(), s.ID(), domain.PersonaDegen)
	if err != nil {
		t.Fatalf("SelectPersona: %v", err)
	}
	if s.Step() != StepShowingResults {
		t.Fatalf("expected SHOWING_RESULTS, got %s", s.Step())
	}
	if len(match.SelectedCollections) != 2 {
		t.Errorf("expected 2 selections, got %d", len(match.SelectedCollections))
	}

	// Re-selection from the results view is allowed.
	if _, err := h.ctl.SelectPersona(context.Background(), s.ID(), domain.PersonaWhale); err != nil {
		t.Fatalf("re-selection: %v", err)
	}
}

func TestSelectPersona_DegradedMatchStillShowsResults(t *testing.T) {
	h := newHarness(t, []string{"0x1", "0x2", "0x3"})
	h.gen.Response = "no json at all"

	s := h.ctl.StartSession(context.Background())
	h.ctl.Expand(s.ID())

	match, err := h.ctl.SelectPersona(context.Background(), s.ID(), domain.PersonaDegen)
	if err != nil {
		t.Fatalf("SelectPersona: %v", err)
	}
	if s.Step() != StepShowingResults {
		t.Error("controller cannot distinguish degraded matches; must still show results")
	}
	if !match.Fallback || match.Confidence != 0.2 {
		t.Errorf("expected 0.2 fallback, got %+v", match)
	}
}

func TestRunMetric_StatesAndDeepDive(t *testing.T) {
	h := newHarness(t, []string{"0x1", "0x2"})
	s := h.ctl.StartSession(context.Background())
	ctx := context.Background()

	if s.MetricState("0x1", MetricMarket) != MetricIdle {
		t.Fatal("metrics start IDLE")
	}

	for _, kind := range []MetricKind{MetricMarket, MetricHolders, MetricActivity} {
		if err := h.ctl.RunMetric(ctx, s.ID(), "0x1", kind); err != nil {
			t.Fatalf("RunMetric(%s): %v", kind, err)
		}
		if st := s.MetricState("0x1", kind); st != MetricLoaded {
			t.Errorf("expected LOADED for %s, got %s", kind, st)
		}
	}

	if err := h.ctl.RunMetric(ctx, s.ID(), "0x1", MetricDeepDive); err != nil {
		t.Fatalf("RunMetric(deepdive): %v", err)
	}
	_, _, _, deep := s.Metrics("0x1")
	if deep == nil {
		t.Fatal("expected a deep-dive verdict")
	}
	if deep.Thesis == "" || deep.Confidence == 0 {
		t.Errorf("unexpected verdict %+v", deep)
	}
}

func TestRunMetric_DeepDiveWithoutSnapshots(t *testing.T) {
	h := newHarness(t, []string{"0x1"})
	s := h.ctl.StartSession(context.Background())

	// Deep dive must not wait for the classifiers.
	if err := h.ctl.RunMetric(context.Background(), s.ID(), "0x1", MetricDeepDive); err != nil {
		t.Fatalf("RunMetric(deepdive): %v", err)
	}
	_, _, _, deep := s.Metrics("0x1")
	if deep == nil {
		t.Fatal("expected a verdict from the partial-data path")
	}
}

func TestRunMetric_FailureIsRecorded(t *testing.T) {
	h := newHarness(t, []string{"0x1"})
	s := h.ctl.StartSession(context.Background())

	h.provider.FailAll = true
	if err := h.ctl.RunMetric(context.Background(), s.ID(), "0x1", MetricMarket); err == nil {
		t.Fatal("classifier errors must propagate")
	}
	if st := s.MetricState("0x1", MetricMarket); st != MetricFailed {
		t.Errorf("expected FAILED, got %s", st)
	}
}

func TestRunMetric_ConcurrentAcrossCollections(t *testing.T) {
	addresses := []string{"0x1", "0x2", "0x3", "0x4"}
	h := newHarness(t, addresses)
	s := h.ctl.StartSession(context.Background())

	var wg sync.WaitGroup
	for _, a := range addresses {
		for _, kind := range []MetricKind{MetricMarket, MetricHolders, MetricActivity} {
			wg.Add(1)
			go func(a string, kind MetricKind) {
				defer wg.Done()
				if err := h.ctl.RunMetric(context.Background(), s.ID(), a, kind); err != nil {
					t.Errorf("RunMetric(%s,%s): %v", a, kind, err)
				}
			}(a, kind)
		}
	}
	wg.Wait()

	for _, a := range addresses {
		if st := s.MetricState(a, MetricActivity); st != MetricLoaded {
			t.Errorf("expected LOADED for %s, got %s", a, st)
		}
	}
}

func TestTogglePanel(t *testing.T) {
	h := newHarness(t, []string{"0x1"})
	s := h.ctl.StartSession(context.Background())

	if !s.TogglePanel("0x1") {
		t.Error("first toggle expands")
	}
	if s.TogglePanel("0x1") {
		t.Error("second toggle collapses")
	}
}
