package gateway

import (
	"context"
	"strings"
	"testing"

	"nft-persona-lab/internal/alchemy"
	"nft-persona-lab/internal/alchemy/stub"
)

func TestFetchOne_Success(t *testing.T) {
	provider := stub.NewProvider()
	provider.Metadata["0xBC4CA0"] = &alchemy.ContractMetadata{
		Name:        "Bored Ape Yacht Club",
		Symbol:      "BAYC",
		TotalSupply: "10000",
		ImageURL:    "https://img.example/bayc.png",
	}
	provider.Owners["0xBC4CA0"] = []string{"0x1", "0x2"}

	g := New(provider, WithItemDelay(0))
	c := g.FetchOne(context.Background(), "0xBC4CA0")

	if c.Degraded {
		t.Fatal("expected non-degraded record")
	}
	if c.Name != "Bored Ape Yacht Club" {
		t.Errorf("expected name, got %s", c.Name)
	}
	if c.TotalSupply == nil || *c.TotalSupply != 10000 {
		t.Errorf("expected supply 10000, got %v", c.TotalSupply)
	}
	if c.OwnerCount == nil || *c.OwnerCount != 2 {
		t.Errorf("expected 2 owners, got %v", c.OwnerCount)
	}
	if !strings.Contains(c.OpenseaURL, "0xBC4CA0") || !strings.Contains(c.EtherscanURL, "0xBC4CA0") {
		t.Errorf("expected derived links to embed the address: %s / %s", c.OpenseaURL, c.EtherscanURL)
	}
}

func TestFetchOne_UpstreamFailureDegrades(t *testing.T) {
	provider := stub.NewProvider()
	provider.FailAll = true

	g := New(provider, WithItemDelay(0))
	c := g.FetchOne(context.Background(), "0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D")

	if !c.Degraded {
		t.Fatal("expected degraded record")
	}
	if !strings.HasPrefix(c.Name, "Unknown Collection (") {
		t.Errorf("degraded name should start with Unknown Collection (, got %q", c.Name)
	}
	if !strings.Contains(c.Name, "0xBC4C") {
		t.Errorf("degraded name should embed first 6 chars of address, got %q", c.Name)
	}
	if c.TotalSupply != nil || c.OwnerCount != nil {
		t.Error("degraded record must leave optional fields unknown")
	}
	if c.ImageURL == "" {
		t.Error("degraded record must still carry an image URL")
	}
}

func TestFetchOne_OwnerFailureIsPartial(t *testing.T) {
	provider := stub.NewProvider()
	provider.Metadata["0xabc"] = &alchemy.ContractMetadata{Name: "Azuki", TotalSupply: "bad"}

	g := New(provider, WithItemDelay(0))
	c := g.FetchOne(context.Background(), "0xabc")

	if c.Degraded {
		t.Fatal("owner fetch failure must not degrade the record")
	}
	if c.OwnerCount != nil {
		t.Error("expected unknown owner count")
	}
	if c.TotalSupply != nil {
		t.Error("unparseable supply must stay unknown")
	}
}

func TestFetchAll_ProgressAndIsolation(t *testing.T) {
	addresses := []string{"0xaaa1", "0xaaa2", "0xaaa3", "0xaaa4"}
	provider := stub.NewProvider()
	// Only two of four contracts resolve.
	provider.Metadata["0xaaa1"] = &alchemy.ContractMetadata{Name: "One"}
	provider.Metadata["0xaaa3"] = &alchemy.ContractMetadata{Name: "Three"}

	g := New(provider, WithAddresses(addresses), WithItemDelay(0))

	var progress []int
	collections := g.FetchAll(context.Background(), func(p int, msg string) {
		progress = append(progress, p)
		if msg == "" {
			t.Error("expected non-empty status message")
		}
	})

	if len(collections) != len(addresses) {
		t.Fatalf("expected %d records, got %d", len(addresses), len(collections))
	}
	if collections[0].Degraded || collections[2].Degraded {
		t.Error("resolving contracts must not be degraded")
	}
	if !collections[1].Degraded || !collections[3].Degraded {
		t.Error("failing contracts must yield degraded records")
	}

	if len(progress) != len(addresses) {
		t.Fatalf("expected %d progress reports, got %d", len(addresses), len(progress))
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Errorf("progress must be non-decreasing: %v", progress)
		}
	}
	if progress[len(progress)-1] != 100 {
		t.Errorf("progress must end at 100, got %d", progress[len(progress)-1])
	}
}

func TestFetchAll_AllDegraded(t *testing.T) {
	provider := stub.NewProvider()
	provider.FailAll = true

	g := New(provider, WithAddresses([]string{"0x1", "0x2"}), WithItemDelay(0))
	collections := g.FetchAll(context.Background(), nil)

	if len(collections) != 2 {
		t.Fatalf("expected 2 records even when every item degrades, got %d", len(collections))
	}
	for _, c := range collections {
		if !c.Degraded {
			t.Errorf("expected degraded record for %s", c.ContractAddress)
		}
	}
}

func TestTestConnection(t *testing.T) {
	provider := stub.NewProvider()
	g := New(provider)

	if !g.TestConnection(context.Background()) {
		t.Error("expected probe success")
	}

	provider.FailProbe = true
	if g.TestConnection(context.Background()) {
		t.Error("expected probe failure")
	}
}

func TestCuratedAddresses_Count(t *testing.T) {
	if len(CuratedAddresses) != 16 {
		t.Errorf("reference deployment tracks 16 contracts, got %d", len(CuratedAddresses))
	}
}
