package alchemy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPClient_GetContractMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/nft/v3/test-key/getContractMetadata") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("contractAddress"); got != "0xabc" {
			t.Errorf("expected contractAddress 0xabc, got %s", got)
		}

		resp := map[string]interface{}{
			"address":     "0xabc",
			"name":        "Bored Ape Yacht Club",
			"symbol":      "BAYC",
			"totalSupply": "10000",
			"openSeaMetadata": map[string]interface{}{
				"imageUrl": "https://img.example/bayc.png",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient("test-key", WithBaseURL(server.URL))
	md, err := client.GetContractMetadata(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("GetContractMetadata: %v", err)
	}

	if md.Name != "Bored Ape Yacht Club" {
		t.Errorf("expected name Bored Ape Yacht Club, got %s", md.Name)
	}
	if md.Symbol != "BAYC" {
		t.Errorf("expected symbol BAYC, got %s", md.Symbol)
	}
	if md.TotalSupply != "10000" {
		t.Errorf("expected totalSupply 10000, got %s", md.TotalSupply)
	}
	if md.ImageURL != "https://img.example/bayc.png" {
		t.Errorf("unexpected image URL %s", md.ImageURL)
	}
}

func TestHTTPClient_GetOwners(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"owners": []string{"0x1", "0x2", "0x3"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient("test-key", WithBaseURL(server.URL))
	owners, err := client.GetOwners(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("GetOwners: %v", err)
	}
	if len(owners) != 3 {
		t.Errorf("expected 3 owners, got %d", len(owners))
	}
}

func TestHTTPClient_GetAssetTransfers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != "alchemy_getAssetTransfers" {
			t.Errorf("expected method alchemy_getAssetTransfers, got %s", req.Method)
		}

		params, ok := req.Params[0].(map[string]interface{})
		if !ok {
			t.Fatalf("expected object params, got %T", req.Params[0])
		}
		if params["maxCount"] != "0x14" {
			t.Errorf("expected maxCount 0x14, got %v", params["maxCount"])
		}
		if params["order"] != "desc" {
			t.Errorf("expected order desc, got %v", params["order"])
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"transfers": []map[string]interface{}{
					{"from": "0xaa", "to": "0xbb", "category": "erc721"},
					{"from": "0xbb", "to": "0xcc", "category": "erc721"},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient("test-key", WithBaseURL(server.URL))
	transfers, err := client.GetAssetTransfers(context.Background(), "0xabc", 20)
	if err != nil {
		t.Fatalf("GetAssetTransfers: %v", err)
	}
	if len(transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(transfers))
	}
	if transfers[0].From != "0xaa" || transfers[0].To != "0xbb" {
		t.Errorf("unexpected first transfer %+v", transfers[0])
	}
}

func TestHTTPClient_GetLatestBlockNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Method != "eth_blockNumber" {
			t.Errorf("expected method eth_blockNumber, got %s", req.Method)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  "0x1233abc",
		})
	}))
	defer server.Close()

	client := NewHTTPClient("test-key", WithBaseURL(server.URL))
	height, err := client.GetLatestBlockNumber(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockNumber: %v", err)
	}
	if height != 0x1233abc {
		t.Errorf("expected height 0x1233abc, got %#x", height)
	}
}

func TestHTTPClient_RetriesOn429(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  "0x10",
		})
	}))
	defer server.Close()

	client := NewHTTPClient("test-key",
		WithBaseURL(server.URL),
		WithRetryDelay(time.Millisecond),
	)
	height, err := client.GetLatestBlockNumber(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockNumber: %v", err)
	}
	if height != 16 {
		t.Errorf("expected height 16, got %d", height)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestHTTPClient_RPCErrorNotRetried(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32602, "message": "invalid params"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient("test-key", WithBaseURL(server.URL), WithRetryDelay(time.Millisecond))
	_, err := client.GetAssetTransfers(context.Background(), "0xabc", 20)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls.Load() != 1 {
		t.Errorf("RPC error should not be retried, got %d calls", calls.Load())
	}
}
