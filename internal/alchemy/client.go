package alchemy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://eth-mainnet.g.alchemy.com"
	DefaultTimeout     = 15 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient implements Provider against the Alchemy API: the NFT REST
// endpoints for metadata and owners, JSON-RPC 2.0 for transfers and the
// block-height probe.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	requestID   atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL sets the API base URL. Used by tests to point at a fake server.
func WithBaseURL(u string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new Alchemy API client.
func NewHTTPClient(apiKey string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC call with retries and exponential backoff.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqID := c.requestID.Add(1)
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		// RPC errors are not retried
		return rpcResp.Error
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// get performs a GET against the NFT REST API with the same retry policy.
func (c *HTTPClient) get(ctx context.Context, endpoint string, query url.Values, result interface{}) error {
	u := fmt.Sprintf("%s/nft/v3/%s/%s?%s", c.baseURL, c.apiKey, endpoint, query.Encode())

	respBody, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// doWithRetry executes a request with retries and exponential backoff.
// Rate-limit (429) and 5xx responses are retried; other statuses fail fast.
func (c *HTTPClient) doWithRetry(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *HTTPClient) rpcURL() string {
	return fmt.Sprintf("%s/v2/%s", c.baseURL, c.apiKey)
}

// getContractMetadataResult is the raw NFT API response for getContractMetadata.
type getContractMetadataResult struct {
	Address         string `json:"address"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	TotalSupply     string `json:"totalSupply"`
	OpenSeaMetadata struct {
		ImageURL string `json:"imageUrl"`
	} `json:"openSeaMetadata"`
}

// GetContractMetadata retrieves collection-level metadata for a contract.
func (c *HTTPClient) GetContractMetadata(ctx context.Context, address string) (*ContractMetadata, error) {
	q := url.Values{}
	q.Set("contractAddress", address)

	var result getContractMetadataResult
	if err := c.get(ctx, "getContractMetadata", q, &result); err != nil {
		return nil, err
	}

	return &ContractMetadata{
		Address:     address,
		Name:        result.Name,
		Symbol:      result.Symbol,
		TotalSupply: result.TotalSupply,
		ImageURL:    result.OpenSeaMetadata.ImageURL,
	}, nil
}

// getOwnersResult is the raw NFT API response for getOwnersForContract.
type getOwnersResult struct {
	Owners []string `json:"owners"`
}

// GetOwners retrieves the current full owner set for a contract.
func (c *HTTPClient) GetOwners(ctx context.Context, address string) ([]string, error) {
	q := url.Values{}
	q.Set("contractAddress", address)

	var result getOwnersResult
	if err := c.get(ctx, "getOwnersForContract", q, &result); err != nil {
		return nil, err
	}
	return result.Owners, nil
}

// getAssetTransfersResult is the raw RPC result for alchemy_getAssetTransfers.
type getAssetTransfersResult struct {
	Transfers []struct {
		From     string `json:"from"`
		To       string `json:"to"`
		TokenID  string `json:"tokenId"`
		Category string `json:"category"`
		BlockNum string `json:"blockNum"`
	} `json:"transfers"`
}

// GetAssetTransfers retrieves up to maxCount most recent transfers, newest first.
func (c *HTTPClient) GetAssetTransfers(ctx context.Context, address string, maxCount int) ([]Transfer, error) {
	params := []interface{}{
		map[string]interface{}{
			"fromBlock":         "0x0",
			"toBlock":           "latest",
			"contractAddresses": []string{address},
			"category":          []string{"erc721", "erc1155"},
			"withMetadata":      false,
			"order":             "desc",
			"maxCount":          fmt.Sprintf("0x%x", maxCount),
		},
	}

	var result getAssetTransfersResult
	if err := c.call(ctx, "alchemy_getAssetTransfers", params, &result); err != nil {
		return nil, err
	}

	transfers := make([]Transfer, len(result.Transfers))
	for i, t := range result.Transfers {
		transfers[i] = Transfer{
			From:     t.From,
			To:       t.To,
			TokenID:  t.TokenID,
			Category: t.Category,
			BlockNum: t.BlockNum,
		}
	}
	return transfers, nil
}

// GetLatestBlockNumber retrieves the current block height via eth_blockNumber.
func (c *HTTPClient) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	var result string
	if err := c.call(ctx, "eth_blockNumber", nil, &result); err != nil {
		return 0, err
	}

	var height uint64
	if _, err := fmt.Sscanf(result, "0x%x", &height); err != nil {
		return 0, fmt.Errorf("parse block number %q: %w", result, err)
	}
	return height, nil
}
