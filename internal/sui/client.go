package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ErrNotImplemented is returned by the on-chain write operations. Minting
// and marketplace listing are an external integration that is not wired up;
// callers must treat them as unavailable, not as stubs that succeed.
var ErrNotImplemented = errors.New("sui: operation not implemented")

// Client talks JSON-RPC 2.0 to a Sui fullnode.
type Client struct {
	rpcURL string
	http   *http.Client
}

// NewClient returns a Client for the given fullnode URL. timeout <= 0 uses 10s.
func NewClient(rpcURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		rpcURL: rpcURL,
		http:   &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	var out rpcResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("rpc decode: %w", err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}

// VerifySignature asks the fullnode whether signature was produced over
// exactly message by the key controlling the claimed address. It is a pure
// boolean decision: transport failures, RPC errors and malformed responses
// all come back as false, never as an error.
func (c *Client) VerifySignature(ctx context.Context, message, signature string) bool {
	result, err := c.call(ctx, "sui_verifySignature", []any{message, signature})
	if err != nil {
		log.Printf("sui: verify signature: %v", err)
		return false
	}
	var verdict struct {
		IsValid bool `json:"is_valid"`
	}
	if err := json.Unmarshal(result, &verdict); err != nil {
		log.Printf("sui: verify signature: bad result: %v", err)
		return false
	}
	return verdict.IsValid
}

// GetObject fetches an on-chain object by id.
func (c *Client) GetObject(ctx context.Context, objectID string) (json.RawMessage, error) {
	result, err := c.call(ctx, "sui_getObject", []any{objectID})
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(result, &wrapper); err != nil {
		return nil, fmt.Errorf("sui_getObject decode: %w", err)
	}
	return wrapper.Data, nil
}

// GetOwnedObjects lists objects owned by address, optionally filtered by
// struct type.
func (c *Client) GetOwnedObjects(ctx context.Context, address, structType string) ([]json.RawMessage, error) {
	params := []any{address}
	if structType != "" {
		params = append(params, map[string]string{"StructType": structType})
	}
	result, err := c.call(ctx, "sui_getOwnedObjects", params)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(result, &wrapper); err != nil {
		return nil, fmt.Errorf("sui_getOwnedObjects decode: %w", err)
	}
	return wrapper.Data, nil
}

// MintPropertyNFT would mint the property as an NFT. Transaction
// construction is out of scope; the endpoint surfaces this honestly.
func (c *Client) MintPropertyNFT(ctx context.Context, propertyID int64) (string, error) {
	return "", ErrNotImplemented
}

// ListProperty would create a marketplace listing for a minted property.
func (c *Client) ListProperty(ctx context.Context, tokenID string) error {
	return ErrNotImplemented
}
