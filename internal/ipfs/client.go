package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client uploads content to an IPFS node over its HTTP API.
type Client struct {
	apiURL  string
	gateway string
	http    *http.Client
}

// NewClient returns a Client for the node API (e.g. http://localhost:5001)
// and public gateway used to build fetchable URLs.
func NewClient(apiURL, gateway string) *Client {
	return &Client{
		apiURL:  strings.TrimRight(apiURL, "/"),
		gateway: strings.TrimRight(gateway, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Add pins content under filename and returns its CID.
func (c *Client) Add(ctx context.Context, filename string, content []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v0/add?pin=true", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ipfs add: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ipfs add: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		Hash string `json:"Hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ipfs add: decode: %w", err)
	}
	if out.Hash == "" {
		return "", fmt.Errorf("ipfs add: empty hash in response")
	}
	return out.Hash, nil
}

// GatewayURL returns the public URL for a CID.
func (c *Client) GatewayURL(cid string) string {
	return c.gateway + "/ipfs/" + cid
}
