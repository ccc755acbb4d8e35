package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SportsFeed/internal/ports"
)

const (
	userAgent       = "SportsFeed/1.0"
	maxDocumentSize = 10 << 20
)

// AllOriginsGateway retrieves feeds through a CORS proxy that wraps the
// upstream document in a JSON envelope with a contents field.
type AllOriginsGateway struct {
	proxyURL string
	client   *http.Client
}

var _ ports.Gateway = (*AllOriginsGateway)(nil)

// NewAllOriginsGateway wires the proxy prefix, e.g. https://api.allorigins.win/get?url=.
func NewAllOriginsGateway(proxyURL string, client *http.Client) *AllOriginsGateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &AllOriginsGateway{proxyURL: proxyURL, client: client}
}

// Retrieve returns the raw feed markup held in the envelope.
func (g *AllOriginsGateway) Retrieve(ctx context.Context, endpoint string) (string, error) {
	body, err := get(ctx, g.client, g.proxyURL+url.QueryEscape(endpoint))
	if err != nil {
		return "", err
	}

	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("decode proxy envelope: %w", err)
	}
	if strings.TrimSpace(envelope.Contents) == "" {
		return "", fmt.Errorf("proxy returned no contents for %s", endpoint)
	}

	return envelope.Contents, nil
}

// DirectGateway fetches the endpoint without indirection.
type DirectGateway struct {
	client *http.Client
}

var _ ports.Gateway = (*DirectGateway)(nil)

// NewDirectGateway wires an HTTP client; nil gets a 15s timeout client.
func NewDirectGateway(client *http.Client) *DirectGateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DirectGateway{client: client}
}

// Retrieve returns the response body as-is.
func (g *DirectGateway) Retrieve(ctx context.Context, endpoint string) (string, error) {
	body, err := get(ctx, g.client, endpoint)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func get(ctx context.Context, client *http.Client, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("upstream returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return body, nil
}
