// Gateway client for making HTTP requests to the catalog gateway
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/shared"
)

const DefaultGatewayURL = "http://localhost:3001"

// GatewayClient calls the catalog gateway's HTTP surface on behalf of the presentation layer.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGatewayClient creates a new client for the gateway at baseURL.
func NewGatewayClient(baseURL string, client *http.Client) *GatewayClient {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &GatewayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// PlayRequest is the body of PUT /play.
type PlayRequest struct {
	SongID string `json:"songId"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Search calls GET /search. An empty query fails with [shared.ErrEmptyInput] without a request.
func (c *GatewayClient) Search(ctx context.Context, query string) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, shared.ErrEmptyInput
	}

	var tracks []models.Track
	if err := c.do(ctx, http.MethodGet, "/search?"+url.Values{"query": {query}}.Encode(), nil, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// ExpandPlaylist calls GET /playlists/{playlistId}.
func (c *GatewayClient) ExpandPlaylist(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	var records []models.PlaylistRecord
	if err := c.do(ctx, http.MethodGet, "/playlists/"+url.PathEscape(playlistID), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Play calls PUT /play and returns the track the gateway resolved.
func (c *GatewayClient) Play(ctx context.Context, trackID string) (*models.Track, error) {
	if trackID == "" {
		return nil, fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}

	var track models.Track
	if err := c.do(ctx, http.MethodPut, "/play", PlayRequest{SongID: trackID}, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Health calls GET /health.
func (c *GatewayClient) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// do performs a request and decodes a JSON response into result. Non-2xx statuses wrap [shared.ErrUpstream].
func (c *GatewayClient) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d: %s", shared.ErrUpstream, method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
