// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	defaultRetryWait = 500 * time.Millisecond
)

// SpotifyPlaylist represents a Spotify playlist. Only the first page of items is decoded.
type SpotifyPlaylist struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Public      bool          `json:"public"`
	Tracks      playlistTrack `json:"tracks"`
	URI         string        `json:"uri"`
}

type playlistTrack struct {
	Total int                    `json:"total"`
	Items []SpotifyPlaylistTrack `json:"items"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for entries the API can no longer resolve.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *models.Track `json:"track"`
}

// SpotifySearchResponse is the track portion of a search response.
type SpotifySearchResponse struct {
	Tracks *struct {
		Items  []models.Track `json:"items"`
		Total  int            `json:"total"`
		Limit  int            `json:"limit"`
		Offset int            `json:"offset"`
	} `json:"tracks"`
}

// SpotifyPlayRequest is the body of a start/resume playback request.
type SpotifyPlayRequest struct {
	URIs []string `json:"uris,omitempty"`
}

// APIError represents a Spotify API error response.
type APIError struct {
	ErrorInfo struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Spotify API error %d: %s", e.ErrorInfo.Status, e.ErrorInfo.Message)
}

// IsNoActiveDeviceError reports whether err is the 404 Spotify returns when no playback device is active.
func IsNoActiveDeviceError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorInfo.Status == http.StatusNotFound
}

// SpotifyOptions configures a [SpotifyService].
type SpotifyOptions struct {
	APIURL     string       // Defaults to the public Web API
	TokenURL   string       // Defaults to the accounts service token endpoint
	MaxRetries int          // Retries for network errors and 5xx responses
	HTTPClient *http.Client // Defaults to a client with a 30s timeout
	Logger     *log.Logger
}

// SpotifyService implements [Catalog] against the Spotify Web API using app-level credentials.
type SpotifyService struct {
	baseURL    string
	credential *Credential
	httpClient *http.Client
	maxRetries int
	retryWait  time.Duration
	logger     *log.Logger
}

// NewSpotifyService creates a Spotify catalog client from "client_id" and "client_secret" credentials.
//
// Missing credentials are reported on first use so the gateway can start without them.
func NewSpotifyService(credentials map[string]string, opts SpotifyOptions) *SpotifyService {
	if opts.APIURL == "" {
		opts.APIURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &SpotifyService{
		baseURL:    opts.APIURL,
		credential: NewCredential(credentials["client_id"], credentials["client_secret"], opts.TokenURL, opts.HTTPClient),
		httpClient: opts.HTTPClient,
		maxRetries: opts.MaxRetries,
		retryWait:  defaultRetryWait,
		logger:     opts.Logger,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Credential returns the credential the service acquires before each request.
func (s *SpotifyService) Credential() *Credential {
	return s.credential
}

// doRequest performs an authenticated request, retrying network errors and 5xx responses with exponential backoff.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	token, err := s.credential.Acquire(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	apiURL := s.baseURL + endpoint
	s.logger.Debug("spotify request", "method", method, "url", apiURL)

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			wait := s.retryWait * time.Duration(1<<(attempt-1))
			s.logger.Debug("spotify retry", "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		s.logger.Debug("spotify response", "method", method, "url", apiURL, "status", resp.StatusCode)

		switch {
		case resp.StatusCode >= 500:
			lastErr = decodeAPIError(resp.StatusCode, respBody)
			continue
		case resp.StatusCode == http.StatusUnauthorized:
			s.credential.Invalidate()
			return decodeAPIError(resp.StatusCode, respBody)
		case resp.StatusCode >= 400:
			return decodeAPIError(resp.StatusCode, respBody)
		}

		if resp.StatusCode == http.StatusNoContent || result == nil || len(respBody) == 0 {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", s.maxRetries, lastErr)
}

func decodeAPIError(status int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorInfo.Message != "" {
		return &apiErr
	}
	return fmt.Errorf("spotify API error: status %d", status)
}

// SearchTracks performs a track search returning at most limit results.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp SpotifySearchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	if resp.Tracks == nil || resp.Tracks.Items == nil {
		return []models.Track{}, nil
	}
	return resp.Tracks.Items, nil
}

// Playlist retrieves a playlist by ID with the first page of its tracks.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, http.MethodGet, "/playlists/"+url.PathEscape(playlistID), nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Track retrieves a single track by ID.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*models.Track, error) {
	var track models.Track
	if err := s.doRequest(ctx, http.MethodGet, "/tracks/"+url.PathEscape(trackID), nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Play starts playback of the given URIs on the active device.
func (s *SpotifyService) Play(ctx context.Context, uris []string) error {
	return s.doRequest(ctx, http.MethodPut, "/me/player/play", SpotifyPlayRequest{URIs: uris}, nil)
}

// TrackURI returns the playback URI for a track ID.
func TrackURI(trackID string) string {
	return "spotify:track:" + trackID
}

var _ Catalog = (*SpotifyService)(nil)

// upstream wraps err as an [shared.ErrUpstream] for operation op.
func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", shared.ErrUpstream, op, err)
}
