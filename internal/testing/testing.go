// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/vibevault/internal/models"
)

// MockClient is a test double for the gateway as seen by its clients.
//
// Nil funcs return empty results.
type MockClient struct {
	SearchFunc func(ctx context.Context, query string) ([]models.Track, error)
	ExpandFunc func(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error)
	PlayFunc   func(ctx context.Context, trackID string) (*models.Track, error)

	mu      sync.Mutex
	Queries []string
	Played  []string
}

func (m *MockClient) Search(ctx context.Context, query string) ([]models.Track, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	m.mu.Unlock()
	if m.SearchFunc == nil {
		return []models.Track{}, nil
	}
	return m.SearchFunc(ctx, query)
}

func (m *MockClient) ExpandPlaylist(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error) {
	if m.ExpandFunc == nil {
		return []models.PlaylistRecord{}, nil
	}
	return m.ExpandFunc(ctx, playlistID)
}

func (m *MockClient) Play(ctx context.Context, trackID string) (*models.Track, error) {
	m.mu.Lock()
	m.Played = append(m.Played, trackID)
	m.mu.Unlock()
	if m.PlayFunc == nil {
		return &models.Track{ID: trackID}, nil
	}
	return m.PlayFunc(ctx, trackID)
}

// MockGateway is a test double for services.Gateway
type MockGateway struct {
	SearchFunc   func(ctx context.Context, query string, limit int) ([]models.Track, error)
	ExpandFunc   func(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error)
	PlaybackFunc func(ctx context.Context, trackID string) (*models.Track, error)
}

func (m *MockGateway) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if m.SearchFunc == nil {
		return []models.Track{}, nil
	}
	return m.SearchFunc(ctx, query, limit)
}

func (m *MockGateway) ExpandPlaylist(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error) {
	if m.ExpandFunc == nil {
		return []models.PlaylistRecord{}, nil
	}
	return m.ExpandFunc(ctx, playlistID)
}

func (m *MockGateway) TriggerPlayback(ctx context.Context, trackID string) (*models.Track, error) {
	if m.PlaybackFunc == nil {
		return &models.Track{ID: trackID}, nil
	}
	return m.PlaybackFunc(ctx, trackID)
}

// FakeSpotify serves the subset of the Spotify accounts and Web API endpoints the gateway calls.
//
// Both the token endpoint (/api/token) and the API (/v1/...) are served from one [httptest.Server].
type FakeSpotify struct {
	Server *httptest.Server

	mu        sync.Mutex
	Tracks    map[string]models.Track
	Playlists map[string][]*models.Track // nil entries model unavailable tracks
	FailTrack map[string]int             // status returned for GET /tracks/{id}
	PlayError int                        // status returned for PUT /me/player/play

	TokenRequests  atomic.Int32
	TrackRequests  atomic.Int32
	SearchRequests atomic.Int32
	PlayRequests   atomic.Int32
	PlayedURIs     []string
}

// NewFakeSpotify starts a [FakeSpotify] that is closed when the test ends.
func NewFakeSpotify(t *testing.T) *FakeSpotify {
	t.Helper()
	f := &FakeSpotify{
		Tracks:    map[string]models.Track{},
		Playlists: map[string][]*models.Track{},
		FailTrack: map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", f.token)
	mux.HandleFunc("GET /v1/search", f.search)
	mux.HandleFunc("GET /v1/playlists/{id}", f.playlist)
	mux.HandleFunc("GET /v1/tracks/{id}", f.track)
	mux.HandleFunc("PUT /v1/me/player/play", f.play)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// APIURL is the base URL of the fake Web API.
func (f *FakeSpotify) APIURL() string { return f.Server.URL + "/v1" }

// TokenURL is the URL of the fake token endpoint.
func (f *FakeSpotify) TokenURL() string { return f.Server.URL + "/api/token" }

// AddTrack registers a track by its ID.
func (f *FakeSpotify) AddTrack(track models.Track) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tracks[track.ID] = track
}

// AddPlaylist registers a playlist whose entries are the given track IDs. An empty ID is an unavailable entry.
func (f *FakeSpotify) AddPlaylist(id string, trackIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]*models.Track, len(trackIDs))
	for i, tid := range trackIDs {
		if tid == "" {
			continue
		}
		track, ok := f.Tracks[tid]
		if !ok {
			track = models.Track{ID: tid}
		}
		entries[i] = &track
	}
	f.Playlists[id] = entries
}

func (f *FakeSpotify) token(w http.ResponseWriter, r *http.Request) {
	f.TokenRequests.Add(1)
	if _, _, ok := r.BasicAuth(); !ok {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": "fake-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (f *FakeSpotify) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer fake-token" {
		writeError(w, http.StatusUnauthorized, "invalid access token")
		return false
	}
	return true
}

func (f *FakeSpotify) search(w http.ResponseWriter, r *http.Request) {
	f.SearchRequests.Add(1)
	if !f.authorized(w, r) {
		return
	}

	q := strings.ToLower(r.URL.Query().Get("q"))
	f.mu.Lock()
	items := []models.Track{}
	for _, track := range f.Tracks {
		if strings.Contains(strings.ToLower(track.Name), q) {
			items = append(items, track)
		}
	}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"tracks": map[string]any{"items": items, "total": len(items)}})
}

func (f *FakeSpotify) playlist(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	f.mu.Lock()
	entries, ok := f.Playlists[r.PathValue("id")]
	f.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	items := make([]map[string]any, len(entries))
	for i, track := range entries {
		items[i] = map[string]any{"track": track}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     r.PathValue("id"),
		"tracks": map[string]any{"items": items, "total": len(items)},
	})
}

func (f *FakeSpotify) track(w http.ResponseWriter, r *http.Request) {
	f.TrackRequests.Add(1)
	if !f.authorized(w, r) {
		return
	}

	id := r.PathValue("id")
	f.mu.Lock()
	status := f.FailTrack[id]
	track, ok := f.Tracks[id]
	f.mu.Unlock()

	if status != 0 {
		writeError(w, status, "forced failure")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "non existing id")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (f *FakeSpotify) play(w http.ResponseWriter, r *http.Request) {
	f.PlayRequests.Add(1)
	if !f.authorized(w, r) {
		return
	}

	f.mu.Lock()
	status := f.PlayError
	f.mu.Unlock()
	if status != 0 {
		writeError(w, status, "Player command failed: No active device found")
		return
	}

	var body struct {
		URIs []string `json:"uris"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed json")
		return
	}

	f.mu.Lock()
	f.PlayedURIs = append(f.PlayedURIs, body.URIs...)
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"status": status, "message": msg}})
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// NopBody wraps s as a response body.
func NopBody(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Cover returns a pointer to url, for building tracks and records with album covers.
func Cover(url string) *string {
	return &url
}

// MakeTrack builds a track with one artist and, when cover is non-empty, one album image.
func MakeTrack(id, name, artist, cover string) models.Track {
	track := models.Track{
		ID:      id,
		Name:    name,
		URI:     "spotify:track:" + id,
		Artists: []models.Artist{{ID: "artist-" + artist, Name: artist}},
		Album:   models.Album{ID: "album-" + id, Name: name + " (Album)"},
	}
	if cover != "" {
		track.Album.Images = []models.Image{{URL: cover, Width: 640, Height: 640}}
	}
	return track
}
