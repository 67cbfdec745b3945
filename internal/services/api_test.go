package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/vibevault/internal/shared"
	tu "github.com/desertthunder/vibevault/internal/testing"
)

func TestGatewayClient(t *testing.T) {
	t.Run("NewGatewayClient", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			c := NewGatewayClient("", nil)
			if c.baseURL != DefaultGatewayURL {
				t.Errorf("expected default base URL, got %s", c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected default HTTP client")
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			c := NewGatewayClient("http://example.com/", nil)
			if c.baseURL != "http://example.com" {
				t.Errorf("expected trimmed base URL, got %s", c.baseURL)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("Sends Query Parameter", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("expected /search, got %s", r.URL.Path)
				}
				if q := r.URL.Query().Get("query"); q != "blue monday" {
					t.Errorf("expected query 'blue monday', got %q", q)
				}
				w.Write([]byte(`[{"id":"t1","name":"Blue Monday","artists":[{"id":"a","name":"New Order"}],"album":{"images":[]}}]`))
			}))
			defer server.Close()

			tracks, err := NewGatewayClient(server.URL, nil).Search(context.Background(), "blue monday")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 1 || tracks[0].ArtistNames() != "New Order" {
				t.Errorf("unexpected tracks %+v", tracks)
			}
		})

		t.Run("Empty Query Makes No Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("should not be called"))}

			_, err := NewGatewayClient("http://example.com", client).Search(context.Background(), "  ")
			if !errors.Is(err, shared.ErrEmptyInput) {
				t.Errorf("expected ErrEmptyInput, got %v", err)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}))
			defer server.Close()

			_, err := NewGatewayClient(server.URL, nil).Search(context.Background(), "x")
			if !errors.Is(err, shared.ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
			if !strings.Contains(err.Error(), "status 500") {
				t.Errorf("expected status in error, got %v", err)
			}
		})

		t.Run("Failed Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("network error"))}

			_, err := NewGatewayClient("http://example.com", client).Search(context.Background(), "x")
			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewGatewayClient("http://example.com", client).Search(context.Background(), "x")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("Malformed JSON", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       tu.NopBody("{not json"),
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewGatewayClient("http://example.com", client).Search(context.Background(), "x")
			if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	})

	t.Run("ExpandPlaylist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/abc123" {
				t.Errorf("expected /playlists/abc123, got %s", r.URL.Path)
			}
			w.Write([]byte(`[{"albumCover":null,"artist":"A, B","song":"One"},{"albumCover":"https://img","artist":"C","song":"Two"}]`))
		}))
		defer server.Close()

		records, err := NewGatewayClient(server.URL, nil).ExpandPlaylist(context.Background(), "abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].AlbumCover != nil || records[1].AlbumCover == nil || *records[1].AlbumCover != "https://img" {
			t.Errorf("unexpected album covers %+v", records)
		}
	})

	t.Run("Play", func(t *testing.T) {
		t.Run("Sends Song ID", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("expected PUT method, got %s", r.Method)
				}
				var body PlayRequest
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("failed to decode body: %v", err)
					return
				}
				if body.SongID != "t1" {
					t.Errorf("expected songId t1, got %q", body.SongID)
				}
				w.Write([]byte(`{"id":"t1","name":"Song","artists":[],"album":{"images":[]}}`))
			}))
			defer server.Close()

			track, err := NewGatewayClient(server.URL, nil).Play(context.Background(), "t1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if track.Name != "Song" {
				t.Errorf("expected 'Song', got %q", track.Name)
			}
		})

		t.Run("Empty ID", func(t *testing.T) {
			if _, err := NewGatewayClient("", nil).Play(context.Background(), ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Health", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer server.Close()

		health, err := NewGatewayClient(server.URL, nil).Health(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("expected status ok, got %q", health.Status)
		}
	})
}
