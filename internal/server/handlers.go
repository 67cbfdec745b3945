package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/services"
)

// maxBodyBytes bounds PUT /play request bodies.
const maxBodyBytes = 1 << 16

// GatewayHandler exposes a [services.Gateway] over HTTP.
type GatewayHandler struct {
	gateway services.Gateway
	logger  *log.Logger
}

// NewGatewayHandler creates a [GatewayHandler].
func NewGatewayHandler(gateway services.Gateway, logger *log.Logger) *GatewayHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GatewayHandler{gateway: gateway, logger: logger}
}

// Register adds the gateway routes to r.
func (h *GatewayHandler) Register(r Router) {
	r.Handle(http.MethodGet, "/search", http.HandlerFunc(h.Search))
	r.Handle(http.MethodGet, "/playlists/{playlistId}", http.HandlerFunc(h.Playlist))
	r.Handle(http.MethodPut, "/play", http.HandlerFunc(h.Play))
}

// Search handles GET /search?query=...
func (h *GatewayHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		respondJSON(w, http.StatusOK, []models.Track{})
		return
	}

	tracks, err := h.gateway.Search(r.Context(), query, 0)
	if err != nil {
		h.logger.Error("search failed", "query", query, "error", err)
		respondError(w, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, tracks)
}

// Playlist handles GET /playlists/{playlistId}
func (h *GatewayHandler) Playlist(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("playlistId")

	records, err := h.gateway.ExpandPlaylist(r.Context(), playlistID)
	if err != nil {
		h.logger.Error("playlist expansion failed", "playlist", playlistID, "error", err)
		respondError(w, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// Play handles PUT /play with a {"songId": "..."} body.
func (h *GatewayHandler) Play(w http.ResponseWriter, r *http.Request) {
	var body services.PlayRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		h.logger.Warn("malformed play request", "error", err)
		respondError(w, http.StatusBadRequest)
		return
	}
	if body.SongID == "" {
		h.logger.Warn("play request without songId")
		respondError(w, http.StatusBadRequest)
		return
	}

	track, err := h.gateway.TriggerPlayback(r.Context(), body.SongID)
	if err != nil {
		h.logger.Error("playback failed", "song", body.SongID, "error", err)
		respondError(w, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, track)
}

// HealthHandler serves GET /health.
type HealthHandler struct{}

func (HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, services.HealthResponse{Status: "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes the plain status text for status. Failure details stay in the server log.
func respondError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}
