// package services defines the upstream catalog client, the catalog gateway and the gateway's HTTP client
package services

import (
	"context"

	"github.com/desertthunder/vibevault/internal/models"
)

// Catalog is the surface of the external catalog/playback provider the gateway depends on.
type Catalog interface {
	// SearchTracks returns at most limit tracks matching query.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// Playlist retrieves a playlist and the first page of its entries.
	Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error)

	// Track retrieves the full detail of one track.
	Track(ctx context.Context, trackID string) (*models.Track, error)

	// Play requests playback of the given track URIs on the active device.
	Play(ctx context.Context, uris []string) error

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}

// Gateway brokers every call from clients to the [Catalog].
//
// All failures, credential acquisition included, wrap [shared.ErrUpstream].
type Gateway interface {
	// Search returns at most limit tracks for query. A blank query yields no tracks and no upstream call.
	Search(ctx context.Context, query string, limit int) ([]models.Track, error)

	// ExpandPlaylist resolves the capped playlist into records, all or nothing.
	ExpandPlaylist(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error)

	// TriggerPlayback resolves the track and requests playback of it.
	TriggerPlayback(ctx context.Context, trackID string) (*models.Track, error)
}

// TrackCacher optionally stores per-track detail lookups made during playlist expansion.
//
// LookupTrack returns (nil, nil) on a cache miss.
type TrackCacher interface {
	LookupTrack(ctx context.Context, trackID string) (*models.Track, error)
	CacheTrack(ctx context.Context, track models.Track) error
}
