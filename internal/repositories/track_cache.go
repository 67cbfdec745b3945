package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/services"
)

// TrackCacheAdapter implements [services.TrackCacher] using TrackRepository.
//
// Entries older than MaxAge are treated as misses and refreshed on the next store. A zero MaxAge keeps entries forever.
type TrackCacheAdapter struct {
	repo   *TrackRepository
	MaxAge time.Duration
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// LookupTrack returns the cached detail for trackID, or (nil, nil) on a miss.
func (a *TrackCacheAdapter) LookupTrack(ctx context.Context, trackID string) (*models.Track, error) {
	cached, err := a.repo.GetByTrackID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cached track: %w", err)
	}
	if cached == nil {
		return nil, nil
	}
	if a.MaxAge > 0 && time.Since(cached.UpdatedAt) > a.MaxAge {
		return nil, nil
	}
	return &cached.Track, nil
}

// CacheTrack stores track, replacing any existing entry.
func (a *TrackCacheAdapter) CacheTrack(ctx context.Context, track models.Track) error {
	if err := a.repo.Upsert(ctx, track); err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}
	return nil
}

var _ services.TrackCacher = (*TrackCacheAdapter)(nil)
