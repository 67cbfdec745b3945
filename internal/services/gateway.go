package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultSearchLimit = 10
	DefaultPlaylistCap = 25
	DefaultConcurrency = 8
	DefaultRateLimit   = 20.0
)

// GatewayOptions tunes a [CatalogGateway].
type GatewayOptions struct {
	SearchLimit int         // Page size used when Search is called with limit <= 0
	PlaylistCap int         // Maximum playlist entries expanded
	Concurrency int         // Concurrent per-track detail lookups
	RateLimit   float64     // Per-track detail lookups per second; <= 0 disables throttling
	Cache       TrackCacher // Optional per-track detail cache
	Logger      *log.Logger
}

// CatalogGateway implements [Gateway] on top of a [Catalog].
type CatalogGateway struct {
	catalog Catalog
	opts    GatewayOptions
	logger  *log.Logger
}

// NewGateway creates a [CatalogGateway] backed by catalog. Zero option values take package defaults.
func NewGateway(catalog Catalog, opts GatewayOptions) *CatalogGateway {
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultSearchLimit
	}
	if opts.PlaylistCap <= 0 {
		opts.PlaylistCap = DefaultPlaylistCap
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &CatalogGateway{catalog: catalog, opts: opts, logger: opts.Logger}
}

// NewGatewayFromConfig wires a [SpotifyService] and [CatalogGateway] from application configuration.
func NewGatewayFromConfig(cfg *shared.Config, cache TrackCacher, logger *log.Logger) *CatalogGateway {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	spotify := NewSpotifyService(cfg.Credentials.Spotify.Map(), SpotifyOptions{
		APIURL:     cfg.Gateway.APIURL,
		TokenURL:   cfg.Gateway.TokenURL,
		MaxRetries: cfg.Gateway.MaxRetries,
		Logger:     shared.WithLogger(logger, "service", "spotify"),
	})

	return NewGateway(spotify, GatewayOptions{
		SearchLimit: cfg.Gateway.SearchLimit,
		PlaylistCap: cfg.Gateway.PlaylistCap,
		Concurrency: cfg.Gateway.Concurrency,
		RateLimit:   cfg.Gateway.RateLimit,
		Cache:       cache,
		Logger:      logger,
	})
}

func (g *CatalogGateway) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Track{}, nil
	}
	if limit <= 0 {
		limit = g.opts.SearchLimit
	}

	tracks, err := g.catalog.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, upstream("search", err)
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	g.logger.Debug("search", "query", query, "results", len(tracks))
	return tracks, nil
}

// ExpandPlaylist fetches the playlist, keeps the first entries up to the cap and resolves each one's
// full detail concurrently. The first failure cancels outstanding lookups and no partial result is returned.
func (g *CatalogGateway) ExpandPlaylist(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	playlist, err := g.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return nil, upstream("get playlist", err)
	}
	if playlist == nil || playlist.Tracks.Items == nil {
		return nil, upstream("get playlist", fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID))
	}

	ids := make([]string, 0, g.opts.PlaylistCap)
	for _, item := range playlist.Tracks.Items {
		if item.Track == nil || item.Track.ID == "" {
			continue
		}
		ids = append(ids, item.Track.ID)
		if len(ids) == g.opts.PlaylistCap {
			break
		}
	}

	var limiter *rate.Limiter
	if g.opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(g.opts.RateLimit), g.opts.Concurrency)
	}

	records := make([]models.PlaylistRecord, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)

	for i, id := range ids {
		eg.Go(func() error {
			track, err := g.lookupTrack(egCtx, limiter, id)
			if err != nil {
				return err
			}
			records[i] = models.RecordFromTrack(*track)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, upstream("get playlist tracks", err)
	}

	g.logger.Debug("expanded playlist", "id", playlistID, "entries", len(playlist.Tracks.Items), "records", len(records))
	return records, nil
}

// lookupTrack resolves one track, consulting the cache first. Cache failures are logged and ignored.
func (g *CatalogGateway) lookupTrack(ctx context.Context, limiter *rate.Limiter, id string) (*models.Track, error) {
	if g.opts.Cache != nil {
		cached, err := g.opts.Cache.LookupTrack(ctx, id)
		if err != nil {
			g.logger.Warn("track cache lookup failed", "id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	track, err := g.catalog.Track(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", id, err)
	}

	if g.opts.Cache != nil {
		if err := g.opts.Cache.CacheTrack(ctx, *track); err != nil {
			g.logger.Warn("track cache store failed", "id", id, "error", err)
		}
	}
	return track, nil
}

// TriggerPlayback resolves trackID and asks the provider to start playing it on the active device.
func (g *CatalogGateway) TriggerPlayback(ctx context.Context, trackID string) (*models.Track, error) {
	if trackID == "" {
		return nil, fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}

	track, err := g.catalog.Track(ctx, trackID)
	if err != nil {
		return nil, upstream("get track", err)
	}

	if err := g.catalog.Play(ctx, []string{TrackURI(trackID)}); err != nil {
		if IsNoActiveDeviceError(err) {
			g.logger.Warn("no active playback device", "track", trackID)
		}
		return nil, upstream("play", err)
	}

	g.logger.Info("playback requested", "track", trackID, "name", track.Name)
	return track, nil
}

var _ Gateway = (*CatalogGateway)(nil)
