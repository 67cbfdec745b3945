package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/vibevault/internal/formatter"
	"github.com/desertthunder/vibevault/internal/repositories"
	"github.com/desertthunder/vibevault/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) openCache() (*sql.DB, error) {
	db, err := shared.OpenCache(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open track cache: %w", err)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: database.path is not set, the track cache is disabled", shared.ErrMissingConfig)
	}
	return db, nil
}

// CacheList prints the most recently cached track details.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewTrackRepository(db)
	cached, err := repo.List(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		tracks := make([]any, len(cached))
		for i, c := range cached {
			tracks[i] = c.Track
		}
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Cached tracks (%d of %d)", len(cached), total))
	for _, c := range cached {
		r.writePlain("%s  %s  (updated %s)\n", c.TrackID, formatter.TrackLine(c.Track), c.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// CacheClear removes every cached track detail.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := repositories.NewTrackRepository(db).Clear(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("track cache cleared", "removed", removed)
	r.writePlain("✓ Removed %d cached tracks\n", removed)
	return nil
}
