package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vibevault/internal/formatter"
	"github.com/desertthunder/vibevault/internal/selection"
	"github.com/desertthunder/vibevault/internal/services"
	"github.com/desertthunder/vibevault/internal/shared"
	"github.com/desertthunder/vibevault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search queries the gateway's /search endpoint and prints the results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	r.logger.Debug("searching", "query", query)
	tracks, err := r.gatewayClient(cmd).Search(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d)", query, len(tracks)))
	for i, t := range tracks {
		r.writePlain("%2d. %s\n", i+1, formatter.TrackLine(t))
		r.writePlain("    id: %s\n", t.ID)
	}
	return nil
}

// Playlist expands a playlist URL or bare ID into its records.
//
// With --export the records are imported into a fresh selection and written with [formatter.WriteSelection].
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	arg := strings.TrimSpace(cmd.StringArg("playlist"))
	if arg == "" {
		return fmt.Errorf("%w: playlist URL or ID is required", shared.ErrMissingArgument)
	}

	client := r.gatewayClient(cmd)
	if format := cmd.String("export"); format != "" {
		return r.exportPlaylist(ctx, client, playlistURL(arg), format, cmd.String("output"))
	}

	playlistID := arg
	if strings.Contains(arg, "/playlist/") {
		id, err := services.ExtractPlaylistID(arg)
		if err != nil {
			return err
		}
		playlistID = id
	}

	records, err := client.ExpandPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlist %s (%d tracks)", playlistID, len(records)))
	for i, rec := range records {
		r.writePlain("%2d. %s - %s\n", i+1, rec.Song, rec.Artist)
	}
	return nil
}

func (r *Runner) exportPlaylist(ctx context.Context, client tasks.PlaylistExpander, url, format, path string) error {
	store := selection.New()
	engine := tasks.NewImportEngine(client, store, r.logger)

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Run(ctx, progress, url)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	written, err := formatter.WriteSelection(store.Items(), format, path)
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d tracks from playlist %s\n", result.Added, result.PlaylistID)
	r.writePlain("  File: %s\n", written)
	return nil
}

// playlistURL turns a bare playlist ID into a URL the import flow accepts.
func playlistURL(arg string) string {
	if strings.Contains(arg, "/playlist/") {
		return arg
	}
	return "https://open.spotify.com/playlist/" + arg
}

// Play asks the gateway to start playback of a track on the active device.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: track ID is required", shared.ErrMissingArgument)
	}

	track, err := r.gatewayClient(cmd).Play(ctx, id)
	if err != nil {
		return err
	}

	if track == nil {
		r.writePlain("▶ Playing %s\n", id)
		return nil
	}
	r.writePlain("▶ Playing %s\n", formatter.TrackLine(*track))
	return nil
}
