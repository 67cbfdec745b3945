// package tasks implements the playlist import flow of the client.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/selection"
	"github.com/desertthunder/vibevault/internal/services"
	"github.com/desertthunder/vibevault/internal/shared"
)

// PlaylistExpander resolves a playlist identifier into its capped records.
//
// Satisfied by [services.GatewayClient] over HTTP and by any in-process [services.Gateway].
type PlaylistExpander interface {
	ExpandPlaylist(ctx context.Context, playlistID string) ([]models.PlaylistRecord, error)
}

// ImportResult describes a completed import.
type ImportResult struct {
	PlaylistID string                // Identifier parsed from the URL
	Records    int                   // Records returned by the gateway
	Added      int                   // Items appended to the selection
	Items      []models.SelectedItem // Mapped items, in playlist order
}

// Skipped returns the number of records already present in the selection.
func (r ImportResult) Skipped() int {
	return r.Records - r.Added
}

// ImportEngine runs the playlist import flow against a selection store.
type ImportEngine struct {
	expander PlaylistExpander
	store    *selection.Store
	logger   *log.Logger
}

// NewImportEngine creates a new ImportEngine that appends into store.
func NewImportEngine(expander PlaylistExpander, store *selection.Store, logger *log.Logger) *ImportEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ImportEngine{expander: expander, store: store, logger: logger}
}

// sendProgress sends a progress update without blocking
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run imports the playlist at url into the selection.
//
// Parsing and expansion failures are logged and returned without touching the store.
func (e *ImportEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, url string) (*ImportResult, error) {
	if e.expander == nil {
		return nil, fmt.Errorf("%w: playlist expander not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, parseURLUpdate(url))
	playlistID, err := services.ExtractPlaylistID(url)
	if err != nil {
		e.logger.Error("import aborted: invalid playlist URL", "url", url, "error", err)
		return nil, err
	}

	e.sendProgress(progress, expandPlaylistUpdate(playlistID))
	records, err := e.expander.ExpandPlaylist(ctx, playlistID)
	if err != nil {
		e.logger.Error("import aborted: playlist expansion failed", "playlist", playlistID, "error", err)
		return nil, fmt.Errorf("failed to expand playlist %s: %w", playlistID, err)
	}

	e.sendProgress(progress, mapTracksUpdate(len(records)))
	items := make([]models.SelectedItem, len(records))
	for i, r := range records {
		items[i] = models.SelectedFromRecord(r)
	}

	added := e.store.Append(items)
	e.sendProgress(progress, appendSelectionUpdate(added, len(items)))

	e.logger.Info("playlist imported", "playlist", playlistID, "records", len(records), "added", added)
	return &ImportResult{PlaylistID: playlistID, Records: len(records), Added: added, Items: items}, nil
}
