package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/shared"
)

// CachedTrack is a row of the track_cache table.
type CachedTrack struct {
	ID        string
	TrackID   string
	Name      string
	Artist    string
	Track     models.Track
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackRepository persists upstream track detail keyed by track id.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert stores track, replacing the payload of an existing row with the same track id.
func (r *TrackRepository) Upsert(ctx context.Context, track models.Track) error {
	if track.ID == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}

	payload, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO track_cache (id, track_id, name, artist, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			name = excluded.name,
			artist = excluded.artist,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query,
		shared.GenerateID(),
		track.ID,
		track.Name,
		track.ArtistNames(),
		string(payload),
		now,
		now,
	); err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}

	return nil
}

// GetByTrackID returns the cached row for trackID, or (nil, nil) when none exists.
func (r *TrackRepository) GetByTrackID(ctx context.Context, trackID string) (*CachedTrack, error) {
	query := `
		SELECT id, track_id, name, artist, payload, created_at, updated_at
		FROM track_cache
		WHERE track_id = ?
	`

	return notFound(r.scan(r.db.QueryRowContext(ctx, query, trackID)))
}

// List returns up to limit cached tracks, most recently updated first. A non-positive limit returns all.
func (r *TrackRepository) List(ctx context.Context, limit int) ([]CachedTrack, error) {
	query := `
		SELECT id, track_id, name, artist, payload, created_at, updated_at
		FROM track_cache
		ORDER BY updated_at DESC, track_id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []CachedTrack{}
	for rows.Next() {
		track, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, *track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracks: %w", err)
	}

	return tracks, nil
}

// Count returns the number of cached tracks.
func (r *TrackRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM track_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}

// Delete removes the row for trackID, failing with [shared.ErrTrackNotFound] when absent.
func (r *TrackRepository) Delete(ctx context.Context, trackID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM track_cache WHERE track_id = ?", trackID)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
	}

	return nil
}

// Clear removes every cached track and returns how many were removed.
func (r *TrackRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM track_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear tracks: %w", err)
	}
	return result.RowsAffected()
}

func (r *TrackRepository) scan(row scanner) (*CachedTrack, error) {
	var (
		t       CachedTrack
		payload string
	)
	if err := row.Scan(&t.ID, &t.TrackID, &t.Name, &t.Artist, &payload, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &t.Track); err != nil {
		return nil, fmt.Errorf("failed to decode track payload: %w", err)
	}
	return &t, nil
}
