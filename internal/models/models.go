// package models defines the data model for the playlist curation client and gateway
package models

import (
	"strings"

	"github.com/desertthunder/vibevault/internal/shared"
)

// ArtistSeparator joins multiple artist names into a single display string.
const ArtistSeparator = ", "

// Image represents an album image resource. Upstream orders images by descending resolution.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a track artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri,omitempty"`
}

// Album represents the album a track belongs to.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Images      []Image  `json:"images"`
	Artists     []Artist `json:"artists,omitempty"`
}

// Track represents a catalog track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri,omitempty"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms,omitempty"`
	Explicit   bool     `json:"explicit,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
}

// ArtistNames returns the artist names joined with [ArtistSeparator].
func (t Track) ArtistNames() string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ArtistSeparator)
}

// CoverURL returns the highest resolution album image URL, or nil when the album has no images.
func (t Track) CoverURL() *string {
	if len(t.Album.Images) == 0 {
		return nil
	}
	url := t.Album.Images[0].URL
	return &url
}

// PlaylistRecord is one entry of an expanded playlist.
type PlaylistRecord struct {
	AlbumCover *string `json:"albumCover"`
	Artist     string  `json:"artist"`
	Song       string  `json:"song"`
}

// RecordFromTrack maps a fully resolved track into a [PlaylistRecord].
func RecordFromTrack(t Track) PlaylistRecord {
	return PlaylistRecord{
		AlbumCover: t.CoverURL(),
		Artist:     t.ArtistNames(),
		Song:       t.Name,
	}
}

// SelectedItem is an entry of the client's selection list.
//
// ID is empty for items imported from a playlist.
type SelectedItem struct {
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	AlbumCover *string `json:"albumCover"`
}

// SelectedFromTrack maps a search result into a [SelectedItem].
func SelectedFromTrack(t Track) SelectedItem {
	return SelectedItem{
		ID:         t.ID,
		Title:      t.Name,
		Artist:     t.ArtistNames(),
		AlbumCover: t.CoverURL(),
	}
}

// SelectedFromRecord maps an expanded playlist entry into a [SelectedItem] without an identifier.
func SelectedFromRecord(r PlaylistRecord) SelectedItem {
	return SelectedItem{
		Title:      r.Song,
		Artist:     r.Artist,
		AlbumCover: r.AlbumCover,
	}
}

// Key returns the normalized title and artist key of the item.
func (s SelectedItem) Key() string {
	return shared.NormalizeTrackKey(s.Title, s.Artist)
}

// Same reports whether s and o refer to the same track.
//
// Identifiers decide when both items have one; otherwise normalized title and artist must match.
func (s SelectedItem) Same(o SelectedItem) bool {
	if s.ID != "" && o.ID != "" {
		return s.ID == o.ID
	}
	return s.Key() == o.Key()
}

// Playable reports whether the item carries an identifier that playback can be requested for.
func (s SelectedItem) Playable() bool {
	return s.ID != ""
}
