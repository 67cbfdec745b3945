package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vibevault/internal/models"
)

var (
	_ list.Item = resultItem{}
	_ list.Item = selectionItem{}
)

const (
	markAdd    = "+"
	markRemove = "−"
)

// resultItem wraps a search result [models.Track] to implement [list.Item].
//
// selected drives the add/remove marker.
type resultItem struct {
	track    models.Track
	selected bool
}

func (i resultItem) FilterValue() string { return i.track.Name }
func (i resultItem) Title() string {
	mark := markAdd
	if i.selected {
		mark = markRemove
	}
	return fmt.Sprintf("[%s] %s", mark, i.track.Name)
}
func (i resultItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return desc
}

// selectionItem wraps [models.SelectedItem] to implement [list.Item].
type selectionItem struct {
	item models.SelectedItem
}

func (i selectionItem) FilterValue() string { return i.item.Title }
func (i selectionItem) Title() string       { return i.item.Title }
func (i selectionItem) Description() string {
	if !i.item.Playable() {
		return fmt.Sprintf("%s • imported", i.item.Artist)
	}
	return i.item.Artist
}
