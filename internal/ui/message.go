package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/search"
	"github.com/desertthunder/vibevault/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchResolved MsgKind = iota
	MsgPlaybackDone
	MsgImportProgress
	MsgImportComplete
	MsgExported
)

type searchResolved struct {
	req     search.Request
	applied bool
}

type playbackDone struct {
	item  models.SelectedItem
	track *models.Track
	err   error
}

type importComplete struct {
	result *tasks.ImportResult
	err    error
}

type exported struct {
	path string
	err  error
}

// searchResolvedMsg is the constructor for [MsgSearchResolved]
func searchResolvedMsg(req search.Request, applied bool) Msg {
	return Msg{kind: MsgSearchResolved, data: searchResolved{req, applied}}
}

// playbackDoneMsg is the constructor for [MsgPlaybackDone]
func playbackDoneMsg(item models.SelectedItem, track *models.Track, err error) Msg {
	return Msg{kind: MsgPlaybackDone, data: playbackDone{item, track, err}}
}

// importProgressMsg is the constructor for [MsgImportProgress]
func importProgressMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgImportProgress, data: update}
}

// importCompleteMsg is the constructor for [MsgImportComplete]
func importCompleteMsg(result *tasks.ImportResult, err error) Msg {
	return Msg{kind: MsgImportComplete, data: importComplete{result, err}}
}

// exportedMsg is the constructor for [MsgExported]
func exportedMsg(path string, err error) Msg {
	return Msg{kind: MsgExported, data: exported{path, err}}
}
