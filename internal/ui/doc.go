// Package ui implements an interactive terminal client for the gateway using bubbletea's Elm architecture.
//
// The screen has a search input above two panes:
//  1. Results : the latest search results, marked + (add) or − (remove) against the selection
//  2. Selection : the client's ordered selection list
//
// An import prompt ([FocusImport]) appends the tracks of a Spotify playlist URL to the selection.
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every keystroke in the search input issues a search; responses are applied through [search.Session], which discards
// stale ones. Import progress flows through a channel from the [tasks.ImportEngine].
//
// Failures are written to the logger only. Keys: tab switches panes, enter/p plays, space/a adds or removes,
// x/d removes from the selection, i imports, e exports to CSV, esc leaves an input and q or ctrl+c quits.
package ui
