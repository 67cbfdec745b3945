// Package tasks runs the client's playlist import with real-time progress reporting.
//
// # Import Flow
//
// [ImportEngine.Run] takes a pasted playlist URL through four phases:
//
//  1. [ParseURL] : extract the playlist id from the URL (fails with shared.ErrInvalidInput)
//  2. [ExpandPlaylist] : ask the gateway for the capped playlist records (fails with shared.ErrUpstream)
//  3. [MapTracks] : map each record to a selection item without an identifier
//  4. [AppendSelection] : append to the selection store, skipping items already present
//
// Failures in phases 1 and 2 leave the store untouched. They are logged and returned; the presentation
// layer records them in its log only.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
