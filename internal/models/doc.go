// Package models defines the track shapes shared by the gateway and its clients.
//
// The package contains three types:
//   - [Track] : Read-only catalog track as returned by the upstream provider and the /search endpoint
//   - [PlaylistRecord] : Wire shape of one expanded playlist entry ({albumCover, artist, song})
//   - [SelectedItem] : Client-owned entry of the selection list, mapped from either of the above
//
// [SelectedItem.Same] implements the identity rule used for de-duplication:
// identifiers are compared when both items carry one, normalized title and artist otherwise.
package models
