// Package repositories implements SQLite persistence for the gateway's optional track cache.
//
// Key Implementations:
//   - [TrackRepository] : CRUD over the track_cache table, one row per upstream track id
//   - [TrackCacheAdapter] : services.TrackCacher backed by a [TrackRepository]
//
// Full track detail is stored as a JSON payload so cached lookups return exactly what the upstream returned.
// Name and artist are duplicated into columns for listing.
package repositories
