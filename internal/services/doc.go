// Package services talks to the music catalog on behalf of the gateway, and to the gateway on behalf of its clients.
//
// # Catalog
//
// [Catalog] is the upstream surface: search, playlist lookup, track lookup and playback.
// [SpotifyService] implements it over the Spotify Web API. Every request first obtains a bearer
// token from [Credential], which runs the OAuth2 client credentials grant and caches the token until
// it expires. Network errors and 5xx responses are retried with exponential backoff.
//
// # Gateway
//
// [CatalogGateway] implements [Gateway] on top of a [Catalog]:
//   - Search: blank queries short-circuit with no upstream call
//   - ExpandPlaylist: first 25 resolvable entries, per-track detail fetched concurrently, all or nothing
//   - TriggerPlayback: resolves the track, then starts playback of its URI
//
// An optional [TrackCacher] short-circuits per-track detail lookups during expansion.
//
// # Gateway Client
//
// [GatewayClient] is used by the TUI and CLI to reach the gateway over HTTP.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrUpstream] : any upstream or credential failure at the gateway
//   - [shared.ErrMissingCredentials] : client id or secret not configured, reported at first use
//   - [shared.ErrAuthFailed] : token endpoint rejected the grant
//   - [shared.ErrPlaylistNotFound] : playlist had no track listing
//   - [shared.ErrInvalidInput] : malformed playlist URL or empty identifier
package services
