// Package services talks to the YouTube Data API v3 and turns its responses into playable songs.
//
// # Client
//
// [Client] issues two kinds of calls: reads ([Client.Get]) against the search, playlistItems,
// videos and channels resources, and authorized writes ([Client.Insert]) against playlists and
// playlistItems. The access key comes from a [KeyProvider] and is added to every call.
// Writes carry a bearer token.
//
// # Chained lookups
//
// Search, playlist listing and related lookups run in two phases. The primary call returns
// only identifiers (and a page token); a single videos call then hydrates them. Items that
// cannot be embedded or have a zero duration are dropped ([IsPlayable]) and the rest are
// converted with [ToSong]. The page token from the primary response is handed back verbatim.
//
// # Requests
//
// Every operation returns a [Request]. It settles exactly once and can be aborted at any
// stage; aborting cancels whichever call is in flight, and the hydration phase is never
// issued once the request has been aborted. [Request.Then] adapts a request to
// success/error/complete callbacks.
//
// # Writes
//
// [Client.InsertPlaylistItems] drains a [WriteQueue] one write at a time. A failed write is
// logged and skipped; the request reports how many writes were issued.
//
// # Errors
//
//   - [APIError] : non-2xx response, matches [shared.ErrAPIRequest]
//   - [NotFoundError] : lookup found nothing, carries a localized message
//   - [shared.ErrProtocolViolation] : a response the call requires was missing entirely
//   - [ErrAborted] : the request was aborted
package services
