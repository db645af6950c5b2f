package services

import (
	"context"

	"github.com/desertthunder/ytcat/internal/models"
)

// Catalog is the set of catalog operations exposed to the CLI, the TUI and the import task.
//
// Every operation returns at once with a [Request] that settles when the chain finishes.
type Catalog interface {
	// Search finds playable songs by free text, one page at a time.
	Search(ctx context.Context, opts SearchOptions) *Request[models.SearchResult]

	// SongByTitle returns the first playable search match for title.
	SongByTitle(ctx context.Context, title string) *Request[models.Song]

	// PlaylistSongs lists one page of playable songs in a playlist.
	PlaylistSongs(ctx context.Context, playlistID, pageToken string) *Request[models.SearchResult]

	// RelatedSongs finds playable songs related to a seed song.
	RelatedSongs(ctx context.Context, songID string, maxResults int) *Request[models.SongSet]

	// GetSong hydrates one song.
	GetSong(ctx context.Context, id string) *Request[models.Song]

	// GetSongs hydrates a batch of songs, leaving out unplayable ones.
	GetSongs(ctx context.Context, ids []string) *Request[models.SongSet]

	// UploadsPlaylistID resolves a channel's uploads playlist.
	UploadsPlaylistID(ctx context.Context, ref ChannelRef) *Request[string]

	// Title loads the title of a channel, playlist or video.
	Title(ctx context.Context, ref TitleRef) *Request[string]

	// InsertPlaylist creates a playlist and returns its id.
	InsertPlaylist(ctx context.Context, token, title string) *Request[string]

	// InsertPlaylistItems appends songs to a playlist sequentially.
	InsertPlaylistItems(ctx context.Context, token, playlistID string, songIDs []string, progress func(DrainProgress)) *Request[DrainResult]
}

var _ Catalog = (*Client)(nil)
