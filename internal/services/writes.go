package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/tidwall/gjson"
	"google.golang.org/api/youtube/v3"
)

// WriteQueue holds pending write payloads, consumed from the front.
type WriteQueue[T any] struct {
	items []T
}

// NewWriteQueue copies items into a queue.
func NewWriteQueue[T any](items ...T) *WriteQueue[T] {
	return &WriteQueue[T]{items: append([]T(nil), items...)}
}

// Len returns the number of pending payloads.
func (q *WriteQueue[T]) Len() int { return len(q.items) }

// Pop removes and returns the front payload.
func (q *WriteQueue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// DrainProgress is reported after each write issued by [Client.InsertPlaylistItems].
type DrainProgress struct {
	Step   int
	Total  int
	SongID string
	Err    error
}

// DrainResult summarizes a finished drain. Sent counts write calls issued, not successes.
type DrainResult struct {
	Sent int
}

// InsertPlaylist creates a playlist titled title and returns its id.
func (c *Client) InsertPlaylist(ctx context.Context, token, title string) *Request[string] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (string, error) {
		title = strings.TrimSpace(title)
		if title == "" {
			return "", fmt.Errorf("%w: playlist title", shared.ErrMissingArgument)
		}

		mark(StageWriting)
		body, err := c.Insert(ctx, ResourcePlaylists, token, &youtube.Playlist{
			Snippet: &youtube.PlaylistSnippet{Title: title},
		})
		if err != nil {
			return "", err
		}

		id := gjson.GetBytes(body, "id").String()
		if id == "" {
			return "", c.protocolViolation(ResourcePlaylists, "created playlist has no id")
		}
		return id, nil
	})
}

// InsertPlaylistItems appends songIDs to playlistID one write at a time, in order.
//
// A failed write is logged and the drain moves on to the next song. The request
// succeeds once every write has been issued; with no songs it succeeds immediately.
// A missing token fails the request before any write. progress, when non-nil, runs
// on the drain goroutine after each write and never after the request is cancelled.
func (c *Client) InsertPlaylistItems(
	ctx context.Context, token, playlistID string, songIDs []string, progress func(DrainProgress),
) *Request[DrainResult] {
	payloads := make([]*youtube.PlaylistItem, 0, len(songIDs))
	for _, id := range songIDs {
		payloads = append(payloads, &youtube.PlaylistItem{
			Snippet: &youtube.PlaylistItemSnippet{
				PlaylistId: playlistID,
				ResourceId: &youtube.ResourceId{Kind: "youtube#video", VideoId: id},
			},
		})
	}
	queue := NewWriteQueue(payloads...)

	return run(ctx, func(ctx context.Context, mark func(Stage)) (DrainResult, error) {
		if queue.Len() == 0 {
			return DrainResult{}, nil
		}
		if playlistID == "" {
			return DrainResult{}, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
		}
		if token == "" {
			return DrainResult{}, fmt.Errorf("%w: playlist writes need an authorization token", shared.ErrNotAuthenticated)
		}
		return c.drain(ctx, mark, token, queue, progress)
	})
}

func (c *Client) drain(
	ctx context.Context, mark func(Stage), token string, queue *WriteQueue[*youtube.PlaylistItem], progress func(DrainProgress),
) (DrainResult, error) {
	var result DrainResult
	total := queue.Len()

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item, ok := queue.Pop()
		if !ok {
			return result, nil
		}

		mark(StageWriting)
		_, err := c.Insert(ctx, ResourcePlaylistItems, token, item)
		result.Sent++

		videoID := item.Snippet.ResourceId.VideoId
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if err != nil {
			c.logger.Warn("playlist item write failed", "video", videoID, "step", result.Sent, "total", total, "error", err)
		}

		if progress != nil {
			progress(DrainProgress{Step: result.Sent, Total: total, SongID: videoID, Err: err})
		}
	}
}
