package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/tidwall/gjson"
)

const (
	DefaultSearchResults  = 50
	DefaultRelatedResults = 5
	playlistPageSize      = 50
	titleSearchResults    = 10

	searchIDPath   = "items.#.id.videoId"
	playlistIDPath = "items.#.contentDetails.videoId"
)

// SearchOptions parameterizes [Client.Search]. Zero MaxResults means [DefaultSearchResults].
type SearchOptions struct {
	Text       string
	MaxResults int
	PageToken  string
}

// ChannelRef names a channel by id or by legacy username. ID wins when both are set.
type ChannelRef struct {
	ID          string
	ForUsername string
}

func (r ChannelRef) apply(params url.Values) error {
	switch {
	case r.ID != "":
		params.Set("id", r.ID)
	case r.ForUsername != "":
		params.Set("forUsername", r.ForUsername)
	default:
		return fmt.Errorf("%w: channel id or username", shared.ErrMissingArgument)
	}
	return nil
}

// TitleRef names the item whose title [Client.Title] loads.
// Kind is one of [ResourceChannels], [ResourcePlaylists] or [ResourceVideos].
// ForUsername only applies to channels.
type TitleRef struct {
	ID          string
	ForUsername string
	Kind        Resource
}

// primaryLookup is the first call of a chained lookup.
type primaryLookup struct {
	resource    Resource
	params      url.Values
	idPath      string
	requireBody bool
}

// chain runs primary, collects identifiers at idPath, then hydrates them.
// It returns the hydrated songs and the primary response's page token.
func (c *Client) chain(ctx context.Context, mark func(Stage), primary primaryLookup) (models.SongSet, string, error) {
	mark(StagePrimary)
	body, err := c.Get(ctx, primary.resource, primary.params)
	if err != nil {
		return nil, "", err
	}

	if primary.requireBody && emptyBody(body) {
		return nil, "", c.protocolViolation(primary.resource, "empty primary response")
	}

	var ids []string
	for _, id := range gjson.GetBytes(body, primary.idPath).Array() {
		if s := id.String(); s != "" {
			ids = append(ids, s)
		}
	}
	nextPage := gjson.GetBytes(body, "nextPageToken").String()

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	mark(StageHydrating)
	songs, err := c.hydrate(ctx, ids)
	if err != nil {
		return nil, "", err
	}
	return songs, nextPage, nil
}

// Search finds playable songs matching opts.Text.
func (c *Client) Search(ctx context.Context, opts SearchOptions) *Request[models.SearchResult] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (models.SearchResult, error) {
		return c.search(ctx, mark, opts)
	})
}

func (c *Client) search(ctx context.Context, mark func(Stage), opts SearchOptions) (models.SearchResult, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultSearchResults
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(opts.MaxResults))
	params.Set("q", strings.TrimSpace(opts.Text))
	params.Set("fields", "nextPageToken,items/id/videoId")
	params.Set("safeSearch", "none")
	params.Set("videoEmbeddable", "true")
	if opts.PageToken != "" {
		params.Set("pageToken", opts.PageToken)
	}

	songs, next, err := c.chain(ctx, mark, primaryLookup{resource: ResourceSearch, params: params, idPath: searchIDPath})
	if err != nil {
		return models.SearchResult{}, err
	}
	return models.SearchResult{Songs: songs, NextPageToken: next}, nil
}

// PlaylistSongs lists one page of playable songs in a playlist.
func (c *Client) PlaylistSongs(ctx context.Context, playlistID, pageToken string) *Request[models.SearchResult] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (models.SearchResult, error) {
		if playlistID == "" {
			return models.SearchResult{}, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
		}

		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("maxResults", strconv.Itoa(playlistPageSize))
		params.Set("playlistId", playlistID)
		params.Set("fields", "nextPageToken,items/contentDetails/videoId")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		songs, next, err := c.chain(ctx, mark, primaryLookup{resource: ResourcePlaylistItems, params: params, idPath: playlistIDPath})
		if err != nil {
			return models.SearchResult{}, err
		}
		return models.SearchResult{Songs: songs, NextPageToken: next}, nil
	})
}

// RelatedSongs finds playable songs related to songID. Zero maxResults means [DefaultRelatedResults].
//
// A related lookup whose response has no body fails with [shared.ErrProtocolViolation];
// the seed song has usually been removed from the catalog.
func (c *Client) RelatedSongs(ctx context.Context, songID string, maxResults int) *Request[models.SongSet] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (models.SongSet, error) {
		if songID == "" {
			return nil, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
		}
		if maxResults <= 0 {
			maxResults = DefaultRelatedResults
		}

		params := url.Values{}
		params.Set("part", "id")
		params.Set("relatedToVideoId", songID)
		params.Set("maxResults", strconv.Itoa(maxResults))
		params.Set("type", "video")
		params.Set("fields", "items/id/videoId")
		params.Set("videoEmbeddable", "true")

		songs, _, err := c.chain(ctx, mark, primaryLookup{
			resource:    ResourceSearch,
			params:      params,
			idPath:      searchIDPath,
			requireBody: true,
		})
		return songs, err
	})
}

// SongByTitle returns the best playable match for title.
func (c *Client) SongByTitle(ctx context.Context, title string) *Request[models.Song] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (models.Song, error) {
		result, err := c.search(ctx, mark, SearchOptions{Text: title, MaxResults: titleSearchResults})
		if err != nil {
			return models.Song{}, err
		}
		song, ok := result.Songs.First()
		if !ok {
			return models.Song{}, c.notFound(shared.MsgSongNotFound, shared.ErrSongNotFound)
		}
		return song, nil
	})
}

// GetSong hydrates a single song.
func (c *Client) GetSong(ctx context.Context, id string) *Request[models.Song] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (models.Song, error) {
		if id == "" {
			return models.Song{}, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
		}

		mark(StageHydrating)
		songs, err := c.hydrate(ctx, []string{id})
		if err != nil {
			return models.Song{}, err
		}
		song, ok := songs.First()
		if !ok {
			return models.Song{}, c.notFound(shared.MsgSongNotFound, shared.ErrSongNotFound, id)
		}
		return song, nil
	})
}

// GetSongs hydrates ids in one batch. Unplayable songs are left out of the result.
func (c *Client) GetSongs(ctx context.Context, ids []string) *Request[models.SongSet] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (models.SongSet, error) {
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: at least one song id is required", shared.ErrInvalidArgument)
		}
		mark(StageHydrating)
		return c.hydrate(ctx, ids)
	})
}

// UploadsPlaylistID resolves the playlist holding a channel's uploads.
func (c *Client) UploadsPlaylistID(ctx context.Context, ref ChannelRef) *Request[string] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (string, error) {
		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("fields", "items/contentDetails/relatedPlaylists/uploads")
		if err := ref.apply(params); err != nil {
			return "", err
		}

		mark(StagePrimary)
		body, err := c.Get(ctx, ResourceChannels, params)
		if err != nil {
			return "", err
		}

		uploads := gjson.GetBytes(body, "items.0.contentDetails.relatedPlaylists.uploads")
		if !uploads.Exists() || uploads.String() == "" {
			return "", c.notFound(shared.MsgChannelNotFound, shared.ErrChannelNotFound)
		}
		return uploads.String(), nil
	})
}

// Title loads the display title of a channel, playlist or video.
func (c *Client) Title(ctx context.Context, ref TitleRef) *Request[string] {
	return run(ctx, func(ctx context.Context, mark func(Stage)) (string, error) {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("fields", "items/snippet/title")

		switch ref.Kind {
		case ResourceChannels:
			if err := (ChannelRef{ID: ref.ID, ForUsername: ref.ForUsername}).apply(params); err != nil {
				return "", err
			}
		case ResourcePlaylists, ResourceVideos:
			if ref.ID == "" {
				return "", fmt.Errorf("%w: %s id", shared.ErrMissingArgument, ref.Kind)
			}
			params.Set("id", ref.ID)
		default:
			return "", fmt.Errorf("%w: cannot load titles of %q", shared.ErrInvalidArgument, ref.Kind)
		}

		mark(StagePrimary)
		body, err := c.Get(ctx, ref.Kind, params)
		if err != nil {
			return "", err
		}

		title := gjson.GetBytes(body, "items.0.snippet.title")
		if !title.Exists() {
			return "", c.notFound(shared.MsgTitleNotFound, shared.ErrTitleNotFound)
		}
		return title.String(), nil
	})
}
