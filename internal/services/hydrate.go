package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/tidwall/gjson"
	"google.golang.org/api/youtube/v3"
)

const hydrateFields = "items/id,items/contentDetails/duration,items/snippet/title,items/snippet/channelTitle,items/status/embeddable"

// hydrate fetches full details for ids in one videos call and returns the playable ones
// in response order. An empty batch returns an empty set without a network call.
func (c *Client) hydrate(ctx context.Context, ids []string) (models.SongSet, error) {
	if len(ids) == 0 {
		return models.NewSongSet(), nil
	}

	params := url.Values{}
	params.Set("part", "contentDetails,snippet,status")
	params.Set("id", strings.Join(ids, ","))
	params.Set("fields", hydrateFields)

	body, err := c.Get(ctx, ResourceVideos, params)
	if err != nil {
		return nil, err
	}

	if emptyBody(body) {
		return nil, c.protocolViolation(ResourceVideos, "empty hydration response")
	}

	if !gjson.GetBytes(body, "items").Exists() {
		nf := c.notFound(shared.MsgSongsNotFound, shared.ErrSongsNotFound)
		if len(ids) == 1 {
			nf = c.notFound(shared.MsgSongNotFound, shared.ErrSongNotFound)
		}
		nf.Fatal = true
		c.logger.Error("catalog contract breach", "resource", ResourceVideos, "detail", "no items in hydration response", "ids", len(ids))
		return nil, nf
	}

	var resp youtube.VideoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode videos response: %v", shared.ErrAPIRequest, err)
	}

	songs := make([]models.Song, 0, len(resp.Items))
	for _, video := range resp.Items {
		if !IsPlayable(video) {
			continue
		}
		song, err := ToSong(video)
		if err != nil {
			c.logger.Warn("skipping item with unreadable duration", "id", video.Id, "error", err)
			continue
		}
		songs = append(songs, song)
	}

	return models.NewSongSet(songs...), nil
}
