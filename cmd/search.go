package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/services"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search prints one page of playable songs matching the query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	limit := cmd.Int("limit")
	if limit < 1 || limit > services.DefaultSearchResults {
		return fmt.Errorf("%w: --limit must be between 1 and %d", shared.ErrInvalidArgument, services.DefaultSearchResults)
	}

	r.logger.Debug("searching", "query", query, "limit", limit)
	result, err := r.catalog.Search(ctx, services.SearchOptions{
		Text:       query,
		MaxResults: limit,
		PageToken:  cmd.String("page"),
	}).Wait()
	if err != nil {
		return err
	}

	return r.writeSongs(cmd, fmt.Sprintf("Search: %s", query), result.Songs, result.NextPageToken)
}

// Related prints playable songs related to a seed song.
func (r *Runner) Related(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	songs, err := r.catalog.RelatedSongs(ctx, id, cmd.Int("limit")).Wait()
	if err != nil {
		return err
	}
	return r.writeSongs(cmd, fmt.Sprintf("Related to %s", id), songs, "")
}

// Song prints one song, looked up by id or by title.
func (r *Runner) Song(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	title := strings.TrimSpace(cmd.String("title"))

	var req *services.Request[models.Song]
	switch {
	case id != "" && title != "":
		return fmt.Errorf("%w: give either an id or --title", shared.ErrInvalidArgument)
	case id != "":
		req = r.catalog.GetSong(ctx, id)
	case title != "":
		req = r.catalog.SongByTitle(ctx, title)
	default:
		return fmt.Errorf("%w: song id or --title", shared.ErrMissingArgument)
	}

	song, err := req.Wait()
	if err != nil {
		return err
	}
	return r.writeSongs(cmd, song.Title, models.NewSongSet(song), "")
}

// Songs hydrates the given ids and prints the playable ones.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one song id", shared.ErrMissingArgument)
	}
	if len(ids) > services.DefaultSearchResults {
		return fmt.Errorf("%w: at most %d ids per call", shared.ErrInvalidArgument, services.DefaultSearchResults)
	}

	songs, err := r.catalog.GetSongs(ctx, ids).Wait()
	if err != nil {
		return err
	}

	if skipped := len(ids) - songs.Len(); skipped > 0 {
		r.logger.Info("skipped unplayable or missing songs", "count", skipped)
	}
	return r.writeSongs(cmd, "Songs", songs, "")
}
