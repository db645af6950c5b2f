package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytcat/internal/services"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/urfave/cli/v3"
)

// ChannelUploads prints the uploads playlist id of a channel.
func (r *Runner) ChannelUploads(ctx context.Context, cmd *cli.Command) error {
	ref := services.ChannelRef{
		ID:          strings.TrimSpace(cmd.StringArg("id")),
		ForUsername: strings.TrimSpace(cmd.String("username")),
	}

	id, err := r.catalog.UploadsPlaylistID(ctx, ref).Wait()
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", id)
}

// ChannelTitle prints the title of a channel, playlist or video.
func (r *Runner) ChannelTitle(ctx context.Context, cmd *cli.Command) error {
	ref := services.TitleRef{
		ID:          strings.TrimSpace(cmd.StringArg("id")),
		ForUsername: strings.TrimSpace(cmd.String("username")),
		Kind:        services.Resource(cmd.String("kind")),
	}
	if ref.ID == "" && ref.ForUsername == "" {
		return fmt.Errorf("%w: id or --username", shared.ErrMissingArgument)
	}

	title, err := r.catalog.Title(ctx, ref).Wait()
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", title)
}
