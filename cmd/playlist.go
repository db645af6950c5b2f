package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/ytcat/internal/formatter"
	"github.com/desertthunder/ytcat/internal/services"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/desertthunder/ytcat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistSongs prints one page of a playlist, or all of it with --all.
func (r *Runner) PlaylistSongs(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if cmd.Bool("all") {
		export, err := r.engine().Collect(ctx, nil, id)
		if err != nil {
			return err
		}
		return r.writeSongs(cmd, export.Title, export.Songs, "")
	}

	result, err := r.catalog.PlaylistSongs(ctx, id, cmd.String("page")).Wait()
	if err != nil {
		return err
	}
	return r.writeSongs(cmd, id, result.Songs, result.NextPageToken)
}

// PlaylistCreate creates a playlist and fills it with the playable songs among the given ids.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.Args().First())
	if title == "" {
		return fmt.Errorf("%w: playlist title", shared.ErrMissingArgument)
	}

	ids, err := readIDs(cmd.Args().Tail(), cmd.String("file"))
	if err != nil {
		return err
	}

	token, err := r.accessToken(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("creating playlist", "title", title, "songs", len(ids))
	progress, done := r.printProgress()
	result, err := r.engine().Import(ctx, progress, tasks.ImportRequest{Title: title, Token: token, SongIDs: ids})
	close(progress)
	<-done

	if result != nil && len(result.Skipped) > 0 {
		r.writePlain("\nSkipped %d unplayable or missing songs:\n", len(result.Skipped))
		for _, id := range result.Skipped {
			r.writePlain("  - %s\n", id)
		}
	}
	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Playlist Created")
	r.writePlain("Title: %s\n", title)
	r.writePlain("ID: %s\n", result.PlaylistID)
	r.writePlain("Songs sent: %d/%d\n", result.Sent, result.Songs.Len())
	r.writePlain("Link: https://www.youtube.com/playlist?list=%s\n", result.PlaylistID)
	return nil
}

// PlaylistAdd appends songs to an existing playlist one at a time.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := strings.TrimSpace(cmd.Args().First())
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	ids, err := readIDs(cmd.Args().Tail(), cmd.String("file"))
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one song id", shared.ErrMissingArgument)
	}

	token, err := r.accessToken(ctx)
	if err != nil {
		return err
	}

	failed := 0
	result, err := r.catalog.InsertPlaylistItems(ctx, token, playlistID, ids, func(p services.DrainProgress) {
		if p.Err != nil {
			failed++
			r.writePlain("   [%d/%d] ✗ %s: %v\n", p.Step, p.Total, p.SongID, p.Err)
			return
		}
		r.writePlain("   [%d/%d] ✓ %s\n", p.Step, p.Total, p.SongID)
	}).Wait()
	if err != nil {
		return err
	}

	return r.writePlain("\n✓ Added %d/%d songs to %s\n", result.Sent-failed, len(ids), playlistID)
}

// PlaylistExport writes each playlist to a file and a manifest alongside them.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one playlist id", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	progress, done := r.printProgress()
	result, err := r.engine().BulkExport(ctx, progress, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Export Complete")
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}

// printProgress prints updates until the returned channel is closed; done closes after the last one.
func (r *Runner) printProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.FetchSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.VerifySongs:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	return progress, done
}

// readIDs merges ids from args with the lines of path. Blank lines and # comments are skipped.
func readIDs(args []string, path string) ([]string, error) {
	ids := append([]string{}, args...)
	if path == "" {
		return ids, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ids: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ids: %w", err)
	}
	return ids, nil
}
