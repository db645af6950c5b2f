// package tasks implements multi-step playlist operations on top of the catalog client.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/services"
	"github.com/desertthunder/ytcat/internal/shared"
)

// hydrateBatchSize is the most ids the videos resource accepts in one call.
const hydrateBatchSize = 50

// JobStore persists insert jobs. [repositories.InsertJobRepository] implements it.
type JobStore interface {
	Create(job *models.InsertJob) error
	Update(job *models.InsertJob) error
}

// ImportRequest describes a playlist to create and the songs to put in it.
type ImportRequest struct {
	Title   string   // Title of the new playlist
	Token   string   // OAuth access token for the write calls
	SongIDs []string // Songs to add, in order; duplicates are dropped
}

// ImportResult contains all data from an import.
type ImportResult struct {
	Job        *models.InsertJob // Recorded job, also returned when the import fails part way
	PlaylistID string            // Created playlist
	Songs      models.SongSet    // Playable songs that were sent
	Skipped    []string          // Requested ids that were missing or unplayable
	Sent       int               // Write calls issued
}

// Engine defines the multi-step playlist operations.
type Engine interface {
	// Collect pages through a playlist and returns every playable song in it.
	Collect(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) (*models.PlaylistExport, error)

	// Import verifies songs, creates a playlist and appends the playable ones to it.
	Import(ctx context.Context, progress chan<- ProgressUpdate, req ImportRequest) (*ImportResult, error)

	// BulkExport collects several playlists concurrently and writes each one to disk.
	BulkExport(ctx context.Context, progress chan<- ProgressUpdate, playlistIDs []string, opts BulkExportOpts) (*BulkExportResult, error)
}

// ImportEngine implements [Engine] with a [services.Catalog] and an optional [JobStore].
type ImportEngine struct {
	catalog services.Catalog
	jobs    JobStore
	logger  *log.Logger
}

var _ Engine = (*ImportEngine)(nil)

// NewImportEngine creates an engine. jobs and logger may be nil.
func NewImportEngine(catalog services.Catalog, jobs JobStore, logger *log.Logger) *ImportEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &ImportEngine{catalog: catalog, jobs: jobs, logger: shared.WithLogger(logger, "task", "import")}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Collect follows page tokens until the playlist is exhausted.
func (e *ImportEngine) Collect(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) (*models.PlaylistExport, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	title, err := e.catalog.Title(ctx, services.TitleRef{ID: playlistID, Kind: services.ResourcePlaylists}).Wait()
	if err != nil {
		e.logger.Warn("could not load playlist title", "playlist", playlistID, "error", err)
		title = playlistID
	}

	export := &models.PlaylistExport{ID: playlistID, Title: title, Songs: models.NewSongSet()}
	seen := map[string]bool{}
	token := ""

	for page := 1; ; page++ {
		result, err := e.catalog.PlaylistSongs(ctx, playlistID, token).Wait()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d of %s: %w", page, playlistID, err)
		}

		export.Songs = append(export.Songs, result.Songs...)
		e.sendProgress(progress, fetchPageUpdate(page, playlistID, export.Songs.Len()))

		if !result.HasNextPage() || seen[result.NextPageToken] {
			return export, nil
		}
		seen[result.NextPageToken] = true
		token = result.NextPageToken
	}
}

// Import runs verify, create and insert in order and records the job as it goes.
//
// Individual insert failures do not fail the import; they are reported through progress.
func (e *ImportEngine) Import(ctx context.Context, progress chan<- ProgressUpdate, req ImportRequest) (*ImportResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: playlist title", shared.ErrMissingArgument)
	}

	ids := dedupe(req.SongIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one song id", shared.ErrMissingArgument)
	}

	songs, err := e.verify(ctx, progress, ids)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Songs: songs, Skipped: missing(ids, songs)}
	if songs.Len() == 0 {
		return result, fmt.Errorf("%w: none of the %d songs are playable", shared.ErrInvalidArgument, len(ids))
	}

	job := models.NewInsertJob(title, songs.Len())
	result.Job = job
	if e.jobs != nil {
		if err := e.jobs.Create(job); err != nil {
			return result, fmt.Errorf("failed to record job: %w", err)
		}
	}

	job.Start()
	e.save(job)

	e.sendProgress(progress, creatingPlaylistUpdate(title))
	playlistID, err := e.catalog.InsertPlaylist(ctx, req.Token, title).Wait()
	if err != nil {
		return result, e.fail(job, fmt.Errorf("failed to create playlist: %w", err))
	}

	result.PlaylistID = playlistID
	job.SetPlaylistID(playlistID)
	e.save(job)
	e.sendProgress(progress, playlistCreatedUpdate(job))

	drained, err := e.catalog.InsertPlaylistItems(ctx, req.Token, playlistID, songs.IDs(), func(p services.DrainProgress) {
		job.SetSongsSent(p.Step)
		e.save(job)
		e.sendProgress(progress, insertItemUpdate(p.Step, p.Total, p.SongID, p.Err))
	}).Wait()
	result.Sent = drained.Sent
	if err != nil {
		return result, e.fail(job, fmt.Errorf("failed to add songs: %w", err))
	}

	job.Complete()
	e.save(job)
	return result, nil
}

// verify hydrates ids in batches and keeps the playable songs.
func (e *ImportEngine) verify(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (models.SongSet, error) {
	songs := models.NewSongSet()
	for start := 0; start < len(ids); start += hydrateBatchSize {
		end := min(start+hydrateBatchSize, len(ids))

		batch, err := e.catalog.GetSongs(ctx, ids[start:end]).Wait()
		if err != nil {
			return nil, fmt.Errorf("failed to verify songs: %w", err)
		}

		songs = append(songs, batch...)
		e.sendProgress(progress, verifySongsUpdate(end, len(ids), songs.Len()))
	}
	return songs, nil
}

func (e *ImportEngine) fail(job *models.InsertJob, err error) error {
	job.Fail(err)
	e.save(job)
	return err
}

// save persists job. Failures are logged, not returned.
func (e *ImportEngine) save(job *models.InsertJob) {
	if e.jobs == nil || job.ID() == "" {
		return
	}
	if err := e.jobs.Update(job); err != nil {
		e.logger.Warn("failed to record job progress", "job", job.ID(), "error", err)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func missing(ids []string, songs models.SongSet) []string {
	found := make(map[string]bool, songs.Len())
	for _, song := range songs {
		found[song.ID] = true
	}

	var out []string
	for _, id := range ids {
		if !found[id] {
			out = append(out, id)
		}
	}
	return out
}
