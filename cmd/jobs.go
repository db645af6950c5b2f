package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/urfave/cli/v3"
)

type jobView struct {
	ID          string     `json:"id"`
	Sequence    int        `json:"sequence"`
	Title       string     `json:"title"`
	PlaylistID  string     `json:"playlist_id,omitempty"`
	Status      string     `json:"status"`
	SongsSent   int        `json:"songs_sent"`
	SongsTotal  int        `json:"songs_total"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newJobView(job *models.InsertJob) jobView {
	return jobView{
		ID:          job.ID(),
		Sequence:    job.Sequence(),
		Title:       job.PlaylistTitle(),
		PlaylistID:  job.PlaylistID(),
		Status:      string(job.Status()),
		SongsSent:   job.SongsSent(),
		SongsTotal:  job.SongsTotal(),
		Error:       job.ErrorMessage(),
		CreatedAt:   job.CreatedAt(),
		CompletedAt: job.CompletedAt(),
	}
}

// Jobs lists recorded playlist imports, newest first.
func (r *Runner) Jobs(ctx context.Context, cmd *cli.Command) error {
	criteria := models.Criteria{"limit": cmd.Int("limit")}
	if status := cmd.String("status"); status != "" {
		if !models.JobStatus(status).Valid() {
			return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, status)
		}
		criteria["status"] = status
	}

	store, err := r.jobStore()
	if err != nil {
		return err
	}

	jobs, err := store.List(criteria)
	if err != nil {
		return err
	}

	views := make([]jobView, len(jobs))
	for i, job := range jobs {
		views[i] = newJobView(job)
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}

	if len(views) == 0 {
		return r.writePlain("No jobs recorded.\n")
	}

	for _, v := range views {
		r.writePlain("#%d %s [%s] %d/%d songs\n", v.Sequence, v.Title, v.Status, v.SongsSent, v.SongsTotal)
		if v.PlaylistID != "" {
			r.writePlain("   playlist: %s\n", v.PlaylistID)
		}
		if v.Error != "" {
			r.writePlain("   error: %s\n", v.Error)
		}
	}
	return nil
}
