package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
)

const insertJobColumns = `
	id, sequence, playlist_id, playlist_title, status, songs_total,
	songs_sent, error_message, started_at, completed_at,
	created_at, updated_at, deleted_at
`

// InsertJobRepository implements models.Repository[*models.InsertJob] for playlist import history.
type InsertJobRepository struct {
	db *sql.DB
}

// NewInsertJobRepository creates a new InsertJobRepository with the given database connection
func NewInsertJobRepository(db *sql.DB) *InsertJobRepository {
	return &InsertJobRepository{db: db}
}

var _ models.Repository[*models.InsertJob] = (*InsertJobRepository)(nil)

// Create inserts a new job with a generated ID and sequence
func (r *InsertJobRepository) Create(job *models.InsertJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "insert_jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO insert_jobs (` + insertJobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`
	_, err = r.db.Exec(query,
		id,
		sequence,
		nullString(job.PlaylistID()),
		job.PlaylistTitle(),
		string(job.Status()),
		job.SongsTotal(),
		job.SongsSent(),
		nullString(job.ErrorMessage()),
		job.StartedAt(),
		job.CompletedAt(),
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	job.SetID(id)
	job.SetSequence(sequence)
	return nil
}

// Get retrieves a job by ID, excluding soft-deleted jobs
func (r *InsertJobRepository) Get(id string) (*models.InsertJob, error) {
	query := `SELECT ` + insertJobColumns + ` FROM insert_jobs WHERE id = ? AND deleted_at IS NULL`

	job, err := scanInsertJob(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}
	return job, err
}

// Update writes the job's progress and status
func (r *InsertJobRepository) Update(job *models.InsertJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	query := `
		UPDATE insert_jobs
		SET playlist_id = ?, status = ?, songs_total = ?, songs_sent = ?,
			error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		nullString(job.PlaylistID()),
		string(job.Status()),
		job.SongsTotal(),
		job.SongsSent(),
		nullString(job.ErrorMessage()),
		job.StartedAt(),
		job.CompletedAt(),
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if err := expectOneRow(result, job.ID()); err != nil {
		return err
	}

	job.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a job by ID
func (r *InsertJobRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE insert_jobs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return expectOneRow(result, id)
}

// List retrieves jobs newest first. Supported criteria: "status" (string) and "limit" (int).
func (r *InsertJobRepository) List(criteria models.Criteria) ([]*models.InsertJob, error) {
	query := `SELECT ` + insertJobColumns + ` FROM insert_jobs WHERE deleted_at IS NULL`
	args := []any{}

	if status, ok := criteria.String("status"); ok {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria.Int("limit"); ok {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.InsertJob
	for rows.Next() {
		job, err := scanInsertJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

func scanInsertJob(s scanner) (*models.InsertJob, error) {
	var (
		id           string
		sequence     int
		playlistID   sql.NullString
		title        string
		status       string
		total        int
		sent         int
		errorMessage sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := s.Scan(
		&id, &sequence, &playlistID, &title, &status, &total,
		&sent, &errorMessage, &startedAt, &completedAt,
		&createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	return models.RestoreInsertJob(
		id, sequence, playlistID.String, title, models.JobStatus(status), total, sent, errorMessage.String,
		timePtr(startedAt), timePtr(completedAt), createdAt, updatedAt, timePtr(deletedAt),
	), nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
