package models

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of an [InsertJob].
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobRunning, JobCompleted, JobFailed:
		return true
	}
	return false
}

var _ Model = (*InsertJob)(nil)

// InsertJob records one playlist import: the created playlist and how many songs were sent to it.
//
// SongsSent counts write calls issued, not writes that succeeded.
type InsertJob struct {
	id            string
	sequence      int
	playlistID    string
	playlistTitle string
	status        JobStatus
	songsTotal    int
	songsSent     int
	errorMessage  string
	startedAt     *time.Time
	completedAt   *time.Time
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewInsertJob creates a pending job for a playlist titled title that will receive total songs.
func NewInsertJob(title string, total int) *InsertJob {
	now := time.Now()
	return &InsertJob{
		playlistTitle: title,
		status:        JobPending,
		songsTotal:    total,
		createdAt:     now,
		updatedAt:     now,
	}
}

// RestoreInsertJob rebuilds a job from persisted columns.
func RestoreInsertJob(
	id string, sequence int, playlistID, title string, status JobStatus, total, sent int, errMsg string,
	startedAt, completedAt *time.Time, createdAt, updatedAt time.Time, deletedAt *time.Time,
) *InsertJob {
	return &InsertJob{
		id:            id,
		sequence:      sequence,
		playlistID:    playlistID,
		playlistTitle: title,
		status:        status,
		songsTotal:    total,
		songsSent:     sent,
		errorMessage:  errMsg,
		startedAt:     startedAt,
		completedAt:   completedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     deletedAt,
	}
}

func (j *InsertJob) ID() string              { return j.id }
func (j *InsertJob) Sequence() int           { return j.sequence }
func (j *InsertJob) PlaylistID() string      { return j.playlistID }
func (j *InsertJob) PlaylistTitle() string   { return j.playlistTitle }
func (j *InsertJob) Status() JobStatus       { return j.status }
func (j *InsertJob) SongsTotal() int         { return j.songsTotal }
func (j *InsertJob) SongsSent() int          { return j.songsSent }
func (j *InsertJob) ErrorMessage() string    { return j.errorMessage }
func (j *InsertJob) StartedAt() *time.Time   { return j.startedAt }
func (j *InsertJob) CompletedAt() *time.Time { return j.completedAt }
func (j *InsertJob) CreatedAt() time.Time    { return j.createdAt }
func (j *InsertJob) UpdatedAt() time.Time    { return j.updatedAt }
func (j *InsertJob) DeletedAt() *time.Time   { return j.deletedAt }

func (j *InsertJob) SetID(id string)          { j.id = id }
func (j *InsertJob) SetSequence(seq int)      { j.sequence = seq }
func (j *InsertJob) SetUpdatedAt(t time.Time) { j.updatedAt = t }
func (j *InsertJob) SetPlaylistID(id string)  { j.playlistID = id }
func (j *InsertJob) SetSongsSent(sent int)    { j.songsSent = sent }

// Start marks the job running.
func (j *InsertJob) Start() {
	now := time.Now()
	j.status = JobRunning
	j.startedAt = &now
}

// Complete marks the job completed.
func (j *InsertJob) Complete() {
	now := time.Now()
	j.status = JobCompleted
	j.completedAt = &now
}

// Fail marks the job failed with err.
func (j *InsertJob) Fail(err error) {
	now := time.Now()
	j.status = JobFailed
	j.completedAt = &now
	if err != nil {
		j.errorMessage = err.Error()
	}
}

// Validate checks required fields and counters.
func (j *InsertJob) Validate() error {
	if j.playlistTitle == "" {
		return fmt.Errorf("playlist title is required")
	}
	if !j.status.Valid() {
		return fmt.Errorf("invalid status %q", j.status)
	}
	if j.songsTotal < 0 || j.songsSent < 0 {
		return fmt.Errorf("song counts must not be negative")
	}
	if j.songsSent > j.songsTotal {
		return fmt.Errorf("songs sent (%d) exceeds total (%d)", j.songsSent, j.songsTotal)
	}
	return nil
}
