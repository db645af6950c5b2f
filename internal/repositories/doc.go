// Package repositories implements SQLite persistence for playlist insert jobs.
//
// [InsertJobRepository] implements [models.Repository] for [models.InsertJob]. Deletes are soft:
// rows get a deleted_at timestamp and drop out of every query.
//
// Sequence numbers give jobs a stable, human-readable order (job #3 ran before job #4)
// independent of UUIDs and creation timestamps. [NextSequence] atomically increments the
// per-table counter kept in a dedicated sequence table.
package repositories
