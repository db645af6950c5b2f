// Package tasks orchestrates multi-step playlist operations with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines three operations:
//
//  1. [Engine.Import] : create a playlist from song ids
//     - Hydrates the ids in batches of 50 and drops unplayable songs
//     - Creates the playlist, then appends songs one write at a time
//     - Records an [models.InsertJob] (pending → running → completed | failed)
//
//  2. [Engine.Collect] : gather a whole playlist
//     - Follows page tokens until the last page
//
//  3. [Engine.BulkExport] : export several playlists to disk
//     - Worker pool with a rate limiter, one file per playlist plus a manifest
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # Job History
//
// The optional [JobStore] (repositories.InsertJobRepository) persists each import.
// Store errors after the job is created are logged and do not interrupt the import.
package tasks
