package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "insert_jobs")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for a table without a sequence")
	}
}

func TestInsertJobRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))
		job := models.NewInsertJob("Road Trip", 3)

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}
		if job.ID() == "" {
			t.Error("job ID should be set after creation")
		}
		if job.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", job.Sequence())
		}
	})

	t.Run("Create rejects invalid jobs", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))
		if err := repo.Create(models.NewInsertJob("", 1)); err == nil {
			t.Fatal("expected validation error for empty title")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))
		job := models.NewInsertJob("Road Trip", 3)
		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		got, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}
		if got.PlaylistTitle() != "Road Trip" || got.SongsTotal() != 3 || got.Status() != models.JobPending {
			t.Errorf("unexpected job %s %d %s", got.PlaylistTitle(), got.SongsTotal(), got.Status())
		}
		if got.PlaylistID() != "" || got.StartedAt() != nil {
			t.Error("expected empty optional columns")
		}
	})

	t.Run("Get missing job", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))
		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))
		job := models.NewInsertJob("Road Trip", 2)
		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		job.Start()
		job.SetPlaylistID("PL1")
		job.SetSongsSent(2)
		job.Complete()
		if err := repo.Update(job); err != nil {
			t.Fatalf("failed to update job: %v", err)
		}

		got, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}
		if got.Status() != models.JobCompleted || got.PlaylistID() != "PL1" || got.SongsSent() != 2 {
			t.Errorf("update not persisted: %s %q %d", got.Status(), got.PlaylistID(), got.SongsSent())
		}
		if got.StartedAt() == nil || got.CompletedAt() == nil {
			t.Error("expected start and completion times")
		}
	})

	t.Run("Update missing job", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))
		job := models.NewInsertJob("Ghost", 0)
		job.SetID("nonexistent-id")

		if err := repo.Update(job); !errors.Is(err, shared.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))
		job := models.NewInsertJob("Road Trip", 1)
		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}

		if err := repo.Delete(job.ID()); err != nil {
			t.Fatalf("failed to delete job: %v", err)
		}
		if _, err := repo.Get(job.ID()); err == nil {
			t.Error("expected error when getting deleted job")
		}
		if err := repo.Delete(job.ID()); !errors.Is(err, shared.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound on second delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewInsertJobRepository(setupTestDB(t))

		titles := []string{"First", "Second", "Third"}
		for _, title := range titles {
			if err := repo.Create(models.NewInsertJob(title, 1)); err != nil {
				t.Fatalf("failed to create job: %v", err)
			}
		}

		failed := models.NewInsertJob("Broken", 1)
		if err := repo.Create(failed); err != nil {
			t.Fatalf("failed to create job: %v", err)
		}
		failed.Fail(errors.New("quota exceeded"))
		if err := repo.Update(failed); err != nil {
			t.Fatalf("failed to update job: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		if len(all) != 4 || all[0].PlaylistTitle() != "Broken" {
			t.Fatalf("expected 4 jobs newest first, got %d", len(all))
		}

		onlyFailed, err := repo.List(models.Criteria{"status": string(models.JobFailed)})
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		if len(onlyFailed) != 1 || onlyFailed[0].ErrorMessage() != "quota exceeded" {
			t.Errorf("expected the failed job, got %d", len(onlyFailed))
		}

		limited, err := repo.List(models.Criteria{"limit": 2})
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 jobs, got %d", len(limited))
		}
	})
}
