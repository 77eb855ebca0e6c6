package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"urbandesign/internal/adapter/repo/gorm/model"
	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("URBAN_DB_DSN")
	if dsn == "" {
		t.Skip("URBAN_DB_DSN is required for integration test")
	}
	return dsn
}

func TestHistoryRepo_RoundTripInTx(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	episodeID := "it-history-roundtrip"
	_ = db.Exec("DELETE FROM build_batches WHERE episode_id = ?", episodeID).Error

	repo := NewHistoryRepo(db)
	tx := NewTxManager(db)
	now := time.Now().UTC().Truncate(time.Second)
	err = tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := repo.Append(ctx, ports.BuildBatchRecord{EpisodeID: episodeID, Step: 0, RecordedAt: now}); err != nil {
			return err
		}
		return repo.Append(ctx, ports.BuildBatchRecord{
			EpisodeID:  episodeID,
			Step:       1,
			RecordedAt: now,
			Builds:     economy.BuildBatch{{Builder: "2", Loc: world.Point{Row: 4, Col: 5}, Income: 12.5}},
		})
	})
	if err != nil {
		t.Fatalf("append in tx: %v", err)
	}

	got, err := repo.ListByEpisode(ctx, episodeID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Step != 0 || len(got[0].Builds) != 0 {
		t.Fatalf("unexpected history: %+v", got)
	}
	if b := got[1].Builds; len(b) != 1 || b[0].Builder != "2" || b[0].Income != 12.5 || b[0].Loc != (world.Point{Row: 4, Col: 5}) {
		t.Fatalf("unexpected builds: %+v", b)
	}

	var row model.BuildBatch
	if err := db.Where("episode_id = ? AND step = ?", episodeID, 1).First(&row).Error; err != nil {
		t.Fatalf("query row: %v", err)
	}
	if row.BuildCount != 1 {
		t.Fatalf("expected build_count 1, got %d", row.BuildCount)
	}

	if err := repo.Append(ctx, ports.BuildBatchRecord{EpisodeID: episodeID, Step: 1, RecordedAt: now}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate step, got %v", err)
	}
}

func TestHistoryRepo_ListMissingEpisode(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := NewHistoryRepo(db).ListByEpisode(ctx, "it-missing-episode", 0); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
