package ports

import (
	"context"
	"time"

	"urbandesign/internal/domain/economy"
)

type BuildBatchRecord struct {
	EpisodeID  string             `json:"episode_id"`
	Step       int                `json:"step"`
	Builds     economy.BuildBatch `json:"builds"`
	RecordedAt time.Time          `json:"recorded_at"`
}

type BuildHistoryRepository interface {
	Append(ctx context.Context, record BuildBatchRecord) error
	// ListByEpisode returns records in step order. limit <= 0 means all.
	ListByEpisode(ctx context.Context, episodeID string, limit int) ([]BuildBatchRecord, error)
}

type DenseLogSink interface {
	Begin(episodeID string) error
	Write(record BuildBatchRecord) error
	Close() error
}

// TxManager runs fn in one unit of work. Repositories called with the ctx
// handed to fn join it; a nested RunInTx joins the outer unit.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
