package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"urbandesign/internal/adapter/repo/gorm/model"
	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepo {
	return HistoryRepo{db: db}
}

func (r HistoryRepo) Append(ctx context.Context, record ports.BuildBatchRecord) error {
	builds := record.Builds
	if builds == nil {
		builds = economy.BuildBatch{}
	}
	b, err := json.Marshal(builds)
	if err != nil {
		return fmt.Errorf("encode builds: %w", err)
	}
	row := model.BuildBatch{
		EpisodeID:  record.EpisodeID,
		Step:       int32(record.Step),
		BuildCount: int32(len(builds)),
		Builds:     b,
		RecordedAt: record.RecordedAt,
	}
	err = dbFromCtx(ctx, r.db).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}

func (r HistoryRepo) ListByEpisode(ctx context.Context, episodeID string, limit int) ([]ports.BuildBatchRecord, error) {
	rows := []model.BuildBatch{}
	query := dbFromCtx(ctx, r.db).
		Where(&model.BuildBatch{EpisodeID: episodeID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "step"}}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.BuildBatchRecord, 0, len(rows))
	for _, row := range rows {
		builds := economy.BuildBatch{}
		if len(row.Builds) > 0 {
			if err := json.Unmarshal(row.Builds, &builds); err != nil {
				return nil, fmt.Errorf("decode builds of step %d: %w", row.Step, err)
			}
		}
		out = append(out, ports.BuildBatchRecord{
			EpisodeID:  row.EpisodeID,
			Step:       int(row.Step),
			Builds:     builds,
			RecordedAt: row.RecordedAt,
		})
	}
	return out, nil
}
