package memory

import (
	"context"
	"sort"

	"urbandesign/internal/app/ports"
)

type HistoryRepo struct {
	store *Store
}

func NewHistoryRepo(store *Store) HistoryRepo {
	return HistoryRepo{store: store}
}

func (r HistoryRepo) Append(_ context.Context, record ports.BuildBatchRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.history[record.EpisodeID] {
		if existing.Step == record.Step {
			return ports.ErrConflict
		}
	}
	record.Builds = record.Builds.Clone()
	r.store.history[record.EpisodeID] = append(r.store.history[record.EpisodeID], record)
	return nil
}

func (r HistoryRepo) ListByEpisode(_ context.Context, episodeID string, limit int) ([]ports.BuildBatchRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rows := r.store.history[episodeID]
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]ports.BuildBatchRecord, 0, len(rows))
	for _, row := range rows {
		row.Builds = row.Builds.Clone()
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
