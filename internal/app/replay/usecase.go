package replay

import (
	"context"
	"errors"
	"strings"

	"urbandesign/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	History ports.BuildHistoryRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.EpisodeID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.RecordedFrom > 0 && req.RecordedTo > 0 && req.RecordedFrom > req.RecordedTo {
		return Response{}, ErrInvalidRequest
	}
	records, err := u.History.ListByEpisode(ctx, req.EpisodeID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	records = filterByTimeWindow(records, req.RecordedFrom, req.RecordedTo)
	return reduce(req.EpisodeID, records), nil
}

func filterByTimeWindow(records []ports.BuildBatchRecord, from, to int64) []ports.BuildBatchRecord {
	if from <= 0 && to <= 0 {
		return records
	}
	out := make([]ports.BuildBatchRecord, 0, len(records))
	for _, rec := range records {
		ts := rec.RecordedAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func reduce(episodeID string, records []ports.BuildBatchRecord) Response {
	resp := Response{
		EpisodeID: episodeID,
		Steps:     len(records),
		PerAgent:  map[string]AgentSummary{},
	}
	for _, rec := range records {
		resp.Batches = append(resp.Batches, rec.Builds.Clone())
		for _, ev := range rec.Builds {
			s := resp.PerAgent[ev.Builder]
			s.Builds++
			s.Income += ev.Income
			resp.PerAgent[ev.Builder] = s
			resp.TotalBuilds++
		}
	}
	return resp
}
