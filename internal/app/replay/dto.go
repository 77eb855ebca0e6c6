package replay

import "urbandesign/internal/domain/economy"

type Request struct {
	EpisodeID string
	Limit     int
	// RecordedFrom and RecordedTo bound batches by unix seconds; zero is open.
	RecordedFrom int64
	RecordedTo   int64
}

type AgentSummary struct {
	Builds int     `json:"builds"`
	Income float64 `json:"income"`
}

type Response struct {
	EpisodeID   string                  `json:"episode_id"`
	Steps       int                     `json:"steps"`
	Batches     []economy.BuildBatch    `json:"batches"`
	PerAgent    map[string]AgentSummary `json:"per_agent"`
	TotalBuilds int                     `json:"total_builds"`
}
