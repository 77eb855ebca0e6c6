package ports

type EpisodeMetrics interface {
	RecordReset()
	RecordStep(builds int)
	RecordFailure()
}
