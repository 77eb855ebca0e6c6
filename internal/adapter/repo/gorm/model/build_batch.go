package model

import "time"

const TableNameBuildBatch = "build_batches"

type BuildBatch struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	EpisodeID  string    `gorm:"column:episode_id;not null;uniqueIndex:uq_build_batches_episode_step" json:"episode_id"`
	Step       int32     `gorm:"column:step;not null;uniqueIndex:uq_build_batches_episode_step" json:"step"`
	BuildCount int32     `gorm:"column:build_count;not null" json:"build_count"`
	Builds     []byte    `gorm:"column:builds;type:jsonb;not null" json:"builds"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null" json:"recorded_at"`
}

func (*BuildBatch) TableName() string {
	return TableNameBuildBatch
}
