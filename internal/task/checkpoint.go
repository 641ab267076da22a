package task

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobCheckpoint records the end of the last successfully completed run per
// named batch job. Read before a run, written only after the run finishes
// without error, so a failed run re-scans the same window.
type JobCheckpoint struct {
	JobName   string     `gorm:"type:varchar(64);primaryKey"`
	LastRunAt *time.Time `gorm:"precision:3"`
	UpdatedAt time.Time  `gorm:"precision:3;not null"`
}

func (JobCheckpoint) TableName() string { return "job_checkpoints" }

type CheckpointStore struct {
	db *gorm.DB
}

func NewCheckpointStore(db *gorm.DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// LastRun returns the checkpoint timestamp, or nil when the job has never
// completed a run.
func (s *CheckpointStore) LastRun(ctx context.Context, jobName string) (*time.Time, error) {
	var cp JobCheckpoint
	err := s.db.WithContext(ctx).First(&cp, "job_name = ?", jobName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cp.LastRunAt, nil
}

// Save upserts the checkpoint. The scheduler guarantees at most one run per
// job at a time, and run start times only move forward, so a plain upsert
// keeps the timestamp monotonically non-decreasing.
func (s *CheckpointStore) Save(ctx context.Context, jobName string, ranAt time.Time) error {
	cp := JobCheckpoint{
		JobName:   jobName,
		LastRunAt: &ranAt,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_run_at", "updated_at"}),
		}).
		Create(&cp).Error
}
