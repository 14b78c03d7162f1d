package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobStatus defines the lifecycle state of a background evaluation job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is one queued evaluation unit: a task type plus its payload,
// tracked through the lifecycle so stuck or failed evaluations stay
// visible after the message itself is gone.
type Job struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	TaskType   string          `json:"task_type" gorm:"index;not null"`
	Payload    json.RawMessage `json:"payload" gorm:"type:jsonb"`
	Status     JobStatus       `json:"status" gorm:"index;not null"`
	Error      *string         `json:"error,omitempty"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (Job) TableName() string {
	return "evaluation_jobs"
}

// JobRepository defines the interface for job persistence
type JobRepository interface {
	Create(ctx context.Context, taskType string, payload json.RawMessage) (*Job, error)
	Get(ctx context.Context, id int64) (*Job, error)
	UpdateStatus(ctx context.Context, id int64, status JobStatus, err *string) error
}
