package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatsWarmup is the task type that pre-populates dashboard caches.
	TaskStatsWarmup = "stats:warmup"
)

// StatsWarmupPayload selects which filter combinations to warm. Empty
// slices mean every supported value.
type StatsWarmupPayload struct {
	Timeframes []string `json:"timeframes,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// NewStatsWarmupTask constructs an Asynq task for cache warmup.
func NewStatsWarmupTask(payload StatsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatsWarmup, data), nil
}
