package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStalePunchScan is the task type for flagging long-open punches.
	TaskStalePunchScan = "punch:stale_scan"
	// TaskSessionCleanup is the task type for purging expired session records.
	TaskSessionCleanup = "session:cleanup"
)

// StalePunchScanPayload tunes the open punch scan.
type StalePunchScanPayload struct {
	MaxOpenHours int `json:"max_open_hours"`
}

// NewStalePunchScanTask constructs an Asynq task for the stale punch scan.
func NewStalePunchScanTask(payload StalePunchScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStalePunchScan, data), nil
}

// SessionCleanupPayload configures the session purge.
type SessionCleanupPayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewSessionCleanupTask constructs an Asynq task for session cleanup.
func NewSessionCleanupTask(payload SessionCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionCleanup, data), nil
}
