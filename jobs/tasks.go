// Package jobs contains the background task definitions and the Asynq
// worker runtime.
package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatementRefresh regenerates cached statements and their
	// rendered export files.
	TaskStatementRefresh = "statement:refresh"
)

// StatementRefreshPayload scopes a refresh run. PropertyID 0 means every
// property.
type StatementRefreshPayload struct {
	RunID      string `json:"run_id"`
	PropertyID int64  `json:"property_id"`
}

// NewStatementRefreshTask constructs an Asynq task with a fresh run ID.
func NewStatementRefreshTask(propertyID int64) (*asynq.Task, string, error) {
	payload := StatementRefreshPayload{
		RunID:      uuid.NewString(),
		PropertyID: propertyID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	return asynq.NewTask(TaskStatementRefresh, body, asynq.Queue(QueueDefault)), payload.RunID, nil
}
