package models

import "time"

// ExecutionStatus represents the state of one workflow run. Transitions are
// RUNNING -> COMPLETED or RUNNING -> FAILED, exactly once, and terminal.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "RUNNING"
	ExecutionStatusCompleted ExecutionStatus = "COMPLETED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
)

// Execution is the persisted audit record of one workflow run. It is created
// in RUNNING state before the graph walk starts, so a crash mid-walk leaves a
// visible orphaned record rather than silence, and it is updated exactly once
// at the end with the full log and terminal status.
type Execution struct {
	ID           string          `json:"id"`
	WorkflowID   string          `json:"workflow_id"`
	Status       ExecutionStatus `json:"status"`
	ExecutionLog string          `json:"execution_log"`
	ErrorDetails string          `json:"error_details,omitempty"`
	ExecutedAt   time.Time       `json:"executed_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
