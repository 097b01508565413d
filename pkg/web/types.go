// Package web provides the REST API for workflow, execution and task
// management.
package web

import (
	"time"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

// CreateWorkflowRequest is the body for creating a new workflow. The graph
// documents are optional; an empty graph is a valid draft.
type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	NodesJSON   string `json:"nodes_json"`
	EdgesJSON   string `json:"edges_json"`
}

// UpdateWorkflowRequest supports partial updates; nil fields are untouched.
type UpdateWorkflowRequest struct {
	Name        *string                `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                `json:"description,omitempty"`
	Status      *models.WorkflowStatus `json:"status,omitempty"      validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	NodesJSON   *string                `json:"nodes_json,omitempty"`
	EdgesJSON   *string                `json:"edges_json,omitempty"`
}

// ExecuteWorkflowRequest carries the trigger payload for a manual run.
type ExecuteWorkflowRequest struct {
	TriggerData map[string]any `json:"trigger_data"`
}

// ExecuteCodeRequest runs a snippet through the sandbox outside of any
// workflow, for editor-side testing.
type ExecuteCodeRequest struct {
	Code        string         `json:"code"         validate:"required"`
	TriggerData map[string]any `json:"trigger_data"`
	Variables   map[string]any `json:"variables"`
}

// ExecuteCodeResponse is the sandbox result or error.
type ExecuteCodeResponse struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Log    string `json:"log,omitempty"`
}

// ExecutionResponse is the API shape of an execution audit record.
type ExecutionResponse struct {
	ID           string     `json:"id"`
	WorkflowID   string     `json:"workflow_id"`
	Status       string     `json:"status"`
	ExecutionLog string     `json:"execution_log"`
	ErrorDetails string     `json:"error_details,omitempty"`
	ExecutedAt   time.Time  `json:"executed_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TransformExecutionResponse converts an execution record for API output.
func TransformExecutionResponse(execution *models.Execution) ExecutionResponse {
	return ExecutionResponse{
		ID:           execution.ID,
		WorkflowID:   execution.WorkflowID,
		Status:       string(execution.Status),
		ExecutionLog: execution.ExecutionLog,
		ErrorDetails: execution.ErrorDetails,
		ExecutedAt:   execution.ExecutedAt,
		CompletedAt:  execution.CompletedAt,
	}
}
