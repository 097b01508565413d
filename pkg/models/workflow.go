// Package models defines the core domain models for the taskflow workflow engine.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "DRAFT"
	WorkflowStatusActive   WorkflowStatus = "ACTIVE"
	WorkflowStatusArchived WorkflowStatus = "ARCHIVED"
)

// Workflow is a stored, user-authored automation definition. The graph itself
// is kept as two raw JSON documents (nodes and edges) exactly as the editor
// saved them; they are parsed fresh on every execution.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Status      WorkflowStatus `json:"status"`
	Owner       string         `json:"owner"`
	NodesJSON   string         `json:"nodes_json"`
	EdgesJSON   string         `json:"edges_json"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
