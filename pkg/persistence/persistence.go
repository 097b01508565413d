// Package persistence defines the storage contract shared by all taskflow
// persistence implementations.
package persistence

import (
	"context"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

// Persistence is the full storage surface: workflows, execution audit records
// and tasks. The engine itself only consumes the narrow protocol.WorkflowStore
// and protocol.ExecutionStore slices of it.
type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	SaveExecution(ctx context.Context, execution *models.Execution) error
	ExecutionByID(ctx context.Context, id string) (*models.Execution, error)
	ExecutionsByWorkflowID(ctx context.Context, workflowID string) ([]*models.Execution, error)

	Tasks(ctx context.Context) ([]*models.Task, error)
	TaskByID(ctx context.Context, id string) (*models.Task, error)
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
