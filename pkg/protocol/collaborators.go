package protocol

import (
	"context"
	"net/http"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

// WorkflowStore is the slice of persistence the engine reads workflows from.
type WorkflowStore interface {
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
}

// ExecutionStore persists execution audit records. SaveExecution is an upsert:
// the engine calls it once to create the RUNNING record and once to finalize it.
type ExecutionStore interface {
	SaveExecution(ctx context.Context, execution *models.Execution) error
}

// TaskService is the task collaborator consumed by the createTask and
// updateTask executors.
type TaskService interface {
	Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
}

// QueryExecutor is the raw-SQL collaborator consumed by the database executor.
type QueryExecutor interface {
	QueryForList(ctx context.Context, query string) ([]map[string]any, error)
	Update(ctx context.Context, query string) (int64, error)
}

// MailSender is the outbound mail collaborator consumed by the email executor.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody, from string) error
}

// HTTPDoer is the HTTP collaborator consumed by the httpRequest executor.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
