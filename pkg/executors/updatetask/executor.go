// Package updatetask implements the node that patches an existing task
// through the task collaborator.
package updatetask

import (
	"context"
	"errors"
	"fmt"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/template"
)

// ErrNoTaskID is returned when neither the node config nor the context
// carries a task id; this is fatal for the run.
var ErrNoTaskID = errors.New("Task ID not provided in UpdateTask node")

type Executor struct {
	tasks protocol.TaskService
}

func NewExecutor(tasks protocol.TaskService) *Executor {
	return &Executor{tasks: tasks}
}

func (e *Executor) NodeType() string {
	return "updateTask"
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing UpdateTask node: " + node.ID)

	taskID := node.ConfigString("taskId")
	if taskID == "" {
		if v, ok := ectx.Variable("taskId"); ok {
			taskID, _ = v.(string)
		}
	}

	if taskID == "" {
		return nil, ErrNoTaskID
	}

	patch := models.TaskPatch{}

	if title := node.ConfigString("title"); title != "" {
		resolved := template.Resolve(title, ectx)
		patch.Title = &resolved
	}

	if description := node.ConfigString("description"); description != "" {
		resolved := template.Resolve(description, ectx)
		patch.Description = &resolved
	}

	if status := node.ConfigString("status"); status != "" {
		taskStatus := models.TaskStatus(status)
		patch.Status = &taskStatus
	}

	task, err := e.tasks.Update(ctx, taskID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}

	ectx.Log(fmt.Sprintf("Updated task: %s (ID: %s)", task.Title, task.ID))

	return map[string]any{
		"id":     task.ID,
		"title":  task.Title,
		"status": string(task.Status),
	}, nil
}
