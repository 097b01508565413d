// Package createtask implements the node that creates a task through the
// task collaborator.
package createtask

import (
	"context"
	"fmt"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/template"
)

type Executor struct {
	tasks protocol.TaskService
}

func NewExecutor(tasks protocol.TaskService) *Executor {
	return &Executor{tasks: tasks}
}

func (e *Executor) NodeType() string {
	return "createTask"
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing CreateTask node: " + node.ID)

	draft := models.TaskDraft{
		Title:       template.Resolve(node.ConfigString("title"), ectx),
		Description: template.Resolve(node.ConfigString("description"), ectx),
		Priority:    models.TaskPriorityMedium,
		Category:    models.TaskCategoryWork,
	}

	if priority := node.ConfigString("priority"); priority != "" {
		draft.Priority = models.TaskPriority(priority)
	}

	if category := node.ConfigString("category"); category != "" {
		draft.Category = models.TaskCategory(category)
	}

	if assigneeID := node.ConfigString("assigneeId"); assigneeID != "" {
		draft.AssigneeID = assigneeID
	}

	task, err := e.tasks.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	ectx.Log(fmt.Sprintf("Created task: %s (ID: %s)", task.Title, task.ID))

	return taskResult(task), nil
}

// taskResult flattens a task into the plain map shape node results use.
func taskResult(task *models.Task) map[string]any {
	result := map[string]any{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"category":    string(task.Category),
	}

	if task.AssigneeID != "" {
		result["assigneeId"] = task.AssigneeID
	}

	return result
}
