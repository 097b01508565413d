package updatetask

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/testutil"
)

func taskNode(config map[string]any) *models.WorkflowNode {
	return testutil.CreateTestNode(testutil.WithType("updateTask"), testutil.WithConfig(config))
}

func TestExecute_PatchesFromConfig(t *testing.T) {
	tasks := testutil.NewTaskService()
	ectx := models.NewExecutionContext(map[string]any{"reason": "duplicate"})

	result, err := NewExecutor(tasks).Execute(context.Background(),
		taskNode(map[string]any{
			"taskId": "task-1",
			"title":  "Closed: {{reason}}",
			"status": "COMPLETED",
		}), ectx)
	require.NoError(t, err)

	patch, ok := tasks.Updated["task-1"]
	require.True(t, ok)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "Closed: duplicate", *patch.Title)
	require.NotNil(t, patch.Status)
	assert.Equal(t, models.TaskStatusCompleted, *patch.Status)
	assert.Nil(t, patch.Description)

	assert.Equal(t, "task-1", result.(map[string]any)["id"])
}

func TestExecute_TaskIDFromContextVariable(t *testing.T) {
	tasks := testutil.NewTaskService()
	ectx := models.NewExecutionContext(nil)
	ectx.SetVariable("taskId", "task-9")

	_, err := NewExecutor(tasks).Execute(context.Background(),
		taskNode(map[string]any{"status": "IN_PROGRESS"}), ectx)
	require.NoError(t, err)

	_, ok := tasks.Updated["task-9"]
	assert.True(t, ok)
}

func TestExecute_MissingTaskIDIsFatal(t *testing.T) {
	tasks := testutil.NewTaskService()

	result, err := NewExecutor(tasks).Execute(context.Background(),
		taskNode(map[string]any{"status": "COMPLETED"}),
		models.NewExecutionContext(nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTaskID)
	assert.Nil(t, result)
	assert.Empty(t, tasks.Updated)
}
