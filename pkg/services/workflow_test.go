package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/persistence/file"
)

func newWorkflowService(t *testing.T) *Workflow {
	t.Helper()

	service, err := NewWorkflow(file.NewPersistence(t.TempDir()))
	require.NoError(t, err)

	return service
}

func TestWorkflow_Save_ValidGraph(t *testing.T) {
	ctx := context.Background()
	service := newWorkflowService(t)

	saved, err := service.Save(ctx, &models.Workflow{
		ID:   "wf-1",
		Name: "Order Flow",
		NodesJSON: `[
			{"id": "n1", "type": "trigger", "position": {"x": 0, "y": 0}},
			{"id": "n2", "type": "email", "data": {"config": {"to": "ops@example.com"}}}
		]`,
		EdgesJSON: `[{"source": "n1", "target": "n2"}]`,
	})
	require.NoError(t, err)

	assert.Equal(t, models.WorkflowStatusDraft, saved.Status)

	loaded, err := service.FetchByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Order Flow", loaded.Name)
}

func TestWorkflow_Save_EmptyGraphAllowed(t *testing.T) {
	service := newWorkflowService(t)

	_, err := service.Save(context.Background(), &models.Workflow{ID: "wf-2", Name: "Draft"})

	assert.NoError(t, err)
}

func TestWorkflow_Save_RejectsNodeWithoutType(t *testing.T) {
	service := newWorkflowService(t)

	_, err := service.Save(context.Background(), &models.Workflow{
		ID:        "wf-3",
		Name:      "Bad nodes",
		NodesJSON: `[{"id": "n1"}]`,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGraph)
}

func TestWorkflow_Save_RejectsEdgeWithoutTarget(t *testing.T) {
	service := newWorkflowService(t)

	_, err := service.Save(context.Background(), &models.Workflow{
		ID:        "wf-4",
		Name:      "Bad edges",
		EdgesJSON: `[{"source": "n1"}]`,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGraph)
}

func TestWorkflow_Save_RejectsMalformedJSON(t *testing.T) {
	service := newWorkflowService(t)

	_, err := service.Save(context.Background(), &models.Workflow{
		ID:        "wf-5",
		Name:      "Not JSON",
		NodesJSON: "{broken",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGraph)
}

func TestWorkflow_HealthCheck(t *testing.T) {
	service := newWorkflowService(t)

	message, ok := service.HealthCheck(context.Background())

	assert.True(t, ok)
	assert.Equal(t, "Persistence layer is healthy", message)
}
