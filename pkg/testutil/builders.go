// Package testutil provides test data builders and fake collaborators shared
// across package tests.
package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/persistence"
)

// CreateTestNode creates a WorkflowNode with default values that can be
// overridden.
func CreateTestNode(overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:   uuid.New().String(),
		Type: "delay",
		Data: map[string]any{"config": map[string]any{}},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node ID.
func WithID(id string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ID = id
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = nodeType
	}
}

// WithConfig sets the node configuration submap.
func WithConfig(config map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Data = map[string]any{"config": config}
	}
}

// CreateTestWorkflow builds a workflow whose graph documents are marshaled
// from the given nodes and edges.
func CreateTestWorkflow(name string, nodes []*models.WorkflowNode, edges []*models.WorkflowEdge) *models.Workflow {
	nodesJSON, _ := json.Marshal(nodes)
	edgesJSON, _ := json.Marshal(edges)

	return &models.Workflow{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    models.WorkflowStatusActive,
		NodesJSON: string(nodesJSON),
		EdgesJSON: string(edgesJSON),
	}
}

// Edge builds a WorkflowEdge.
func Edge(source, target, label string) *models.WorkflowEdge {
	return &models.WorkflowEdge{
		ID:     uuid.New().String(),
		Source: source,
		Target: target,
		Label:  label,
	}
}

// WorkflowStore is an in-memory workflow lookup.
type WorkflowStore struct {
	mu        sync.Mutex
	workflows map[string]*models.Workflow
}

func NewWorkflowStore(workflows ...*models.Workflow) *WorkflowStore {
	store := &WorkflowStore{workflows: make(map[string]*models.Workflow)}
	for _, wf := range workflows {
		store.workflows[wf.ID] = wf
	}

	return store
}

func (s *WorkflowStore) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, ok := s.workflows[id]
	if !ok {
		return nil, persistence.ErrWorkflowNotFound
	}

	return wf, nil
}

// ExecutionStore records every SaveExecution call, keeping the latest state
// per execution ID and the full call history.
type ExecutionStore struct {
	mu         sync.Mutex
	Executions map[string]*models.Execution
	Saves      []models.Execution
}

func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{Executions: make(map[string]*models.Execution)}
}

func (s *ExecutionStore) SaveExecution(_ context.Context, execution *models.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *execution
	s.Executions[execution.ID] = &copied
	s.Saves = append(s.Saves, copied)

	return nil
}

// TaskService is a fake task collaborator recording created and updated tasks.
type TaskService struct {
	mu      sync.Mutex
	Created []models.TaskDraft
	Updated map[string]models.TaskPatch
	Err     error
}

func NewTaskService() *TaskService {
	return &TaskService{Updated: make(map[string]models.TaskPatch)}
}

func (s *TaskService) Create(_ context.Context, draft models.TaskDraft) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	s.Created = append(s.Created, draft)

	return &models.Task{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      models.TaskStatusOpen,
		Priority:    draft.Priority,
		Category:    draft.Category,
		AssigneeID:  draft.AssigneeID,
	}, nil
}

func (s *TaskService) Update(_ context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	s.Updated[id] = patch

	task := &models.Task{ID: id, Title: "updated"}
	if patch.Title != nil {
		task.Title = *patch.Title
	}

	if patch.Status != nil {
		task.Status = *patch.Status
	}

	return task, nil
}
