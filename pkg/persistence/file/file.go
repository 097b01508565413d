// Package file provides file-based persistence for workflows, executions and
// tasks. One JSON document per record, one directory per record type. Meant
// for development and tests; production deployments use the postgresql
// package.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/persistence"
)

type Persistence struct {
	root string
	mu   sync.RWMutex
}

// NewPersistence creates a file store rooted at root. A "file://" prefix is
// accepted and stripped so the same database-url flag works for every backend.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) Workflows(_ context.Context) ([]*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return listAll[models.Workflow](p.dir("workflows"))
}

func (p *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	workflow, err := readOne[models.Workflow](p.dir("workflows"), id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.ErrWorkflowNotFound
	}

	return workflow, err
}

func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	return writeOne(p.dir("workflows"), workflow.ID, workflow)
}

func (p *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := os.Remove(filepath.Join(p.dir("workflows"), id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return persistence.ErrWorkflowNotFound
	}

	return err
}

func (p *Persistence) SaveExecution(_ context.Context, execution *models.Execution) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return writeOne(p.dir("executions"), execution.ID, execution)
}

func (p *Persistence) ExecutionByID(_ context.Context, id string) (*models.Execution, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	execution, err := readOne[models.Execution](p.dir("executions"), id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.ErrExecutionNotFound
	}

	return execution, err
}

func (p *Persistence) ExecutionsByWorkflowID(_ context.Context, workflowID string) ([]*models.Execution, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	all, err := listAll[models.Execution](p.dir("executions"))
	if err != nil {
		return nil, err
	}

	executions := make([]*models.Execution, 0, len(all))

	for _, execution := range all {
		if execution.WorkflowID == workflowID {
			executions = append(executions, execution)
		}
	}

	return executions, nil
}

func (p *Persistence) Tasks(_ context.Context) ([]*models.Task, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return listAll[models.Task](p.dir("tasks"))
}

func (p *Persistence) TaskByID(_ context.Context, id string) (*models.Task, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	task, err := readOne[models.Task](p.dir("tasks"), id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, persistence.ErrTaskNotFound
	}

	return task, err
}

func (p *Persistence) SaveTask(_ context.Context, task *models.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}

	task.UpdatedAt = now

	if task.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate task ID: %w", err)
		}

		task.ID = id.String()
	}

	return writeOne(p.dir("tasks"), task.ID, task)
}

func (p *Persistence) DeleteTask(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := os.Remove(filepath.Join(p.dir("tasks"), id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return persistence.ErrTaskNotFound
	}

	return err
}

func (p *Persistence) dir(kind string) string {
	return filepath.Join(p.root, kind)
}

func readOne[T any](dir, id string) (*T, error) {
	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		return nil, err
	}

	var record T

	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", id, err)
	}

	return &record, nil
}

func writeOne[T any](dir, id string, record T) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", id, err)
	}

	return os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644)
}

func listAll[T any](dir string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*T{}, nil
		}

		return nil, err
	}

	records := make([]*T, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		record, err := readOne[T](dir, id)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
