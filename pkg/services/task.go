// Package services holds the application services sitting between the HTTP
// layer / workflow executors and persistence.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pepperonas/taskflow-platform/pkg/eventbus"
	"github.com/pepperonas/taskflow-platform/pkg/events"
	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/persistence"
)

// Task implements the task collaborator used by the createTask and updateTask
// executors and backs the task REST endpoints.
type Task struct {
	persistence persistence.Persistence
	validator   *validator.Validate
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

// NewTask creates a task service. publisher may be nil; task events are then
// not emitted.
func NewTask(
	logger *slog.Logger,
	persistence persistence.Persistence,
	validate *validator.Validate,
	publisher eventbus.EventPublisher,
) *Task {
	return &Task{
		persistence: persistence,
		validator:   validate,
		publisher:   publisher,
		logger:      logger,
	}
}

// List returns all tasks.
func (s *Task) List(ctx context.Context) ([]*models.Task, error) {
	return s.persistence.Tasks(ctx)
}

// FetchByID returns a task by ID.
func (s *Task) FetchByID(ctx context.Context, id string) (*models.Task, error) {
	return s.persistence.TaskByID(ctx, id)
}

// Create validates and persists a new task and publishes a task.created event.
func (s *Task) Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if err := s.validator.Struct(draft); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	task := &models.Task{
		Title:       draft.Title,
		Description: draft.Description,
		Status:      models.TaskStatusOpen,
		Priority:    draft.Priority,
		Category:    draft.Category,
		AssigneeID:  draft.AssigneeID,
		DueDate:     draft.DueDate,
		Tags:        draft.Tags,
	}

	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	if task.Category == "" {
		task.Category = models.TaskCategoryOther
	}

	if err := s.persistence.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.publish(ctx, task.ID, events.TaskCreated{
		BaseEvent: newBaseEvent(events.TaskCreatedEvent),
		Task:      task,
	})

	return task, nil
}

// Update applies a partial update to an existing task and publishes a
// task.updated event.
func (s *Task) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.persistence.TaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatch(task, patch)

	if err := s.validator.Struct(task); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	if err := s.persistence.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.publish(ctx, task.ID, events.TaskUpdated{
		BaseEvent: newBaseEvent(events.TaskUpdatedEvent),
		Task:      task,
	})

	return task, nil
}

// Delete removes a task.
func (s *Task) Delete(ctx context.Context, id string) error {
	return s.persistence.DeleteTask(ctx, id)
}

func applyPatch(task *models.Task, patch models.TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}

	if patch.Description != nil {
		task.Description = *patch.Description
	}

	if patch.Status != nil {
		task.Status = *patch.Status

		if *patch.Status == models.TaskStatusCompleted && task.CompletedAt == nil {
			now := time.Now().UTC()
			task.CompletedAt = &now
		}
	}

	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}

	if patch.Category != nil {
		task.Category = *patch.Category
	}

	if patch.AssigneeID != nil {
		task.AssigneeID = *patch.AssigneeID
	}

	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if patch.Tags != nil {
		task.Tags = patch.Tags
	}
}

func (s *Task) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish task event", "type", event.GetType(), "error", err)
	}
}

func newBaseEvent(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}
