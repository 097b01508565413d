// Package events defines the event types published on workflow execution and
// task lifecycle changes.
package events

import (
	"time"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

type EventType string

// Topic is the Kafka topic all taskflow events are published on.
const Topic = "taskflow.events"

const EventKeyMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "workflow.execution.started"
	ExecutionCompletedEvent EventType = "workflow.execution.completed"
	ExecutionFailedEvent    EventType = "workflow.execution.failed"

	TaskCreatedEvent EventType = "task.created"
	TaskUpdatedEvent EventType = "task.updated"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type ExecutionStarted struct {
	BaseEvent

	WorkflowID  string         `json:"workflow_id"`
	ExecutionID string         `json:"execution_id"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

func (e ExecutionStarted) GetType() EventType { return ExecutionStartedEvent }

type ExecutionCompleted struct {
	BaseEvent

	WorkflowID  string `json:"workflow_id"`
	ExecutionID string `json:"execution_id"`
}

func (e ExecutionCompleted) GetType() EventType { return ExecutionCompletedEvent }

type ExecutionFailed struct {
	BaseEvent

	WorkflowID  string `json:"workflow_id"`
	ExecutionID string `json:"execution_id"`
	Error       string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType { return ExecutionFailedEvent }

type TaskCreated struct {
	BaseEvent

	Task *models.Task `json:"task"`
}

func (e TaskCreated) GetType() EventType { return TaskCreatedEvent }

type TaskUpdated struct {
	BaseEvent

	Task *models.Task `json:"task"`
}

func (e TaskUpdated) GetType() EventType { return TaskUpdatedEvent }
