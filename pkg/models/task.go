package models

import "time"

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusArchived   TaskStatus = "ARCHIVED"
)

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "LOW"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityCritical TaskPriority = "CRITICAL"
)

type TaskCategory string

const (
	TaskCategoryPersonal  TaskCategory = "PERSONAL"
	TaskCategoryWork      TaskCategory = "WORK"
	TaskCategoryShopping  TaskCategory = "SHOPPING"
	TaskCategoryHealth    TaskCategory = "HEALTH"
	TaskCategoryEducation TaskCategory = "EDUCATION"
	TaskCategoryOther     TaskCategory = "OTHER"
)

// Task is the unit of work the createTask/updateTask workflow nodes operate on.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"       validate:"required,min=1"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Category    TaskCategory `json:"category"`
	AssigneeID  string       `json:"assignee_id,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// TaskDraft is the shape accepted when creating a task.
type TaskDraft struct {
	Title       string       `json:"title"       validate:"required,min=1"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Category    TaskCategory `json:"category"`
	AssigneeID  string       `json:"assignee_id,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Category    *TaskCategory `json:"category,omitempty"`
	AssigneeID  *string       `json:"assignee_id,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
}
