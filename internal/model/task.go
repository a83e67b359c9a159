package model

import (
	"fmt"
	"strings"
)

// TaskStatus represents the board column a task belongs to.
type TaskStatus string

const (
	// TaskStatusTodo is the status of tasks that have not been started.
	TaskStatusTodo TaskStatus = "Todo"
	// TaskStatusInProgress is the status of tasks being worked on.
	TaskStatusInProgress TaskStatus = "In Progress"
	// TaskStatusDone is the status of finished tasks.
	TaskStatusDone TaskStatus = "Done"
)

// taskStatusInProgressKey is the compact spelling of TaskStatusInProgress
// used as a bucket key by some clients.
const taskStatusInProgressKey = "InProgress"

// TaskStatuses returns all the valid statuses in board order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}
}

// IsValidTaskStatus returns true if the status is one of the known statuses.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus parses a status string. The compact `InProgress` spelling is
// accepted and normalized, any other unknown value is rejected.
func ParseTaskStatus(s string) (TaskStatus, error) {
	s = strings.TrimSpace(s)
	if s == taskStatusInProgressKey {
		return TaskStatusInProgress, nil
	}

	status := TaskStatus(s)
	if !IsValidTaskStatus(status) {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
	}

	return status, nil
}

// Task represents a single tracked unit of work.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Assignee    string     `json:"assignee"`
}

// Validate validates the task fields, the ID is not checked because
// it's assigned by the storage on creation.
func (t Task) Validate() error {
	if !IsValidTaskStatus(t.Status) {
		return fmt.Errorf("task status %q: %w", t.Status, ErrInvalidStatus)
	}

	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrNotValid)
	}

	return nil
}
