package storage

import (
	"context"

	"github.com/slok/taskboard/internal/model"
)

// Repository is the task gateway, it fetches and persists the flat task collection.
//
// Implementations return model.ErrNotFound for missing tasks, and wrap
// network or storage failures with model.ErrTransport.
type Repository interface {
	// ListTasks returns all the tasks in insertion order.
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	// CreateTask stores a new task and returns it with the generated ID.
	CreateTask(ctx context.Context, t model.Task) (*model.Task, error)
	// UpdateTask replaces a stored task and returns the stored version.
	UpdateTask(ctx context.Context, t model.Task) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
