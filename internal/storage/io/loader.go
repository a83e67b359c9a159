package io

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/taskboard/internal/model"
)

//go:embed seed/default.yaml
var seedFS embed.FS

const defaultSeedPath = "seed/default.yaml"

// TaskYAMLRepository loads task collections from YAML files.
type TaskYAMLRepository struct {
	fs fs.FS
}

// NewTaskYAMLRepository creates a new YAML task repository.
func NewTaskYAMLRepository(filesystem fs.FS) *TaskYAMLRepository {
	return &TaskYAMLRepository{fs: filesystem}
}

// DefaultSeed returns the embedded initial board.
func DefaultSeed(ctx context.Context) ([]model.Task, error) {
	return NewTaskYAMLRepository(seedFS).ListTasks(ctx, defaultSeedPath)
}

// ListTasks loads the tasks from a YAML file and returns validated domain models.
func (r *TaskYAMLRepository) ListTasks(ctx context.Context, path string) ([]model.Task, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var file TasksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	tasks, err := file.toModel()
	if err != nil {
		return nil, fmt.Errorf("invalid tasks file: %w", err)
	}

	return tasks, nil
}

// TasksFile represents the YAML structure of a tasks file.
type TasksFile struct {
	Tasks []Task `yaml:"tasks"`
}

// Task represents the YAML structure of a task.
type Task struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Assignee    string `yaml:"assignee"`
}

func (f TasksFile) toModel() ([]model.Task, error) {
	seen := map[string]bool{}
	tasks := make([]model.Task, 0, len(f.Tasks))
	for i, t := range f.Tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("task %d: id is required: %w", i, model.ErrNotValid)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("task %s: %w", t.ID, model.ErrAlreadyExists)
		}
		seen[t.ID] = true

		status, err := model.ParseTaskStatus(t.Status)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}

		mt := model.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      status,
			Assignee:    t.Assignee,
		}
		if err := mt.Validate(); err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		tasks = append(tasks, mt)
	}

	return tasks, nil
}
