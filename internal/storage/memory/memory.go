package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// Tasks are the initial tasks of the repository.
	Tasks []model.Task
	// IDGen generates the IDs of created tasks, ULIDs by default.
	IDGen  func() string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.IDGen == nil {
		c.IDGen = func() string { return ulid.Make().String() }
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	tasks  []model.Task
	idGen  func() string
	mu     sync.RWMutex
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r := &Repository{
		tasks:  make([]model.Task, 0, len(cfg.Tasks)),
		idGen:  cfg.IDGen,
		logger: cfg.Logger,
	}
	for _, t := range cfg.Tasks {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid initial task %q: %w", t.ID, err)
		}
		if r.index(t.ID) >= 0 {
			return nil, fmt.Errorf("initial task with id %s: %w", t.ID, model.ErrAlreadyExists)
		}
		r.tasks = append(r.tasks, t)
	}

	return r, nil
}

// ListTasks returns all tasks.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.tasks), nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	// Return a copy
	taskCopy := r.tasks[i]
	return &taskCopy, nil
}

// CreateTask creates a new task with a generated ID.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.idGen()
	if r.index(t.ID) >= 0 {
		return nil, fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
	}

	r.tasks = append(r.tasks, t)
	r.logger.Debugf("Created task in repository: %s", t.ID)

	return &t, nil
}

// UpdateTask updates an existing task.
func (r *Repository) UpdateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(t.ID)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}

	r.tasks[i] = t
	r.logger.Debugf("Updated task in repository: %s", t.ID)

	return &t, nil
}

// DeleteTask deletes a task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	r.tasks = slices.Delete(r.tasks, i, i+1)
	r.logger.Debugf("Deleted task from repository: %s", id)

	return nil
}

func (r *Repository) index(id string) int {
	return slices.IndexFunc(r.tasks, func(t model.Task) bool { return t.ID == id })
}
