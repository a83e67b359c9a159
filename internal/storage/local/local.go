// Package local implements the task storage used by single user setups: the
// whole task collection is kept as a JSON array under a single key of a
// key-value store, and rewritten on every change.
package local

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid/v2"

	"github.com/slok/taskboard/internal/conventions"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
)

// DefaultKey is the key used to store the tasks when none is configured.
const DefaultKey = conventions.StorageKey

// KV is a minimal key-value store.
type KV interface {
	// Get returns the value of the key, false if the key is missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// RepositoryConfig is the configuration for the local repository.
type RepositoryConfig struct {
	KV  KV
	Key string
	// Seed is stored when the key is missing.
	Seed []model.Task
	// IDGen generates the IDs of created tasks, ULIDs by default.
	IDGen  func() string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.KV == nil {
		return fmt.Errorf("kv is required")
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.IDGen == nil {
		c.IDGen = func() string { return ulid.Make().String() }
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Local", "key": c.Key})
	return nil
}

// Repository is a key-value store implementation of storage.Repository.
type Repository struct {
	kv     KV
	key    string
	seed   []model.Task
	idGen  func() string
	mu     sync.Mutex
	logger log.Logger
}

// NewRepository creates a new local repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		kv:     cfg.KV,
		key:    cfg.Key,
		seed:   slices.Clone(cfg.Seed),
		idGen:  cfg.IDGen,
		logger: cfg.Logger,
	}, nil
}

// ListTasks returns all stored tasks. Stored records are returned as they are,
// even with unknown statuses.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := index(tasks, id)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	return &tasks[i], nil
}

// CreateTask creates a new task with a generated ID.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	t.ID = r.idGen()
	if index(tasks, t.ID) >= 0 {
		return nil, fmt.Errorf("task %s: %w", t.ID, model.ErrAlreadyExists)
	}

	if err := r.save(ctx, append(tasks, t)); err != nil {
		return nil, err
	}
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

	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := index(tasks, t.ID)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}
	tasks[i] = t

	if err := r.save(ctx, tasks); err != nil {
		return nil, err
	}
	r.logger.Debugf("Updated task in repository: %s", t.ID)

	return &t, nil
}

// DeleteTask deletes a task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return err
	}

	i := index(tasks, id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	if err := r.save(ctx, slices.Delete(tasks, i, i+1)); err != nil {
		return err
	}
	r.logger.Debugf("Deleted task from repository: %s", id)

	return nil
}

// load reads the task collection, storing the seed if the key is missing.
func (r *Repository) load(ctx context.Context) ([]model.Task, error) {
	data, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("could not read tasks: %w: %w", model.ErrTransport, err)
	}

	if !ok {
		tasks := slices.Clone(r.seed)
		if tasks == nil {
			tasks = []model.Task{}
		}
		if len(tasks) > 0 {
			if err := r.save(ctx, tasks); err != nil {
				return nil, fmt.Errorf("could not seed tasks: %w", err)
			}
			r.logger.Infof("Seeded storage with %d tasks", len(tasks))
		}
		return tasks, nil
	}

	tasks := []model.Task{}
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("could not decode tasks: %w: %w", model.ErrTransport, err)
	}

	return tasks, nil
}

func (r *Repository) save(ctx context.Context, tasks []model.Task) error {
	data, err := sonic.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("could not encode tasks: %w", err)
	}

	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("could not write tasks: %w: %w", model.ErrTransport, err)
	}

	return nil
}

func index(tasks []model.Task, id string) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}
