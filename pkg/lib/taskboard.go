package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/taskboard/internal/app/create"
	"github.com/slok/taskboard/internal/app/load"
	"github.com/slok/taskboard/internal/app/remove"
	"github.com/slok/taskboard/internal/app/search"
	"github.com/slok/taskboard/internal/app/update"
	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/conventions"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage"
	storageio "github.com/slok/taskboard/internal/storage/io"
	"github.com/slok/taskboard/internal/storage/local"
	"github.com/slok/taskboard/internal/storage/memory"
	"github.com/slok/taskboard/internal/storage/rest"
	"github.com/slok/taskboard/internal/storage/sqlite"
	"github.com/slok/taskboard/pkg/lib/log"
)

// Backend identifies where the tasks are stored.
type Backend string

const (
	// BackendFile stores the tasks as a JSON file in the data directory.
	BackendFile Backend = "file"
	// BackendSQLite stores the tasks in a SQLite database.
	BackendSQLite Backend = "sqlite"
	// BackendREST uses a tasks REST API.
	BackendREST Backend = "rest"
	// BackendMemory keeps the tasks in memory, they are lost on Close.
	BackendMemory Backend = "memory"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use ~/.taskboard/tasks.json for storage.
type Config struct {
	// Backend is the task storage.
	// Default: [BackendFile].
	Backend Backend

	// DataDir is the directory of the file and SQLite backends.
	// Default: ~/.taskboard.
	DataDir string

	// DBPath is the SQLite database path.
	// Default: ~/.taskboard/taskboard.db.
	DBPath string

	// APIURL is the tasks API of the REST backend.
	// Default: http://127.0.0.1:8080.
	APIURL string

	// Seed are the initial tasks of an empty file or memory storage.
	// Default: sample tasks.
	Seed []Task

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Backend == "" {
		c.Backend = BackendFile
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, conventions.DefaultDataDir)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	if c.APIURL == "" {
		c.APIURL = rest.DefaultURL
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

func (c Config) seed(ctx context.Context) ([]model.Task, error) {
	if c.Seed == nil {
		return storageio.DefaultSeed(ctx)
	}

	tasks := make([]model.Task, 0, len(c.Seed))
	for _, t := range c.Seed {
		status, err := model.ParseTaskStatus(string(t.Status))
		if err != nil {
			return nil, fmt.Errorf("invalid seed task %q: %w", t.ID, err)
		}
		tasks = append(tasks, model.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      status,
			Assignee:    t.Assignee,
		})
	}
	return tasks, nil
}

// Client is the main SDK entry point for managing a board programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	repo    storage.Repository
	store   *board.Store
	logger  log.Logger
	closeFn func() error
}

// New creates a new SDK client and loads the board.
//
// The caller must call [Client.Close] when done to release the storage. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, closeFn, err := newRepository(ctx, cfg)
	if err != nil {
		return nil, mapError(err)
	}

	store, err := board.NewStore(board.StoreConfig{Logger: cfg.Logger})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	c := &Client{
		repo:    repo,
		store:   store,
		logger:  cfg.Logger,
		closeFn: closeFn,
	}

	if _, err := c.Reload(ctx); err != nil {
		_ = closeFn()
		return nil, err
	}

	return c, nil
}

func newRepository(ctx context.Context, cfg Config) (storage.Repository, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.Backend {
	case BackendFile, BackendMemory:
		seed, err := cfg.seed(ctx)
		if err != nil {
			return nil, nil, err
		}

		if cfg.Backend == BackendMemory {
			repo, err := memory.NewRepository(memory.RepositoryConfig{Tasks: seed, Logger: cfg.Logger})
			if err != nil {
				return nil, nil, fmt.Errorf("could not create repository: %w", err)
			}
			return repo, noClose, nil
		}

		kv, err := local.NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("could not create key-value store: %w", err)
		}
		repo, err := local.NewRepository(local.RepositoryConfig{KV: kv, Seed: seed, Logger: cfg.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, noClose, nil

	case BackendSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: cfg.DBPath, Logger: cfg.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, repo.Close, nil

	case BackendREST:
		repo, err := rest.NewRepository(rest.RepositoryConfig{URL: cfg.APIURL, Logger: cfg.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, noClose, nil
	}

	return nil, nil, fmt.Errorf("unsupported backend: %s: %w", cfg.Backend, ErrNotValid)
}

// Close releases resources held by the client.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// Reload replaces the board with the tasks of the storage.
// On error, the board is left as it was.
func (c *Client) Reload(ctx context.Context) (*Board, error) {
	svc, err := load.NewService(load.ServiceConfig{Repository: c.repo, Store: c.store, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	view, err := svc.Run(ctx, load.Request{})
	if err != nil {
		return nil, mapError(err)
	}

	b := fromInternalView(view)
	return &b, nil
}

// BoardOpts filters the board.
type BoardOpts struct {
	// Search keeps the tasks whose title contains it, ignoring case.
	Search string
	// Status keeps only one column.
	Status *TaskStatus
}

// Board returns the current board. It doesn't reach the storage, use
// [Client.Reload] for that.
//
// Returns [ErrInvalidStatus] if the status filter is unknown.
func (c *Client) Board(ctx context.Context, opts *BoardOpts) (*Board, error) {
	req := search.Request{}
	if opts != nil {
		req.Query = opts.Search
		req.Status = toInternalStatus(opts.Status)
	}

	svc, err := search.NewService(search.ServiceConfig{Store: c.store, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	view, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	b := fromInternalView(view)
	return &b, nil
}

// GetTask returns a task of the board.
//
// Returns [ErrNotFound] if the board doesn't have it.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	t, ok := c.store.View().Find(id)
	if !ok {
		return nil, mapError(fmt.Errorf("task %s: %w", id, model.ErrNotFound))
	}

	task := fromInternalTask(t)
	return &task, nil
}

// CreateTaskOpts are the fields of a new task.
type CreateTaskOpts struct {
	Title       string
	Description string
	// Status defaults to [TaskStatusTodo].
	Status   TaskStatus
	Assignee string
}

// CreateTask stores a new task and adds it to the tail of its column.
//
// Returns [ErrInvalidStatus] or [ErrNotValid] without reaching the storage when the task is not valid.
func (c *Client) CreateTask(ctx context.Context, opts CreateTaskOpts) (*Task, error) {
	svc, err := create.NewService(create.ServiceConfig{Repository: c.repo, Store: c.store, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, create.Request{
		Title:       opts.Title,
		Description: opts.Description,
		Status:      model.TaskStatus(opts.Status),
		Assignee:    opts.Assignee,
	})
	if err != nil {
		return nil, mapError(err)
	}

	task := fromInternalTask(*t)
	return &task, nil
}

// UpdateTaskOpts are the task fields to change, nil fields are kept.
type UpdateTaskOpts struct {
	Title       *string
	Description *string
	// Status moves the task to the tail of the new column.
	Status   *TaskStatus
	Assignee *string
}

// UpdateTask changes a task.
//
// Returns [ErrNotFound] if the task does not exist.
func (c *Client) UpdateTask(ctx context.Context, id string, opts UpdateTaskOpts) (*Task, error) {
	svc, err := update.NewService(update.ServiceConfig{Repository: c.repo, Store: c.store, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, update.Request{
		ID:          id,
		Title:       opts.Title,
		Description: opts.Description,
		Status:      toInternalStatus(opts.Status),
		Assignee:    opts.Assignee,
	})
	if err != nil {
		return nil, mapError(err)
	}

	task := fromInternalTask(*t)
	return &task, nil
}

// RemoveTask deletes a task. Removing a missing task is not an error.
func (c *Client) RemoveTask(ctx context.Context, id string) error {
	svc, err := remove.NewService(remove.ServiceConfig{Repository: c.repo, Store: c.store, Logger: c.logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	return mapError(svc.Run(ctx, remove.Request{ID: id}))
}
