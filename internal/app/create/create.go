package create

import (
	"context"
	"fmt"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage"
)

// ServiceConfig is the configuration for the create service.
type ServiceConfig struct {
	Repository storage.Repository
	Store      *board.Store
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Store == nil {
		return fmt.Errorf("store is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Create"})

	return nil
}

// Service creates tasks.
type Service struct {
	repo   storage.Repository
	store  *board.Store
	logger log.Logger
}

// NewService creates a new create service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		store:  cfg.Store,
		logger: cfg.Logger,
	}, nil
}

// Request represents the create request parameters.
type Request struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Assignee    string
}

// Run stores a new task and adds it to the board.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	task := model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Assignee:    req.Assignee,
	}
	if task.Status == "" {
		task.Status = model.TaskStatusTodo
	}

	// Invalid tasks never reach the repository.
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	ticket := s.store.Begin()

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		s.store.Cancel(ticket)
		return nil, fmt.Errorf("could not create task: %w", err)
	}

	if err := s.store.Commit(ticket, board.CreateEvent{Task: *created}); err != nil {
		return nil, fmt.Errorf("task %s was stored but could not be added to the board: %w", created.ID, err)
	}

	s.logger.Infof("Created task: %s (ID: %s)", created.Title, created.ID)
	return created, nil
}
