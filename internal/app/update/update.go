package update

import (
	"context"
	"fmt"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage"
)

// ServiceConfig is the configuration for the update service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Update"})

	return nil
}

// Service updates tasks, moving them between buckets when the status changes.
type Service struct {
	repo   storage.Repository
	store  *board.Store
	logger log.Logger
}

// NewService creates a new update service.
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

// Request represents the update request parameters. Nil fields are not changed.
type Request struct {
	ID          string
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Assignee    *string
}

// Run updates a task. The current task is taken from the board, or from the
// repository when the board doesn't have it.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	if req.Status != nil && !model.IsValidTaskStatus(*req.Status) {
		return nil, fmt.Errorf("task status %q: %w", *req.Status, model.ErrInvalidStatus)
	}

	task, ok := s.store.View().Find(req.ID)
	if !ok {
		s.logger.Debugf("Task %s is not on the board, getting it from the repository", req.ID)
		current, err := s.repo.GetTask(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("could not get task: %w", err)
		}
		task = *current
	}

	from := task.Status
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Assignee != nil {
		task.Assignee = *req.Assignee
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	ticket := s.store.Begin()

	updated, err := s.repo.UpdateTask(ctx, task)
	if err != nil {
		s.store.Cancel(ticket)
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	if err := s.store.Commit(ticket, board.UpdateEvent{Task: *updated}); err != nil {
		return nil, fmt.Errorf("task %s was stored but could not be updated on the board: %w", updated.ID, err)
	}

	if from != updated.Status {
		s.logger.Infof("Moved task %s from %q to %q", updated.ID, from, updated.Status)
	} else {
		s.logger.Infof("Updated task %s", updated.ID)
	}
	return updated, nil
}
