package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage"
)

// ServiceConfig is the configuration for the remove service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Remove"})

	return nil
}

// Service removes tasks.
type Service struct {
	repo   storage.Repository
	store  *board.Store
	logger log.Logger
}

// NewService creates a new remove service.
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

// Request represents the remove request parameters.
type Request struct {
	ID string
}

// Run deletes a task from the repository and the board.
// A task missing on the repository is still removed from the board, so both converge.
func (s *Service) Run(ctx context.Context, req Request) error {
	if req.ID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	ticket := s.store.Begin()

	err := s.repo.DeleteTask(ctx, req.ID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.store.Cancel(ticket)
			return fmt.Errorf("could not delete task: %w", err)
		}
		s.logger.Debugf("Task %s was already missing on the repository", req.ID)
	}

	if err := s.store.Commit(ticket, board.DeleteEvent{ID: req.ID}); err != nil {
		return fmt.Errorf("could not delete task from the board: %w", err)
	}

	s.logger.Infof("Removed task: %s", req.ID)
	return nil
}
