package load

import (
	"context"
	"fmt"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/storage"
)

// ServiceConfig is the configuration for the load service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Load"})

	return nil
}

// Service loads all the tasks of the repository into the board.
type Service struct {
	repo   storage.Repository
	store  *board.Store
	logger log.Logger
}

// NewService creates a new load service.
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

// Request represents the load request parameters.
type Request struct{}

// Run replaces the board with the tasks of the repository and returns the resulting view.
// If the repository fails the board is left untouched. Events committed while
// loading are kept on top of the loaded tasks.
func (s *Service) Run(ctx context.Context, req Request) (board.View, error) {
	ticket := s.store.Begin()

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		s.store.Cancel(ticket)
		return board.View{}, fmt.Errorf("could not list tasks: %w", err)
	}

	err = s.store.Commit(ticket, board.LoadEvent{Tasks: tasks})
	if err != nil {
		return board.View{}, fmt.Errorf("could not load tasks: %w", err)
	}
	s.logger.Debugf("Loaded %d tasks", len(tasks))

	return s.store.View(), nil
}
