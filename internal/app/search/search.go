package search

import (
	"context"
	"fmt"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
)

// ServiceConfig is the configuration for the search service.
type ServiceConfig struct {
	Store  *board.Store
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Search"})

	return nil
}

// Service searches tasks on the board.
type Service struct {
	store  *board.Store
	logger log.Logger
}

// NewService creates a new search service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		store:  cfg.Store,
		logger: cfg.Logger,
	}, nil
}

// Request represents the search request parameters.
type Request struct {
	// Query matches the task titles, ignoring case. Empty matches everything.
	Query string
	// Status limits the result to one bucket.
	Status *model.TaskStatus
}

// Run returns the board view with the tasks that match the request.
func (s *Service) Run(ctx context.Context, req Request) (board.View, error) {
	if req.Status != nil && !model.IsValidTaskStatus(*req.Status) {
		return board.View{}, fmt.Errorf("task status %q: %w", *req.Status, model.ErrInvalidStatus)
	}

	view := board.Filter(s.store.View(), req.Query)
	if req.Status != nil {
		view = board.FilterStatus(view, *req.Status)
	}

	s.logger.Debugf("Search %q matched %d tasks", req.Query, view.Len())
	return view, nil
}
