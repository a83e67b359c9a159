// Package apiserver serves the tasks of a repository as a REST API. It is the
// API used by the REST storage, so a board can be shared between users.
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// ServerConfig is the configuration of the API server.
type ServerConfig struct {
	Repository storage.Repository
	// AllowOrigins are the CORS origins allowed, all by default.
	AllowOrigins []string
	Logger       log.Logger
}

func (c *ServerConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"*"}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "apiserver.Server"})
	return nil
}

// Server is the tasks REST API server.
type Server struct {
	echo   *echo.Echo
	repo   storage.Repository
	logger log.Logger
}

// NewServer returns a new API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Server{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(s.accessLog)

	e.GET("/healthz", s.healthz)
	e.GET("/tasks", s.listTasks)
	e.GET("/tasks/:id", s.getTask)
	e.POST("/tasks", s.createTask)
	e.PUT("/tasks/:id", s.updateTask)
	e.DELETE("/tasks/:id", s.deleteTask)

	s.echo = e

	return s, nil
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.echo }

// Serve serves the API on the listener until the context is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on %s", ln.Addr())
		errC <- srv.Serve(ln)
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Infof("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown server: %w", err)
	}

	return nil
}

// ListenAndServe listens on the address and serves the API until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Write the response so the logged status is the real one.
			c.Error(err)
		}

		req := c.Request()
		s.logger.WithValues(log.Kv{
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     c.Response().Status,
			"duration":   time.Since(start).String(),
			"request-id": c.Response().Header().Get(echo.HeaderXRequestID),
		}).Debugf("HTTP request handled")

		return nil
	}
}
