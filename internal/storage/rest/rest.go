// Package rest implements the task storage over a REST API that exposes the
// tasks as a `/tasks` collection resource.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
)

// DefaultURL is the API used when none is configured.
const DefaultURL = "http://127.0.0.1:8080"

// RepositoryConfig is the configuration for the REST repository.
type RepositoryConfig struct {
	// URL is the base URL of the API, the tasks are under `{URL}/tasks`.
	URL        string
	HTTPClient *http.Client
	Logger     log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url scheme %q", u.Scheme)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.REST"})
	return nil
}

// Repository is a REST API implementation of storage.Repository.
type Repository struct {
	baseURL    string
	httpClient *http.Client
	logger     log.Logger
}

// NewRepository creates a new REST repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		baseURL:    strings.TrimRight(cfg.URL, "/") + "/tasks",
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}, nil
}

// ListTasks returns all the tasks of the API.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := r.do(ctx, http.MethodGet, "", nil, &tasks); err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	if err := r.do(ctx, http.MethodGet, id, nil, &t); err != nil {
		return nil, fmt.Errorf("could not get task %s: %w", id, err)
	}

	return &t, nil
}

// CreateTask creates a task, the ID is assigned by the API.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	t.ID = ""
	var created model.Task
	if err := r.do(ctx, http.MethodPost, "", t, &created); err != nil {
		return nil, fmt.Errorf("could not create task: %w", err)
	}

	if created.ID == "" {
		return nil, fmt.Errorf("api returned a task without ID: %w", model.ErrTransport)
	}
	r.logger.Debugf("Created task on API: %s", created.ID)

	return &created, nil
}

// UpdateTask replaces an existing task and returns the stored record.
func (r *Repository) UpdateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	if t.ID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	var updated model.Task
	if err := r.do(ctx, http.MethodPut, t.ID, t, &updated); err != nil {
		return nil, fmt.Errorf("could not update task %s: %w", t.ID, err)
	}
	r.logger.Debugf("Updated task on API: %s", t.ID)

	return &updated, nil
}

// DeleteTask deletes a task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	if err := r.do(ctx, http.MethodDelete, id, nil, nil); err != nil {
		return fmt.Errorf("could not delete task %s: %w", id, err)
	}
	r.logger.Debugf("Deleted task on API: %s", id)

	return nil
}

// apiError is the error body returned by the API.
type apiError struct {
	Message string `json:"message"`
}

func (r *Repository) do(ctx context.Context, method, id string, in, out any) error {
	u := r.baseURL
	if id != "" {
		u += "/" + url.PathEscape(id)
	}

	var body io.Reader
	if in != nil {
		data, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w: %w", model.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not decode response: %w: %w", model.ErrTransport, err)
	}

	return nil
}

func statusError(code int, body []byte) error {
	msg := http.StatusText(code)
	var apiErr apiError
	if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	var kind error
	switch code {
	case http.StatusNotFound:
		kind = model.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = model.ErrNotValid
	case http.StatusConflict:
		kind = model.ErrAlreadyExists
	default:
		kind = model.ErrTransport
	}

	return fmt.Errorf("api responded %d (%s): %w", code, msg, kind)
}
