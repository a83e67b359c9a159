package apiserver_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskboard/internal/apiserver"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage/memory"
	"github.com/slok/taskboard/internal/storage/storagemock"
)

func newMemoryServer(t *testing.T) *apiserver.Server {
	i := 0
	repo, err := memory.NewRepository(memory.RepositoryConfig{
		Tasks: []model.Task{
			{ID: "1", Title: "Complete Project Proposal", Status: model.TaskStatusTodo, Assignee: "John Doe"},
			{ID: "2", Title: "Review Code Changes", Status: model.TaskStatusDone, Assignee: "Jane Smith"},
		},
		IDGen: func() string {
			i++
			return fmt.Sprintf("new-%d", i)
		},
	})
	require.NoError(t, err)

	srv, err := apiserver.NewServer(apiserver.ServerConfig{Repository: repo})
	require.NoError(t, err)
	return srv
}

func TestServer(t *testing.T) {
	tests := map[string]struct {
		method  string
		path    string
		body    string
		expCode int
		expBody string
	}{
		"Health check should be ok.": {
			method:  http.MethodGet,
			path:    "/healthz",
			expCode: http.StatusOK,
			expBody: `{"message":"ok"}`,
		},

		"Listing tasks should return all of them in order.": {
			method:  http.MethodGet,
			path:    "/tasks",
			expCode: http.StatusOK,
			expBody: `[
				{"id":"1","title":"Complete Project Proposal","description":"","status":"Todo","assignee":"John Doe"},
				{"id":"2","title":"Review Code Changes","description":"","status":"Done","assignee":"Jane Smith"}
			]`,
		},

		"Getting a task should return it.": {
			method:  http.MethodGet,
			path:    "/tasks/2",
			expCode: http.StatusOK,
			expBody: `{"id":"2","title":"Review Code Changes","description":"","status":"Done","assignee":"Jane Smith"}`,
		},

		"Getting a missing task should be not found.": {
			method:  http.MethodGet,
			path:    "/tasks/9",
			expCode: http.StatusNotFound,
		},

		"Creating a task should assign an ID.": {
			method:  http.MethodPost,
			path:    "/tasks",
			body:    `{"id":"ignored","title":"Write tests","status":"In Progress"}`,
			expCode: http.StatusCreated,
			expBody: `{"id":"new-1","title":"Write tests","description":"","status":"In Progress","assignee":""}`,
		},

		"Creating a task with an invalid status should be a bad request.": {
			method:  http.MethodPost,
			path:    "/tasks",
			body:    `{"title":"Write tests","status":"Archived"}`,
			expCode: http.StatusBadRequest,
		},

		"Creating a task with an invalid body should be a bad request.": {
			method:  http.MethodPost,
			path:    "/tasks",
			body:    `{"title":`,
			expCode: http.StatusBadRequest,
		},

		"Updating a task should replace it.": {
			method:  http.MethodPut,
			path:    "/tasks/1",
			body:    `{"title":"Complete Project Proposal","status":"In Progress","assignee":"John Doe"}`,
			expCode: http.StatusOK,
			expBody: `{"id":"1","title":"Complete Project Proposal","description":"","status":"In Progress","assignee":"John Doe"}`,
		},

		"Updating a task with a different body ID should be a bad request.": {
			method:  http.MethodPut,
			path:    "/tasks/1",
			body:    `{"id":"2","title":"x","status":"Todo"}`,
			expCode: http.StatusBadRequest,
		},

		"Updating a missing task should be not found.": {
			method:  http.MethodPut,
			path:    "/tasks/9",
			body:    `{"title":"x","status":"Todo"}`,
			expCode: http.StatusNotFound,
		},

		"Deleting a task should return no content.": {
			method:  http.MethodDelete,
			path:    "/tasks/1",
			expCode: http.StatusNoContent,
		},

		"Deleting a missing task should be not found.": {
			method:  http.MethodDelete,
			path:    "/tasks/9",
			expCode: http.StatusNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			srv := newMemoryServer(t)

			req := httptest.NewRequest(test.method, test.path, strings.NewReader(test.body))
			if test.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, test.expCode, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
			switch {
			case test.expBody != "":
				assert.JSONEq(t, test.expBody, rec.Body.String())
			case test.expCode >= 400:
				assert.Contains(t, rec.Body.String(), `"message"`)
			}
		})
	}
}

func TestServerStorageError(t *testing.T) {
	repo := storagemock.NewMockRepository(t)
	repo.On("ListTasks", mock.Anything).Once().Return(nil, fmt.Errorf("something: %w", model.ErrTransport))

	srv, err := apiserver.NewServer(apiserver.ServerConfig{Repository: repo})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"something: transport error"}`, rec.Body.String())
}

func TestServerCORS(t *testing.T) {
	srv := newMemoryServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestServerServe(t *testing.T) {
	srv := newMemoryServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errC:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServerWithoutRepository(t *testing.T) {
	_, err := apiserver.NewServer(apiserver.ServerConfig{})
	assert.Error(t, err)
}
