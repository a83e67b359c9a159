package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskboard/internal/apiserver"
	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage/memory"
)

type cli struct {
	t    *testing.T
	base []string
}

func (c cli) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	all := append([]string{"taskboard", "--no-log"}, c.base...)
	all = append(all, args...)
	err := Run(context.Background(), all, strings.NewReader(""), &stdout, &stderr)
	return stdout.String(), err
}

func (c cli) board() board.View {
	out, err := c.run("list", "--format", "json")
	require.NoError(c.t, err)

	var v board.View
	require.NoError(c.t, sonic.UnmarshalString(out, &v))
	return v
}

func (c cli) create(args ...string) model.Task {
	out, err := c.run(append([]string{"create", "--format", "json"}, args...)...)
	require.NoError(c.t, err)

	var task model.Task
	require.NoError(c.t, sonic.UnmarshalString(out, &task))
	return task
}

func ids(tasks []model.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func fileCLI(t *testing.T) cli {
	return cli{t: t, base: []string{"--backend", "file", "--data-dir", t.TempDir()}}
}

func TestFirstUseIsSeeded(t *testing.T) {
	c := fileCLI(t)

	v := c.board()
	assert.Equal(t, []string{"1748156922772"}, ids(v.Todo))
	assert.Equal(t, []string{"1748155388332", "1748155482752"}, ids(v.InProgress))
	assert.Equal(t, []string{"1", "2"}, ids(v.Done))
}

func TestTaskLifecycle(t *testing.T) {
	c := fileCLI(t)

	created := c.create("--title", "Write release notes", "--assignee", "Jane Smith")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, model.TaskStatusTodo, created.Status)
	assert.Contains(t, ids(c.board().Todo), created.ID)

	// Moving keeps the rest of the fields.
	out, err := c.run("update", created.ID, "--status", "InProgress", "--format", "json")
	require.NoError(t, err)
	var updated model.Task
	require.NoError(t, sonic.UnmarshalString(out, &updated))
	assert.Equal(t, model.TaskStatusInProgress, updated.Status)
	assert.Equal(t, "Jane Smith", updated.Assignee)

	v := c.board()
	assert.NotContains(t, ids(v.Todo), created.ID)
	inProgress := ids(v.InProgress)
	assert.Equal(t, created.ID, inProgress[len(inProgress)-1])

	out, err = c.run("show", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Status:       In Progress")

	out, err = c.run("rm", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Removed task: "+created.ID+"\n", out)
	assert.NotContains(t, ids(c.board().Tasks()), created.ID)
}

func TestListFilters(t *testing.T) {
	c := fileCLI(t)

	out, err := c.run("list", "--search", "DESIGN", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"todo": [],
		"inProgress": [],
		"done": [{"id":"2","title":"Design User Interface","description":"Create mockups and prototypes for the main dashboard.","status":"Done","assignee":"Jane Smith"}]
	}`, out)

	out, err = c.run("list", "--status", "In Progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Todo (0)")
	assert.Contains(t, out, "In Progress (2)")
	assert.Contains(t, out, "Done (0)")
}

func TestInvalidInput(t *testing.T) {
	tests := map[string]struct {
		args   []string
		expErr error
	}{
		"Creating a task with an unknown status should fail.": {
			args:   []string{"create", "--title", "x", "--status", "Archived"},
			expErr: model.ErrInvalidStatus,
		},
		"Listing an unknown status should fail.": {
			args:   []string{"list", "--status", "Archived"},
			expErr: model.ErrInvalidStatus,
		},
		"Updating a missing task should fail.": {
			args:   []string{"update", "missing", "--title", "x"},
			expErr: model.ErrNotFound,
		},
		"Showing a missing task should fail.": {
			args:   []string{"show", "missing"},
			expErr: model.ErrNotFound,
		},
		"Updating without fields should fail.": {
			args: []string{"update", "1"},
		},
		"Unknown commands should fail.": {
			args: []string{"archive", "1"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := fileCLI(t)
			before := c.board()

			_, err := c.run(test.args...)
			require.Error(t, err)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
			}
			assert.Equal(t, before, c.board())
		})
	}
}

func TestRemovingAMissingTaskIsNotAnError(t *testing.T) {
	c := fileCLI(t)

	_, err := c.run("rm", "missing")
	assert.NoError(t, err)
}

func TestBackends(t *testing.T) {
	tests := map[string]struct {
		cli func(t *testing.T) cli
	}{
		"redis": {
			cli: func(t *testing.T) cli {
				mr := miniredis.RunT(t)
				return cli{t: t, base: []string{"--backend", "redis", "--redis-addr", mr.Addr()}}
			},
		},
		"sqlite": {
			cli: func(t *testing.T) cli {
				return cli{t: t, base: []string{"--backend", "sqlite", "--data-dir", t.TempDir()}}
			},
		},
		"rest": {
			cli: func(t *testing.T) cli {
				repo, err := memory.NewRepository(memory.RepositoryConfig{})
				require.NoError(t, err)
				srv, err := apiserver.NewServer(apiserver.ServerConfig{Repository: repo})
				require.NoError(t, err)
				api := httptest.NewServer(srv.Handler())
				t.Cleanup(api.Close)
				return cli{t: t, base: []string{"--backend", "rest", "--api-url", api.URL}}
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := test.cli(t)

			created := c.create("--title", "Write release notes", "--status", "Done")
			assert.Contains(t, ids(c.board().Done), created.ID)

			_, err := c.run("update", created.ID, "--status", "Todo")
			require.NoError(t, err)
			v := c.board()
			assert.NotContains(t, ids(v.Done), created.ID)
			assert.Contains(t, ids(v.Todo), created.ID)

			_, err = c.run("rm", created.ID)
			require.NoError(t, err)
			assert.NotContains(t, ids(c.board().Tasks()), created.ID)
		})
	}
}

func TestUnreachableBackendFails(t *testing.T) {
	api := httptest.NewServer(nil)
	url := api.URL
	api.Close()

	c := cli{t: t, base: []string{"--backend", "rest", "--api-url", url}}
	_, err := c.run("list")
	assert.ErrorIs(t, err, model.ErrTransport)
}
