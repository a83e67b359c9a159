// Package storagetest has the behavior tests that every storage.Repository
// implementation must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage"
)

// NewRepository returns a new empty repository for a test.
type NewRepository func(t *testing.T) storage.Repository

func taskFixture(title string, status model.TaskStatus) model.Task {
	return model.Task{
		Title:       title,
		Description: "Description of " + title,
		Status:      status,
		Assignee:    "Jane Smith",
	}
}

// TestRepository runs the repository behavior tests.
func TestRepository(t *testing.T, newRepo NewRepository) {
	tests := map[string]struct {
		actions func(ctx context.Context, t *testing.T, repo storage.Repository)
	}{
		"Listing an empty repository should return no tasks.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				assert.Empty(t, tasks)
			},
		},

		"Creating a task should generate an ID and store it.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				created, err := repo.CreateTask(ctx, taskFixture("Design User Interface", model.TaskStatusDone))
				require.NoError(t, err)
				require.NotEmpty(t, created.ID)

				got, err := repo.GetTask(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, *created, *got)
				assert.Equal(t, "Design User Interface", got.Title)
				assert.Equal(t, model.TaskStatusDone, got.Status)
			},
		},

		"Creating tasks should generate unique IDs and list them in insertion order.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				var expIDs []string
				for _, title := range []string{"a", "b", "c", "d"} {
					created, err := repo.CreateTask(ctx, taskFixture(title, model.TaskStatusTodo))
					require.NoError(t, err)
					expIDs = append(expIDs, created.ID)
				}

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				gotIDs := []string{}
				for _, tk := range tasks {
					gotIDs = append(gotIDs, tk.ID)
				}
				assert.Equal(t, expIDs, gotIDs)
			},
		},

		"Creating a task with an invalid status should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				_, err := repo.CreateTask(ctx, taskFixture("a", "Archived"))
				assert.ErrorIs(t, err, model.ErrInvalidStatus)

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				assert.Empty(t, tasks)
			},
		},

		"Creating a task without title should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				_, err := repo.CreateTask(ctx, taskFixture("", model.TaskStatusTodo))
				assert.ErrorIs(t, err, model.ErrNotValid)
			},
		},

		"Getting a missing task should fail with not found.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				_, err := repo.GetTask(ctx, "missing")
				assert.ErrorIs(t, err, model.ErrNotFound)
			},
		},

		"Updating a task should replace all its fields and keep its position.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				first, err := repo.CreateTask(ctx, taskFixture("a", model.TaskStatusTodo))
				require.NoError(t, err)
				second, err := repo.CreateTask(ctx, taskFixture("b", model.TaskStatusTodo))
				require.NoError(t, err)

				upd := model.Task{ID: first.ID, Title: "a2", Status: model.TaskStatusInProgress}
				got, err := repo.UpdateTask(ctx, upd)
				require.NoError(t, err)
				assert.Equal(t, upd, *got)

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				assert.Equal(t, []model.Task{upd, *second}, tasks)
			},
		},

		"Updating a missing task should fail with not found.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				_, err := repo.UpdateTask(ctx, model.Task{ID: "missing", Title: "a", Status: model.TaskStatusTodo})
				assert.ErrorIs(t, err, model.ErrNotFound)
			},
		},

		"Updating a task with an invalid status should fail and keep the stored one.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				created, err := repo.CreateTask(ctx, taskFixture("a", model.TaskStatusTodo))
				require.NoError(t, err)

				upd := *created
				upd.Status = "Archived"
				_, err = repo.UpdateTask(ctx, upd)
				assert.ErrorIs(t, err, model.ErrInvalidStatus)

				got, err := repo.GetTask(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, model.TaskStatusTodo, got.Status)
			},
		},

		"Deleting a task should remove it.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				first, err := repo.CreateTask(ctx, taskFixture("a", model.TaskStatusTodo))
				require.NoError(t, err)
				second, err := repo.CreateTask(ctx, taskFixture("b", model.TaskStatusDone))
				require.NoError(t, err)

				require.NoError(t, repo.DeleteTask(ctx, first.ID))

				_, err = repo.GetTask(ctx, first.ID)
				assert.ErrorIs(t, err, model.ErrNotFound)
				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				assert.Equal(t, []model.Task{*second}, tasks)
			},
		},

		"Deleting a missing task should fail with not found.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) {
				err := repo.DeleteTask(ctx, "missing")
				assert.ErrorIs(t, err, model.ErrNotFound)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.actions(context.Background(), t, newRepo(t))
		})
	}
}
