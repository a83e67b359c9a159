package update_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskboard/internal/app/update"
	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config update.ServiceConfig
		expErr bool
	}{
		"valid config": {
			config: update.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Store:      &board.Store{},
			},
		},
		"missing repository": {
			config: update.ServiceConfig{Store: &board.Store{}},
			expErr: true,
		},
		"missing store": {
			config: update.ServiceConfig{Repository: &storagemock.MockRepository{}},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			svc, err := update.NewService(test.config)
			if test.expErr {
				require.Error(err)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestService_Run(t *testing.T) {
	proposal := model.Task{ID: "1", Title: "Complete Project Proposal", Description: "Draft", Status: model.TaskStatusTodo, Assignee: "John Doe"}
	review := model.Task{ID: "2", Title: "Review Code Changes", Status: model.TaskStatusDone}

	tests := map[string]struct {
		mockRepo      func(m *storagemock.MockRepository)
		req           update.Request
		expTask       *model.Task
		expTodo       []string
		expInProgress []string
		expDone       []string
		expErr        error
	}{
		"changing the status moves the task": {
			mockRepo: func(m *storagemock.MockRepository) {
				exp := proposal
				exp.Status = model.TaskStatusInProgress
				m.On("UpdateTask", mock.Anything, exp).Once().Return(&exp, nil)
			},
			req: update.Request{ID: "1", Status: ptr(model.TaskStatusInProgress)},
			expTask: &model.Task{
				ID: "1", Title: "Complete Project Proposal", Description: "Draft",
				Status: model.TaskStatusInProgress, Assignee: "John Doe",
			},
			expTodo:       []string{},
			expInProgress: []string{"1"},
			expDone:       []string{"2"},
		},
		"only the given fields change": {
			mockRepo: func(m *storagemock.MockRepository) {
				exp := proposal
				exp.Assignee = "Jane Smith"
				exp.Description = ""
				m.On("UpdateTask", mock.Anything, exp).Once().Return(&exp, nil)
			},
			req: update.Request{ID: "1", Assignee: ptr("Jane Smith"), Description: ptr("")},
			expTask: &model.Task{
				ID: "1", Title: "Complete Project Proposal", Status: model.TaskStatusTodo, Assignee: "Jane Smith",
			},
			expTodo:       []string{"1"},
			expInProgress: []string{},
			expDone:       []string{"2"},
		},
		"a task missing on the board is taken from the repository": {
			mockRepo: func(m *storagemock.MockRepository) {
				other := model.Task{ID: "3", Title: "Other", Status: model.TaskStatusTodo}
				m.On("GetTask", mock.Anything, "3").Once().Return(&other, nil)
				exp := other
				exp.Status = model.TaskStatusDone
				m.On("UpdateTask", mock.Anything, exp).Once().Return(&exp, nil)
			},
			req:           update.Request{ID: "3", Status: ptr(model.TaskStatusDone)},
			expTask:       &model.Task{ID: "3", Title: "Other", Status: model.TaskStatusDone},
			expTodo:       []string{"1"},
			expInProgress: []string{},
			expDone:       []string{"2", "3"},
		},
		"a missing task is not found": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("GetTask", mock.Anything, "9").Once().Return(nil, fmt.Errorf("task 9: %w", model.ErrNotFound))
			},
			req:           update.Request{ID: "9", Title: ptr("x")},
			expTodo:       []string{"1"},
			expInProgress: []string{},
			expDone:       []string{"2"},
			expErr:        model.ErrNotFound,
		},
		"invalid status never reaches the repository": {
			mockRepo:      func(m *storagemock.MockRepository) {},
			req:           update.Request{ID: "1", Status: ptr(model.TaskStatus("Archived"))},
			expTodo:       []string{"1"},
			expInProgress: []string{},
			expDone:       []string{"2"},
			expErr:        model.ErrInvalidStatus,
		},
		"empty title never reaches the repository": {
			mockRepo:      func(m *storagemock.MockRepository) {},
			req:           update.Request{ID: "1", Title: ptr("")},
			expTodo:       []string{"1"},
			expInProgress: []string{},
			expDone:       []string{"2"},
			expErr:        model.ErrNotValid,
		},
		"missing id is not valid": {
			mockRepo:      func(m *storagemock.MockRepository) {},
			req:           update.Request{Title: ptr("x")},
			expTodo:       []string{"1"},
			expInProgress: []string{},
			expDone:       []string{"2"},
			expErr:        model.ErrNotValid,
		},
		"repository errors leave the board untouched": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("UpdateTask", mock.Anything, mock.Anything).Once().Return(nil, fmt.Errorf("boom: %w", model.ErrTransport))
			},
			req:           update.Request{ID: "2", Status: ptr(model.TaskStatusTodo)},
			expTodo:       []string{"1"},
			expInProgress: []string{},
			expDone:       []string{"2"},
			expErr:        model.ErrTransport,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			store, err := board.NewStore(board.StoreConfig{})
			require.NoError(err)
			require.NoError(store.Dispatch(board.LoadEvent{Tasks: []model.Task{proposal, review}}))

			mRepo := &storagemock.MockRepository{}
			test.mockRepo(mRepo)

			svc, err := update.NewService(update.ServiceConfig{
				Repository: mRepo,
				Store:      store,
				Logger:     log.Noop,
			})
			require.NoError(err)

			task, err := svc.Run(context.Background(), test.req)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
				assert.Equal(test.expTask, task)
			}
			view := store.View()
			assert.Equal(test.expTodo, ids(view.Todo))
			assert.Equal(test.expInProgress, ids(view.InProgress))
			assert.Equal(test.expDone, ids(view.Done))

			mRepo.AssertExpectations(t)
		})
	}
}

func ids(tasks []model.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
