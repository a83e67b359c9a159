package remove_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskboard/internal/app/remove"
	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config remove.ServiceConfig
		expErr bool
	}{
		"valid config": {
			config: remove.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Store:      &board.Store{},
			},
		},
		"missing repository": {
			config: remove.ServiceConfig{Store: &board.Store{}},
			expErr: true,
		},
		"missing store": {
			config: remove.ServiceConfig{Repository: &storagemock.MockRepository{}},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			svc, err := remove.NewService(test.config)
			if test.expErr {
				require.Error(err)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	tests := map[string]struct {
		mockRepo func(m *storagemock.MockRepository)
		req      remove.Request
		expTodo  []string
		expDone  []string
		expErr   error
	}{
		"remove a task": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("DeleteTask", mock.Anything, "2").Once().Return(nil)
			},
			req:     remove.Request{ID: "2"},
			expTodo: []string{"1"},
			expDone: []string{},
		},
		"a task missing on the repository is still removed from the board": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("DeleteTask", mock.Anything, "2").Once().Return(fmt.Errorf("task 2: %w", model.ErrNotFound))
			},
			req:     remove.Request{ID: "2"},
			expTodo: []string{"1"},
			expDone: []string{},
		},
		"a task missing everywhere is a no-op": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("DeleteTask", mock.Anything, "9").Once().Return(model.ErrNotFound)
			},
			req:     remove.Request{ID: "9"},
			expTodo: []string{"1"},
			expDone: []string{"2"},
		},
		"missing id is not valid": {
			mockRepo: func(m *storagemock.MockRepository) {},
			req:      remove.Request{},
			expTodo:  []string{"1"},
			expDone:  []string{"2"},
			expErr:   model.ErrNotValid,
		},
		"repository errors leave the board untouched": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("DeleteTask", mock.Anything, "2").Once().Return(fmt.Errorf("boom: %w", model.ErrTransport))
			},
			req:     remove.Request{ID: "2"},
			expTodo: []string{"1"},
			expDone: []string{"2"},
			expErr:  model.ErrTransport,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			store, err := board.NewStore(board.StoreConfig{})
			require.NoError(err)
			require.NoError(store.Dispatch(board.LoadEvent{Tasks: []model.Task{
				{ID: "1", Title: "a", Status: model.TaskStatusTodo},
				{ID: "2", Title: "b", Status: model.TaskStatusDone},
			}}))

			mRepo := &storagemock.MockRepository{}
			test.mockRepo(mRepo)

			svc, err := remove.NewService(remove.ServiceConfig{
				Repository: mRepo,
				Store:      store,
				Logger:     log.Noop,
			})
			require.NoError(err)

			err = svc.Run(context.Background(), test.req)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
			}
			view := store.View()
			assert.Equal(test.expTodo, ids(view.Todo))
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
