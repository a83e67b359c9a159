package load_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskboard/internal/app/create"
	"github.com/slok/taskboard/internal/app/load"
	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/storage/memory"
	"github.com/slok/taskboard/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config load.ServiceConfig
		expErr bool
	}{
		"valid config": {
			config: load.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Store:      &board.Store{},
			},
		},
		"missing repository": {
			config: load.ServiceConfig{Store: &board.Store{}},
			expErr: true,
		},
		"missing store": {
			config: load.ServiceConfig{Repository: &storagemock.MockRepository{}},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			svc, err := load.NewService(test.config)
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
		initial  []model.Task
		mockRepo func(m *storagemock.MockRepository)
		expView  board.View
		expErr   error
	}{
		"tasks are partitioned by status": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return([]model.Task{
					{ID: "1", Title: "a", Status: model.TaskStatusTodo},
					{ID: "2", Title: "b", Status: model.TaskStatusDone},
					{ID: "3", Title: "c", Status: "Archived"},
					{ID: "4", Title: "d", Status: model.TaskStatusInProgress},
				}, nil)
			},
			expView: board.View{
				Todo:       []model.Task{{ID: "1", Title: "a", Status: model.TaskStatusTodo}},
				InProgress: []model.Task{{ID: "4", Title: "d", Status: model.TaskStatusInProgress}},
				Done:       []model.Task{{ID: "2", Title: "b", Status: model.TaskStatusDone}},
			},
		},
		"load replaces the previous view": {
			initial: []model.Task{{ID: "9", Title: "old", Status: model.TaskStatusTodo}},
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return([]model.Task{}, nil)
			},
			expView: board.Empty(),
		},
		"repository errors leave the board untouched": {
			initial: []model.Task{{ID: "9", Title: "old", Status: model.TaskStatusTodo}},
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return(nil, fmt.Errorf("boom: %w", model.ErrTransport))
			},
			expView: board.View{
				Todo:       []model.Task{{ID: "9", Title: "old", Status: model.TaskStatusTodo}},
				InProgress: []model.Task{},
				Done:       []model.Task{},
			},
			expErr: model.ErrTransport,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			store, err := board.NewStore(board.StoreConfig{})
			require.NoError(err)
			if test.initial != nil {
				require.NoError(store.Dispatch(board.LoadEvent{Tasks: test.initial}))
			}

			mRepo := &storagemock.MockRepository{}
			test.mockRepo(mRepo)

			svc, err := load.NewService(load.ServiceConfig{
				Repository: mRepo,
				Store:      store,
				Logger:     log.Noop,
			})
			require.NoError(err)

			view, err := svc.Run(context.Background(), load.Request{})

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
				assert.Equal(test.expView, view)
			}
			assert.Equal(test.expView, store.View())

			mRepo.AssertExpectations(t)
		})
	}
}

// slowListRepository takes the list snapshot and then waits to be released
// before returning it.
type slowListRepository struct {
	*memory.Repository
	listed  chan struct{}
	release chan struct{}
}

func (r slowListRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := r.Repository.ListTasks(ctx)
	close(r.listed)
	<-r.release
	return tasks, err
}

func TestService_RunWithCreateInFlight(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	memRepo, err := memory.NewRepository(memory.RepositoryConfig{
		Tasks: []model.Task{
			{ID: "1", Title: "a", Status: model.TaskStatusTodo},
			{ID: "2", Title: "b", Status: model.TaskStatusDone},
		},
	})
	require.NoError(err)
	repo := slowListRepository{Repository: memRepo, listed: make(chan struct{}), release: make(chan struct{})}

	store, err := board.NewStore(board.StoreConfig{})
	require.NoError(err)
	loadSvc, err := load.NewService(load.ServiceConfig{Repository: repo, Store: store})
	require.NoError(err)
	createSvc, err := create.NewService(create.ServiceConfig{Repository: repo, Store: store})
	require.NoError(err)

	type result struct {
		view board.View
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := loadSvc.Run(ctx, load.Request{})
		done <- result{view: view, err: err}
	}()

	// The create is stored and committed after the list snapshot was taken.
	<-repo.listed
	created, err := createSvc.Run(ctx, create.Request{Title: "c", Status: model.TaskStatusInProgress})
	require.NoError(err)
	close(repo.release)

	res := <-done
	require.NoError(res.err)

	stored, err := memRepo.ListTasks(ctx)
	require.NoError(err)
	assert.Len(stored, 3)
	assert.ElementsMatch(stored, res.view.Tasks())
	assert.Equal([]model.Task{*created}, res.view.InProgress)
	assert.Equal(res.view, store.View())
}
