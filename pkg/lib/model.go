package lib

import (
	"errors"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/model"
)

// TaskStatus is the board column of a task.
type TaskStatus string

const (
	// TaskStatusTodo is for tasks not started.
	TaskStatusTodo TaskStatus = TaskStatus(model.TaskStatusTodo)
	// TaskStatusInProgress is for tasks being worked on.
	TaskStatusInProgress TaskStatus = TaskStatus(model.TaskStatusInProgress)
	// TaskStatusDone is for finished tasks.
	TaskStatusDone TaskStatus = TaskStatus(model.TaskStatusDone)
)

// Task is a task of the board.
type Task struct {
	// ID is the unique identifier assigned by the storage at creation.
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Assignee    string
}

// Board has the tasks split by status. Inside a column tasks keep the order
// they were loaded or added in.
type Board struct {
	Todo       []Task
	InProgress []Task
	Done       []Task
}

// Errors returned by the SDK, check them with [errors.Is].
var (
	// ErrNotFound is returned when a task doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a task already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when the input is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrInvalidStatus is returned when a status is unknown.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrTransport is returned when the storage could not be reached.
	ErrTransport = errors.New("transport error")
)

func fromInternalTask(t model.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      TaskStatus(t.Status),
		Assignee:    t.Assignee,
	}
}

func fromInternalTaskList(ts []model.Task) []Task {
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		out = append(out, fromInternalTask(t))
	}
	return out
}

func fromInternalView(v board.View) Board {
	return Board{
		Todo:       fromInternalTaskList(v.Todo),
		InProgress: fromInternalTaskList(v.InProgress),
		Done:       fromInternalTaskList(v.Done),
	}
}

func toInternalStatus(s *TaskStatus) *model.TaskStatus {
	if s == nil {
		return nil
	}
	ms := model.TaskStatus(*s)
	return &ms
}

// mapError makes internal errors match the SDK errors. An error can match
// more than one, an invalid status is also not valid.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var sentinels []error
	for internal, public := range map[error]error{
		model.ErrNotFound:      ErrNotFound,
		model.ErrAlreadyExists: ErrAlreadyExists,
		model.ErrNotValid:      ErrNotValid,
		model.ErrInvalidStatus: ErrInvalidStatus,
		model.ErrTransport:     ErrTransport,
	} {
		if errors.Is(err, internal) {
			sentinels = append(sentinels, public)
		}
	}
	if len(sentinels) == 0 {
		return err
	}

	return &mappedError{original: err, sentinels: sentinels}
}

type mappedError struct {
	original  error
	sentinels []error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	for _, s := range e.sentinels {
		if target == s {
			return true
		}
	}
	return false
}

func (e *mappedError) Unwrap() error { return e.original }
