package board

import (
	"fmt"

	"github.com/slok/taskboard/internal/model"
)

// Event is a view transition request. The set of events is closed.
type Event interface {
	event()
}

// LoadEvent replaces the view with a freshly fetched task collection.
type LoadEvent struct {
	Tasks []model.Task
}

// CreateEvent adds a created task.
type CreateEvent struct {
	Task model.Task
}

// UpdateEvent updates or moves a task.
type UpdateEvent struct {
	Task model.Task
}

// DeleteEvent removes a task.
type DeleteEvent struct {
	ID string
}

func (LoadEvent) event()   {}
func (CreateEvent) event() {}
func (UpdateEvent) event() {}
func (DeleteEvent) event() {}

// Outcome describes the effect an event had on the view.
type Outcome struct {
	// Excluded is the number of loaded tasks with unknown status.
	Excluded int
	// Moved is true when an update changed the bucket of the task.
	Moved bool
	// From is the previous status of a moved task.
	From model.TaskStatus
	// Implicit is true when an update targeted a missing task and created it.
	Implicit bool
	// Removed is true when a delete found the task.
	Removed bool
}

// Apply applies an event to a view and returns the resulting view. On error
// the received view is returned.
func Apply(v View, ev Event) (View, Outcome, error) {
	switch e := ev.(type) {
	case LoadEvent:
		nv, excluded := Load(e.Tasks)
		return nv, Outcome{Excluded: excluded}, nil
	case CreateEvent:
		nv, err := Create(v, e.Task)
		return nv, Outcome{}, err
	case UpdateEvent:
		return update(v, e.Task)
	case DeleteEvent:
		nv, removed := deleteID(v, e.ID)
		return nv, Outcome{Removed: removed}, nil
	}

	return v, Outcome{}, fmt.Errorf("unknown event %T: %w", ev, model.ErrNotValid)
}
