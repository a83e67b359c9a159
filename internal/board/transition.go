package board

import (
	"fmt"

	"github.com/slok/taskboard/internal/model"
)

// Load discards any previous state and partitions the tasks by status. Tasks with
// an unknown status are left out of the view and counted in the returned excluded
// number.
func Load(tasks []model.Task) (v View, excluded int) {
	v = Empty()
	for _, t := range tasks {
		switch t.Status {
		case model.TaskStatusTodo:
			v.Todo = append(v.Todo, t)
		case model.TaskStatusInProgress:
			v.InProgress = append(v.InProgress, t)
		case model.TaskStatusDone:
			v.Done = append(v.Done, t)
		default:
			excluded++
		}
	}

	return v, excluded
}

// Create appends the task at the end of its status bucket. IDs are not checked
// for uniqueness, that's a storage concern.
func Create(v View, t model.Task) (View, error) {
	if !model.IsValidTaskStatus(t.Status) {
		return v, fmt.Errorf("could not create task %q with status %q: %w", t.ID, t.Status, model.ErrInvalidStatus)
	}

	return v.withBucket(t.Status, appendTask(v.Bucket(t.Status), t)), nil
}

// Update replaces the task with the same ID:
//
//   - If the task is in the bucket of its status it's replaced in place.
//   - If the task is in another bucket it's moved to the end of the bucket of its new status.
//   - If the task is missing it's appended to the bucket of its status.
func Update(v View, t model.Task) (View, error) {
	v, _, err := update(v, t)
	return v, err
}

func update(v View, t model.Task) (View, Outcome, error) {
	if !model.IsValidTaskStatus(t.Status) {
		return v, Outcome{}, fmt.Errorf("could not update task %q with status %q: %w", t.ID, t.Status, model.ErrInvalidStatus)
	}

	// Same bucket, in place.
	bucket := v.Bucket(t.Status)
	if i := indexOf(bucket, t.ID); i >= 0 {
		return v.withBucket(t.Status, replaceAt(bucket, i, t)), Outcome{}, nil
	}

	// Status changed, move.
	for _, s := range model.TaskStatuses() {
		if s == t.Status {
			continue
		}
		origin, ok := removeID(v.Bucket(s), t.ID)
		if !ok {
			continue
		}

		v = v.withBucket(s, origin)
		v = v.withBucket(t.Status, appendTask(v.Bucket(t.Status), t))
		return v, Outcome{Moved: true, From: s}, nil
	}

	// Unknown task, create.
	return v.withBucket(t.Status, appendTask(bucket, t)), Outcome{Implicit: true}, nil
}

// Delete removes the task with the ID from all the buckets. Missing IDs are ignored.
func Delete(v View, id string) View {
	v, _ = deleteID(v, id)
	return v
}

func deleteID(v View, id string) (View, bool) {
	removed := false
	for _, s := range model.TaskStatuses() {
		bucket, ok := removeID(v.Bucket(s), id)
		if ok {
			v = v.withBucket(s, bucket)
			removed = true
		}
	}

	return v, removed
}
