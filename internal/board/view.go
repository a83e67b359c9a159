package board

import "github.com/slok/taskboard/internal/model"

// View is the tasks working set partitioned by status. Each task ID is in
// at most one bucket, and the order inside a bucket is the insertion order.
//
// Views are snapshots: the transition functions never modify the views
// they receive, so a view must be treated as read-only, use Clone to get
// a copy that can be modified.
type View struct {
	Todo       []model.Task `json:"todo"`
	InProgress []model.Task `json:"inProgress"`
	Done       []model.Task `json:"done"`
}

// Empty returns a view without tasks.
func Empty() View {
	return View{
		Todo:       []model.Task{},
		InProgress: []model.Task{},
		Done:       []model.Task{},
	}
}

// Bucket returns the tasks of a status, nil if the status is unknown.
func (v View) Bucket(s model.TaskStatus) []model.Task {
	switch s {
	case model.TaskStatusTodo:
		return v.Todo
	case model.TaskStatusInProgress:
		return v.InProgress
	case model.TaskStatusDone:
		return v.Done
	}
	return nil
}

// withBucket returns a view with the status bucket replaced. Unknown statuses
// return the same view.
func (v View) withBucket(s model.TaskStatus, tasks []model.Task) View {
	switch s {
	case model.TaskStatusTodo:
		v.Todo = tasks
	case model.TaskStatusInProgress:
		v.InProgress = tasks
	case model.TaskStatusDone:
		v.Done = tasks
	}
	return v
}

// Len returns the number of tasks in all the buckets.
func (v View) Len() int {
	return len(v.Todo) + len(v.InProgress) + len(v.Done)
}

// Counts returns the number of tasks per status.
func (v View) Counts() map[model.TaskStatus]int {
	counts := make(map[model.TaskStatus]int, 3)
	for _, s := range model.TaskStatuses() {
		counts[s] = len(v.Bucket(s))
	}
	return counts
}

// Tasks returns all the tasks flattened in board order.
func (v View) Tasks() []model.Task {
	tasks := make([]model.Task, 0, v.Len())
	for _, s := range model.TaskStatuses() {
		tasks = append(tasks, v.Bucket(s)...)
	}
	return tasks
}

// Find returns the task with the ID.
func (v View) Find(id string) (model.Task, bool) {
	for _, s := range model.TaskStatuses() {
		bucket := v.Bucket(s)
		if i := indexOf(bucket, id); i >= 0 {
			return bucket[i], true
		}
	}
	return model.Task{}, false
}

// Clone returns a deep copy of the view.
func (v View) Clone() View {
	return View{
		Todo:       cloneTasks(v.Todo),
		InProgress: cloneTasks(v.InProgress),
		Done:       cloneTasks(v.Done),
	}
}

func cloneTasks(tasks []model.Task) []model.Task {
	c := make([]model.Task, len(tasks))
	copy(c, tasks)
	return c
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// appendTask returns a new slice, the received one is never written.
func appendTask(tasks []model.Task, t model.Task) []model.Task {
	c := make([]model.Task, len(tasks), len(tasks)+1)
	copy(c, tasks)
	return append(c, t)
}

func replaceAt(tasks []model.Task, i int, t model.Task) []model.Task {
	c := cloneTasks(tasks)
	c[i] = t
	return c
}

func removeID(tasks []model.Task, id string) ([]model.Task, bool) {
	if indexOf(tasks, id) < 0 {
		return tasks, false
	}

	c := make([]model.Task, 0, len(tasks)-1)
	for _, t := range tasks {
		if t.ID != id {
			c = append(c, t)
		}
	}
	return c, true
}
