package board

import (
	"strings"

	"github.com/slok/taskboard/internal/model"
)

// Filter returns a view with the tasks whose title contains the query, case
// insensitive. An empty query returns the same view.
func Filter(v View, query string) View {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return v
	}

	match := func(tasks []model.Task) []model.Task {
		res := []model.Task{}
		for _, t := range tasks {
			if strings.Contains(strings.ToLower(t.Title), query) {
				res = append(res, t)
			}
		}
		return res
	}

	return View{
		Todo:       match(v.Todo),
		InProgress: match(v.InProgress),
		Done:       match(v.Done),
	}
}

// FilterStatus returns a view with only the tasks of the status bucket.
func FilterStatus(v View, s model.TaskStatus) View {
	return Empty().withBucket(s, v.Bucket(s))
}
