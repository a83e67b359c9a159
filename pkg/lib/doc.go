// Package lib provides a Go SDK for managing a taskboard programmatically.
//
// This package allows applications to read and change a board without
// shelling out to the taskboard CLI binary. It is useful for scripting,
// automation, and building tools on top of taskboard.
//
// # Quick Start
//
// Create a client, it loads the board from the storage:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Create a task, it goes to the tail of its status column.
//	task, err := client.CreateTask(ctx, lib.CreateTaskOpts{
//	    Title:    "Write release notes",
//	    Status:   lib.TaskStatusTodo,
//	    Assignee: "Jane Smith",
//	})
//
//	// Move it.
//	status := lib.TaskStatusInProgress
//	client.UpdateTask(ctx, task.ID, lib.UpdateTaskOpts{Status: &status})
//
//	// Read the board.
//	board, _ := client.Board(ctx, nil)
//	fmt.Println(len(board.Todo), len(board.InProgress), len(board.Done))
//
//	client.RemoveTask(ctx, task.ID)
//
// # Backends
//
// The tasks can be stored on:
//
//   - [BackendFile]: A JSON file in the data directory (default).
//   - [BackendSQLite]: A SQLite database.
//   - [BackendREST]: A tasks REST API, like the one served by `taskboard serve`.
//   - [BackendMemory]: In-memory storage, useful for tests.
//
// The file and memory backends start with sample tasks unless [Config].Seed is set.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Task does not exist.
//   - [ErrAlreadyExists]: Task with the same ID already exists.
//   - [ErrNotValid]: Invalid input (e.g. an empty title).
//   - [ErrInvalidStatus]: Unknown task status, it's also [ErrNotValid].
//   - [ErrTransport]: The storage could not be reached.
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines.
package lib
