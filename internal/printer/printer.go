package printer

import (
	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/model"
)

// Printer knows how to print board information in different formats.
type Printer interface {
	PrintBoard(view board.View) error
	PrintTask(task model.Task) error
	PrintMessage(msg string) error
}
