package printer

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/model"
)

// JSONPrinter prints board information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintBoard prints the board buckets, empty buckets are printed as empty lists.
func (j *JSONPrinter) PrintBoard(view board.View) error {
	out := board.Empty()
	out.Todo = append(out.Todo, view.Todo...)
	out.InProgress = append(out.InProgress, view.InProgress...)
	out.Done = append(out.Done, view.Done...)

	return j.encode(out)
}

// PrintTask prints the task in JSON format.
func (j *JSONPrinter) PrintTask(task model.Task) error {
	return j.encode(task)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := sonic.ConfigStd.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
