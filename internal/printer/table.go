package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/model"
)

// TablePrinter prints board information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintBoard prints one section per bucket, in board order.
func (t *TablePrinter) PrintBoard(view board.View) error {
	for i, status := range model.TaskStatuses() {
		if i > 0 {
			fmt.Fprintln(t.writer)
		}

		tasks := view.Bucket(status)
		fmt.Fprintf(t.writer, "%s (%d)\n", status, len(tasks))
		if len(tasks) == 0 {
			continue
		}

		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		// Print header.
		fmt.Fprintln(tw, "ID\tTITLE\tASSIGNEE")

		// Print rows.
		for _, task := range tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", task.ID, task.Title, orDash(task.Assignee))
		}

		if err := tw.Flush(); err != nil {
			return fmt.Errorf("could not write table: %w", err)
		}
	}

	return nil
}

// PrintTask prints the task details.
func (t *TablePrinter) PrintTask(task model.Task) error {
	fmt.Fprintf(t.writer, "ID:           %s\n", task.ID)
	fmt.Fprintf(t.writer, "Title:        %s\n", task.Title)
	fmt.Fprintf(t.writer, "Status:       %s\n", task.Status)
	fmt.Fprintf(t.writer, "Assignee:     %s\n", orDash(task.Assignee))
	fmt.Fprintf(t.writer, "Description:  %s\n", orDash(task.Description))

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
