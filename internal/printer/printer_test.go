package printer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/printer"
)

func viewFixture() board.View {
	return board.View{
		Todo: []model.Task{
			{ID: "1", Title: "Complete Project Proposal", Status: model.TaskStatusTodo, Assignee: "John Doe"},
		},
		InProgress: []model.Task{},
		Done: []model.Task{
			{ID: "2", Title: "Review Code Changes", Status: model.TaskStatusDone},
		},
	}
}

func TestTablePrinterPrintBoard(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintBoard(viewFixture())
	require.NoError(t, err)

	exp := `Todo (1)
ID  TITLE                      ASSIGNEE
1   Complete Project Proposal  John Doe

In Progress (0)

Done (1)
ID  TITLE                ASSIGNEE
2   Review Code Changes  -
`
	assert.Equal(t, exp, buf.String())
}

func TestTablePrinterPrintTask(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintTask(model.Task{ID: "1", Title: "Complete Project Proposal", Status: model.TaskStatusInProgress})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ID:           1")
	assert.Contains(t, out, "Status:       In Progress")
	assert.Contains(t, out, "Assignee:     -")
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintMessage("ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}

func TestJSONPrinterPrintBoard(t *testing.T) {
	tests := map[string]struct {
		view    board.View
		expJSON string
	}{
		"A board should print its buckets.": {
			view: viewFixture(),
			expJSON: `{
				"todo": [{"id":"1","title":"Complete Project Proposal","description":"","status":"Todo","assignee":"John Doe"}],
				"inProgress": [],
				"done": [{"id":"2","title":"Review Code Changes","description":"","status":"Done","assignee":""}]
			}`,
		},

		"A zero view should print empty lists.": {
			view:    board.View{},
			expJSON: `{"todo":[],"inProgress":[],"done":[]}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewJSONPrinter(&buf)

			err := p.PrintBoard(test.view)
			require.NoError(t, err)
			assert.JSONEq(t, test.expJSON, buf.String())
		})
	}
}

func TestJSONPrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintMessage("Removed task: 1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Removed task: 1"}`, buf.String())
}
