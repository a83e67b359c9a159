package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskboard/internal/model"
)

type ShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	format string
}

// NewShowCommand returns the show command.
func NewShowCommand(rootCmd *RootCommand, app *kingpin.Application) *ShowCommand {
	c := &ShowCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("show", "Show the details of a task.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c ShowCommand) Run(ctx context.Context) error {
	s, err := newSession(ctx, *c.rootCmd)
	if err != nil {
		return err
	}
	defer s.close()

	task, ok := s.store.View().Find(c.id)
	if !ok {
		return fmt.Errorf("task %s is not on the board: %w", c.id, model.ErrNotFound)
	}

	if err := c.rootCmd.printer(c.format).PrintTask(task); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
