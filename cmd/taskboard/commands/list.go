package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskboard/internal/app/search"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	search       string
	statusFilter string
	format       string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List the board tasks by status.")
	c.Cmd.Flag("search", "Only tasks whose title contains the text (case insensitive).").Short('s').StringVar(&c.search)
	c.Cmd.Flag("status", "Only tasks with the status (Todo, In Progress, Done).").StringVar(&c.statusFilter)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	status, err := parseStatus(c.statusFilter)
	if err != nil {
		return fmt.Errorf("invalid status filter: %w", err)
	}

	s, err := newSession(ctx, *c.rootCmd)
	if err != nil {
		return err
	}
	defer s.close()

	// Create search service.
	svc, err := search.NewService(search.ServiceConfig{
		Store:  s.store,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	view, err := svc.Run(ctx, search.Request{
		Query:  c.search,
		Status: status,
	})
	if err != nil {
		return fmt.Errorf("could not search tasks: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintBoard(view); err != nil {
		return fmt.Errorf("could not print board: %w", err)
	}

	return nil
}
