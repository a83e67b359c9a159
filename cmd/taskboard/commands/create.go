package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskboard/internal/app/create"
	"github.com/slok/taskboard/internal/model"
)

type CreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	title       string
	description string
	status      string
	assignee    string
	format      string
}

// NewCreateCommand returns the create command.
func NewCreateCommand(rootCmd *RootCommand, app *kingpin.Application) *CreateCommand {
	c := &CreateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("create", "Create a new task.")
	c.Cmd.Flag("title", "Task title.").Short('t').Required().StringVar(&c.title)
	c.Cmd.Flag("description", "Task description.").Short('d').StringVar(&c.description)
	c.Cmd.Flag("status", "Task status (Todo, In Progress, Done).").Default(string(model.TaskStatusTodo)).StringVar(&c.status)
	c.Cmd.Flag("assignee", "Person assigned to the task.").Short('a').StringVar(&c.assignee)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c CreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c CreateCommand) Run(ctx context.Context) error {
	// Fail before touching the storage.
	status, err := model.ParseTaskStatus(c.status)
	if err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}

	s, err := newSession(ctx, *c.rootCmd)
	if err != nil {
		return err
	}
	defer s.close()

	// Create create service.
	svc, err := create.NewService(create.ServiceConfig{
		Repository: s.repo,
		Store:      s.store,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	task, err := svc.Run(ctx, create.Request{
		Title:       c.title,
		Description: c.description,
		Status:      status,
		Assignee:    c.assignee,
	})
	if err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintTask(*task); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
