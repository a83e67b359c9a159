package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskboard/internal/app/update"
	"github.com/slok/taskboard/internal/model"
)

type UpdateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	format string

	title       string
	description string
	status      string
	assignee    string

	titleSet       bool
	descriptionSet bool
	statusSet      bool
	assigneeSet    bool
}

// NewUpdateCommand returns the update command.
func NewUpdateCommand(rootCmd *RootCommand, app *kingpin.Application) *UpdateCommand {
	c := &UpdateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("update", "Update a task, only the given fields change. Changing the status moves it.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	c.Cmd.Flag("title", "Task title.").Short('t').IsSetByUser(&c.titleSet).StringVar(&c.title)
	c.Cmd.Flag("description", "Task description.").Short('d').IsSetByUser(&c.descriptionSet).StringVar(&c.description)
	c.Cmd.Flag("status", "Task status (Todo, In Progress, Done).").IsSetByUser(&c.statusSet).StringVar(&c.status)
	c.Cmd.Flag("assignee", "Person assigned to the task.").Short('a').IsSetByUser(&c.assigneeSet).StringVar(&c.assignee)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c UpdateCommand) Name() string { return c.Cmd.FullCommand() }

func (c UpdateCommand) Run(ctx context.Context) error {
	req := update.Request{ID: c.id}
	if c.statusSet {
		status, err := model.ParseTaskStatus(c.status)
		if err != nil {
			return fmt.Errorf("invalid status: %w", err)
		}
		req.Status = &status
	}
	if c.titleSet {
		req.Title = &c.title
	}
	if c.descriptionSet {
		req.Description = &c.description
	}
	if c.assigneeSet {
		req.Assignee = &c.assignee
	}

	if req.Title == nil && req.Description == nil && req.Status == nil && req.Assignee == nil {
		return fmt.Errorf("nothing to update, at least one field flag is required")
	}

	s, err := newSession(ctx, *c.rootCmd)
	if err != nil {
		return err
	}
	defer s.close()

	// Create update service.
	svc, err := update.NewService(update.ServiceConfig{
		Repository: s.repo,
		Store:      s.store,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	task, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintTask(*task); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
