package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskboard/internal/apiserver"
	"github.com/slok/taskboard/internal/conventions"
	"github.com/slok/taskboard/internal/storage"
	"github.com/slok/taskboard/internal/storage/memory"
	"github.com/slok/taskboard/internal/storage/sqlite"
)

const (
	serveRepositoryMemory = "memory"
	serveRepositorySQLite = "sqlite"
)

type ServeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	listen       string
	repository   string
	allowOrigins []string
}

// NewServeCommand returns the serve command.
func NewServeCommand(rootCmd *RootCommand, app *kingpin.Application) *ServeCommand {
	c := &ServeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("serve", "Serve the tasks REST API used by the rest backend.")
	c.Cmd.Flag("listen", "Address the API listens on.").Default(fmt.Sprintf(":%d", conventions.APIPort)).StringVar(&c.listen)
	c.Cmd.Flag("repository", "Where the API stores the tasks (memory, sqlite).").Default(serveRepositoryMemory).EnumVar(&c.repository, serveRepositoryMemory, serveRepositorySQLite)
	c.Cmd.Flag("allow-origin", "CORS allowed origin, can be repeated (all by default).").StringsVar(&c.allowOrigins)

	return c
}

func (c ServeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ServeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	var repo storage.Repository
	switch c.repository {
	case serveRepositorySQLite:
		r, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: c.rootCmd.dbPath(),
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create repository: %w", err)
		}
		defer r.Close()
		repo = r

	default: // memory
		seed, err := c.rootCmd.seed(ctx)
		if err != nil {
			return err
		}
		r, err := memory.NewRepository(memory.RepositoryConfig{
			Tasks:  seed,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create repository: %w", err)
		}
		repo = r
	}

	srv, err := apiserver.NewServer(apiserver.ServerConfig{
		Repository:   repo,
		AllowOrigins: c.allowOrigins,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	return srv.ListenAndServe(ctx, c.listen)
}
