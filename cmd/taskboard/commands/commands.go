package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/redis/go-redis/v9"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/taskboard/internal/app/load"
	"github.com/slok/taskboard/internal/board"
	"github.com/slok/taskboard/internal/conventions"
	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
	"github.com/slok/taskboard/internal/printer"
	"github.com/slok/taskboard/internal/storage"
	storageio "github.com/slok/taskboard/internal/storage/io"
	"github.com/slok/taskboard/internal/storage/local"
	"github.com/slok/taskboard/internal/storage/rest"
	"github.com/slok/taskboard/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	// BackendFile stores the tasks as a JSON file in the data directory.
	BackendFile = "file"
	// BackendRedis stores the tasks as a JSON value in Redis.
	BackendRedis = "redis"
	// BackendSQLite stores the tasks in a SQLite database.
	BackendSQLite = "sqlite"
	// BackendREST uses a tasks REST API.
	BackendREST = "rest"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	Backend    string
	DataDir    string
	StorageKey string
	RedisAddr  string
	DBPath     string
	APIURL     string
	SeedFile   string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	app.Flag("backend", "Where the tasks are stored (file, redis, sqlite, rest).").Default(BackendFile).EnumVar(&c.Backend, BackendFile, BackendRedis, BackendSQLite, BackendREST)
	defaultDataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	app.Flag("data-dir", "Directory for the file and sqlite backends.").Default(defaultDataDir).StringVar(&c.DataDir)
	app.Flag("storage-key", "Key the tasks are stored under on the file and redis backends.").Default(conventions.StorageKey).StringVar(&c.StorageKey)
	app.Flag("redis-addr", "Redis address for the redis backend.").Default(conventions.RedisAddr).StringVar(&c.RedisAddr)
	app.Flag("db-path", "Path to the SQLite database file (defaults to the data directory).").StringVar(&c.DBPath)
	app.Flag("api-url", "Tasks API URL for the rest backend.").Default(rest.DefaultURL).StringVar(&c.APIURL)
	app.Flag("seed-file", "YAML file with the tasks stored on first use (embedded sample tasks by default).").StringVar(&c.SeedFile)

	return c
}

func (c RootCommand) dbPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return conventions.DBPath(c.DataDir)
}

func (c RootCommand) printer(format string) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(c.Stdout)
	default: // table
		return printer.NewTablePrinter(c.Stdout)
	}
}

// seed returns the tasks used to initialize empty storages.
func (c RootCommand) seed(ctx context.Context) ([]model.Task, error) {
	if c.SeedFile == "" {
		return storageio.DefaultSeed(ctx)
	}

	abs, err := filepath.Abs(c.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("invalid seed file path: %w", err)
	}
	repo := storageio.NewTaskYAMLRepository(os.DirFS(filepath.Dir(abs)))
	tasks, err := repo.ListTasks(ctx, filepath.Base(abs))
	if err != nil {
		return nil, fmt.Errorf("could not load seed file: %w", err)
	}

	return tasks, nil
}

// session is the task repository and board used by a command.
type session struct {
	repo  storage.Repository
	store *board.Store
	close func() error
}

// newRepository returns the repository of the selected backend.
func newRepository(ctx context.Context, root RootCommand) (storage.Repository, func() error, error) {
	noClose := func() error { return nil }
	logger := root.Logger

	switch root.Backend {
	case BackendFile, BackendRedis:
		seed, err := root.seed(ctx)
		if err != nil {
			return nil, nil, err
		}

		var kv local.KV
		closeFn := noClose
		if root.Backend == BackendFile {
			kv, err = local.NewFileKV(root.DataDir)
		} else {
			client := redis.NewClient(&redis.Options{Addr: root.RedisAddr})
			closeFn = client.Close
			kv, err = local.NewRedisKV(client, "")
		}
		if err != nil {
			return nil, nil, fmt.Errorf("could not create key-value store: %w", err)
		}

		repo, err := local.NewRepository(local.RepositoryConfig{
			KV:     kv,
			Key:    root.StorageKey,
			Seed:   seed,
			Logger: logger,
		})
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, closeFn, nil

	case BackendSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: root.dbPath(),
			Logger: logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, repo.Close, nil

	case BackendREST:
		repo, err := rest.NewRepository(rest.RepositoryConfig{
			URL:    root.APIURL,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, noClose, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q", root.Backend)
}

// newSession creates the repository and the board of the command, and loads
// the repository tasks into the board.
func newSession(ctx context.Context, root RootCommand) (*session, error) {
	repo, closeFn, err := newRepository(ctx, root)
	if err != nil {
		return nil, err
	}

	store, err := board.NewStore(board.StoreConfig{Logger: root.Logger})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	svc, err := load.NewService(load.ServiceConfig{
		Repository: repo,
		Store:      store,
		Logger:     root.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	if _, err := svc.Run(ctx, load.Request{}); err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not load tasks: %w", err)
	}

	return &session{repo: repo, store: store, close: closeFn}, nil
}

// parseStatus parses an optional status flag.
func parseStatus(s string) (*model.TaskStatus, error) {
	if s == "" {
		return nil, nil
	}

	status, err := model.ParseTaskStatus(s)
	if err != nil {
		return nil, err
	}

	return &status, nil
}
