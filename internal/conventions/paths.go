package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default taskboard data directory name (relative to home).
	DefaultDataDir = ".taskboard"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "taskboard.db"
	// StorageKey is the default key the task collection is stored under.
	StorageKey = "tasks"
	// RedisAddr is the default Redis address.
	RedisAddr = "127.0.0.1:6379"
	// RedisKeyPrefix is prepended to the keys stored in Redis.
	RedisKeyPrefix = "taskboard:"
	// APIPort is the default port of the tasks API server.
	APIPort = 8080
)

// DBPath returns the path of the SQLite database of a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// KVFilePath returns the path of the file that stores a key inside a data directory.
func KVFilePath(dataDir, key string) string {
	return filepath.Join(dataDir, key+".json")
}
