package taskboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/taskboard/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "taskboard"
	}

	// If relative, the caller should pass an absolute path via the env var,
	// because go test changes the CWD to the test package directory.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("TASKBOARD_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("taskboard binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TASKBOARD_INTEGRATION"
		envBinary     = "TASKBOARD_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// Run runs a taskboard command using the data directory.
func Run(ctx context.Context, config Config, dataDir string, args ...string) (stdout, stderr []byte, err error) {
	env := []string{"TASKBOARD_DATA_DIR=" + dataDir}
	return testutils.RunTaskboard(ctx, env, config.Binary, args, true)
}

// RunREST runs a taskboard command against a tasks API.
func RunREST(ctx context.Context, config Config, apiURL string, args ...string) (stdout, stderr []byte, err error) {
	env := []string{"TASKBOARD_BACKEND=rest", "TASKBOARD_API_URL=" + apiURL}
	return testutils.RunTaskboard(ctx, env, config.Binary, args, true)
}
