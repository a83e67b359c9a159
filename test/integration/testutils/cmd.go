package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// RunTaskboard executes a taskboard command with pre-split arguments.
// Arguments with spaces (e.g. a status like "In Progress") are preserved.
func RunTaskboard(ctx context.Context, env []string, binary string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	var outData, errData bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &outData
	cmd.Stderr = &errData

	// Set env: os.Environ() first, then custom env overrides on top.
	// In Go's exec.Cmd, when duplicate keys exist, the last one wins.
	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, env...)
	if nolog {
		newEnv = append(newEnv, "TASKBOARD_NO_LOG=true")
	}
	cmd.Env = newEnv

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}

// StartTaskboard starts a long running taskboard command (e.g. serve), the
// process is killed when the context is cancelled.
func StartTaskboard(ctx context.Context, env []string, binary string, args []string) (*exec.Cmd, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = append(append([]string{}, os.Environ()...), env...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return cmd, nil
}
