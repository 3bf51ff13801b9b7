package core

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ExitError carries a script's non-zero exit code so the CLI can propagate
// it verbatim as qi's own exit code.
type ExitError struct {
	Code int
	Path string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Path, e.Code)
}

// RunScript executes a resolved script with the current process's
// environment and standard streams attached. It blocks until the script
// finishes and returns an *ExitError for any non-zero exit.
//
// Executable files run directly; scripts without the executable bit run
// through bash, since the script convention fixes the .bash extension.
func RunScript(path string, args []string) error {
	var cmd *exec.Cmd
	if isExecutable(path) {
		cmd = exec.Command(path, args...)
	} else {
		cmd = exec.Command("bash", append([]string{path}, args...)...)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Path: path}
	}
	return fmt.Errorf("running %s: %w", path, err)
}

// isExecutable reports whether the file has any executable bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
}
