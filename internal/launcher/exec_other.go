//go:build !unix

package launcher

import (
	"errors"
	"os"
	"os/exec"
)

// Exec runs argv[0] as a child process with env, waits for it, and returns an
// *ExitError carrying the child's exit code (zero included).
func Exec(argv []string, env []string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return startError(argv[0], err)
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Err: err}
	}
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return &ExitError{Code: 0}
}
