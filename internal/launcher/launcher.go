// Package launcher transfers control to the wrapped command. On unix the
// current process is replaced and Exec only returns on failure; elsewhere the
// command is spawned, waited for, and its exit status reported as an *ExitError.
package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Exit codes follow shell conventions.
const (
	CodeUsage         = 2
	CodeNotExecutable = 126
	CodeNotFound      = 127
)

// ErrNoCommand is returned when Exec is called without a command.
var ErrNoCommand = errors.New("no command given")

// ExitError carries the exit code the entrypoint should terminate with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Code maps an error returned by Exec to a process exit code.
func Code(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrNoCommand) {
		return CodeUsage
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func startError(name string, err error) *ExitError {
	code := CodeNotExecutable
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		code = CodeNotFound
	}
	return &ExitError{Code: code, Err: fmt.Errorf("%s: %w", name, err)}
}
