//go:build unix

package launcher

import (
	"os/exec"
	"syscall"
)

var (
	lookPath = exec.LookPath
	execve   = syscall.Exec
)

// Exec replaces the current process with argv[0], searched in PATH, using env
// as its environment.
func Exec(argv []string, env []string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}

	path, err := lookPath(argv[0])
	if err != nil {
		return startError(argv[0], err)
	}

	if err := execve(path, argv, env); err != nil {
		return startError(path, err)
	}
	return nil
}
