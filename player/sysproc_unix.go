//go:build !windows

package player

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// sysProcAttr puts each child in its own process group so mpv's helper
// processes go down with it.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killProcess stops the whole group of a backend child. An already reaped
// child is not an error.
func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
