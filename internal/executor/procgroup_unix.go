//go:build unix

package executor

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the shell in its own process group so a timeout can
// terminate every descendant it spawned, not just the shell itself.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to the whole process group, so a timed
// out command's grandchildren are reaped too, not just the shell itself.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
