//go:build !unix

package supervisor

import (
	"os"
	"os/exec"
)

// setProcessGroup is a no-op on platforms without POSIX process groups.
func setProcessGroup(cmd *exec.Cmd) {}

// signalPID is best-effort on platforms without POSIX signals: os.Process
// only reliably supports Kill there.
func signalPID(pid int, sig os.Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if sig == sigKill {
		return proc.Kill()
	}
	return proc.Signal(sig)
}

func pidAlive(pid int) bool {
	_, err := os.FindProcess(pid)
	return err == nil
}

var (
	sigTerm os.Signal = os.Interrupt
	sigKill os.Signal = os.Kill
)
