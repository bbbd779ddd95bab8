//go:build !windows

package simulator

import (
	"fmt"
	"os/exec"
	"syscall"
)

// configureProcAttr places the simulator in its own process group so the
// whole process tree can be signaled on shutdown.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcessGroup signals the simulator's process group. When the group
// signal fails it falls back to signaling the process itself.
func killProcessGroup(pid int, sig syscall.Signal) error {
	if err := syscall.Kill(-pid, sig); err != nil {
		if err2 := syscall.Kill(pid, sig); err2 != nil {
			return fmt.Errorf("failed to signal process group -%d: %v, also failed to signal process %d: %v", pid, err, pid, err2)
		}
	}
	return nil
}
