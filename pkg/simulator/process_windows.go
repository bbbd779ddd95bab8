//go:build windows

package simulator

import (
	"fmt"
	"os/exec"
	"syscall"
)

const (
	processTerminate        = 0x0001
	processQueryInformation = 0x0400
)

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess      = kernel32.NewProc("OpenProcess")
	procTerminateProcess = kernel32.NewProc("TerminateProcess")
	procCloseHandle      = kernel32.NewProc("CloseHandle")
)

// configureProcAttr creates the simulator in its own process group.
// Windows has no Unix-style signal delivery, so shutdown terminates the
// process directly.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// killProcessGroup terminates the simulator process. The signal argument
// exists for parity with the Unix implementation.
func killProcessGroup(pid int, _ syscall.Signal) error {
	handle, _, err := procOpenProcess.Call(
		uintptr(processTerminate|processQueryInformation),
		uintptr(0),
		uintptr(pid),
	)
	if handle == 0 {
		return fmt.Errorf("failed to open process %d: %v", pid, err)
	}
	defer procCloseHandle.Call(handle)

	success, _, err := procTerminateProcess.Call(handle, uintptr(1))
	if success == 0 {
		return fmt.Errorf("failed to terminate process %d: %v", pid, err)
	}
	return nil
}
