package simulator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExecutableNotFound is wrapped by ResolveExecutable when no simulator
// binary can be located. It is raised before any process is spawned.
var ErrExecutableNotFound = errors.New("simulator executable not found")

// StartError describes a simulator launch that did not reach the
// listening state. Output holds everything captured from the process
// before the failure; ExitCode is meaningful only when Exited is true.
type StartError struct {
	Reason   string
	Output   string
	ExitCode int
	Exited   bool
}

// Error renders the failure reason, followed by the exit code and the
// captured output when they are available.
func (e *StartError) Error() string {
	var b strings.Builder
	b.WriteString(e.Reason)
	if e.Exited {
		fmt.Fprintf(&b, "\nExit code: %d", e.ExitCode)
	}
	if e.Output != "" {
		b.WriteString("\nOutput:\n")
		b.WriteString(e.Output)
	}
	return b.String()
}
