package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"simcat/pkg/logging"
	"simcat/pkg/scenario"
)

const (
	// ConfigFileName is the configuration document written into the work
	// directory and handed to the simulator as its only argument.
	ConfigFileName = "github-sim-config.json"

	// DefaultStartTimeout bounds the wait for the listening announcement.
	DefaultStartTimeout = 30 * time.Second

	// DefaultStopTimeout bounds graceful shutdown before SIGKILL.
	DefaultStopTimeout = 5 * time.Second

	// killWaitCap bounds the wait for the process to disappear after
	// SIGKILL.
	killWaitCap = time.Second

	// failureStopTimeout is the shutdown budget applied when tearing down
	// a process that never reached the listening state.
	failureStopTimeout = time.Second
)

// State tracks a simulator instance through its lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateListening
	StateStopped
	StateErrored
)

// String makes State satisfy fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Options configures Start. The zero value resolves the executable via
// ResolveExecutable, creates a fresh temporary work directory, and
// applies the default timeouts.
type Options struct {
	// Executable overrides executable resolution.
	Executable string

	// Workdir hosts the configuration file. When empty a temporary
	// directory is created, owned by the instance, and removed on Stop.
	Workdir string

	// StartTimeout bounds the wait for the listening event. Zero means
	// DefaultStartTimeout.
	StartTimeout time.Duration

	// StopTimeout bounds graceful shutdown before SIGKILL. Zero means
	// DefaultStopTimeout.
	StopTimeout time.Duration

	// Env entries are appended to the inherited environment of the
	// simulator process.
	Env []string
}

// Instance is a running simulator process.
type Instance struct {
	// ID identifies the instance in logs.
	ID string

	// Port is the simulator-assigned listening port.
	Port int

	// BaseURL is the HTTP endpoint clients should target.
	BaseURL string

	// Workdir hosts the configuration file.
	Workdir string

	// ConfigPath is the configuration document inside Workdir.
	ConfigPath string

	proc        *managedProcess
	stopTimeout time.Duration
	ownsWorkdir bool

	mu    sync.Mutex
	state State
}

// Start launches a simulator for doc and waits for it to announce a
// listening port. The document is expanded to the minimal valid shape,
// written as compact JSON into the work directory, and passed to the
// executable as its sole argument. Startup failures tear the process
// down and are returned as *StartError. Canceling ctx kills the process.
func Start(ctx context.Context, doc scenario.Document, opts Options) (*Instance, error) {
	execPath, err := ResolveExecutable(opts.Executable)
	if err != nil {
		return nil, err
	}

	startTimeout := opts.StartTimeout
	if startTimeout <= 0 {
		startTimeout = DefaultStartTimeout
	}
	stopTimeout := opts.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}

	workdir := opts.Workdir
	ownsWorkdir := false
	if workdir == "" {
		workdir, err = os.MkdirTemp("", "simcat-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}
		ownsWorkdir = true
	}
	cleanupWorkdir := func() {
		if ownsWorkdir {
			os.RemoveAll(workdir)
		}
	}

	payload, err := marshalConfigDocument(doc)
	if err != nil {
		cleanupWorkdir()
		return nil, err
	}
	configPath := filepath.Join(workdir, ConfigFileName)
	if err := os.WriteFile(configPath, payload, 0o644); err != nil {
		cleanupWorkdir()
		return nil, fmt.Errorf("failed to write simulator configuration: %w", err)
	}

	inst := &Instance{
		ID:          "sim-" + uuid.New().String()[:8],
		Workdir:     workdir,
		ConfigPath:  configPath,
		stopTimeout: stopTimeout,
		ownsWorkdir: ownsWorkdir,
	}

	logging.Debug("simulator", "starting %s %s for instance %s", execPath, configPath, inst.ID)

	proc, startErr := startProcess(ctx, execPath, configPath, opts.Env)
	if startErr != nil {
		inst.setState(StateErrored)
		cleanupWorkdir()
		return nil, startErr
	}
	inst.proc = proc
	inst.setState(StateStarting)

	port, waitErr := awaitListening(ctx, proc, startTimeout)
	if waitErr != nil {
		inst.setState(StateErrored)
		proc.capture.detach()
		proc.shutdown(failureStopTimeout)
		cleanupWorkdir()
		logging.Error("simulator", waitErr, "instance %s failed to start", inst.ID)
		return nil, waitErr
	}
	proc.capture.detach()

	inst.Port = port
	inst.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", port)
	inst.setState(StateListening)

	logging.Info("simulator", "instance %s listening on %s", inst.ID, inst.BaseURL)

	return inst, nil
}

// Stop terminates the simulator. It is nil-safe and idempotent; once the
// process has exited the signal sequence is skipped. The instance always
// ends up Stopped and an owned work directory is removed.
func (inst *Instance) Stop() error {
	if inst == nil {
		return nil
	}

	inst.mu.Lock()
	if inst.state == StateStopped {
		inst.mu.Unlock()
		return nil
	}
	inst.state = StateStopped
	inst.mu.Unlock()

	logging.Debug("simulator", "stopping instance %s", inst.ID)

	err := inst.proc.shutdown(inst.stopTimeout)

	if inst.ownsWorkdir {
		if rmErr := os.RemoveAll(inst.Workdir); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove work directory: %w", rmErr)
		}
	}
	return err
}

// State reports the lifecycle state.
func (inst *Instance) State() State {
	if inst == nil {
		return StateNotStarted
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.state
}

func (inst *Instance) setState(s State) {
	inst.mu.Lock()
	inst.state = s
	inst.mu.Unlock()
}

// Logs returns the output captured from the simulator so far.
func (inst *Instance) Logs() Logs {
	if inst == nil || inst.proc == nil {
		return Logs{}
	}
	return inst.proc.capture.getLogs()
}

// Wait blocks until the simulator process exits and returns its wait
// error.
func (inst *Instance) Wait() error {
	if inst == nil || inst.proc == nil {
		return nil
	}
	<-inst.proc.waitDone
	return inst.proc.waitErr
}

// marshalConfigDocument fills the required top-level collections and
// renders the document as compact JSON.
func marshalConfigDocument(doc scenario.Document) ([]byte, error) {
	merged := scenario.MergeDocuments(scenario.EmptyDocument(), doc)
	payload, err := json.Marshal(merged)
	if err != nil {
		return nil, &StartError{Reason: "Failed to serialize simulator configuration to JSON"}
	}
	return payload, nil
}

// managedProcess couples the simulator command with its log capture and
// owns the single cmd.Wait call.
type managedProcess struct {
	cmd     *exec.Cmd
	capture *logCapture

	waitDone chan struct{}
	waitErr  error
}

// startProcess spawns the simulator in its own process group with both
// streams piped into a fresh log capture.
func startProcess(ctx context.Context, execPath, configPath string, env []string) (*managedProcess, error) {
	cmd := exec.CommandContext(ctx, execPath, configPath)
	configureProcAttr(cmd)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	capture := newLogCapture()
	cmd.Stdout = capture.stdoutWriter
	cmd.Stderr = capture.stderrWriter

	if err := cmd.Start(); err != nil {
		capture.close()
		return nil, &StartError{Reason: fmt.Sprintf("Failed to start simulator: %v", err)}
	}

	p := &managedProcess{
		cmd:      cmd,
		capture:  capture,
		waitDone: make(chan struct{}),
	}

	// cmd.Wait returns only after both stream copies have finished, so
	// closing the capture here guarantees the buffers are complete before
	// waitDone is observable.
	go func() {
		p.waitErr = cmd.Wait()
		capture.close()
		close(p.waitDone)
	}()

	return p, nil
}

func (p *managedProcess) exited() bool {
	select {
	case <-p.waitDone:
		return true
	default:
		return false
	}
}

func (p *managedProcess) exitCode() int {
	if p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

// shutdown terminates the process group: SIGTERM, wait up to timeout,
// then SIGKILL and wait up to min(timeout, 1s). Calling it after the
// process exited is a no-op.
func (p *managedProcess) shutdown(timeout time.Duration) error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	if p.exited() {
		return nil
	}

	pid := p.cmd.Process.Pid

	if err := killProcessGroup(pid, syscall.SIGTERM); err != nil {
		logging.Debug("simulator", "SIGTERM for process group %d failed: %v", pid, err)
	}

	select {
	case <-p.waitDone:
		// Reap children that survived the group leader.
		killProcessGroup(pid, syscall.SIGKILL)
		return nil
	case <-time.After(timeout):
	}

	logging.Debug("simulator", "graceful shutdown timed out after %s, killing process group %d", timeout, pid)
	if err := killProcessGroup(pid, syscall.SIGKILL); err != nil {
		return err
	}

	killWait := timeout
	if killWait > killWaitCap {
		killWait = killWaitCap
	}
	select {
	case <-p.waitDone:
	case <-time.After(killWait):
	}
	return nil
}

// awaitListening scans simulator stdout until the listening
// announcement, an error event, process exit, or the deadline.
func awaitListening(ctx context.Context, p *managedProcess, timeout time.Duration) (int, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case line, ok := <-p.capture.lines:
			if !ok {
				// Stdout drains completely only after the process exited.
				<-p.waitDone
				return 0, &StartError{
					Reason:   "Simulator did not report a listening port.",
					Output:   p.capture.getLogs().Combined,
					ExitCode: p.exitCode(),
					Exited:   true,
				}
			}

			evt, ok := parseEvent(line)
			if !ok {
				continue
			}
			switch eventName(evt) {
			case eventListening:
				port, ok := eventPort(evt)
				if !ok {
					return 0, &StartError{Reason: fmt.Sprintf("Invalid listening event from simulator: %s", line)}
				}
				return port, nil
			case eventError:
				return 0, &StartError{Reason: fmt.Sprintf("Simulator error: %s", eventMessage(evt))}
			}

		case <-timer.C:
			return 0, &StartError{
				Reason: fmt.Sprintf("Simulator did not report a listening port within %s.", timeout),
				Output: p.capture.getLogs().Combined,
			}

		case <-ctx.Done():
			return 0, &StartError{
				Reason: fmt.Sprintf("Simulator startup canceled: %v", ctx.Err()),
				Output: p.capture.getLogs().Combined,
			}
		}
	}
}
