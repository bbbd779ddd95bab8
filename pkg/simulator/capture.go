package simulator

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// Logs holds the output captured from a simulator process.
type Logs struct {
	Stdout   string
	Stderr   string
	Combined string
}

// logCapture drains both output streams of a simulator process into
// memory. Stdout lines are additionally forwarded on the lines channel
// until detach is called, so startup events can be observed without
// losing any of the raw output.
type logCapture struct {
	stdoutBuf    *bytes.Buffer
	stderrBuf    *bytes.Buffer
	stdoutReader *io.PipeReader
	stderrReader *io.PipeReader
	stdoutWriter *io.PipeWriter
	stderrWriter *io.PipeWriter

	lines      chan string
	detached   chan struct{}
	detachOnce sync.Once

	wg sync.WaitGroup
	mu sync.RWMutex
}

// newLogCapture creates a capture with running pump goroutines.
func newLogCapture() *logCapture {
	lc := &logCapture{
		stdoutBuf: &bytes.Buffer{},
		stderrBuf: &bytes.Buffer{},
		lines:     make(chan string, 64),
		detached:  make(chan struct{}),
	}

	lc.stdoutReader, lc.stdoutWriter = io.Pipe()
	lc.stderrReader, lc.stderrWriter = io.Pipe()

	lc.wg.Add(2)
	go lc.captureStdout()
	go lc.captureStderr()

	return lc
}

func (lc *logCapture) captureStdout() {
	defer lc.wg.Done()
	defer close(lc.lines)

	scanner := bufio.NewScanner(lc.stdoutReader)
	for scanner.Scan() {
		line := scanner.Text()
		lc.mu.Lock()
		lc.stdoutBuf.WriteString(line + "\n")
		lc.mu.Unlock()

		select {
		case lc.lines <- line:
		case <-lc.detached:
		}
	}
}

func (lc *logCapture) captureStderr() {
	defer lc.wg.Done()

	scanner := bufio.NewScanner(lc.stderrReader)
	for scanner.Scan() {
		lc.mu.Lock()
		lc.stderrBuf.WriteString(scanner.Text() + "\n")
		lc.mu.Unlock()
	}
}

// detach stops forwarding stdout lines. Capture into the buffers
// continues until close.
func (lc *logCapture) detach() {
	lc.detachOnce.Do(func() { close(lc.detached) })
}

// close closes the capture pipes and waits for the pump goroutines.
func (lc *logCapture) close() {
	lc.detach()
	lc.stdoutWriter.Close()
	lc.stderrWriter.Close()
	lc.wg.Wait()
}

// getLogs returns a snapshot of the captured output.
func (lc *logCapture) getLogs() Logs {
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	stdout := lc.stdoutBuf.String()
	stderr := lc.stderrBuf.String()

	combined := ""
	if stdout != "" {
		combined += "=== STDOUT ===\n" + stdout
	}
	if stderr != "" {
		if combined != "" {
			combined += "\n"
		}
		combined += "=== STDERR ===\n" + stderr
	}

	return Logs{
		Stdout:   stdout,
		Stderr:   stderr,
		Combined: combined,
	}
}
