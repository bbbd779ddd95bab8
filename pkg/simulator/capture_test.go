package simulator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture_SeparatesStreams(t *testing.T) {
	lc := newLogCapture()
	lc.detach()

	fmt.Fprintln(lc.stdoutWriter, "out line")
	fmt.Fprintln(lc.stderrWriter, "err line")
	lc.close()

	logs := lc.getLogs()
	assert.Equal(t, "out line\n", logs.Stdout)
	assert.Equal(t, "err line\n", logs.Stderr)
	assert.Equal(t, "=== STDOUT ===\nout line\n\n=== STDERR ===\nerr line\n", logs.Combined)
}

func TestLogCapture_CombinedSkipsEmptyStreams(t *testing.T) {
	lc := newLogCapture()
	lc.detach()

	fmt.Fprintln(lc.stderrWriter, "only stderr")
	lc.close()

	logs := lc.getLogs()
	assert.Empty(t, logs.Stdout)
	assert.Equal(t, "=== STDERR ===\nonly stderr\n", logs.Combined)
}

func TestLogCapture_ForwardsStdoutLines(t *testing.T) {
	lc := newLogCapture()

	go func() {
		fmt.Fprintln(lc.stdoutWriter, `{"event":"listening","port":1}`)
		lc.stdoutWriter.Close()
	}()

	line, ok := <-lc.lines
	require.True(t, ok)
	assert.Equal(t, `{"event":"listening","port":1}`, line)

	_, ok = <-lc.lines
	assert.False(t, ok)

	lc.close()
	assert.Contains(t, lc.getLogs().Stdout, `"event":"listening"`)
}

func TestLogCapture_DetachStopsForwarding(t *testing.T) {
	lc := newLogCapture()
	lc.detach()

	// With no receiver on lines, writes beyond the channel buffer would
	// block forever if detach did not disarm forwarding.
	for i := 0; i < 200; i++ {
		fmt.Fprintf(lc.stdoutWriter, "line %d\n", i)
	}
	lc.close()

	logs := lc.getLogs()
	assert.Contains(t, logs.Stdout, "line 0\n")
	assert.Contains(t, logs.Stdout, "line 199\n")
}

func TestLogCapture_EmptyLogs(t *testing.T) {
	lc := newLogCapture()
	lc.close()

	logs := lc.getLogs()
	assert.Empty(t, logs.Stdout)
	assert.Empty(t, logs.Stderr)
	assert.Empty(t, logs.Combined)
}
