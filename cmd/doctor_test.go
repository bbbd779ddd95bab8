package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"simcat/pkg/simulator"
)

func resetDoctorFlags(t *testing.T) {
	t.Helper()
	origSimulator, origProbe := doctorSimulator, doctorProbe
	t.Cleanup(func() {
		doctorSimulator, doctorProbe = origSimulator, origProbe
	})
}

// fakeExecutable drops an executable file into a temp dir and returns
// its path.
func fakeExecutable(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test writes a unix shell script")
	}
	path := filepath.Join(t.TempDir(), "github-sim")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake executable: %v", err)
	}
	return path
}

func TestRunDoctorResolvesExecutable(t *testing.T) {
	resetDoctorFlags(t)
	doctorProbe = false
	doctorSimulator = fakeExecutable(t)
	t.Setenv(simulator.EnvExecutable, "")

	var buf bytes.Buffer
	if err := runDoctor(newCaptureCommand(&buf), nil); err != nil {
		t.Fatalf("runDoctor() unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"--simulator", "$" + simulator.EnvExecutable, "executable", "work directory", "No problems found."} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "probe") {
		t.Errorf("doctor output should not include probe row without --probe:\n%s", out)
	}
}

func TestRunDoctorMissingExecutable(t *testing.T) {
	resetDoctorFlags(t)
	doctorProbe = false
	doctorSimulator = filepath.Join(t.TempDir(), "does-not-exist")
	t.Setenv(simulator.EnvExecutable, "")

	var buf bytes.Buffer
	err := runDoctor(newCaptureCommand(&buf), nil)
	if err == nil {
		t.Fatal("Expected doctor to report the missing executable")
	}
	if !strings.Contains(err.Error(), "1 problem") {
		t.Errorf("Expected one problem, got: %v", err)
	}
	if !strings.Contains(buf.String(), "FAILED") {
		t.Errorf("doctor output missing FAILED row:\n%s", buf.String())
	}
}

func TestRunDoctorReportsEnvOverride(t *testing.T) {
	resetDoctorFlags(t)
	doctorProbe = false
	doctorSimulator = ""
	path := fakeExecutable(t)
	t.Setenv(simulator.EnvExecutable, path)

	var buf bytes.Buffer
	if err := runDoctor(newCaptureCommand(&buf), nil); err != nil {
		t.Fatalf("runDoctor() unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), path) {
		t.Errorf("doctor output should show the env override path:\n%s", buf.String())
	}
}
