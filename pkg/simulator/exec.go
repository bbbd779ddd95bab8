package simulator

import (
	"fmt"
	"os"
	"os/exec"
)

const (
	// EnvExecutable names the environment variable consulted when no
	// explicit executable override is given.
	EnvExecutable = "SIMCAT_SIMULATOR"

	// DefaultExecutable is looked up on PATH when neither an override nor
	// the environment variable names a simulator binary.
	DefaultExecutable = "github-sim"
)

// ResolveExecutable locates the simulator binary. Resolution order: the
// explicit override, the SIMCAT_SIMULATOR environment variable, then
// github-sim on PATH. Overrides containing a path separator are checked
// directly instead of searched on PATH.
func ResolveExecutable(override string) (string, error) {
	name := override
	if name == "" {
		name = os.Getenv(EnvExecutable)
	}
	if name == "" {
		name = DefaultExecutable
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrExecutableNotFound, name)
	}
	return path, nil
}
