// Package simulator launches and supervises GitHub API simulator processes.
//
// A run starts from a scenario document (see package scenario), which is
// written as github-sim-config.json into a work directory and handed to
// the simulator executable as its only argument. The executable announces
// readiness on stdout with line-delimited JSON events; the orchestrator
// waits for the listening announcement, captures all output, and exposes
// the resulting endpoint.
//
// # Lifecycle
//
// Instances move through NotStarted, Starting, Listening, and Stopped. A
// startup failure is terminal and reported as a *StartError carrying the
// output captured before the failure.
//
//	inst, err := simulator.Start(ctx, doc, simulator.Options{})
//	if err != nil {
//		return err
//	}
//	defer inst.Stop()
//
//	resp, err := http.Get(inst.BaseURL + "/users/octocat")
//
// # Executable resolution
//
// The simulator binary is located by ResolveExecutable: an explicit
// override wins, then the SIMCAT_SIMULATOR environment variable, then
// github-sim on PATH. The port is chosen by the simulator itself and
// learned from the listening event; nothing is probed or reserved here.
//
// # Shutdown
//
// Stop signals the simulator's process group: SIGTERM first, escalating
// to SIGKILL when the process does not exit within the stop timeout. Stop
// is nil-safe and idempotent, so "defer inst.Stop()" is always safe.
package simulator
