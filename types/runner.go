package types

import (
	"bytes"
	"errors"
	"os/exec"
)

// RunResult is the outcome of one external command invocation. A nonzero
// ExitCode is data, not an error: several of the tools we call (smartctl,
// fsck) encode findings in their exit status. LaunchErr is set only when the
// process never started.
type RunResult struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	LaunchErr error
}

// Runner executes external commands. Every component that shells out does so
// through this interface so it can be exercised in tests without touching
// real system tools.
type Runner interface {
	Run(name string, args ...string) RunResult
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

func (ExecRunner) Run(name string, args ...string) RunResult {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.LaunchErr = err
		}
	}
	return res
}
