package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr   string
	ExitCode int // -1 when the process could not be started.
	Err      error
}

// OK reports whether the process ran and exited with status 0.
func (r ExecResult) OK() bool { return r.Err == nil }

// Runner executes a fully built argument slice (binary first).
type Runner interface {
	Run(ctx context.Context, args []string) ExecResult
}

// ExecRunner runs commands with os/exec. When Tee is set, stderr is copied
// to os.Stderr in real time as well as captured.
type ExecRunner struct {
	Tee bool
}

// Run executes args and blocks until the process exits. There is no timeout;
// ctx is only honored if the caller cancels it.
func (r ExecRunner) Run(ctx context.Context, args []string) ExecResult {
	if len(args) == 0 {
		return ExecResult{ExitCode: -1, Err: errors.New("empty command")}
	}

	// #nosec G204 - binary comes from operator config, args are built by Build
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if r.Tee {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	code := 0
	if err != nil {
		code = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
	}
	return ExecResult{
		Stderr:   stderrBuf.String(),
		ExitCode: code,
		Err:      err,
	}
}
