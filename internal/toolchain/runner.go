// Package toolchain runs the external assembler and linker.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result is what a finished subprocess reported.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner starts a program and waits for it to finish.
// A nonzero exit code is reported in Result, not as an error; the error
// is reserved for failures to start or wait for the process.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}
