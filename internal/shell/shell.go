// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package shell runs external programs on behalf of the build and docs tasks
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/choria-io/projinit"
	"github.com/kballard/go-shellquote"
)

// Runner runs commands using os/exec
type Runner struct {
	// Output receives a copy of the command stdout and stderr as it runs when set
	Output io.Writer
}

var _ projinit.CommandRunner = (*Runner)(nil)

// Run executes command in dir, a non zero exit code is reported in the result and is not an error
func (r *Runner) Run(ctx context.Context, dir string, command string, args []string) (*projinit.CommandResult, error) {
	res := &projinit.CommandResult{
		Command: command,
		Args:    args,
		Dir:     dir,
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.Output)
		cmd.Stderr = io.MultiWriter(&stderr, r.Output)
	}

	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		return nil, err
	}

	return res, nil
}

// Split parses a shell style command line into a step
func Split(line string) (projinit.Step, error) {
	parts, err := shellquote.Split(line)
	if err != nil {
		return projinit.Step{}, err
	}

	if len(parts) == 0 {
		return projinit.Step{}, fmt.Errorf("empty command")
	}

	return projinit.Step{Command: parts[0], Args: parts[1:]}, nil
}
