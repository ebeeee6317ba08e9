// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package projinit

//go:generate mockgen -source tasks.go -destination mock_test.go -package projinit -typed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// CommandResult is the outcome of running an external command
type CommandResult struct {
	Command  string
	Args     []string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner runs external programs, errors indicate the program could not be run at all
type CommandRunner interface {
	Run(ctx context.Context, dir string, command string, args []string) (*CommandResult, error)
}

// Step is an external command run as part of a task
type Step struct {
	Command string
	Args    []string
}

// String is the step as a shell quoted command line
func (s Step) String() string {
	return shellquote.Join(append([]string{s.Command}, s.Args...)...)
}

// TaskReport holds the human readable actions a task took and the commands it ran
type TaskReport struct {
	Actions []string
	Results []*CommandResult
}

// ErrStepFailed indicates an external command exited unsuccessfully
var ErrStepFailed = errors.New("step failed")

// BuildOptions configures Build
type BuildOptions struct {
	// Steps are run after the detected build tools
	Steps []Step
	// DryRun reports the steps that would run without running them
	DryRun bool
}

// Build runs the build tooling found in dir, python setup.py build when setup.py
// exists and npm install when package.json exists, followed by any extra steps.
func Build(ctx context.Context, dir string, runner CommandRunner, opts BuildOptions, log Logger) (*TaskReport, error) {
	log = loggerOrNop(log)
	report := &TaskReport{}

	log.Infof("Building project in directory: %s", dir)

	detected := []struct {
		marker string
		step   Step
		skip   string
	}{
		{"setup.py", Step{Command: "python", Args: []string{"setup.py", "build"}}, "No setup.py found, skipping Python build"},
		{"package.json", Step{Command: "npm", Args: []string{"install"}}, "No package.json found, skipping npm install"},
	}

	var steps []Step
	for _, d := range detected {
		found, err := fileExists(filepath.Join(dir, d.marker))
		if err != nil {
			return report, err
		}

		if !found {
			log.Debugf("%s", d.skip)
			report.Actions = append(report.Actions, d.skip)
			continue
		}

		steps = append(steps, d.step)
	}

	steps = append(steps, opts.Steps...)

	err := runSteps(ctx, dir, runner, steps, opts.DryRun, report, log)
	if err != nil {
		return report, err
	}

	log.Infof("Project built successfully")

	return report, nil
}

// Docs generates documentation by running make html in the docs directory below dir
func Docs(ctx context.Context, dir string, runner CommandRunner, log Logger) (*TaskReport, error) {
	log = loggerOrNop(log)
	report := &TaskReport{}

	docs := filepath.Join(dir, "docs")
	st, err := os.Stat(docs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return report, fmt.Errorf("%w: no docs directory in %s", ErrIOFailure, dir)
	case err != nil:
		return report, classifyError("reading", docs, err)
	case !st.IsDir():
		return report, fmt.Errorf("%w: %s is not a directory", ErrIOFailure, docs)
	}

	log.Infof("Generating documentation in %s", docs)

	err = runSteps(ctx, docs, runner, []Step{{Command: "make", Args: []string{"html"}}}, false, report, log)
	if err != nil {
		return report, err
	}

	report.Actions = append(report.Actions, fmt.Sprintf("Documentation generated in %s", filepath.Join(docs, "build", "html")))

	return report, nil
}

func runSteps(ctx context.Context, dir string, runner CommandRunner, steps []Step, dryRun bool, report *TaskReport, log Logger) error {
	for _, step := range steps {
		if dryRun {
			report.Actions = append(report.Actions, fmt.Sprintf("Would run '%s'", step))
			continue
		}

		log.Debugf("Running '%s' in %s", step, dir)

		res, err := runner.Run(ctx, dir, step.Command, step.Args)
		if err != nil {
			report.Actions = append(report.Actions, fmt.Sprintf("Error: could not run '%s': %v", step, err))
			return fmt.Errorf("%w: %s: %w", ErrStepFailed, step, err)
		}
		report.Results = append(report.Results, res)

		if res.ExitCode != 0 {
			log.Errorf("'%s' exited with code %d: %s", step, res.ExitCode, strings.TrimSpace(res.Stderr))
			report.Actions = append(report.Actions, fmt.Sprintf("Error: '%s' exited with code %d", step, res.ExitCode))
			return fmt.Errorf("%w: %s exited with code %d", ErrStepFailed, step, res.ExitCode)
		}

		report.Actions = append(report.Actions, fmt.Sprintf("Ran '%s'", step))
	}

	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, classifyError("reading", path, err)
	}
}
