// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/choria-io/fisk"
	"github.com/choria-io/projinit"
	"github.com/choria-io/projinit/internal/shell"
)

var (
	buildDirectory string
	buildSteps     []string
	buildDryRun    bool
	docsDirectory  string
)

func configureBuildCommand(app *fisk.Application) {
	build := app.Command("build", "Build the project using its native tooling").Action(closeLogOnError(buildAction))
	build.HelpLong(`
Runs 'python setup.py build' when setup.py exists and 'npm install' when
package.json exists. Additional commands can be given using --step and are
run afterwards in the project directory.
`)
	build.Flag("directory", "Directory of the project to build").Short('d').Default(".").ExistingDirVar(&buildDirectory)
	build.Flag("step", "Additional command to run after the detected tools").PlaceHolder("COMMAND").StringsVar(&buildSteps)
	build.Flag("dry-run", "Show what would be done without running anything").BoolVar(&buildDryRun)
}

func configureDocsCommand(app *fisk.Application) {
	docs := app.Command("docs", "Generate project documentation using make html").Action(closeLogOnError(docsAction))
	docs.Flag("directory", "Directory of the project").Short('d').Default(".").ExistingDirVar(&docsDirectory)
}

func commandRunner() *shell.Runner {
	var out io.Writer
	if verbose {
		out = os.Stderr
	}

	return &shell.Runner{Output: out}
}

func buildAction(_ *fisk.ParseContext) error {
	opts := projinit.BuildOptions{DryRun: buildDryRun}
	for _, s := range buildSteps {
		step, err := shell.Split(s)
		if err != nil {
			return fmt.Errorf("invalid step %q: %w", s, err)
		}
		opts.Steps = append(opts.Steps, step)
	}

	if buildDryRun {
		fmt.Println("Dry run: showing what would be done without making changes.")
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	report, err := projinit.Build(ctx, buildDirectory, commandRunner(), opts, logger)
	showTaskReport("Build", report)
	if err != nil {
		return fmt.Errorf("error building project: %w", err)
	}

	fmt.Println("Project built successfully.")

	return nil
}

func docsAction(_ *fisk.ParseContext) error {
	ctx, cancel := interruptibleContext()
	defer cancel()

	report, err := projinit.Docs(ctx, docsDirectory, commandRunner(), logger)
	showTaskReport("Documentation", report)
	if err != nil {
		return fmt.Errorf("error generating documentation: %w", err)
	}

	return nil
}

func showTaskReport(title string, report *projinit.TaskReport) {
	if report == nil || len(report.Actions) == 0 {
		return
	}

	t := newTable(title, "Action")
	for _, a := range report.Actions {
		t.AppendRow([]any{a})
	}
	t.Render()
}
