// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/choria-io/fisk"
	"github.com/choria-io/projinit"
	"github.com/choria-io/projinit/internal/prompt"
)

var (
	cleanDirectory string
	cleanAll       bool
	cleanKeep      []string
	cleanDryRun    bool
	cleanForce     bool
)

func configureCleanCommand(app *fisk.Application) {
	clean := app.Command("clean", "Remove build artifacts from the project").Action(closeLogOnError(cleanAction))
	clean.HelpLong(`
Removes build, dist and __pycache__ directories along with compiled Python
files. With --all tool caches and coverage data are removed too.

Paths matching a --keep pattern, relative to the project directory, are
never removed, for example --keep 'vendor/**'.
`)
	clean.Flag("directory", "Directory of the project to clean").Short('d').Default(".").ExistingDirVar(&cleanDirectory)
	clean.Flag("all", "Remove all generated files, including caches").BoolVar(&cleanAll)
	clean.Flag("keep", "Glob of paths to never remove").PlaceHolder("GLOB").StringsVar(&cleanKeep)
	clean.Flag("dry-run", "Show what would be done without making changes").BoolVar(&cleanDryRun)
	clean.Flag("force", "Do not ask for confirmation").Short('f').BoolVar(&cleanForce)
}

func cleanAction(_ *fisk.ParseContext) error {
	if !cleanForce && !cleanDryRun {
		ok, err := prompt.New().Confirm("Are you sure you want to clean the project?", false)
		switch {
		case errors.Is(err, prompt.ErrNotTerminal):
			return fmt.Errorf("refusing to clean without confirmation, pass --force to clean non interactively")
		case err != nil:
			return err
		case !ok:
			fmt.Println("Aborted.")
			return nil
		}
	}

	policy := projinit.CleanPolicyFor(cleanAll)
	policy.Keep = cleanKeep

	cleaner, err := projinit.NewCleaner(cleanDirectory, policy)
	if err != nil {
		return err
	}
	cleaner.Logger(logger)
	cleaner.DryRun(cleanDryRun)

	if cleanDryRun {
		fmt.Println("Dry run: showing what would be done without making changes.")
	}

	report, err := cleaner.Clean()

	action := "removed"
	if report.DryRun {
		action = "would remove"
	}

	if len(report.Removed) > 0 {
		t := newTable(fmt.Sprintf("Cleaning %s", cleanDirectory), "Action", "Path")
		for _, p := range report.Removed {
			t.AppendRow([]any{colorAction(action), p})
		}
		t.Render()
	}

	if err != nil {
		return fmt.Errorf("error cleaning project: %w", friendlyError(err, ""))
	}

	if len(report.Removed) == 0 {
		fmt.Println("No files or directories needed cleaning.")
		return nil
	}

	fmt.Println("Project cleaned successfully.")

	return nil
}
