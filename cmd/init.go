// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/choria-io/fisk"
	"github.com/choria-io/projinit"
	"github.com/choria-io/projinit/internal/prompt"
)

var (
	initConfig      string
	initOutput      string
	initTemplate    string
	initName        string
	initInteractive bool
	initDryRun      bool
)

func configureInitCommand(app *fisk.Application) {
	cmd := app.Command("init", "Initialize a project structure from a configuration file and template").Action(closeLogOnError(initAction))
	cmd.HelpLong(`
Directories and files from the configuration are combined with those of the
selected template. Files listed in the configuration replace template files
using the same path.

The text ${project_name} in file content is replaced by the project name.
`)
	cmd.Flag("config", "Path to the configuration file").Short('c').Default("config.yaml").Envar("PROJINIT_CONFIG").StringVar(&initConfig)
	cmd.Flag("output", "Output directory for the project structure").Short('o').Default(".").StringVar(&initOutput)
	cmd.Flag("template", "Project template to use").Short('t').Default(projinit.DefaultTemplate).EnumVar(&initTemplate, projinit.TemplateNames()...)
	cmd.Flag("name", "Project name, overrides the configuration").StringVar(&initName)
	cmd.Flag("interactive", "Prompt for a project name when none is configured").BoolVar(&initInteractive)
	cmd.Flag("dry-run", "Show what would be done without making changes").BoolVar(&initDryRun)
}

func initAction(_ *fisk.ParseContext) error {
	logger.Infof("Initializing project structure using %s template", initTemplate)
	logger.Debugf("Using configuration file: %s", initConfig)
	logger.Debugf("Output directory: %s", initOutput)

	cfg, err := projinit.Load(initConfig)
	if err != nil {
		return friendlyError(err, initConfig)
	}

	if initName != "" {
		cfg.ProjectName = initName
	}

	if cfg.ProjectName == "" && initInteractive {
		cfg.ProjectName, err = prompt.New().Ask(prompt.Question{
			Message:     "Project name",
			Description: "The {bold}project name{/bold} replaces ${project_name} in generated files",
			Default:     projinit.DefaultProjectName,
			Required:    true,
			Validation:  "isIdentifier(value)",
		})
		if err != nil {
			return err
		}
	}

	plan := projinit.PlanFor(cfg, initTemplate)

	m, err := projinit.NewMaterializer(initOutput)
	if err != nil {
		return err
	}
	m.Logger(logger)

	if initDryRun {
		return showInitPreview(m, plan)
	}

	report, err := m.Apply(plan)
	if err != nil {
		return friendlyError(err, initConfig)
	}

	showInitReport(m, report)

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d files could not be created", len(report.Failed), len(plan.Files))
	}

	fmt.Printf("Project structure initialized successfully using %s template.\n", plan.Template)

	return nil
}

func showInitPreview(m *projinit.Materializer, plan *projinit.Plan) error {
	planned, err := m.Preview(plan)
	if err != nil {
		return err
	}

	fmt.Println("Dry run: showing what would be done without making changes.")

	t := newTable(fmt.Sprintf("Planned changes in %s", m.Root()), "Action", "Path")
	for _, d := range plan.Directories {
		t.AppendRow([]any{colorAction("directory"), d})
	}
	failed := 0
	for _, p := range planned {
		detail := p.Path
		if p.Action == projinit.FileActionFail {
			failed++
			detail = fmt.Sprintf("%s: %v", p.Path, p.Err)
		}
		t.AppendRow([]any{colorAction(string(p.Action)), detail})
	}
	t.Render()

	if failed > 0 {
		return fmt.Errorf("%d files could not be created", failed)
	}

	return nil
}

func showInitReport(m *projinit.Materializer, report *projinit.ApplyReport) {
	t := newTable(fmt.Sprintf("Project created in %s", m.Root()), "Result", "Detail")
	t.AppendRow([]any{colorAction("created"), fmt.Sprintf("%d directories", report.DirectoriesCreated)})
	t.AppendRow([]any{colorAction("created"), fmt.Sprintf("%d files", report.FilesCreated)})
	for _, s := range report.Skipped {
		if s == "" {
			s = "(empty path)"
		}
		t.AppendRow([]any{colorAction("skipped"), s})
	}
	for _, f := range report.Failed {
		t.AppendRow([]any{colorAction("failed"), fmt.Sprintf("%s: %v", f.Path, f.Err)})
	}
	t.Render()
}
