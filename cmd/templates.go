// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"

	"github.com/choria-io/fisk"
	"github.com/choria-io/projinit"
)

func configureTemplatesCommand(app *fisk.Application) {
	app.Command("templates", "List the built-in project templates").Action(closeLogOnError(templatesAction))
}

func templatesAction(_ *fisk.ParseContext) error {
	t := newTable("Project Templates", "Name", "Description", "Directories", "Files")

	for _, name := range projinit.TemplateNames() {
		_, tmpl := projinit.ResolveTemplate(name)
		t.AppendRow([]any{name, tmpl.Description, strings.Join(tmpl.Directories, ", "), len(tmpl.Files)})
	}

	t.Render()

	return nil
}
