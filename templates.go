// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package projinit

import (
	"slices"
	"sort"
)

// DefaultTemplate is used when no template, or an unknown template, is requested
const DefaultTemplate = "default"

// Template is a built-in set of directories and files merged with the user configuration
type Template struct {
	Description string
	Directories []string
	Files       []FileSpec
}

var templates = map[string]Template{
	"default": {
		Description: "Basic project with source, tests and documentation",
		Directories: []string{"src", "tests", "docs"},
		Files: []FileSpec{
			{Path: "src/__init__.py", Content: "# Default template\n"},
			{Path: "tests/__init__.py", Content: "# Test directory\n"},
			{Path: "docs/README.md", Content: "# Project Documentation\n"},
			{Path: "README.md", Content: "# Default Project\n\nThis is a default project template.\n"},
		},
	},
	"web": {
		Description: "Flask web application",
		Directories: []string{"src", "tests", "docs", "static", "templates"},
		Files: []FileSpec{
			{Path: "src/__init__.py", Content: "# Web project\n"},
			{Path: "src/app.py", Content: "from flask import Flask\n\napp = Flask(__name__)\n\n@app.route(\"/\")\ndef hello():\n    return \"Hello, World!\"\n"},
			{Path: "tests/__init__.py", Content: "# Test directory\n"},
			{Path: "docs/README.md", Content: "# Web Project Documentation\n"},
			{Path: "README.md", Content: "# Web Project\n\nThis is a web project template using Flask.\n"},
			{Path: "requirements.txt", Content: "Flask==2.0.1\n"},
		},
	},
	"data-science": {
		Description: "Data analysis with notebooks",
		Directories: []string{"data", "notebooks", "src", "tests", "docs"},
		Files: []FileSpec{
			{Path: "src/__init__.py", Content: "# Data science project\n"},
			{Path: "notebooks/example.ipynb", Content: `{"cells": [], "metadata": {}, "nbformat": 4, "nbformat_minor": 4}`},
			{Path: "tests/__init__.py", Content: "# Test directory\n"},
			{Path: "docs/README.md", Content: "# Data Science Project Documentation\n"},
			{Path: "README.md", Content: "# Data Science Project\n\nThis is a data science project template.\n"},
			{Path: "requirements.txt", Content: "numpy==1.21.0\npandas==1.3.0\nmatplotlib==3.4.2\nscikit-learn==0.24.2\n"},
		},
	},
	"cli": {
		Description: "Click command line application",
		Directories: []string{"src", "tests", "docs"},
		Files: []FileSpec{
			{Path: "src/__init__.py", Content: "# CLI project\n"},
			{Path: "src/cli.py", Content: "import click\n\n@click.command()\ndef hello():\n    click.echo(\"Hello, World!\")\n\nif __name__ == \"__main__\":\n    hello()\n"},
			{Path: "tests/__init__.py", Content: "# Test directory\n"},
			{Path: "docs/README.md", Content: "# CLI Project Documentation\n"},
			{Path: "README.md", Content: "# CLI Project\n\nThis is a CLI project template using Click.\n"},
			{Path: "requirements.txt", Content: "click==8.0.1\n"},
		},
	},
}

// TemplateNames lists the built-in templates sorted by name
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for k := range templates {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

// IsKnownTemplate determines if name is one of the built-in templates
func IsKnownTemplate(name string) bool {
	_, ok := templates[name]
	return ok
}

// ResolveTemplate finds a template by name, unknown names resolve to the default template.
// The returned name is the one that was resolved and the template is a copy that callers may modify.
func ResolveTemplate(name string) (string, Template) {
	t, ok := templates[name]
	if !ok {
		name = DefaultTemplate
		t = templates[DefaultTemplate]
	}

	return name, Template{
		Description: t.Description,
		Directories: slices.Clone(t.Directories),
		Files:       slices.Clone(t.Files),
	}
}
