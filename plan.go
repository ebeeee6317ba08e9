// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package projinit

import (
	"slices"

	"github.com/samber/lo"
)

// Plan is the flattened set of directories and files to create for one invocation
type Plan struct {
	// ProjectName is the configured project name, possibly empty
	ProjectName string
	// Template is the resolved template name
	Template string
	// Engine is the template engine used for files with Template set
	Engine string
	// Directories are unique, in order of first appearance
	Directories []string
	// Files are written in order, later entries for the same path win
	Files []FileSpec
}

// Merge combines the configuration with the template resolved as name.
//
// Directories from the configuration, the template and any matching
// templates entry in the configuration are combined and de-duplicated.
// Files are ordered template first, then the configuration, then the
// matching templates entry so the most specific content is written last.
func Merge(cfg *Configuration, name string, tmpl Template) *Plan {
	if cfg == nil {
		cfg = &Configuration{}
	}

	plan := &Plan{
		ProjectName: cfg.ProjectName,
		Template:    name,
		Engine:      cfg.Engine,
	}

	dirs := slices.Concat(cfg.Directories, tmpl.Directories)
	files := slices.Concat(tmpl.Files, cfg.Files)

	if override, ok := cfg.Templates[name]; ok {
		dirs = append(dirs, override.AdditionalDirectories...)
		files = append(files, override.AdditionalFiles...)
	}

	plan.Directories = lo.Uniq(lo.Compact(dirs))
	plan.Files = files

	return plan
}

// PlanFor resolves the template name and merges it with cfg
func PlanFor(cfg *Configuration, template string) *Plan {
	name, tmpl := ResolveTemplate(template)
	return Merge(cfg, name, tmpl)
}
