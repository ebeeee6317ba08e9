// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package projinit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Template engines usable for files marked as templates
const (
	EngineGo  = "go"
	EngineJet = "jet"
)

// Configuration describes the project to create
type Configuration struct {
	// ProjectName replaces ${project_name} in file content
	ProjectName string `yaml:"project_name"`
	// Engine selects the template engine for files with Template set, go or jet
	Engine string `yaml:"engine"`
	// Directories to create
	Directories []string `yaml:"directories"`
	// Files to create
	Files []FileSpec `yaml:"files"`
	// Templates adds directories and files when the named template is in use
	Templates map[string]TemplateOverride `yaml:"templates"`
}

// FileSpec describes a single file to create
type FileSpec struct {
	// Path is relative to the output directory unless absolute
	Path string `yaml:"path"`
	// Content is written to the file after ${project_name} substitution
	Content string `yaml:"content"`
	// Template renders Content using the configured template engine
	Template bool `yaml:"template"`
	// When is an expression that must be true for the file to be created
	When string `yaml:"when"`
}

// TemplateOverride holds configuration specific to one template
type TemplateOverride struct {
	AdditionalDirectories []string   `yaml:"additional_directories"`
	AdditionalFiles       []FileSpec `yaml:"additional_files"`
}

// Load reads and parses the configuration file at path
func Load(path string) (*Configuration, error) {
	cb, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	case err != nil:
		return nil, classifyError("reading", path, err)
	}

	cfg, err := Parse(cb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse parses a YAML configuration document, an empty document is a valid empty configuration
func Parse(doc []byte) (*Configuration, error) {
	cfg := &Configuration{}

	err := yaml.Unmarshal(doc, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	switch cfg.Engine {
	case "", EngineGo, EngineJet:
	default:
		return nil, fmt.Errorf("%w: unknown template engine %q", ErrConfigParse, cfg.Engine)
	}

	if cfg.Templates == nil {
		cfg.Templates = map[string]TemplateOverride{}
	}

	return cfg, nil
}
