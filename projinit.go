// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package projinit creates project layouts described by a YAML configuration,
// optionally merged with one of a few built-in templates, and removes the build
// artifacts such projects accumulate.
package projinit

import (
	"errors"
	"fmt"
	"io/fs"
)

// DefaultProjectName is substituted for ${project_name} when the configuration does not set one
const DefaultProjectName = "My Project"

// ProjectNamePlaceholder is replaced in file content with the project name
const ProjectNamePlaceholder = "${project_name}"

var (
	// ErrConfigNotFound indicates the configuration file does not exist
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrConfigParse indicates the configuration document is malformed
	ErrConfigParse = errors.New("configuration parse error")
	// ErrPermissionDenied indicates the process lacks rights for a filesystem operation
	ErrPermissionDenied = errors.New("permission denied")
	// ErrIOFailure is any other operating system level failure
	ErrIOFailure = errors.New("io failure")
)

// Logger is the logging interface used by all components, nothing is logged without one
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

func loggerOrNop(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}

	return log
}

// classifyError wraps err in ErrPermissionDenied or ErrIOFailure along with the action that failed
func classifyError(action string, path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s %s: %w", ErrPermissionDenied, action, path, err)
	}

	return fmt.Errorf("%w: %s %s: %w", ErrIOFailure, action, path, err)
}
