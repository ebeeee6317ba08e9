// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/choria-io/fisk"
	"github.com/choria-io/projinit"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	verbose bool
	logFile string
	noColor bool
	version string

	logger  *log.Logger
	logSink *os.File
)

func main() {
	app := fisk.New("projinit", "Creates project layouts from configuration and templates")
	app.Version(version)

	app.Help = `
Creates directories and files described by a YAML configuration, optionally
combined with one of the built-in templates.

Also builds projects using their native tooling and cleans build artifacts.
`
	app.Flag("verbose", "Enables verbose logging").Short('v').BoolVar(&verbose)
	app.Flag("log-file", "Also write logs to this file").PlaceHolder("FILE").Envar("PROJINIT_LOG_FILE").StringVar(&logFile)
	app.Flag("no-color", "Disables colored output").Envar("NO_COLOR").BoolVar(&noColor)
	app.PreAction(setupLogging)

	configureInitCommand(app)
	configureBuildCommand(app)
	configureCleanCommand(app)
	configureDocsCommand(app)
	configureTemplatesCommand(app)

	defer closeLogging()

	app.MustParseWithUsage(os.Args[1:])
}

func setupLogging(_ *fisk.ParseContext) error {
	if noColor {
		text.DisableColors()
	}

	var out io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logSink = f
		out = io.MultiWriter(os.Stderr, f)
	}

	logger = log.NewWithOptions(out, log.Options{
		Prefix:          "projinit",
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})

	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return nil
}

func closeLogging() {
	if logSink != nil {
		logSink.Close()
		logSink = nil
	}
}

// closeLogOnError closes the log file when action fails since fisk exits the process on errors
func closeLogOnError(action func(*fisk.ParseContext) error) func(*fisk.ParseContext) error {
	return func(pc *fisk.ParseContext) error {
		err := action(pc)
		if err != nil {
			logger.Errorf("%v", err)
			closeLogging()
		}

		return err
	}
}

func interruptibleContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// friendlyError adds guidance to the errors users are most likely to hit
func friendlyError(err error, path string) error {
	switch {
	case errors.Is(err, projinit.ErrConfigNotFound):
		return fmt.Errorf("configuration file %q not found, please make sure the file exists and the path is correct: %w", path, err)
	case errors.Is(err, projinit.ErrConfigParse):
		return fmt.Errorf("configuration file %q is not valid: %w", path, err)
	case errors.Is(err, projinit.ErrPermissionDenied):
		return fmt.Errorf("please check your permissions for the output directory: %w", err)
	default:
		return err
	}
}
