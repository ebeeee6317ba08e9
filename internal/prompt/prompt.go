// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package prompt asks the user questions on an interactive terminal, used to
// confirm destructive actions and to fill in missing project details.
package prompt

//go:generate mockgen -source prompt.go -destination mock_test.go -package prompt -typed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/choria-io/projinit/internal/validator"
	"github.com/jedib0t/go-pretty/v6/text"
	terminal "golang.org/x/term"
)

// ErrNotTerminal indicates a question was asked without an interactive terminal
var ErrNotTerminal = errors.New("can only prompt on a valid terminal")

// surveyor abstracts the survey library for testability.
type surveyor interface {
	AskOne(p survey.Prompt, response any, opts ...survey.AskOpt) error
}

type defaultSurveyor struct{}

func (d *defaultSurveyor) AskOne(p survey.Prompt, response any, opts ...survey.AskOpt) error {
	return survey.AskOne(p, response, opts...)
}

// Option configures a Prompter
type Option func(*Prompter)

func withSurveyor(s surveyor) Option {
	return func(p *Prompter) {
		p.surveyor = s
	}
}

func withIsTerminal(f func() bool) Option {
	return func(p *Prompter) {
		p.isTerminal = f
	}
}

// WithOutput sets where descriptions are written, defaults to stdout
func WithOutput(w io.Writer) Option {
	return func(p *Prompter) {
		p.output = w
	}
}

// Prompter asks questions using survey
type Prompter struct {
	surveyor   surveyor
	isTerminal func() bool
	output     io.Writer
}

// Question describes a single free text question
type Question struct {
	Message     string
	Description string
	Help        string
	Default     string
	Required    bool
	// Validation is an expression that has to be true for the answer, available as value
	Validation string
}

// New creates a prompter for the current terminal
func New(opts ...Option) *Prompter {
	p := &Prompter{
		surveyor:   &defaultSurveyor{},
		isTerminal: isTerminal,
		output:     os.Stdout,
	}

	for _, o := range opts {
		o(p)
	}

	return p
}

// IsInteractive determines if questions can be asked
func (p *Prompter) IsInteractive() bool {
	return p.isTerminal()
}

// Confirm asks a yes or no question
func (p *Prompter) Confirm(message string, dflt bool) (bool, error) {
	if !p.isTerminal() {
		return false, ErrNotTerminal
	}

	ans := dflt
	err := p.surveyor.AskOne(&survey.Confirm{
		Message: message,
		Default: dflt,
	}, &ans)
	if err != nil {
		return false, err
	}

	return ans, nil
}

// Ask asks a free text question, the description supports color markup like {red}text{/red}
func (p *Prompter) Ask(q Question) (string, error) {
	if !p.isTerminal() {
		return "", ErrNotTerminal
	}

	if q.Description != "" {
		fmt.Fprintln(p.output)
		fmt.Fprintln(p.output, ColorMarkup(q.Description))
		fmt.Fprintln(p.output)
	}

	var opts []survey.AskOpt
	if q.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if q.Validation != "" {
		opts = append(opts, survey.WithValidator(validator.SurveyValidator(q.Validation, q.Required)))
	}

	var ans string
	err := p.surveyor.AskOne(&survey.Input{
		Message: q.Message,
		Help:    q.Help,
		Default: q.Default,
	}, &ans, opts...)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(ans), nil
}

func isTerminal() bool {
	return terminal.IsTerminal(int(os.Stdin.Fd())) && terminal.IsTerminal(int(os.Stdout.Fd()))
}

var colors = map[string]text.Colors{
	"bold":    {text.Bold},
	"red":     {text.FgRed},
	"green":   {text.FgGreen},
	"yellow":  {text.FgYellow},
	"blue":    {text.FgBlue},
	"magenta": {text.FgMagenta},
	"cyan":    {text.FgCyan},
	"white":   {text.FgWhite},
}

var markupPattern = regexp.MustCompile(`\{([a-z]+)\}([^{]*)\{/([a-z]+)\}`)

// ColorMarkup replaces tags like {red}text{/red} with terminal colors, unknown colors are stripped.
// Tags may be nested, inner tags are processed first.
func ColorMarkup(input string) string {
	result := input

	for {
		changed := false

		result = markupPattern.ReplaceAllStringFunc(result, func(match string) string {
			parts := markupPattern.FindStringSubmatch(match)
			if parts[1] != parts[3] {
				return match
			}

			changed = true

			c, ok := colors[parts[1]]
			if !ok {
				return parts[2]
			}

			return c.Sprint(parts[2])
		})

		if !changed {
			return result
		}
	}
}
