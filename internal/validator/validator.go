// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package validator evaluates boolean expr-lang expressions used for file
// conditions and prompt answer validation.
package validator

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/expr-lang/expr"
)

// Validate evaluates expression against env and reports the boolean result
func Validate(env map[string]any, expression string) (bool, error) {
	opts := []expr.Option{
		expr.AsBool(),
		expr.Env(env),
		expr.AllowUndefinedVariables(),
	}
	opts = append(opts, functions()...)

	prog, err := expr.Compile(expression, opts...)
	if err != nil {
		return false, err
	}

	res, err := expr.Run(prog, env)
	if err != nil {
		return false, err
	}

	ok, valid := res.(bool)
	if !valid {
		return false, fmt.Errorf("expression did not return a boolean")
	}

	return ok, nil
}

// SurveyValidator creates a survey validator that evaluates expression with the answer available as value.
// Empty answers are accepted without evaluation when required is false.
func SurveyValidator(expression string, required bool) survey.Validator {
	return func(ans any) error {
		sv, isStr := ans.(string)
		if isStr && sv == "" && !required {
			return nil
		}

		env := map[string]any{
			"value": ans,
			"Value": ans,
		}

		ok, err := Validate(env, expression)
		if err != nil {
			return fmt.Errorf("validation using %q failed: %w", expression, err)
		}

		if !ok {
			return fmt.Errorf("validation using %q did not pass", expression)
		}

		return nil
	}
}

func functions() []expr.Option {
	return []expr.Option{
		expr.Function("isInt", func(params ...any) (any, error) {
			_, err := strconv.Atoi(fmt.Sprint(params[0]))
			return err == nil, nil
		}, new(func(any) bool)),

		expr.Function("isFloat", func(params ...any) (any, error) {
			_, err := strconv.ParseFloat(fmt.Sprint(params[0]), 64)
			return err == nil, nil
		}, new(func(any) bool)),

		expr.Function("isIdentifier", func(params ...any) (any, error) {
			return identifierPattern.MatchString(fmt.Sprint(params[0])), nil
		}, new(func(any) bool)),
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _-]*$`)
