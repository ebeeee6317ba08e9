// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(title string, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter

	if title != "" {
		t.SetTitle("%s", title)
	}

	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}

	return t
}

func colorAction(action string) string {
	switch action {
	case "add", "created", "ran":
		return text.FgGreen.Sprint(action)
	case "update", "removed", "would remove":
		return text.FgYellow.Sprint(action)
	case "failed", "fail":
		return text.FgRed.Sprint(action)
	default:
		return text.FgHiBlack.Sprint(action)
	}
}
