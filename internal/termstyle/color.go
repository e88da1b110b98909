// SPDX-License-Identifier: MIT
// Package termstyle applies ANSI coloring to classification tags in the
// report table, gated by TTY detection and --no-color/NO_COLOR.
package termstyle

import (
	"github.com/liggitt/tabwriter"

	"github.com/foriequal0/git-trim/internal/model"
)

const (
	Reset = "\x1b[0m"
	Green = "\x1b[32m"
	Brown = "\x1b[33m"
	Red   = "\x1b[31m"
	Blue  = "\x1b[34m"
	Cyan  = "\x1b[36m"

	// Semantic aliases used by the classification report table.
	Deleted  = Green
	Diverged = Brown
	Stray    = Red
	Kept     = Blue
	Planned  = Cyan
)

// Colorize wraps a value in ANSI escapes when color output is enabled.
func Colorize(enabled bool, value, color string) string {
	if !enabled || value == "" || color == "" {
		return value
	}
	// Hide ANSI sequences from tabwriter's width calculation so columns align.
	esc := string([]byte{tabwriter.Escape})
	return esc + color + esc + value + esc + Reset + esc
}

// ClassColor picks the display color for a branch's classification tag.
func ClassColor(class model.Classification) string {
	switch class {
	case model.MergedLocal, model.MergedRemote, model.MergedRemoteTracking, model.MergedNonTracking:
		return Deleted
	case model.Diverged:
		return Diverged
	case model.Stray:
		return Stray
	case model.Kept:
		return Kept
	default:
		return ""
	}
}
