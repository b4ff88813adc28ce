package main

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// reportStyles holds the color formatters used to render job status,
// following the same heading/ok/fail separation report.go uses for
// findings.
type reportStyles struct {
	heading *color.Color
	ok      *color.Color
	fail    *color.Color
}

func newStyles(enabled bool) *reportStyles {
	s := &reportStyles{
		heading: color.New(color.Bold),
		ok:      color.New(color.FgHiGreen),
		fail:    color.New(color.FgHiRed),
	}
	if !enabled {
		s.heading.DisableColor()
		s.ok.DisableColor()
		s.fail.DisableColor()
	}
	return s
}

// colorEnabled reports whether stdout is a terminal and NO_COLOR isn't set.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
