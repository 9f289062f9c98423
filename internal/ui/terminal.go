package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

func init() {
	if !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions, then
// falls back to whether stdout is a terminal.
//
//	NO_COLOR set        -> never
//	CLICOLOR_FORCE != 0 -> always
//	CLICOLOR=0          -> never
func ShouldUseColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return IsTerminal()
}

// DisableColor strips styling from all later renders (--json, tests).
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// TerminalWidth returns the stdout width, or def when unknown.
func TerminalWidth(def int) int {
	if w, _ := terminalSize(); w > 0 {
		return w
	}
	return def
}

// terminalSize returns stdout's width and height, or zeros when stdout is
// not a terminal.
func terminalSize() (width, height int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 0, 0
	}
	return w, h
}
