// Package ui renders jt output for the terminal: styles, tables,
// markdown and the pager. Colors follow the Ayu theme and adapt to light
// and dark backgrounds.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorAmber = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorRed   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorGray  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorBlue  = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorAmber)
	failStyle   = lipgloss.NewStyle().Foreground(colorRed)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorGray)
	accentStyle = lipgloss.NewStyle().Foreground(colorBlue)
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

// RenderPass styles success text.
func RenderPass(s string) string { return passStyle.Render(s) }

// RenderWarn styles warnings and comment headers.
func RenderWarn(s string) string { return warnStyle.Render(s) }

// RenderFail styles failures.
func RenderFail(s string) string { return failStyle.Render(s) }

// RenderMuted styles secondary text such as table rules.
func RenderMuted(s string) string { return mutedStyle.Render(s) }

// RenderAccent styles highlighted values.
func RenderAccent(s string) string { return accentStyle.Render(s) }

// RenderLabel styles headings and field labels.
func RenderLabel(s string) string { return labelStyle.Render(s) }

// Workflow status names are site-defined, so they are grouped by the
// words they usually contain.
var (
	doneWords     = []string{"done", "closed", "resolved", "complete"}
	blockedWords  = []string{"blocked", "rejected", "won't", "cancel"}
	progressWords = []string{"progress", "review", "testing", "qa"}
)

type statusCategory int

const (
	statusOther statusCategory = iota
	statusDone
	statusBlocked
	statusActive
)

func categorize(status string) statusCategory {
	lower := strings.ToLower(status)
	switch {
	case containsAny(lower, doneWords):
		return statusDone
	case containsAny(lower, blockedWords):
		return statusBlocked
	case containsAny(lower, progressWords):
		return statusActive
	default:
		return statusOther
	}
}

// RenderStatus colors a ticket status by category: finished statuses
// green, blocked ones red, active ones blue. Others are left plain.
func RenderStatus(status string) string {
	switch categorize(status) {
	case statusDone:
		return RenderPass(status)
	case statusBlocked:
		return RenderFail(status)
	case statusActive:
		return RenderAccent(status)
	default:
		return status
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
