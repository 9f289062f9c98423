package main

import (
	"strconv"
	"strings"
)

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// formatPoints renders a story point value, or def when unset.
func formatPoints(points float64, ok bool, def string) string {
	if !ok {
		return def
	}
	return strconv.FormatFloat(points, 'f', -1, 64)
}

// pointsPtr is the JSON form of a story point value.
func pointsPtr(points float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &points
}

// padLabels aligns "label : value" pairs on the colon.
func padLabels(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(p[0] + strings.Repeat(" ", width-len(p[0])) + " : " + p[1] + "\n")
	}
	return sb.String()
}
