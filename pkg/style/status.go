// Package style maps run statuses to their terminal presentation.
package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status classifies a package status line
type Status string

const (
	// StatusOK marks a package that was already present
	StatusOK Status = "ok"
	// StatusDone marks a package installed during this run
	StatusDone Status = "done"
	// StatusSkip marks a package deliberately not attempted
	StatusSkip Status = "skip"
	// StatusFail marks a package whose install command failed
	StatusFail Status = "fail"
)

// StatusStyle returns the pterm style for a status tag
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusOK:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusDone:
		return pterm.NewStyle(pterm.FgBlue)
	case StatusSkip:
		return pterm.NewStyle(pterm.FgYellow)
	case StatusFail:
		return pterm.NewStyle(pterm.FgRed)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RenderStatus renders one status line. With colored false the line is
// plain text, suitable for pipes and NO_COLOR.
func RenderStatus(status Status, name, note string, colored bool) string {
	tag := fmt.Sprintf("[%s]", status)
	if colored {
		tag = StatusStyle(status).Sprint(tag)
	}
	line := fmt.Sprintf("  %s %s", tag, name)
	if note != "" {
		line += fmt.Sprintf(" (%s)", note)
	}
	return line
}
