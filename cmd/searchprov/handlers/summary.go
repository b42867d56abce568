package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/searchprov/internal/provisioning"
	"github.com/imamik/searchprov/internal/request"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// Step markers.
const (
	markOK      = "✓"
	markFailed  = "✗"
	markSkipped = "-"
)

// renderApplySummary lists every request with its result.
func renderApplySummary(endpoint string, requests []request.Descriptor, outcome provisioning.Outcome) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  searchprov apply: " + endpoint))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("  Requests"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 50)))
	b.WriteString("\n")

	for i, d := range requests {
		var mark string
		switch {
		case i < outcome.Succeeded:
			mark = okStyle.Render(markOK)
		case i < outcome.Attempted:
			mark = failStyle.Render(markFailed)
		default:
			mark = dimStyle.Render(markSkipped)
		}
		fmt.Fprintf(&b, "  %s %2d. %-6s %s\n", mark, i+1, strings.ToUpper(d.Method), d.Path)
	}

	b.WriteString("\n")
	if outcome.Failed() {
		b.WriteString(failStyle.Render(fmt.Sprintf("  Failed: %d of %d requests succeeded", outcome.Succeeded, outcome.Total)))
		b.WriteString("\n")
		if outcome.Err != nil {
			b.WriteString(dimStyle.Render("  " + outcome.Err.Error()))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(okStyle.Render(fmt.Sprintf("  Done: %d of %d requests succeeded", outcome.Succeeded, outcome.Total)))
		b.WriteString("\n")
	}

	return b.String()
}
