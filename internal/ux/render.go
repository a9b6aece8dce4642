package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/omnera-dev/schemapipe/internal/diff"
	"github.com/omnera-dev/schemapipe/internal/phase"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	partialStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))
)

// statusStyle picks the color for a status value
func statusStyle(status diff.Status) lipgloss.Style {
	switch status {
	case diff.StatusComplete:
		return completeStyle
	case diff.StatusPartial:
		return partialStyle
	default:
		return missingStyle
	}
}

// RenderReport renders a diff report for the terminal.
func RenderReport(report diff.Report, statuses []diff.PropertyStatus) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Schema completion report") + "\n\n")
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Total properties:"), report.TotalProperties))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Implemented:"), report.ImplementedProperties))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Missing:"), report.MissingProperties))
	b.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("Completion:"),
		headerStyle.Render(fmt.Sprintf("%.1f%%", report.CompletionPercent))))

	for _, status := range statuses {
		line := fmt.Sprintf("%-50s %-10s %5.1f%%",
			status.Path, status.Status, status.CompletionPercent)
		b.WriteString(statusStyle(status.Status).Render(line) + "\n")
		for _, feature := range status.MissingFeatures {
			b.WriteString(labelStyle.Render("    missing: "+feature) + "\n")
		}
	}

	return b.String()
}

// RenderRoadmap renders an ordered phase list for the terminal.
func RenderRoadmap(phases []phase.Phase) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Release roadmap") + "\n\n")
	for _, p := range phases {
		header := fmt.Sprintf("Phase %d: %s (%s)", p.Number, p.Name, p.Version)
		b.WriteString(headerStyle.Render(header) + "\n")
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Status:"), p.Status))
		b.WriteString(fmt.Sprintf("  %s %.1f%%\n", labelStyle.Render("Completion:"), p.CompletionPercent))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Estimate:"), p.DurationEstimate))
		if len(p.Dependencies) > 0 {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				labelStyle.Render("Depends on:"), strings.Join(p.Dependencies, ", ")))
		}
		b.WriteString(fmt.Sprintf("  %s %d\n\n", labelStyle.Render("Properties:"), len(p.Properties)))
	}

	return b.String()
}
