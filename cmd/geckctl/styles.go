package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/geck-tools/geck/internal/models"
)

// Ayu palette, adaptive for light and dark terminals.
var (
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorBlue = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	passStyle  = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	failStyle  = lipgloss.NewStyle().Foreground(colorFail)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMute)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMute).
			Padding(0, 1)
)

// statusBadge colors a lifecycle status the way the list view does:
// green for active, muted for inactive, yellow for anything else.
func statusBadge(status string) string {
	switch status {
	case "active":
		return passStyle.Render(status)
	case "inactive":
		return mutedStyle.Render(status)
	default:
		return warnStyle.Render(status)
	}
}

func field(label, value string) string {
	if value == "" {
		value = mutedStyle.Render("(none)")
	}
	return fmt.Sprintf("%s %s", mutedStyle.Render(label+":"), value)
}

func renderContextCard(c *models.CustomerContext) string {
	lines := []string{
		titleStyle.Render(c.Name) + "  " + statusBadge(c.Status),
		field("customer", c.CustomerName),
		field("industry", c.Industry),
		field("entity", c.Entity),
		field("capabilities", strings.Join(c.Capabilities, ", ")),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderProgramCard(p *models.ProgramConfig) string {
	lines := []string{
		titleStyle.Render(p.Name) + "  " + statusBadge(p.Status),
		field("vendor", p.Vendor),
		field("type", p.Type),
		field("api_type", p.APIType),
		field("capabilities", strings.Join(p.Capabilities, ", ")),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderUserCard(u *models.User) string {
	status := "inactive"
	if u.Active {
		status = "active"
	}
	lines := []string{
		titleStyle.Render(u.Name) + "  " + statusBadge(status),
		field("email", u.Email),
		field("role", u.Role),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// renderImportResult prints a bulk or single-file import summary with
// per-outcome detail lines.
func renderImportResult(r *models.ImportResult) string {
	s := r.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d total, %s, %s, %s, %s\n",
		titleStyle.Render("Import finished:"), s.Total,
		passStyle.Render(fmt.Sprintf("%d imported", s.Imported)),
		passStyle.Render(fmt.Sprintf("%d updated", s.Updated)),
		failStyle.Render(fmt.Sprintf("%d failed", s.Failed)),
		mutedStyle.Render(fmt.Sprintf("%d skipped", s.Skipped)))
	for _, outcome := range []string{models.OutcomeImported, models.OutcomeUpdated, models.OutcomeFailed, models.OutcomeSkipped} {
		for _, name := range r.Details[outcome] {
			icon := passStyle.Render("✓")
			switch outcome {
			case models.OutcomeFailed:
				icon = failStyle.Render("✗")
			case models.OutcomeSkipped:
				icon = mutedStyle.Render("-")
			}
			fmt.Fprintf(&b, "  %s %s (%s)\n", icon, name, outcome)
		}
	}
	return b.String()
}
