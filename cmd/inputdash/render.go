package main

import (
	"fmt"
	"strings"

	"inputdash/internal/api"
	"inputdash/internal/view"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	severityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
	statusStyles = map[string]lipgloss.Style{
		"open": lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		"done": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const barWidth = 24

func severityBadge(sev string) string {
	st, ok := severityStyles[sev]
	if !ok {
		st = mutedStyle
	}
	return st.Render(fmt.Sprintf("%-7s", sev))
}

func renderLine(in api.Input) string {
	box := "☐"
	if in.Status == "done" {
		box = successStyle.Render("☑")
	}
	return fmt.Sprintf("%s %s %s %s %s",
		box,
		accentStyle.Render(fmt.Sprintf("#%-4d", in.ID)),
		severityBadge(in.Severity),
		mutedStyle.Render(fmt.Sprintf("%-9s", in.Category)),
		truncate(in.Text, 72))
}

func renderDetail(in api.Input) string {
	status, ok := statusStyles[in.Status]
	if !ok {
		status = mutedStyle
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Input #%d", in.ID)),
		"",
		in.Text,
		"",
		fmt.Sprintf("status:     %s", status.Render(in.Status)),
		fmt.Sprintf("category:   %s", in.Category),
		fmt.Sprintf("intent:     %s", in.Intent),
		fmt.Sprintf("severity:   %s", severityBadge(in.Severity)),
		fmt.Sprintf("source:     %s", in.Source),
		fmt.Sprintf("created_at: %s", formatTime(in.CreatedAt)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func bar(count, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := count * width / total
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func chart(title string, counts []view.Count, total int, styles map[string]lipgloss.Style) string {
	lines := []string{titleStyle.Render(title)}
	for _, c := range counts {
		st, ok := styles[c.Label]
		if !ok {
			st = mutedStyle
		}
		lines = append(lines, fmt.Sprintf("%-9s %s %3d", c.Label, st.Render(bar(c.Count, total, barWidth)), c.Count))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func stat(label string, value int, st lipgloss.Style) string {
	return panelStyle.Width(14).Render(mutedStyle.Render(label) + "\n" + st.Render(fmt.Sprintf("%d", value)))
}

func renderDashboard(s view.Summary) string {
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Total", s.Total, titleStyle),
		stat("High", s.High, severityStyles["high"]),
		stat("Medium", s.Medium, severityStyles["medium"]),
		stat("Low", s.Low, severityStyles["low"]),
	)

	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		chart("Severity", s.Severity, s.Total, severityStyles),
		chart("Open vs done", s.Status, s.Total, statusStyles),
	)

	urgent := []string{titleStyle.Render("High severity, still open")}
	if len(s.HighOpen) == 0 {
		urgent = append(urgent, mutedStyle.Render("nothing urgent"))
	}
	for _, in := range s.HighOpen {
		urgent = append(urgent, fmt.Sprintf("%s %s",
			accentStyle.Render(fmt.Sprintf("#%-4d", in.ID)), truncate(in.Text, 60)))
	}

	var cats string
	if len(s.Categories) == 0 {
		cats = panelStyle.Render(titleStyle.Render("Categories") + "\n" + mutedStyle.Render("no inputs yet"))
	} else {
		cats = chart("Categories", s.Categories, s.Total, nil)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		stats,
		charts,
		panelStyle.Render(strings.Join(urgent, "\n")),
		cats,
	)
}
