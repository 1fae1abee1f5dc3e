package stats

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/progress"
	"github.com/kshimizu/manabo/internal/ui/components"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

func (s *StatsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded || s.weekly == nil || s.summary == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading statistics...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderWeekly(width))
	b.WriteString("\n")
	b.WriteString(s.renderSummary(width))
	b.WriteString("\n")
	b.WriteString(s.renderFooterArea(width))

	return b.String()
}

func (s *StatsScreen) renderWeekly(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).Bold(true).
		Render("This week"))
	b.WriteString("\n\n")

	stats := s.weekly.DailyStats
	maxCount := progress.MaxDailyCount(stats)
	barMax := width / 3
	if barMax < 10 {
		barMax = 10
	}

	var chart strings.Builder
	for _, day := range stats {
		label := day.Date
		if len(label) >= 10 {
			label = label[5:] // keep MM-DD
		}

		gBar := scaledBar(day.Grammar, maxCount, barMax, theme.Secondary)
		dBar := scaledBar(day.Dialogue, maxCount, barMax, theme.Primary)

		chart.WriteString(fmt.Sprintf("%s  %s %2d  %s %2d\n",
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(label),
			gBar, day.Grammar, dBar, day.Dialogue))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, chart.String()))

	grammarTotal, dialogueTotal := s.weekly.TotalGrammar, s.weekly.TotalDialogue
	if grammarTotal == 0 && dialogueTotal == 0 {
		grammarTotal, dialogueTotal = progress.Totals(stats)
	}
	avg := progress.DailyAverage(grammarTotal, dialogueTotal, len(stats))

	legend := lipgloss.NewStyle().Foreground(theme.Secondary).Render("■ grammar") + "  " +
		lipgloss.NewStyle().Foreground(theme.Primary).Render("■ dialogue") + "  " +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("~%d/day", avg))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, legend))
	b.WriteString("\n")

	return b.String()
}

func (s *StatsScreen) renderSummary(width int) string {
	sum := s.summary

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).Bold(true).
		Render("All time"))
	b.WriteString("\n\n")

	line := fmt.Sprintf("Practiced %d  ·  Mastered %d  ·  Mistakes %d  ·  Conversations %d",
		sum.TotalGrammarPracticed, sum.MasteredGrammar, sum.TotalMistakes, sum.TotalDialogueSessions)
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(line))
	b.WriteString("\n\n")

	barWidth := width / 2
	if barWidth > 50 {
		barWidth = 50
	}
	bar := components.NewProgressBar("Mastery", sum.MasteryRate/100, true, barWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")

	return b.String()
}

func (s *StatsScreen) renderFooterArea(width int) string {
	var b strings.Builder

	if s.editingReminder {
		line := "Daily reminder (24h): " + s.reminderInput.View()
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
		if s.reminderErr != "" {
			b.WriteString(lipgloss.NewStyle().
				Width(width).Align(lipgloss.Center).Foreground(theme.Error).
				Render(s.reminderErr))
			b.WriteString("\n")
		}
		return b.String()
	}

	switch {
	case s.exporting:
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("Exporting study data..."))
	case s.exportErr != "":
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("Export failed: " + s.exportErr))
	case s.exportPath != "":
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Success).
			Render("Saved to " + s.exportPath))
	}
	b.WriteString("\n")

	return b.String()
}

// scaledBar renders count as a bar scaled against maxCount.
func scaledBar(count, maxCount, maxWidth int, c color.Color) string {
	w := 0
	if maxCount > 0 {
		w = count * maxWidth / maxCount
	}
	if count > 0 && w == 0 {
		w = 1
	}
	filled := lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", w))
	pad := strings.Repeat(" ", maxWidth-w)
	return filled + pad
}
