package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/api"
	ctrl "github.com/kshimizu/manabo/internal/practice"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.quitConfirm {
		return renderQuitConfirm(width)
	}

	switch s.sess.Phase {
	case ctrl.PhaseSetup:
		return s.renderSetup(width)
	case ctrl.PhaseGenerating:
		return s.renderWaiting(width, "Generating exercises")
	case ctrl.PhaseActive, ctrl.PhaseGrading:
		return s.renderQuestion(width)
	case ctrl.PhaseResult:
		return s.renderResult(width)
	case ctrl.PhaseFinished:
		return s.renderFinished(width)
	}
	return ""
}

var typeLabels = map[api.ExerciseType]string{
	api.TypeChoice:      "Multiple choice",
	api.TypeFillInBlank: "Fill in the blank",
	api.TypeSentence:    "Sentence building",
}

func (s *PracticeScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	title := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(s.grammar.Title)
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Choose an exercise type"))
	b.WriteString("\n\n")

	var menu strings.Builder
	for i, typ := range api.ExerciseTypes {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.typeSel {
			prefix = "▸ "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		menu.WriteString(style.Render(prefix + typeLabels[typ]))
		menu.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu.String()))

	if s.sess.ErrMarker != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.sess.ErrMarker))
	}

	return b.String()
}

func (s *PracticeScreen) renderWaiting(width int, what string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n" + s.spin.View() + " " + what + "...")
}

func (s *PracticeScreen) renderQuestion(width int) string {
	cur := s.sess.Current()
	if cur == nil {
		return ""
	}

	var b strings.Builder

	current, total := s.sess.Progress()
	info := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s", s.grammar.Title))
	counter := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d/%d", current, total))

	pad := width - lipgloss.Width(info) - lipgloss.Width(counter) - 4
	if pad < 1 {
		pad = 1
	}
	b.WriteString(info + strings.Repeat(" ", pad) + counter)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(cur.Question))
	b.WriteString("\n\n")

	if cur.Type == api.TypeChoice {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + s.input.View()))
	}

	if s.sess.Phase == ctrl.PhaseGrading {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(s.spin.View() + " Checking..."))
	} else if s.sess.ErrMarker != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.sess.ErrMarker))
	}

	return b.String()
}

func (s *PracticeScreen) renderResult(width int) string {
	result := s.sess.Result
	cur := s.sess.Current()
	if result == nil || cur == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")

	if result.Correct() {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
	}

	// The canonical answer can differ from what was typed even on a
	// correct outcome; always show it.
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Answer: %s", result.CorrectAnswer)))
	b.WriteString("\n\n")

	if result.Explanation != "" {
		exp := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(result.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	}

	if result.Suggestion != "" {
		sug := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Accent).
			Italic(true).
			Render("Hint: " + result.Suggestion)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, sug))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Enter to continue"))

	return b.String()
}

func (s *PracticeScreen) renderFinished(width int) string {
	_, total := s.sess.Progress()

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("%d of %d correct", s.correctCount, total)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Enter to go back"))

	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this practice session?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answers already graded are kept on the server."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
