package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/api"
	ctrl "github.com/kshimizu/manabo/internal/dialogue"
	"github.com/kshimizu/manabo/internal/ui/components"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	if s.loadingHistory {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  " + s.spin.View() + " Loading conversation...")
	}
	if s.historyErr != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n  Could not load conversation: " + s.historyErr)
	}

	log := components.NewChatLog(width - 4)
	transcript := log.RenderTurns(s.sess.Turns, s.visibleCorrections())

	var footer strings.Builder
	if s.sess.Phase == ctrl.PhaseSending {
		footer.WriteString(log.RenderTyping(s.spin.View()))
		footer.WriteString("\n")
	}
	if s.sess.ErrMarker != "" {
		footer.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  " + s.sess.ErrMarker))
		footer.WriteString("\n")
	}
	footer.WriteString("\n")
	footer.WriteString("  " + s.input.View())

	// Keep the newest turns visible: clip the transcript from the top so
	// the input line never scrolls away.
	footerStr := footer.String()
	avail := height - lipgloss.Height(footerStr) - 1
	if avail < 1 {
		avail = 1
	}
	transcript = clipBottom(transcript, avail)

	return transcript + "\n" + footerStr
}

// visibleCorrections merges stored corrections filtered by the preference
// with ad-hoc ones, which are always shown.
func (s *ChatScreen) visibleCorrections() map[int]*api.Correction {
	out := make(map[int]*api.Correction)
	for i := range s.sess.Turns {
		if c := s.sess.VisibleCorrection(i); c != nil {
			out[i] = c
		}
	}
	for i, c := range s.adhoc {
		out[i] = c
	}
	return out
}

// clipBottom keeps at most n trailing lines of block.
func clipBottom(block string, n int) string {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
