package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

// ChatLog renders a dialogue transcript. It is stateless aside from layout
// parameters; the turns themselves live in the dialogue controller.
type ChatLog struct {
	Width int
}

// NewChatLog creates a chat log renderer for the given content width.
func NewChatLog(width int) ChatLog {
	return ChatLog{Width: width}
}

// RenderTurns renders the transcript, newest last. corrections maps a turn
// index to the correction shown under that user turn; absent entries render
// nothing, which is how hidden corrections stay hidden.
func (c ChatLog) RenderTurns(turns []api.Turn, corrections map[int]*api.Correction) string {
	bubbleWidth := c.Width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for i, turn := range turns {
		switch turn.Role {
		case api.RoleUser:
			bubble := theme.UserBubble.MaxWidth(bubbleWidth).Render(turn.Text)
			b.WriteString(lipgloss.PlaceHorizontal(c.Width, lipgloss.Right, bubble))
			b.WriteString("\n")

			if corr := corrections[i]; corr != nil {
				note := renderCorrection(turn.Text, corr, bubbleWidth)
				b.WriteString(lipgloss.PlaceHorizontal(c.Width, lipgloss.Right, note))
				b.WriteString("\n")
			}
		default:
			bubble := theme.PartnerBubble.MaxWidth(bubbleWidth).Render(turn.Text)
			b.WriteString(bubble)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderCorrection renders the note under a user turn. A correction that
// leaves the text as-is is an affirmation, not a rewrite.
func renderCorrection(original string, corr *api.Correction, width int) string {
	if corr.Unchanged(original) {
		note := "✓ Great! Your Japanese is natural."
		if corr.Translation != "" {
			note += "\n  " + corr.Translation
		}
		return theme.AffirmationNote.MaxWidth(width).Render(note)
	}

	note := "✎ " + corr.Corrected
	if corr.Explanation != "" {
		note += "\n  " + corr.Explanation
	}
	if corr.Translation != "" {
		note += "\n  " + corr.Translation
	}
	return theme.CorrectionNote.MaxWidth(width).Render(note)
}

// RenderTyping renders the partner-is-typing indicator line.
func (c ChatLog) RenderTyping(frame string) string {
	return theme.Hint.Render("  " + frame + " …")
}
