package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/ui/theme"
)

// OptionList is a selector over exercise options. Unlike a quiz widget it
// does not know the correct answer up front: grading happens remotely, and
// Reveal is called once the verdict arrives.
type OptionList struct {
	Options  []string
	Selected int

	revealed     bool
	chosenIndex  int
	correctIndex int
}

// NewOptionList creates a new option selector.
func NewOptionList(options []string) OptionList {
	return OptionList{
		Options:      options,
		chosenIndex:  -1,
		correctIndex: -1,
	}
}

// Init returns nil.
func (o OptionList) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Selection is frozen after Reveal.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.revealed {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	case "1", "2", "3", "4":
		i := int(kmsg.String()[0] - '1')
		if i < len(o.Options) {
			o.Selected = i
		}
	}

	return o, nil
}

// Chosen returns the currently selected option text.
func (o OptionList) Chosen() string {
	if o.Selected < 0 || o.Selected >= len(o.Options) {
		return ""
	}
	return o.Options[o.Selected]
}

// Reveal freezes the list and highlights the graded outcome. correctAnswer
// is matched against option text; an unmatched answer highlights nothing
// green, which keeps a malformed verdict visible rather than misleading.
func (o *OptionList) Reveal(correctAnswer string) {
	o.revealed = true
	o.chosenIndex = o.Selected
	o.correctIndex = -1
	for i, opt := range o.Options {
		if opt == correctAnswer {
			o.correctIndex = i
			break
		}
	}
}

// View renders the option list.
func (o OptionList) View() string {
	labels := []string{"1", "2", "3", "4", "5", "6"}

	var s string
	for i, opt := range o.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}

		prefix := "  "
		if i == o.Selected && !o.revealed {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		if o.revealed {
			switch {
			case i == o.correctIndex:
				s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
			case i == o.chosenIndex:
				s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
		} else {
			if i == o.Selected {
				s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
			} else {
				s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
			}
		}
	}

	return s
}
