package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Manabo styling.
type TextInput struct {
	Model    textinput.Model
	graded   bool
	gradedOK bool
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input, with a grade mark once graded.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.graded {
		if t.gradedOK {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the current input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// Reset clears the value and any grade mark.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
	t.graded = false
	t.gradedOK = false
}

// MarkGraded records a grading outcome to display next to the input.
func (t *TextInput) MarkGraded(correct bool) {
	t.graded = true
	t.gradedOK = correct
}
