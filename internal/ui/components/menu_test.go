package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func testMenu() Menu {
	return NewMenu([]MenuItem{
		{Label: "GRAMMAR LIBRARY", Hint: "Browse grammar points"},
		{Label: "DIALOGUE PRACTICE", Hint: "Chat through scenarios"},
	})
}

func TestMenuHintFollowsSelection(t *testing.T) {
	m := testMenu()

	out := m.View()
	if !strings.Contains(out, "Browse grammar points") {
		t.Error("the selected item's hint should render")
	}
	if strings.Contains(out, "Chat through scenarios") {
		t.Error("unselected items keep their hints hidden")
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	out = m.View()
	if !strings.Contains(out, "Chat through scenarios") {
		t.Error("moving the selection should reveal the new item's hint")
	}
	if strings.Contains(out, "Browse grammar points") {
		t.Error("the previous item's hint should disappear")
	}
}
