// Package mistakes is the grouped mistake review screen.
package mistakes

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/progress"
	"github.com/kshimizu/manabo/internal/router"
	"github.com/kshimizu/manabo/internal/screen"
	"github.com/kshimizu/manabo/internal/screens/grammardetail"
	"github.com/kshimizu/manabo/internal/ui/layout"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

type loadedMsg struct {
	Groups []progress.MistakeGroup
	Titles map[string]string // grammar id → title, best effort
	Err    error
}

// MistakesScreen shows past wrong answers grouped by grammar point.
type MistakesScreen struct {
	client api.Client

	groups   []progress.MistakeGroup
	titles   map[string]string
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*MistakesScreen)(nil)
var _ screen.KeyHintProvider = (*MistakesScreen)(nil)

// New creates the mistake review screen.
func New(client api.Client) *MistakesScreen {
	return &MistakesScreen{
		client:   client,
		expanded: make(map[int]bool),
	}
}

func (s *MistakesScreen) Init() tea.Cmd {
	client := s.client
	return func() tea.Msg {
		ctx := context.Background()

		mistakes, err := client.ListMistakes(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		groups := progress.GroupMistakes(mistakes)

		// Titles make the groups readable; a missing catalog entry falls
		// back to the raw id, since mistakes outlive their grammar points.
		titles := make(map[string]string)
		if grammar, err := client.ListGrammar(ctx, "", ""); err == nil {
			for _, g := range grammar {
				titles[g.ID] = g.Title
			}
		}

		return loadedMsg{Groups: groups, Titles: titles}
	}
}

func (s *MistakesScreen) Title() string {
	return "Mistakes"
}

func (s *MistakesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "P", Description: "Practice"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MistakesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.groups = msg.Groups
			s.titles = msg.Titles
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.groups)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "p", "P":
			if s.selected >= 0 && s.selected < len(s.groups) {
				next := grammardetail.New(s.client, s.groups[s.selected].GrammarID)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *MistakesScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading mistakes...")
	}
	if len(s.groups) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No mistakes on record. Keep it up!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, group := range s.groups {
		title := s.titles[group.GrammarID]
		if title == "" {
			title = group.GrammarID
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}

		count := fmt.Sprintf("(%d)", len(group.Mistakes))
		b.WriteString("  " + style.Render(fmt.Sprintf("%s%s %s", prefix, title, count)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, m := range group.Mistakes {
				detail := fmt.Sprintf("      ✗ %s", m.UserAnswer)
				b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(detail))
				b.WriteString("\n")
				b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).
					Render(fmt.Sprintf("      ✓ %s", m.CorrectAnswer)))
				b.WriteString("\n")
				if m.Explanation != "" {
					exp := lipgloss.NewStyle().
						Width(width - 12).
						Foreground(theme.TextDim).
						Render("      " + m.Explanation)
					b.WriteString(exp)
					b.WriteString("\n")
				}
			}
		}
	}

	return b.String()
}
