// Package grammardetail shows one grammar point in full and is the entry
// to practice.
package grammardetail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/progress"
	"github.com/kshimizu/manabo/internal/router"
	"github.com/kshimizu/manabo/internal/screen"
	practicescreen "github.com/kshimizu/manabo/internal/screens/practice"
	"github.com/kshimizu/manabo/internal/ui/layout"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

type loadedMsg struct {
	Grammar *api.GrammarPoint
	Err     error
}

// GrammarDetailScreen implements screen.Screen for one grammar point.
type GrammarDetailScreen struct {
	client    api.Client
	grammarID string

	grammar *api.GrammarPoint
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*GrammarDetailScreen)(nil)
var _ screen.KeyHintProvider = (*GrammarDetailScreen)(nil)

// New creates a detail screen that fetches the grammar point on entry.
func New(client api.Client, grammarID string) *GrammarDetailScreen {
	return &GrammarDetailScreen{
		client:    client,
		grammarID: grammarID,
	}
}

func (s *GrammarDetailScreen) Init() tea.Cmd {
	client := s.client
	id := s.grammarID
	return func() tea.Msg {
		g, err := client.GrammarDetail(context.Background(), id)
		if err != nil {
			return loadedMsg{Err: err}
		}
		return loadedMsg{Grammar: g}
	}
}

func (s *GrammarDetailScreen) Title() string {
	return "Grammar"
}

func (s *GrammarDetailScreen) KeyHints() []layout.KeyHint {
	if s.grammar == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "P", Description: "Practice"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *GrammarDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrNotFound) {
				s.errMsg = "this grammar point no longer exists"
			} else {
				s.errMsg = msg.Err.Error()
			}
		} else {
			s.grammar = msg.Grammar
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "p", "P":
			if s.grammar != nil {
				next := practicescreen.New(s.client, *s.grammar)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *GrammarDetailScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded || s.grammar == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading...")
	}

	g := s.grammar
	bodyWidth := width - 8
	if bodyWidth > 76 {
		bodyWidth = 76
	}
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render(g.Title))
	b.WriteString("\n")

	meta := fmt.Sprintf("%s  ·  %s", g.Level, renderBandLabel(g.Proficiency))
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(meta))
	b.WriteString("\n\n")

	section := func(label, text string) {
		if text == "" {
			return
		}
		head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(label)
		body := lipgloss.NewStyle().Width(bodyWidth).Foreground(theme.Text).Render(text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, head+"\n"+body))
		b.WriteString("\n\n")
	}

	section("Structure", g.Structure)
	section("Usage", g.Usage)

	if len(g.Examples) > 0 {
		var ex strings.Builder
		ex.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Examples"))
		ex.WriteString("\n")
		for _, pair := range g.Examples {
			ex.WriteString(lipgloss.NewStyle().Width(bodyWidth).Foreground(theme.Text).Render(pair.Ja))
			ex.WriteString("\n")
			ex.WriteString(lipgloss.NewStyle().Width(bodyWidth).Foreground(theme.TextDim).Render(pair.Zh))
			ex.WriteString("\n")
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, ex.String()))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Press P to practice this grammar"))

	return b.String()
}

func renderBandLabel(score float64) string {
	switch progress.ClassifyProficiency(score) {
	case progress.BandHigh:
		return "well practiced"
	case progress.BandMedium:
		return "getting there"
	default:
		return "needs practice"
	}
}
