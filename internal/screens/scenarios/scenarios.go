// Package scenarios is the conversation scenario picker.
package scenarios

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/router"
	"github.com/kshimizu/manabo/internal/screen"
	"github.com/kshimizu/manabo/internal/screens/chat"
	"github.com/kshimizu/manabo/internal/store"
	"github.com/kshimizu/manabo/internal/ui/layout"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

type loadedMsg struct {
	Scenarios []api.Scenario

	// Resume info from local preferences; empty when no past session.
	LastScenario string
	LastSession  string

	ShowCorrections bool
	Err             error
}

// ScenariosScreen lists conversation settings and opens the chat screen.
type ScenariosScreen struct {
	client api.Client
	prefs  store.PreferenceStore

	defaultCorrections bool

	scenarios       []api.Scenario
	lastScenario    string
	lastSession     string
	showCorrections bool

	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ScenariosScreen)(nil)
var _ screen.KeyHintProvider = (*ScenariosScreen)(nil)

// New creates the scenario picker. defaultCorrections seeds the
// corrections preference when none is stored yet.
func New(client api.Client, prefs store.PreferenceStore, defaultCorrections bool) *ScenariosScreen {
	return &ScenariosScreen{
		client:             client,
		prefs:              prefs,
		defaultCorrections: defaultCorrections,
	}
}

func (s *ScenariosScreen) Init() tea.Cmd {
	client := s.client
	prefs := s.prefs
	fallback := s.defaultCorrections
	return func() tea.Msg {
		ctx := context.Background()

		scenarios, err := client.ListScenarios(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}

		lastScenario, _ := prefs.Get(ctx, store.KeyLastScenario)
		lastSession, _ := prefs.Get(ctx, store.KeyLastSession)

		return loadedMsg{
			Scenarios:       scenarios,
			LastScenario:    lastScenario,
			LastSession:     lastSession,
			ShowCorrections: store.GetBool(ctx, prefs, store.KeyShowCorrections, fallback),
		}
	}
}

func (s *ScenariosScreen) Title() string {
	return "Dialogue"
}

func (s *ScenariosScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// canResume reports whether a resumable conversation is on record.
func (s *ScenariosScreen) canResume() bool {
	return s.lastSession != "" && s.lastScenario != ""
}

// entryCount is the scenario list plus the optional resume row.
func (s *ScenariosScreen) entryCount() int {
	n := len(s.scenarios)
	if s.canResume() {
		n++
	}
	return n
}

func (s *ScenariosScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.scenarios = msg.Scenarios
			s.lastScenario = msg.LastScenario
			s.lastSession = msg.LastSession
			s.showCorrections = msg.ShowCorrections
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
			if s.selected < s.entryCount()-1 {
				s.selected++
			}
		case "enter":
			return s.open()
		}
	}
	return s, nil
}

func (s *ScenariosScreen) open() (screen.Screen, tea.Cmd) {
	if !s.loaded || s.entryCount() == 0 {
		return s, nil
	}

	if s.canResume() && s.selected == 0 {
		next := chat.Resume(s.client, s.prefs, s.lastScenario, s.lastSession, s.showCorrections)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	i := s.selected
	if s.canResume() {
		i--
	}
	if i < 0 || i >= len(s.scenarios) {
		return s, nil
	}
	next := chat.New(s.client, s.prefs, s.scenarios[i], s.showCorrections)
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *ScenariosScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading scenarios...")
	}
	if s.entryCount() == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No scenarios available.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Pick a conversation setting"))
	b.WriteString("\n\n")

	row := 0
	writeRow := func(label string, dim bool) {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if dim {
			style = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
		}
		if row == s.selected {
			prefix = "▸ "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+label)))
		b.WriteString("\n")
		row++
	}

	if s.canResume() {
		writeRow("Resume last conversation", true)
	}
	for _, sc := range s.scenarios {
		writeRow(sc.Name, false)
	}

	return b.String()
}
