// Package grammarlist is the grammar catalog screen: level and theme
// filters, service-ranked recommendation badges, entry to the detail view.
package grammarlist

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
	"github.com/kshimizu/manabo/internal/store"
	"github.com/kshimizu/manabo/internal/ui/layout"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

type loadedMsg struct {
	Gen     int
	Grammar []api.GrammarPoint
	Ranked  []string
	Err     error
}

// GrammarListScreen implements screen.Screen for the catalog.
type GrammarListScreen struct {
	client api.Client
	prefs  store.PreferenceStore

	recLimit int

	level api.Level // "" means all levels
	theme string    // "" means all themes

	grammar     []api.GrammarPoint
	recommended map[string]bool
	themes      []string

	selected int
	loaded   bool
	gen      int
	errMsg   string
}

var _ screen.Screen = (*GrammarListScreen)(nil)
var _ screen.KeyHintProvider = (*GrammarListScreen)(nil)

// New creates the catalog screen. recLimit caps how many recommendation
// badges are shown.
func New(client api.Client, prefs store.PreferenceStore, recLimit int) *GrammarListScreen {
	s := &GrammarListScreen{
		client:      client,
		prefs:       prefs,
		recLimit:    recLimit,
		recommended: make(map[string]bool),
	}

	// Restore the last filters so the list opens where it was left.
	ctx := context.Background()
	if v, err := prefs.Get(ctx, store.KeyLastLevel); err == nil {
		s.level = api.Level(v)
	}
	if v, err := prefs.Get(ctx, store.KeyLastTheme); err == nil {
		s.theme = v
	}

	return s
}

func (s *GrammarListScreen) Init() tea.Cmd {
	return s.loadCmd()
}

func (s *GrammarListScreen) Title() string {
	return "Grammar"
}

func (s *GrammarListScreen) HeaderStatus() string {
	if s.level == "" {
		return "All levels"
	}
	return string(s.level)
}

func (s *GrammarListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "L", Description: "Level"},
		{Key: "T", Description: "Theme"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *GrammarListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.grammar)-1 {
				s.selected++
			}
		case "l", "L":
			s.level = nextLevel(s.level)
			return s, tea.Batch(s.loadCmd(), s.persistFiltersCmd())
		case "t", "T":
			s.theme = nextTheme(s.theme, s.themes)
			return s, tea.Batch(s.loadCmd(), s.persistFiltersCmd())
		case "enter":
			if s.selected >= 0 && s.selected < len(s.grammar) {
				g := s.grammar[s.selected]
				next := grammardetail.New(s.client, g.ID)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *GrammarListScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.gen {
		return s, nil
	}
	s.loaded = true
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.errMsg = ""
	s.grammar = msg.Grammar
	if s.selected >= len(s.grammar) {
		s.selected = 0
	}

	// Theme choices come from the unfiltered dimension of the result so
	// filtering by one theme keeps the others reachable.
	if s.theme == "" {
		s.themes = collectThemes(msg.Grammar)
	}

	s.recommended = make(map[string]bool)
	for _, g := range progress.ResolveRecommendations(msg.Ranked, msg.Grammar, s.recLimit) {
		s.recommended[g.ID] = true
	}
	return s, nil
}

// loadCmd fetches the filtered catalog and the recommendation ranking.
// A ranking failure only drops the badges; the list still loads.
func (s *GrammarListScreen) loadCmd() tea.Cmd {
	s.gen++
	gen := s.gen
	client := s.client
	level := s.level
	themeFilter := s.theme
	return func() tea.Msg {
		ctx := context.Background()

		grammar, err := client.ListGrammar(ctx, level, themeFilter)
		if err != nil {
			return loadedMsg{Gen: gen, Err: err}
		}

		ranked, err := client.Recommendations(ctx)
		if err != nil {
			ranked = nil
		}

		return loadedMsg{Gen: gen, Grammar: grammar, Ranked: ranked}
	}
}

func (s *GrammarListScreen) persistFiltersCmd() tea.Cmd {
	prefs := s.prefs
	level := string(s.level)
	themeFilter := s.theme
	return func() tea.Msg {
		ctx := context.Background()
		_ = prefs.Set(ctx, store.KeyLastLevel, level)
		_ = prefs.Set(ctx, store.KeyLastTheme, themeFilter)
		return nil
	}
}

func (s *GrammarListScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading grammar...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + s.renderFilterLine())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", maxInt(width-4, 0))))
	b.WriteString("\n")

	if len(s.grammar) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n  Nothing matches these filters."))
		return b.String()
	}

	// Window the list around the selection so long catalogs stay usable.
	visible := height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := start + visible
	if end > len(s.grammar) {
		end = len(s.grammar)
	}

	for i := start; i < end; i++ {
		b.WriteString(s.renderRow(i, width))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *GrammarListScreen) renderFilterLine() string {
	level := "All levels"
	if s.level != "" {
		level = string(s.level)
	}
	themeName := "All themes"
	if s.theme != "" {
		themeName = s.theme
	}
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(level) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ·  ") +
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(themeName)
}

func (s *GrammarListScreen) renderRow(i, width int) string {
	g := s.grammar[i]

	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		prefix = "▸ "
		style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}

	badge := "   "
	if s.recommended[g.ID] {
		badge = lipgloss.NewStyle().Foreground(theme.Accent).Render(" ★ ")
	}

	band := progress.ClassifyProficiency(g.Proficiency)
	bandStr := renderBand(band)

	line := fmt.Sprintf("%s%-4s %s", prefix, g.Level, g.Title)
	return "  " + style.Render(line) + badge + bandStr
}

func renderBand(b progress.Band) string {
	switch b {
	case progress.BandHigh:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("●●●")
	case progress.BandMedium:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("●●○")
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("●○○")
	}
}

// nextLevel cycles all → N5 → … → N1 → all.
func nextLevel(current api.Level) api.Level {
	if current == "" {
		return api.Levels[0]
	}
	for i, l := range api.Levels {
		if l == current {
			if i+1 < len(api.Levels) {
				return api.Levels[i+1]
			}
			return ""
		}
	}
	return ""
}

// nextTheme cycles all → each known theme → all.
func nextTheme(current string, themes []string) string {
	if len(themes) == 0 {
		return ""
	}
	if current == "" {
		return themes[0]
	}
	for i, t := range themes {
		if t == current {
			if i+1 < len(themes) {
				return themes[i+1]
			}
			return ""
		}
	}
	return ""
}

// collectThemes gathers distinct themes in first-seen order.
func collectThemes(grammar []api.GrammarPoint) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range grammar {
		for _, t := range g.Themes {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
