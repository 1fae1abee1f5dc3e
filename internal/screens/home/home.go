// Package home is the main menu screen.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/export"
	"github.com/kshimizu/manabo/internal/router"
	"github.com/kshimizu/manabo/internal/screen"
	"github.com/kshimizu/manabo/internal/screens/grammarlist"
	"github.com/kshimizu/manabo/internal/screens/mistakes"
	"github.com/kshimizu/manabo/internal/screens/scenarios"
	"github.com/kshimizu/manabo/internal/screens/stats"
	"github.com/kshimizu/manabo/internal/store"
	"github.com/kshimizu/manabo/internal/ui/components"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

// summaryMsg carries the study counters shown under the menu. A failure
// just leaves the counters blank; the menu works offline-ish.
type summaryMsg struct {
	Summary *api.Summary
	Err     error
}

// Options carries everything the home screen hands down to sub-screens.
type Options struct {
	Client              api.Client
	Prefs               store.PreferenceStore
	Sink                export.Sink
	RecommendationLimit int
	DefaultCorrections  bool
}

// HomeScreen is the entry screen of the application.
type HomeScreen struct {
	opts    Options
	menu    components.Menu
	summary *api.Summary
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts}

	items := []components.MenuItem{
		{Label: "GRAMMAR LIBRARY", Hint: "Browse grammar points and practice them", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: grammarlist.New(opts.Client, opts.Prefs, opts.RecommendationLimit),
				}
			}
		}},
		{Label: "DIALOGUE PRACTICE", Hint: "Chat through everyday scenarios", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: scenarios.New(opts.Client, opts.Prefs, opts.DefaultCorrections),
				}
			}
		}},
		{Label: "MY MISTAKES", Hint: "Review and re-practice past wrong answers", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: mistakes.New(opts.Client)}
			}
		}},
		{Label: "STATISTICS", Hint: "Weekly activity, export, study reminder", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: stats.New(opts.Client, opts.Prefs, opts.Sink),
				}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	client := h.opts.Client
	return func() tea.Msg {
		sum, err := client.Summary(context.Background())
		if err != nil {
			return summaryMsg{Err: err}
		}
		return summaryMsg{Summary: sum}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(summaryMsg); ok {
		if m.Err == nil {
			h.summary = m.Summary
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := theme.Title.Width(width).Render("まなぼう • Manabo") + "\n" +
		theme.Subtitle.Width(width).Render("Japanese grammar & conversation practice")
	sections = append(sections, title)

	if h.summary != nil {
		statsLine := fmt.Sprintf("%d practiced  ·  %d mastered  ·  %.0f%% mastery",
			h.summary.TotalGrammarPracticed,
			h.summary.MasteredGrammar,
			h.summary.MasteryRate)
		sections = append(sections, lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(statsLine))
	}

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
