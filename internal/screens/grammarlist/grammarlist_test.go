package grammarlist

import (
	"context"
	"testing"

	"github.com/kshimizu/manabo/internal/api"
)

type memPrefs struct {
	values map[string]string
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (m *memPrefs) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memPrefs) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func TestNextLevelCycles(t *testing.T) {
	order := []api.Level{"", "N5", "N4", "N3", "N2", "N1", ""}
	for i := 0; i < len(order)-1; i++ {
		if got := nextLevel(order[i]); got != order[i+1] {
			t.Errorf("nextLevel(%q) = %q, want %q", order[i], got, order[i+1])
		}
	}
}

func TestNextThemeCycles(t *testing.T) {
	themes := []string{"daily", "travel"}

	if got := nextTheme("", themes); got != "daily" {
		t.Errorf("expected first theme, got %q", got)
	}
	if got := nextTheme("travel", themes); got != "" {
		t.Errorf("expected wrap to all, got %q", got)
	}
	if got := nextTheme("", nil); got != "" {
		t.Errorf("no themes means always all, got %q", got)
	}
}

func TestCollectThemesFirstSeenOrder(t *testing.T) {
	grammar := []api.GrammarPoint{
		{ID: "a", Themes: []string{"daily", "travel"}},
		{ID: "b", Themes: []string{"travel", "work"}},
	}

	got := collectThemes(grammar)
	want := []string{"daily", "travel", "work"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	s := New(&api.Mock{}, newMemPrefs(), 3)
	s.gen = 2

	s.handleLoaded(loadedMsg{Gen: 1, Grammar: []api.GrammarPoint{{ID: "old"}}})

	if s.loaded {
		t.Error("a stale load must not mark the screen loaded")
	}
	if len(s.grammar) != 0 {
		t.Errorf("stale results must be discarded, got %d entries", len(s.grammar))
	}
}

func TestLoadedInstallsRecommendationBadges(t *testing.T) {
	s := New(&api.Mock{}, newMemPrefs(), 2)
	s.gen = 1

	grammar := []api.GrammarPoint{{ID: "g1"}, {ID: "g2"}, {ID: "g3"}}
	s.handleLoaded(loadedMsg{Gen: 1, Grammar: grammar, Ranked: []string{"g3", "g1", "g2"}})

	if !s.recommended["g3"] || !s.recommended["g1"] {
		t.Error("expected top-ranked ids badged")
	}
	if s.recommended["g2"] {
		t.Error("g2 is beyond the limit and must not be badged")
	}
}

func TestRestoresLastFilters(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values["last_level"] = "N4"
	prefs.values["last_theme"] = "travel"

	s := New(&api.Mock{}, prefs, 3)

	if s.level != "N4" {
		t.Errorf("expected restored level N4, got %q", s.level)
	}
	if s.theme != "travel" {
		t.Errorf("expected restored theme, got %q", s.theme)
	}
}
