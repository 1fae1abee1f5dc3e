package progress

import (
	"testing"

	"github.com/kshimizu/manabo/internal/api"
)

func TestGroupMistakes_PartitionPreservesOrder(t *testing.T) {
	mistakes := []api.Mistake{
		{ID: 1, GrammarID: "g1"},
		{ID: 2, GrammarID: "g2"},
		{ID: 3, GrammarID: "g1"},
	}

	groups := GroupMistakes(mistakes)

	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].GrammarID != "g1" || groups[1].GrammarID != "g2" {
		t.Errorf("group order = [%s %s], want first-seen [g1 g2]", groups[0].GrammarID, groups[1].GrammarID)
	}
	if ids(groups[0].Mistakes) != "1,3" {
		t.Errorf("g1 members = %s, want 1,3", ids(groups[0].Mistakes))
	}
	if ids(groups[1].Mistakes) != "2" {
		t.Errorf("g2 members = %s, want 2", ids(groups[1].Mistakes))
	}

	// Exact partition: total membership equals the input.
	total := 0
	for _, g := range groups {
		total += len(g.Mistakes)
	}
	if total != len(mistakes) {
		t.Errorf("total members = %d, want %d", total, len(mistakes))
	}
}

func TestGroupMistakes_Empty(t *testing.T) {
	if groups := GroupMistakes(nil); len(groups) != 0 {
		t.Errorf("len = %d, want 0", len(groups))
	}
}

func TestResolveRecommendations_SilentlySkipsUnloaded(t *testing.T) {
	loaded := []api.GrammarPoint{{ID: "g1"}, {ID: "g2"}}

	got := ResolveRecommendations([]string{"g9", "g1", "g7"}, loaded, 3)

	if len(got) != 1 || got[0].ID != "g1" {
		t.Errorf("got %v, want just g1 (g9, g7 dropped silently)", got)
	}
}

func TestResolveRecommendations_RankedOrderKept(t *testing.T) {
	loaded := []api.GrammarPoint{{ID: "g1"}, {ID: "g2"}, {ID: "g3"}}

	got := ResolveRecommendations([]string{"g3", "g1", "g2"}, loaded, 2)

	if len(got) != 2 || got[0].ID != "g3" || got[1].ID != "g1" {
		t.Errorf("got %v, want [g3 g1] in ranked order with limit applied", got)
	}
}

func TestResolveRecommendations_LimitBeyondInput(t *testing.T) {
	loaded := []api.GrammarPoint{{ID: "g1"}}
	got := ResolveRecommendations([]string{"g1"}, loaded, 10)
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 (never pads)", len(got))
	}
}

func TestDailyAverage(t *testing.T) {
	tests := []struct {
		grammar, dialogue, days int
		want                    int
	}{
		{10, 4, 7, 2},  // 14/7 = 2
		{10, 0, 7, 1},  // 10/7 ≈ 1.43 rounds down
		{11, 0, 7, 2},  // 11/7 ≈ 1.57 rounds up
		{7, 3, 4, 3},   // 10/4 = 2.5 rounds half up
		{0, 0, 7, 0},
		{5, 5, 0, 0},   // degenerate window
	}
	for _, tt := range tests {
		if got := DailyAverage(tt.grammar, tt.dialogue, tt.days); got != tt.want {
			t.Errorf("DailyAverage(%d, %d, %d) = %d, want %d",
				tt.grammar, tt.dialogue, tt.days, got, tt.want)
		}
	}
}

func TestClassifyProficiency(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{100, BandHigh},
		{80, BandHigh},
		{79.9, BandMedium},
		{60, BandMedium},
		{59.9, BandLow},
		{0, BandLow},
	}
	for _, tt := range tests {
		if got := ClassifyProficiency(tt.score); got != tt.want {
			t.Errorf("ClassifyProficiency(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestMasteryRate(t *testing.T) {
	if got := MasteryRate(0, 0); got != 0 {
		t.Errorf("empty history rate = %v, want 0", got)
	}
	if got := MasteryRate(4, 1); got != 25 {
		t.Errorf("rate = %v, want 25", got)
	}
}

func TestMaxDailyCount(t *testing.T) {
	stats := []api.DailyStat{
		{Grammar: 2, Dialogue: 5},
		{Grammar: 9, Dialogue: 1},
	}
	if got := MaxDailyCount(stats); got != 9 {
		t.Errorf("MaxDailyCount = %d, want 9", got)
	}
	if got := MaxDailyCount(nil); got != 1 {
		t.Errorf("MaxDailyCount(nil) = %d, want 1 (safe divisor)", got)
	}
}

func TestTotals(t *testing.T) {
	stats := []api.DailyStat{
		{Grammar: 2, Dialogue: 1},
		{Grammar: 3, Dialogue: 0},
	}
	g, d := Totals(stats)
	if g != 5 || d != 1 {
		t.Errorf("Totals = (%d, %d), want (5, 1)", g, d)
	}
}

func ids(ms []api.Mistake) string {
	out := ""
	for i, m := range ms {
		if i > 0 {
			out += ","
		}
		out += string(rune('0' + m.ID))
	}
	return out
}
