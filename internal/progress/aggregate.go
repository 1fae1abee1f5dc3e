// Package progress turns raw mistake and statistics records from the
// service into display-ready structures. Everything here is pure and
// synchronous: no network calls, no session state.
package progress

import (
	"math"

	"github.com/kshimizu/manabo/internal/api"
)

// MistakeGroup is all mistakes recorded against one grammar point, in
// first-seen order.
type MistakeGroup struct {
	GrammarID string
	Mistakes  []api.Mistake
}

// GroupMistakes partitions mistakes by grammar id. Group order and
// member order both preserve first appearance in the input; every
// mistake lands in exactly one group.
func GroupMistakes(mistakes []api.Mistake) []MistakeGroup {
	index := make(map[string]int, len(mistakes))
	var groups []MistakeGroup
	for _, m := range mistakes {
		i, ok := index[m.GrammarID]
		if !ok {
			i = len(groups)
			index[m.GrammarID] = i
			groups = append(groups, MistakeGroup{GrammarID: m.GrammarID})
		}
		groups[i].Mistakes = append(groups[i].Mistakes, m)
	}
	return groups
}

// ResolveRecommendations takes the top limit entries of a server-ranked
// id list and resolves each against the currently loaded grammar set.
// Ids with no loaded record are skipped silently; ranked order is
// preserved for the ids that resolve. It never pads with substitutes.
func ResolveRecommendations(ranked []string, loaded []api.GrammarPoint, limit int) []api.GrammarPoint {
	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}

	byID := make(map[string]api.GrammarPoint, len(loaded))
	for _, g := range loaded {
		byID[g.ID] = g
	}

	var out []api.GrammarPoint
	for _, id := range ranked[:limit] {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

// DailyAverage rounds (totalGrammar+totalDialogue)/windowDays to the
// nearest integer, half up.
func DailyAverage(totalGrammar, totalDialogue, windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	return int(math.Floor(float64(totalGrammar+totalDialogue)/float64(windowDays) + 0.5))
}

// Band classifies a proficiency score for display.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// ClassifyProficiency maps a 0–100 score to its display band. Display
// only; the underlying score stays authoritative.
func ClassifyProficiency(score float64) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// MasteryRate returns mastered/practiced as a percentage, 0 when nothing
// was practiced.
func MasteryRate(practiced, mastered int) float64 {
	if practiced <= 0 {
		return 0
	}
	return float64(mastered) / float64(practiced) * 100
}

// MaxDailyCount returns the largest single-day grammar or dialogue
// count, for scaling the weekly bars. Returns 1 for an all-zero window
// so callers can divide by it.
func MaxDailyCount(stats []api.DailyStat) int {
	max := 1
	for _, d := range stats {
		if d.Grammar > max {
			max = d.Grammar
		}
		if d.Dialogue > max {
			max = d.Dialogue
		}
	}
	return max
}

// Totals recomputes window totals from the per-day counts. Used to fall
// back when the service omits its own totals.
func Totals(stats []api.DailyStat) (grammar, dialogue int) {
	for _, d := range stats {
		grammar += d.Grammar
		dialogue += d.Dialogue
	}
	return grammar, dialogue
}
