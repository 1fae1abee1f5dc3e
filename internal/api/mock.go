package api

import (
	"context"
	"sync"
)

// Mock is a deterministic Client for testing. Fields hold canned data;
// Err, when set, is returned by every call. SendTurnCalls records the
// session identifiers used for the single-outstanding-turn and
// identifier-reuse assertions.
type Mock struct {
	mu sync.Mutex

	Grammar   []GrammarPoint
	Exercises []Exercise
	Result    *Result
	Mistakes  []Mistake
	Ranked    []string
	Scenarios []Scenario
	Reply     *DialogueReply
	Corr      *Correction
	Hist      *DialogueHistory
	Weekly    *WeeklyStats
	Sum       *Summary
	Doc       *Export
	Err       error

	SendTurnCalls []string // sessionID per SendTurn call
	SubmitCalls   int
	GenerateCalls int
}

var _ Client = (*Mock)(nil)

func (m *Mock) ListGrammar(_ context.Context, level Level, theme string) ([]GrammarPoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []GrammarPoint
	for _, g := range m.Grammar {
		if level != "" && g.Level != level {
			continue
		}
		if theme != "" && !hasTheme(g, theme) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *Mock) GrammarDetail(_ context.Context, grammarID string) (*GrammarPoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Grammar {
		if m.Grammar[i].ID == grammarID {
			return &m.Grammar[i], nil
		}
	}
	return nil, ErrNotFound
}

func (m *Mock) GenerateExercises(_ context.Context, _ string, _ ExerciseType) ([]Exercise, error) {
	m.mu.Lock()
	m.GenerateCalls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Exercises, nil
}

func (m *Mock) SubmitAnswer(_ context.Context, _, _, _ string) (*Result, error) {
	m.mu.Lock()
	m.SubmitCalls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *Mock) ListMistakes(_ context.Context) ([]Mistake, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Mistakes, nil
}

func (m *Mock) Recommendations(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Ranked, nil
}

func (m *Mock) ListScenarios(_ context.Context) ([]Scenario, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Scenarios, nil
}

func (m *Mock) SendTurn(_ context.Context, _, _, sessionID string) (*DialogueReply, error) {
	m.mu.Lock()
	m.SendTurnCalls = append(m.SendTurnCalls, sessionID)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Reply, nil
}

func (m *Mock) CorrectMessage(_ context.Context, _ string) (*Correction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Corr, nil
}

func (m *Mock) History(_ context.Context, _ string) (*DialogueHistory, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Hist == nil {
		return nil, ErrNotFound
	}
	return m.Hist, nil
}

func (m *Mock) WeeklyStats(_ context.Context) (*WeeklyStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Weekly, nil
}

func (m *Mock) Summary(_ context.Context) (*Summary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Sum, nil
}

func (m *Mock) ExportStudyData(_ context.Context) (*Export, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Doc, nil
}

func hasTheme(g GrammarPoint, theme string) bool {
	for _, t := range g.Themes {
		if t == theme {
			return true
		}
	}
	return false
}
