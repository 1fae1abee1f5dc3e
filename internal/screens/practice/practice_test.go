package practice

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/kshimizu/manabo/internal/api"
	ctrl "github.com/kshimizu/manabo/internal/practice"
)

var testGrammar = api.GrammarPoint{ID: "g1", Level: "N5", Title: "〜てもいい"}

func choiceExercises() []api.Exercise {
	return []api.Exercise{
		{ID: "q1", Type: api.TypeChoice, Question: "Pick one", Options: []string{"a", "b", "c"}, CorrectAnswer: "b"},
		{ID: "q2", Type: api.TypeChoice, Question: "Pick again", Options: []string{"x", "y"}, CorrectAnswer: "x"},
	}
}

func startedScreen(t *testing.T, exercises []api.Exercise) *PracticeScreen {
	t.Helper()
	s := New(&api.Mock{}, testGrammar)
	s.handleSetupKey("enter")
	if s.sess.Phase != ctrl.PhaseGenerating {
		t.Fatalf("expected generating after start, got %v", s.sess.Phase)
	}
	s.handleExercises(exercisesMsg{Epoch: s.sess.Epoch, Exercises: exercises})
	return s
}

func TestExercisesActivateFirstQuestion(t *testing.T) {
	s := startedScreen(t, choiceExercises())

	if s.sess.Phase != ctrl.PhaseActive {
		t.Fatalf("expected active, got %v", s.sess.Phase)
	}
	cur := s.sess.Current()
	if cur == nil || cur.ID != "q1" {
		t.Fatalf("expected first question current, got %+v", cur)
	}
	if len(s.options.Options) != 3 {
		t.Errorf("expected option widget populated, got %d options", len(s.options.Options))
	}
}

func TestStaleExercisesIgnored(t *testing.T) {
	s := New(&api.Mock{}, testGrammar)
	s.handleSetupKey("enter")

	s.handleExercises(exercisesMsg{Epoch: "stale", Exercises: choiceExercises()})

	if s.sess.Phase != ctrl.PhaseGenerating {
		t.Errorf("stale response must not change phase, got %v", s.sess.Phase)
	}
}

func TestGenerationFailureReturnsToSetup(t *testing.T) {
	s := New(&api.Mock{}, testGrammar)
	s.handleSetupKey("enter")

	s.handleExercises(exercisesMsg{Epoch: s.sess.Epoch, Err: errors.New("boom")})

	if s.sess.Phase != ctrl.PhaseSetup {
		t.Fatalf("expected setup after failure, got %v", s.sess.Phase)
	}
	if s.sess.ErrMarker == "" {
		t.Error("expected error marker for the view")
	}
}

func TestGradedResultCountsAndReveals(t *testing.T) {
	s := startedScreen(t, choiceExercises())

	s.sess = s.sess.SetAnswer("b")
	next, err := s.sess.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	s.sess = next

	s.handleGraded(gradedMsg{Epoch: s.sess.Epoch, Result: &api.Result{
		Outcome: api.OutcomeCorrect, CorrectAnswer: "b",
	}})

	if s.sess.Phase != ctrl.PhaseResult {
		t.Fatalf("expected result phase, got %v", s.sess.Phase)
	}
	if s.correctCount != 1 {
		t.Errorf("expected correct count 1, got %d", s.correctCount)
	}
}

func TestGradingFailureKeepsQuestionAnswerable(t *testing.T) {
	s := startedScreen(t, choiceExercises())

	s.sess = s.sess.SetAnswer("a")
	next, _ := s.sess.BeginSubmit()
	s.sess = next

	s.handleGraded(gradedMsg{Epoch: s.sess.Epoch, Err: errors.New("network down")})

	if s.sess.Phase != ctrl.PhaseActive {
		t.Fatalf("expected active after grading failure, got %v", s.sess.Phase)
	}
	if s.sess.Answer != "a" {
		t.Errorf("answer must survive a failed submit, got %q", s.sess.Answer)
	}
	if s.correctCount != 0 {
		t.Errorf("failed grading must not count, got %d", s.correctCount)
	}
}

func TestAdvanceThroughToFinished(t *testing.T) {
	s := startedScreen(t, choiceExercises())

	for _, answer := range []string{"b", "y"} {
		s.sess = s.sess.SetAnswer(answer)
		next, err := s.sess.BeginSubmit()
		if err != nil {
			t.Fatalf("BeginSubmit(%q): %v", answer, err)
		}
		s.sess = next
		s.handleGraded(gradedMsg{Epoch: s.sess.Epoch, Result: &api.Result{
			Outcome: api.OutcomeIncorrect, CorrectAnswer: "?",
		}})
		s.advance()
	}

	if s.sess.Phase != ctrl.PhaseFinished {
		t.Fatalf("expected finished after last advance, got %v", s.sess.Phase)
	}
}

func TestQuitConfirmOnlyMidSession(t *testing.T) {
	s := New(&api.Mock{}, testGrammar)

	// In setup, esc leaves directly.
	_, cmd := s.handleKey(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.quitConfirm {
		t.Error("setup esc must not require confirmation")
	}
	if cmd == nil {
		t.Error("expected a pop command from setup esc")
	}

	s = startedScreen(t, choiceExercises())
	s.handleKey(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.quitConfirm {
		t.Error("mid-session esc must ask for confirmation")
	}
}
