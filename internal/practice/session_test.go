package practice

import (
	"errors"
	"testing"

	"github.com/kshimizu/manabo/internal/api"
)

func testExercises(n int) []api.Exercise {
	out := make([]api.Exercise, n)
	for i := range out {
		out[i] = api.Exercise{
			ID:            string(rune('a' + i)),
			Type:          api.TypeFillInBlank,
			Question:      "彼___学生です",
			CorrectAnswer: "は",
			Explanation:   "topic marker",
		}
	}
	return out
}

func activeSession(t *testing.T, n int) Session {
	t.Helper()
	s, err := New().BeginGeneration("g1", api.TypeFillInBlank)
	if err != nil {
		t.Fatalf("BeginGeneration: %v", err)
	}
	s = s.CompleteGeneration(s.Epoch, testExercises(n))
	if s.Phase != PhaseActive {
		t.Fatalf("Phase = %v, want active", s.Phase)
	}
	return s
}

func TestBeginGeneration_Validation(t *testing.T) {
	s := New()

	if _, err := s.BeginGeneration("", api.TypeChoice); !errors.Is(err, ErrEmptyGrammarID) {
		t.Errorf("empty id: err = %v, want ErrEmptyGrammarID", err)
	}
	if _, err := s.BeginGeneration("g1", api.ExerciseType("essay")); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown type: err = %v, want ErrUnknownType", err)
	}

	next, err := s.BeginGeneration("g1", api.TypeChoice)
	if err != nil {
		t.Fatalf("BeginGeneration: %v", err)
	}
	if next.Phase != PhaseGenerating {
		t.Errorf("Phase = %v, want generating", next.Phase)
	}
	if next.Epoch == s.Epoch {
		t.Error("expected a fresh epoch for the generation call")
	}
}

func TestCompleteGeneration_ActivatesFirstQuestion(t *testing.T) {
	s := activeSession(t, 3)

	if s.Index != 0 {
		t.Errorf("Index = %d, want 0", s.Index)
	}
	if cur, total := s.Progress(); cur != 1 || total != 3 {
		t.Errorf("Progress = %d/%d, want 1/3", cur, total)
	}
	if s.Result != nil || s.Answer != "" {
		t.Error("expected cleared answer and result after generation")
	}
}

func TestCompleteGeneration_EmptySequenceReturnsToSetup(t *testing.T) {
	s, _ := New().BeginGeneration("g1", api.TypeSentence)
	s = s.CompleteGeneration(s.Epoch, nil)

	if s.Phase != PhaseSetup {
		t.Errorf("Phase = %v, want setup", s.Phase)
	}
	if s.ErrMarker == "" {
		t.Error("expected an error marker for an empty sequence")
	}
}

func TestFailGeneration_BackToSetupWithMarker(t *testing.T) {
	s, _ := New().BeginGeneration("g1", api.TypeChoice)
	s = s.FailGeneration(s.Epoch, errors.New("service unreachable"))

	if s.Phase != PhaseSetup {
		t.Errorf("Phase = %v, want setup", s.Phase)
	}
	if s.ErrMarker != "service unreachable" {
		t.Errorf("ErrMarker = %q", s.ErrMarker)
	}
}

func TestStaleGenerationResponseDiscarded(t *testing.T) {
	s, _ := New().BeginGeneration("g1", api.TypeChoice)
	stale := s.Epoch
	s = s.Dispose()

	after := s.CompleteGeneration(stale, testExercises(2))
	if after.Phase != PhaseFinished || after.Exercises != nil {
		t.Error("stale generation response must not change a disposed session")
	}
}

func TestBeginSubmit_RejectsBlankAnswer(t *testing.T) {
	for _, answer := range []string{"", "   "} {
		s := activeSession(t, 1).SetAnswer(answer)
		next, err := s.BeginSubmit()
		if !errors.Is(err, ErrEmptyAnswer) {
			t.Errorf("answer %q: err = %v, want ErrEmptyAnswer", answer, err)
		}
		if next.Phase != PhaseActive {
			t.Errorf("answer %q: phase changed to %v", answer, next.Phase)
		}
	}
}

func TestBeginSubmit_ChoiceMustMatchOption(t *testing.T) {
	s, _ := New().BeginGeneration("g1", api.TypeChoice)
	s = s.CompleteGeneration(s.Epoch, []api.Exercise{{
		ID:            "q1",
		Type:          api.TypeChoice,
		Question:      "___、元気ですか",
		Options:       []string{"こんにちは", "さようなら"},
		CorrectAnswer: "こんにちは",
	}})

	s = s.SetAnswer("おはよう")
	if _, err := s.BeginSubmit(); !errors.Is(err, ErrNotAnOption) {
		t.Errorf("err = %v, want ErrNotAnOption", err)
	}

	s = s.SetAnswer("さようなら")
	next, err := s.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	if next.Phase != PhaseGrading {
		t.Errorf("Phase = %v, want grading", next.Phase)
	}
}

func TestBeginSubmit_RejectedWhileResultShown(t *testing.T) {
	s := activeSession(t, 2).SetAnswer("は")
	s, _ = s.BeginSubmit()
	s = s.CompleteSubmit(s.Epoch, api.Result{Outcome: api.OutcomeCorrect, CorrectAnswer: "は"})

	if _, err := s.BeginSubmit(); !errors.Is(err, ErrNotAnswerable) {
		t.Errorf("err = %v, want ErrNotAnswerable", err)
	}
}

func TestFailSubmit_KeepsQuestionAndAnswer(t *testing.T) {
	s := activeSession(t, 2).SetAnswer("が")
	s, _ = s.BeginSubmit()
	s = s.FailSubmit(s.Epoch, errors.New("timeout"))

	if s.Phase != PhaseActive {
		t.Errorf("Phase = %v, want active", s.Phase)
	}
	if s.Index != 0 {
		t.Errorf("Index = %d, want 0 (same question)", s.Index)
	}
	if s.Answer != "が" {
		t.Errorf("Answer = %q, want preserved for resubmission", s.Answer)
	}
	if s.Result != nil {
		t.Error("no result may be shown after a failed submit")
	}

	// Resubmission is allowed.
	if _, err := s.BeginSubmit(); err != nil {
		t.Errorf("resubmit rejected: %v", err)
	}
}

func TestFuzzyCorrectResultAccepted(t *testing.T) {
	s := activeSession(t, 1).SetAnswer("私は学生です。")
	s, _ = s.BeginSubmit()
	s = s.CompleteSubmit(s.Epoch, api.Result{
		Outcome:       api.OutcomeCorrect,
		CorrectAnswer: "私は学生です",
	})

	if s.Phase != PhaseResult {
		t.Fatalf("Phase = %v, want result", s.Phase)
	}
	if !s.Result.Correct() {
		t.Error("a correct outcome with a differing canonical answer is still correct")
	}
}

func TestAdvance_ExactlyNReachFinished(t *testing.T) {
	const n = 4
	s := activeSession(t, n)

	for i := 0; i < n; i++ {
		s = s.SetAnswer("は")
		var err error
		s, err = s.BeginSubmit()
		if err != nil {
			t.Fatalf("question %d: BeginSubmit: %v", i, err)
		}
		s = s.CompleteSubmit(s.Epoch, api.Result{Outcome: api.OutcomeIncorrect, CorrectAnswer: "が"})

		s, err = s.Advance()
		if err != nil {
			t.Fatalf("question %d: Advance: %v", i, err)
		}

		if i < n-1 && s.Phase != PhaseActive {
			t.Fatalf("after advance %d: Phase = %v, want active", i+1, s.Phase)
		}
	}

	if s.Phase != PhaseFinished {
		t.Errorf("after %d advances: Phase = %v, want finished", n, s.Phase)
	}
}

func TestAdvance_OnlyFromResult(t *testing.T) {
	s := activeSession(t, 2)
	if _, err := s.Advance(); !errors.Is(err, ErrNotAdvanceable) {
		t.Errorf("err = %v, want ErrNotAdvanceable", err)
	}
}

func TestAdvance_ClearsAnswerAndResult(t *testing.T) {
	s := activeSession(t, 2).SetAnswer("は")
	s, _ = s.BeginSubmit()
	s = s.CompleteSubmit(s.Epoch, api.Result{Outcome: api.OutcomeCorrect, CorrectAnswer: "は"})

	s, err := s.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if s.Index != 1 || s.Answer != "" || s.Result != nil {
		t.Errorf("Index=%d Answer=%q Result=%v, want next question with cleared state",
			s.Index, s.Answer, s.Result)
	}
}

func TestStaleSubmitResponseDiscarded(t *testing.T) {
	s := activeSession(t, 1).SetAnswer("は")
	s, _ = s.BeginSubmit()
	stale := s.Epoch
	s = s.Dispose()

	after := s.CompleteSubmit(stale, api.Result{Outcome: api.OutcomeCorrect, CorrectAnswer: "は"})
	if after.Result != nil {
		t.Error("stale grading response must not attach to a disposed session")
	}
}

func TestIndexInvariantWhileActive(t *testing.T) {
	s := activeSession(t, 3)
	for s.Phase == PhaseActive || s.Phase == PhaseResult {
		if s.Index < 0 || s.Index >= len(s.Exercises) {
			t.Fatalf("Index %d out of [0,%d)", s.Index, len(s.Exercises))
		}
		if s.Phase == PhaseActive {
			s = s.SetAnswer("x")
			s, _ = s.BeginSubmit()
			s = s.CompleteSubmit(s.Epoch, api.Result{Outcome: api.OutcomeIncorrect, CorrectAnswer: "y"})
		} else {
			s, _ = s.Advance()
		}
	}
}
