// Package practice drives one grammar exercise session through
// generation, answering, grading, and advancing. A Session is an
// immutable snapshot: every transition returns a new value, so the view
// layer always renders a consistent state and an in-flight service
// response can never patch a session it no longer belongs to.
package practice

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/kshimizu/manabo/internal/api"
)

// Phase is the single tagged state of an exercise session.
type Phase int

const (
	// PhaseSetup — choosing the exercise type; nothing generated yet.
	PhaseSetup Phase = iota
	// PhaseGenerating — generation request in flight.
	PhaseGenerating
	// PhaseActive — a question is on screen awaiting an answer.
	PhaseActive
	// PhaseGrading — submit request in flight.
	PhaseGrading
	// PhaseResult — grading shown for the current question.
	PhaseResult
	// PhaseFinished — terminal; the view navigates back on seeing it.
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseGenerating:
		return "generating"
	case PhaseActive:
		return "active"
	case PhaseGrading:
		return "grading"
	case PhaseResult:
		return "result"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Validation rejections. These happen before any service call is made.
var (
	ErrEmptyGrammarID = errors.New("grammar id is empty")
	ErrUnknownType    = errors.New("unknown exercise type")
	ErrEmptyAnswer    = errors.New("answer is empty")
	ErrNotAnOption    = errors.New("answer is not a listed option")
	ErrNotAnswerable  = errors.New("session is not awaiting an answer")
	ErrNotStartable   = errors.New("session already started")
	ErrNotAdvanceable = errors.New("no result to advance from")
)

// Session is one practice run over a generated exercise sequence.
// The zero value is not usable; construct with New.
type Session struct {
	Phase        Phase
	GrammarID    string
	ExerciseType api.ExerciseType
	Exercises    []api.Exercise
	Index        int
	Answer       string
	Result       *api.Result

	// Epoch tags the session instance for in-flight calls. A response
	// carrying a stale epoch is discarded, per the teardown rule.
	Epoch string

	// ErrMarker is a non-fatal error surfaced to the view. Cleared on
	// the next accepted transition.
	ErrMarker string
}

// New returns a fresh session in Setup.
func New() Session {
	return Session{Phase: PhaseSetup, Epoch: uuid.NewString()}
}

// BeginGeneration validates the inputs and moves to Generating. The
// caller then issues the service call carrying s.Epoch and completes the
// transition with CompleteGeneration or FailGeneration.
func (s Session) BeginGeneration(grammarID string, typ api.ExerciseType) (Session, error) {
	if s.Phase != PhaseSetup {
		return s, ErrNotStartable
	}
	if strings.TrimSpace(grammarID) == "" {
		return s, ErrEmptyGrammarID
	}
	if !typ.Valid() {
		return s, ErrUnknownType
	}

	next := s
	next.Phase = PhaseGenerating
	next.GrammarID = grammarID
	next.ExerciseType = typ
	next.Exercises = nil
	next.Index = 0
	next.Answer = ""
	next.Result = nil
	next.ErrMarker = ""
	next.Epoch = uuid.NewString()
	return next, nil
}

// CompleteGeneration installs the generated sequence and activates the
// first question. Stale epochs are discarded unchanged. An empty
// sequence counts as a failed generation: an active session with zero
// exercises would break the index invariant.
func (s Session) CompleteGeneration(epoch string, exercises []api.Exercise) Session {
	if epoch != s.Epoch || s.Phase != PhaseGenerating {
		return s
	}
	if len(exercises) == 0 {
		next := s
		next.Phase = PhaseSetup
		next.ErrMarker = "the service returned no exercises"
		return next
	}

	next := s
	next.Phase = PhaseActive
	next.Exercises = exercises
	next.Index = 0
	next.Answer = ""
	next.Result = nil
	next.ErrMarker = ""
	return next
}

// FailGeneration returns to Setup with a non-fatal marker. No automatic
// retry; the learner starts again.
func (s Session) FailGeneration(epoch string, err error) Session {
	if epoch != s.Epoch || s.Phase != PhaseGenerating {
		return s
	}
	next := s
	next.Phase = PhaseSetup
	next.ErrMarker = err.Error()
	return next
}

// SetAnswer replaces the in-progress answer text. Ignored outside Active:
// once a result is shown the answer is frozen until Advance.
func (s Session) SetAnswer(text string) Session {
	if s.Phase != PhaseActive {
		return s
	}
	next := s
	next.Answer = text
	return next
}

// BeginSubmit validates the pending answer and moves to Grading. A blank
// answer, a choice answer that matches no listed option, or any phase
// other than Active is rejected with no transition and no service call.
func (s Session) BeginSubmit() (Session, error) {
	if s.Phase != PhaseActive {
		return s, ErrNotAnswerable
	}
	if strings.TrimSpace(s.Answer) == "" {
		return s, ErrEmptyAnswer
	}
	current := s.Current()
	if current.Type == api.TypeChoice && !current.HasOption(s.Answer) {
		return s, ErrNotAnOption
	}

	next := s
	next.Phase = PhaseGrading
	next.ErrMarker = ""
	return next, nil
}

// CompleteSubmit attaches the grading result for the current question.
// A correct outcome whose canonical answer differs from the submitted
// text is legal (the service grades fuzzily) and is stored as-is.
func (s Session) CompleteSubmit(epoch string, result api.Result) Session {
	if epoch != s.Epoch || s.Phase != PhaseGrading {
		return s
	}
	next := s
	next.Phase = PhaseResult
	next.Result = &result
	return next
}

// FailSubmit returns to Active on the same question with the answer
// preserved, so the learner may resubmit.
func (s Session) FailSubmit(epoch string, err error) Session {
	if epoch != s.Epoch || s.Phase != PhaseGrading {
		return s
	}
	next := s
	next.Phase = PhaseActive
	next.Result = nil
	next.ErrMarker = err.Error()
	return next
}

// Advance moves past a shown result: to the next question, or to
// Finished after the last one. Advancing never re-fetches exercises.
func (s Session) Advance() (Session, error) {
	if s.Phase != PhaseResult {
		return s, ErrNotAdvanceable
	}

	next := s
	next.Answer = ""
	next.Result = nil
	next.ErrMarker = ""
	if s.Index+1 < len(s.Exercises) {
		next.Index++
		next.Phase = PhaseActive
	} else {
		next.Phase = PhaseFinished
	}
	return next, nil
}

// Dispose invalidates the session instance: the epoch rotates so any
// response still in flight is discarded when it arrives.
func (s Session) Dispose() Session {
	next := s
	next.Epoch = uuid.NewString()
	next.Phase = PhaseFinished
	return next
}

// Current returns the exercise at the session index, or nil before
// generation completes.
func (s Session) Current() *api.Exercise {
	if s.Index < 0 || s.Index >= len(s.Exercises) {
		return nil
	}
	return &s.Exercises[s.Index]
}

// Progress returns the 1-based question number and the total count.
func (s Session) Progress() (current, total int) {
	if len(s.Exercises) == 0 {
		return 0, 0
	}
	return s.Index + 1, len(s.Exercises)
}

// Busy reports whether a service call is in flight for this session.
func (s Session) Busy() bool {
	return s.Phase == PhaseGenerating || s.Phase == PhaseGrading
}
