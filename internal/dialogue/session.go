// Package dialogue drives one scenario conversation: optimistic turn
// append, correction attachment, reply append, session identity
// lifecycle. Like practice, a Session is an immutable snapshot and an
// epoch tag guards against responses arriving after teardown.
package dialogue

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/kshimizu/manabo/internal/api"
)

// Phase is the per-turn-cycle state.
type Phase int

const (
	// PhaseIdle — ready to send.
	PhaseIdle Phase = iota
	// PhaseSending — one turn in flight; further sends are rejected.
	PhaseSending
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// Session is one chat screen's conversation state.
type Session struct {
	Phase      Phase
	ScenarioID string

	// SessionID is empty until the service assigns one on the first
	// turn. Once set it never changes for the life of the session.
	SessionID string

	// Turns is the append-only transcript. A turn is never edited after
	// creation except to attach a Correction to the most recent user
	// turn when its reply arrives.
	Turns []api.Turn

	// ShowCorrections controls both future correction attachment and
	// the rendering filter for stored ones.
	ShowCorrections bool

	Epoch     string
	ErrMarker string
}

// New returns an idle session for the given scenario.
func New(scenarioID string, showCorrections bool) Session {
	return Session{
		Phase:           PhaseIdle,
		ScenarioID:      scenarioID,
		ShowCorrections: showCorrections,
		Epoch:           uuid.NewString(),
	}
}

// BeginSend validates the message, appends the user turn optimistically,
// and moves to Sending. The caller issues the service call with the
// returned session identifier (empty on the first turn) and s.Epoch.
// Rejected when the message trims to empty or a send is already in
// flight; rejection causes no transition and no service call.
func (s Session) BeginSend(text string) (Session, error) {
	if s.Phase == PhaseSending {
		return s, ErrTurnInFlight
	}
	if strings.TrimSpace(text) == "" {
		return s, ErrEmptyMessage
	}

	next := s
	next.Phase = PhaseSending
	next.ErrMarker = ""
	next.Turns = appendTurn(s.Turns, api.Turn{Role: api.RoleUser, Text: text})
	return next, nil
}

// CompleteSend applies the service reply: adopts the session identifier
// if this was the first turn, attaches the correction to the
// just-appended user turn when enabled, and appends the assistant turn.
// A correction equal to the original still attaches; it carries the
// translation and renders as an affirmation.
func (s Session) CompleteSend(epoch string, reply api.DialogueReply) Session {
	if epoch != s.Epoch || s.Phase != PhaseSending {
		return s
	}

	next := s
	next.Phase = PhaseIdle

	if next.SessionID == "" {
		next.SessionID = reply.SessionID
	}

	turns := appendTurn(s.Turns, api.Turn{Role: api.RoleAssistant, Text: reply.Reply})
	if reply.Correction != nil && s.ShowCorrections {
		last := lastUserIndex(turns)
		if last >= 0 {
			c := *reply.Correction
			turns[last].Correction = &c
		}
	}
	next.Turns = turns
	return next
}

// FailSend returns to Idle leaving the user turn visible with no reply
// and no correction. The learner may retype and resend; nothing retries
// implicitly.
func (s Session) FailSend(epoch string, err error) Session {
	if epoch != s.Epoch || s.Phase != PhaseSending {
		return s
	}
	next := s
	next.Phase = PhaseIdle
	next.ErrMarker = err.Error()
	return next
}

// ToggleCorrections flips the preference. Corrections already attached
// to past turns are neither removed nor re-requested; only future
// attachment and current rendering change.
func (s Session) ToggleCorrections() Session {
	next := s
	next.ShowCorrections = !next.ShowCorrections
	return next
}

// VisibleCorrection returns the correction to render for turn i, nil
// when none is stored or the preference hides it.
func (s Session) VisibleCorrection(i int) *api.Correction {
	if !s.ShowCorrections || i < 0 || i >= len(s.Turns) {
		return nil
	}
	return s.Turns[i].Correction
}

// LoadHistory replays a stored transcript into the session, adopting the
// transcript's identity. Only valid before any turn was sent locally.
func (s Session) LoadHistory(hist api.DialogueHistory) Session {
	if s.Phase != PhaseIdle || len(s.Turns) > 0 {
		return s
	}
	next := s
	next.SessionID = hist.SessionID
	next.Turns = hist.Turns
	return next
}

// Dispose invalidates the session instance; a reply still in flight is
// discarded when it arrives.
func (s Session) Dispose() Session {
	next := s
	next.Epoch = uuid.NewString()
	next.Phase = PhaseIdle
	return next
}

// appendTurn copies-and-appends so snapshots never share a growing
// backing array with their successors.
func appendTurn(turns []api.Turn, t api.Turn) []api.Turn {
	out := make([]api.Turn, len(turns), len(turns)+1)
	copy(out, turns)
	return append(out, t)
}

// lastUserIndex finds the most recent user turn.
func lastUserIndex(turns []api.Turn) int {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == api.RoleUser {
			return i
		}
	}
	return -1
}
