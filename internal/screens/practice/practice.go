// Package practice is the exercise session screen. All session rules
// live in the practice controller; this screen renders its snapshots and
// turns key presses and service responses into transitions.
package practice

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/kshimizu/manabo/internal/api"
	ctrl "github.com/kshimizu/manabo/internal/practice"
	"github.com/kshimizu/manabo/internal/router"
	"github.com/kshimizu/manabo/internal/screen"
	"github.com/kshimizu/manabo/internal/ui/components"
	"github.com/kshimizu/manabo/internal/ui/layout"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

// PracticeScreen implements screen.Screen for one exercise session.
type PracticeScreen struct {
	client  api.Client
	grammar api.GrammarPoint

	sess ctrl.Session

	typeSel      int
	input        components.TextInput
	options      components.OptionList
	spin         spinner.Model
	correctCount int
	quitConfirm  bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen for the given grammar point.
func New(client api.Client, grammar api.GrammarPoint) *PracticeScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Hint

	return &PracticeScreen{
		client:  client,
		grammar: grammar,
		sess:    ctrl.New(),
		input:   components.NewTextInput("Type your answer...", 120),
		spin:    sp,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.spin.Tick
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.sess.Phase {
	case ctrl.PhaseSetup:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Exercise type"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case ctrl.PhaseResult:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Leave"},
		}
	case ctrl.PhaseFinished:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exercisesMsg:
		return s.handleExercises(msg)

	case gradedMsg:
		return s.handleGraded(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Anything else goes to the text input while an answer is being typed.
	if s.textEntryActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.sess = s.sess.SetAnswer(s.input.Value())
		return s, cmd
	}

	return s, nil
}

func (s *PracticeScreen) handleExercises(msg exercisesMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.sess = s.sess.FailGeneration(msg.Epoch, msg.Err)
		return s, nil
	}
	s.sess = s.sess.CompleteGeneration(msg.Epoch, msg.Exercises)
	if s.sess.Phase == ctrl.PhaseActive {
		return s, s.prepareQuestion()
	}
	return s, nil
}

func (s *PracticeScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.sess = s.sess.FailSubmit(msg.Epoch, msg.Err)
		return s, nil
	}

	before := s.sess.Phase
	s.sess = s.sess.CompleteSubmit(msg.Epoch, *msg.Result)
	if s.sess.Phase != ctrl.PhaseResult || before != ctrl.PhaseGrading {
		return s, nil
	}

	if msg.Result.Correct() {
		s.correctCount++
	}
	if cur := s.sess.Current(); cur != nil && cur.Type == api.TypeChoice {
		s.options.Reveal(msg.Result.CorrectAnswer)
	} else {
		s.input.MarkGraded(msg.Result.Correct())
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.sess = s.sess.Dispose()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if key == "esc" {
		switch s.sess.Phase {
		case ctrl.PhaseSetup, ctrl.PhaseFinished:
			s.sess = s.sess.Dispose()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		default:
			s.quitConfirm = true
			return s, nil
		}
	}

	switch s.sess.Phase {
	case ctrl.PhaseSetup:
		return s.handleSetupKey(key)

	case ctrl.PhaseActive:
		return s.handleActiveKey(msg, key)

	case ctrl.PhaseResult:
		if key == "enter" {
			return s.advance()
		}

	case ctrl.PhaseFinished:
		if key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	return s, nil
}

func (s *PracticeScreen) handleSetupKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		if s.typeSel > 0 {
			s.typeSel--
		}
	case "down", "j":
		if s.typeSel < len(api.ExerciseTypes)-1 {
			s.typeSel++
		}
	case "enter":
		typ := api.ExerciseTypes[s.typeSel]
		next, err := s.sess.BeginGeneration(s.grammar.ID, typ)
		if err != nil {
			return s, nil
		}
		s.sess = next
		return s, tea.Batch(s.generateCmd(next.Epoch, typ), s.spin.Tick)
	}
	return s, nil
}

func (s *PracticeScreen) handleActiveKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	cur := s.sess.Current()
	if cur == nil {
		return s, nil
	}

	if key == "enter" {
		if cur.Type == api.TypeChoice {
			s.sess = s.sess.SetAnswer(s.options.Chosen())
		}
		next, err := s.sess.BeginSubmit()
		if err != nil {
			return s, nil
		}
		s.sess = next
		return s, tea.Batch(
			s.submitCmd(next.Epoch, cur.ID, next.Answer),
			s.spin.Tick,
		)
	}

	if cur.Type == api.TypeChoice {
		var cmd tea.Cmd
		s.options, cmd = s.options.Update(msg)
		s.sess = s.sess.SetAnswer(s.options.Chosen())
		return s, cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.sess = s.sess.SetAnswer(s.input.Value())
	return s, cmd
}

func (s *PracticeScreen) advance() (screen.Screen, tea.Cmd) {
	next, err := s.sess.Advance()
	if err != nil {
		return s, nil
	}
	s.sess = next
	if s.sess.Phase == ctrl.PhaseActive {
		return s, s.prepareQuestion()
	}
	return s, nil
}

// prepareQuestion resets the answer widgets for the current exercise.
func (s *PracticeScreen) prepareQuestion() tea.Cmd {
	cur := s.sess.Current()
	if cur == nil {
		return nil
	}
	if cur.Type == api.TypeChoice {
		s.options = components.NewOptionList(cur.Options)
		return nil
	}
	s.input = components.NewTextInput("Type your answer...", 120)
	return s.input.Init()
}

func (s *PracticeScreen) textEntryActive() bool {
	if s.sess.Phase != ctrl.PhaseActive {
		return false
	}
	cur := s.sess.Current()
	return cur != nil && cur.Type != api.TypeChoice
}

// generateCmd requests a fresh exercise sequence. The epoch travels with
// the request so a response for a discarded session is ignored.
func (s *PracticeScreen) generateCmd(epoch string, typ api.ExerciseType) tea.Cmd {
	client := s.client
	grammarID := s.grammar.ID
	return func() tea.Msg {
		exercises, err := client.GenerateExercises(context.Background(), grammarID, typ)
		if err != nil {
			return exercisesMsg{Epoch: epoch, Err: err}
		}
		return exercisesMsg{Epoch: epoch, Exercises: exercises}
	}
}

// submitCmd sends the pending answer for grading.
func (s *PracticeScreen) submitCmd(epoch, questionID, answer string) tea.Cmd {
	client := s.client
	grammarID := s.grammar.ID
	return func() tea.Msg {
		result, err := client.SubmitAnswer(context.Background(), grammarID, questionID, answer)
		if err != nil {
			return gradedMsg{Epoch: epoch, Err: err}
		}
		return gradedMsg{Epoch: epoch, Result: result}
	}
}
