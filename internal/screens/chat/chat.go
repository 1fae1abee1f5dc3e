// Package chat is the dialogue screen. Conversation rules live in the
// dialogue controller; this screen renders transcript snapshots and
// feeds it key presses and service replies.
package chat

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/kshimizu/manabo/internal/api"
	ctrl "github.com/kshimizu/manabo/internal/dialogue"
	"github.com/kshimizu/manabo/internal/router"
	"github.com/kshimizu/manabo/internal/screen"
	"github.com/kshimizu/manabo/internal/store"
	"github.com/kshimizu/manabo/internal/ui/components"
	"github.com/kshimizu/manabo/internal/ui/layout"
	"github.com/kshimizu/manabo/internal/ui/theme"
)

// ChatScreen implements screen.Screen for one scenario conversation.
type ChatScreen struct {
	client api.Client
	prefs  store.PreferenceStore

	scenarioName string
	resumeID     string

	sess  ctrl.Session
	input components.TextInput
	spin  spinner.Model

	// adhoc holds corrections requested explicitly with ctrl+e. They are
	// rendered even while the corrections preference is off.
	adhoc map[int]*api.Correction

	loadingHistory bool
	historyErr     string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a chat screen for a fresh conversation in the scenario.
func New(client api.Client, prefs store.PreferenceStore, scenario api.Scenario, showCorrections bool) *ChatScreen {
	s := newChat(client, prefs, scenario.Name, showCorrections)
	s.sess = ctrl.New(scenario.ID, showCorrections)
	return s
}

// Resume creates a chat screen that replays a stored conversation before
// accepting new turns.
func Resume(client api.Client, prefs store.PreferenceStore, scenarioID, sessionID string, showCorrections bool) *ChatScreen {
	s := newChat(client, prefs, "", showCorrections)
	s.sess = ctrl.New(scenarioID, showCorrections)
	s.resumeID = sessionID
	s.loadingHistory = true
	return s
}

func newChat(client api.Client, prefs store.PreferenceStore, name string, showCorrections bool) *ChatScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Hint

	return &ChatScreen{
		client:       client,
		prefs:        prefs,
		scenarioName: name,
		input:        components.NewTextInput("Say something...", 500),
		spin:         sp,
		adhoc:        make(map[int]*api.Correction),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.input.Init(), s.spin.Tick}
	if s.resumeID != "" {
		cmds = append(cmds, s.historyCmd(s.sess.Epoch, s.resumeID))
	}
	return tea.Batch(cmds...)
}

func (s *ChatScreen) Title() string {
	if s.scenarioName != "" {
		return s.scenarioName
	}
	return "Dialogue"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
	}
	if s.sess.ShowCorrections {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+T", Description: "Corrections off"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+T", Description: "Corrections on"})
		hints = append(hints, layout.KeyHint{Key: "Ctrl+E", Description: "Check last message"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	return hints
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return s.handleReply(msg)

	case correctionMsg:
		if msg.Epoch == s.sess.Epoch && msg.Err == nil && msg.Correction != nil {
			s.adhoc[msg.TurnIndex] = msg.Correction
		}
		return s, nil

	case historyMsg:
		return s.handleHistory(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.sess = s.sess.FailSend(msg.Epoch, msg.Err)
		return s, nil
	}

	hadID := s.sess.SessionID != ""
	s.sess = s.sess.CompleteSend(msg.Epoch, *msg.Reply)

	// Remember the conversation for resume once the service names it.
	if !hadID && s.sess.SessionID != "" {
		return s, s.rememberSessionCmd()
	}
	return s, nil
}

func (s *ChatScreen) handleHistory(msg historyMsg) (screen.Screen, tea.Cmd) {
	if msg.Epoch != s.sess.Epoch {
		return s, nil
	}
	s.loadingHistory = false
	if msg.Err != nil {
		s.historyErr = msg.Err.Error()
		return s, nil
	}
	s.sess = s.sess.LoadHistory(*msg.History)
	if s.scenarioName == "" {
		s.scenarioName = msg.History.Scenario
	}
	return s, nil
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.sess = s.sess.Dispose()
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case "enter":
		text := s.input.Value()
		next, err := s.sess.BeginSend(text)
		if err != nil {
			return s, nil
		}
		s.sess = next
		s.input.Reset()
		return s, tea.Batch(
			s.sendCmd(next.Epoch, next.SessionID, text),
			s.spin.Tick,
		)

	case "ctrl+t":
		s.sess = s.sess.ToggleCorrections()
		return s, s.persistCorrectionsCmd(s.sess.ShowCorrections)

	case "ctrl+e":
		return s.requestAdhocCorrection()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// requestAdhocCorrection asks for a one-off correction of the most recent
// user turn that has none yet.
func (s *ChatScreen) requestAdhocCorrection() (screen.Screen, tea.Cmd) {
	if s.sess.Phase != ctrl.PhaseIdle {
		return s, nil
	}
	for i := len(s.sess.Turns) - 1; i >= 0; i-- {
		turn := s.sess.Turns[i]
		if turn.Role != api.RoleUser {
			continue
		}
		if turn.Correction != nil || s.adhoc[i] != nil {
			return s, nil
		}
		return s, s.correctCmd(s.sess.Epoch, i, turn.Text)
	}
	return s, nil
}

func (s *ChatScreen) sendCmd(epoch, sessionID, text string) tea.Cmd {
	client := s.client
	scenarioID := s.sess.ScenarioID
	return func() tea.Msg {
		reply, err := client.SendTurn(context.Background(), scenarioID, text, sessionID)
		if err != nil {
			return replyMsg{Epoch: epoch, Err: err}
		}
		return replyMsg{Epoch: epoch, Reply: reply}
	}
}

func (s *ChatScreen) correctCmd(epoch string, turnIndex int, text string) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		corr, err := client.CorrectMessage(context.Background(), text)
		if err != nil {
			return correctionMsg{Epoch: epoch, Err: err}
		}
		return correctionMsg{Epoch: epoch, TurnIndex: turnIndex, Correction: corr}
	}
}

func (s *ChatScreen) historyCmd(epoch, sessionID string) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		hist, err := client.History(context.Background(), sessionID)
		if err != nil {
			return historyMsg{Epoch: epoch, Err: err}
		}
		return historyMsg{Epoch: epoch, History: hist}
	}
}

func (s *ChatScreen) rememberSessionCmd() tea.Cmd {
	prefs := s.prefs
	scenarioID := s.sess.ScenarioID
	sessionID := s.sess.SessionID
	return func() tea.Msg {
		ctx := context.Background()
		_ = prefs.Set(ctx, store.KeyLastScenario, scenarioID)
		_ = prefs.Set(ctx, store.KeyLastSession, sessionID)
		return nil
	}
}

func (s *ChatScreen) persistCorrectionsCmd(on bool) tea.Cmd {
	prefs := s.prefs
	return func() tea.Msg {
		_ = store.SetBool(context.Background(), prefs, store.KeyShowCorrections, on)
		return nil
	}
}
