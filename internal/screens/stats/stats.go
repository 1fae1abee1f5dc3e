// Package stats shows the weekly activity chart, whole-history summary,
// the study-data export, and the daily reminder setting.
package stats

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/export"
	"github.com/kshimizu/manabo/internal/router"
	"github.com/kshimizu/manabo/internal/screen"
	"github.com/kshimizu/manabo/internal/store"
	"github.com/kshimizu/manabo/internal/ui/components"
	"github.com/kshimizu/manabo/internal/ui/layout"
)

type loadedMsg struct {
	Weekly   *api.WeeklyStats
	Summary  *api.Summary
	Reminder string
	Err      error
}

type exportDoneMsg struct {
	Path string
	Err  error
}

// StatsScreen implements screen.Screen for study statistics.
type StatsScreen struct {
	client api.Client
	prefs  store.PreferenceStore
	sink   export.Sink

	weekly   *api.WeeklyStats
	summary  *api.Summary
	reminder string

	editingReminder bool
	reminderInput   components.TextInput
	reminderErr     string

	exporting  bool
	exportPath string
	exportErr  string

	loaded bool
	errMsg string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates the statistics screen.
func New(client api.Client, prefs store.PreferenceStore, sink export.Sink) *StatsScreen {
	return &StatsScreen{
		client: client,
		prefs:  prefs,
		sink:   sink,
	}
}

func (s *StatsScreen) Init() tea.Cmd {
	client := s.client
	prefs := s.prefs
	return func() tea.Msg {
		ctx := context.Background()

		weekly, err := client.WeeklyStats(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		summary, err := client.Summary(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}

		reminder, _ := prefs.Get(ctx, store.KeyReminderTime)

		return loadedMsg{Weekly: weekly, Summary: summary, Reminder: reminder}
	}
}

func (s *StatsScreen) Title() string {
	return "Statistics"
}

func (s *StatsScreen) HeaderStatus() string {
	if s.reminder != "" {
		return "⏰ " + s.reminder
	}
	return ""
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	if s.editingReminder {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "E", Description: "Export"},
		{Key: "R", Description: "Reminder"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.weekly = msg.Weekly
			s.summary = msg.Summary
			s.reminder = msg.Reminder
		}
		s.loaded = true
		return s, nil

	case exportDoneMsg:
		s.exporting = false
		if msg.Err != nil {
			s.exportErr = msg.Err.Error()
		} else {
			s.exportPath = msg.Path
			s.exportErr = ""
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.editingReminder {
		var cmd tea.Cmd
		s.reminderInput, cmd = s.reminderInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StatsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.editingReminder {
		switch msg.String() {
		case "enter":
			return s.saveReminder()
		case "esc":
			s.editingReminder = false
			s.reminderErr = ""
			return s, nil
		}
		var cmd tea.Cmd
		s.reminderInput, cmd = s.reminderInput.Update(msg)
		return s, cmd
	}

	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "e", "E":
		if !s.exporting {
			s.exporting = true
			s.exportPath = ""
			s.exportErr = ""
			return s, s.exportCmd()
		}
	case "r", "R":
		s.editingReminder = true
		s.reminderErr = ""
		s.reminderInput = components.NewTextInput("HH:MM", 5)
		s.reminderInput.SetValue(s.reminder)
		return s, s.reminderInput.Init()
	}
	return s, nil
}

// saveReminder validates the HH:MM value and persists it. An empty value
// clears the reminder.
func (s *StatsScreen) saveReminder() (screen.Screen, tea.Cmd) {
	value := s.reminderInput.Value()
	if value != "" {
		if _, err := time.Parse("15:04", value); err != nil {
			s.reminderErr = "use 24h HH:MM, e.g. 21:30"
			return s, nil
		}
	}

	s.reminder = value
	s.editingReminder = false
	s.reminderErr = ""

	prefs := s.prefs
	return s, func() tea.Msg {
		_ = prefs.Set(context.Background(), store.KeyReminderTime, value)
		return nil
	}
}

func (s *StatsScreen) exportCmd() tea.Cmd {
	client := s.client
	sink := s.sink
	return func() tea.Msg {
		doc, err := client.ExportStudyData(context.Background())
		if err != nil {
			return exportDoneMsg{Err: err}
		}
		path, err := sink.Deliver(doc.Data, doc.Filename)
		if err != nil {
			return exportDoneMsg{Err: err}
		}
		return exportDoneMsg{Path: path}
	}
}
