package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/store"
	"github.com/kshimizu/manabo/internal/ui/components"
)

type memPrefs struct {
	values map[string]string
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (m *memPrefs) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memPrefs) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type memSink struct {
	delivered string
	err       error
}

func (m *memSink) Deliver(_ []byte, filename string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.delivered = filename
	return "/downloads/" + filename, nil
}

func TestSaveReminderRejectsBadTime(t *testing.T) {
	s := New(&api.Mock{}, newMemPrefs(), &memSink{})
	s.editingReminder = true
	s.reminderInput = components.NewTextInput("HH:MM", 5)
	s.reminderInput.SetValue("25:99")

	s.saveReminder()

	if s.reminderErr == "" {
		t.Error("expected a validation error for 25:99")
	}
	if !s.editingReminder {
		t.Error("editing must continue until the value is valid")
	}
}

func TestSaveReminderPersistsValidTime(t *testing.T) {
	prefs := newMemPrefs()
	s := New(&api.Mock{}, prefs, &memSink{})
	s.editingReminder = true
	s.reminderInput = components.NewTextInput("HH:MM", 5)
	s.reminderInput.SetValue("21:30")

	_, cmd := s.saveReminder()
	if cmd == nil {
		t.Fatal("expected a persistence command")
	}
	cmd()

	if s.reminder != "21:30" {
		t.Errorf("expected reminder 21:30, got %q", s.reminder)
	}
	if prefs.values[store.KeyReminderTime] != "21:30" {
		t.Errorf("expected persisted reminder, got %q", prefs.values[store.KeyReminderTime])
	}
}

func TestSaveReminderAllowsClearing(t *testing.T) {
	s := New(&api.Mock{}, newMemPrefs(), &memSink{})
	s.reminder = "21:30"
	s.editingReminder = true
	s.reminderInput = components.NewTextInput("HH:MM", 5)

	_, cmd := s.saveReminder()
	if cmd == nil {
		t.Fatal("expected a persistence command")
	}
	if s.reminder != "" {
		t.Errorf("expected cleared reminder, got %q", s.reminder)
	}
}

func TestExportOutcome(t *testing.T) {
	s := New(&api.Mock{}, newMemPrefs(), &memSink{})
	s.exporting = true

	s.Update(exportDoneMsg{Path: "/downloads/manabo_study_data.xlsx"})
	if s.exporting {
		t.Error("expected exporting cleared")
	}
	if s.exportPath == "" {
		t.Error("expected export path recorded")
	}

	s.exporting = true
	s.Update(exportDoneMsg{Err: errors.New("service unavailable")})
	if s.exportErr == "" {
		t.Error("expected export error recorded")
	}
}
