package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Well-known preference keys.
const (
	KeyReminderTime    = "reminder_time"    // "HH:MM" daily study reminder
	KeyShowCorrections = "show_corrections" // "true"/"false" chat default
	KeyLastLevel       = "last_level"       // last grammar list level filter
	KeyLastTheme       = "last_theme"       // last grammar list theme filter

	// Set when the service assigns a dialogue session, so the last
	// conversation can be resumed from the scenario picker.
	KeyLastScenario = "last_scenario"
	KeyLastSession  = "last_session"
)

// PreferenceStore is the key-value preference collaborator injected into
// screens, so core logic is testable without a real database.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Prefs is the SQLite-backed PreferenceStore.
type Prefs struct {
	db *sql.DB
}

var _ PreferenceStore = (*Prefs)(nil)

// Get returns the stored value for key, or "" when unset.
func (p *Prefs) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (p *Prefs) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

// GetBool reads a boolean preference, returning fallback when unset.
func GetBool(ctx context.Context, p PreferenceStore, key string, fallback bool) bool {
	v, err := p.Get(ctx, key)
	if err != nil || v == "" {
		return fallback
	}
	return v == "true"
}

// SetBool stores a boolean preference.
func SetBool(ctx context.Context, p PreferenceStore, key string, value bool) error {
	if value {
		return p.Set(ctx, key, "true")
	}
	return p.Set(ctx, key, "false")
}
