package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RequestRecord is one logged Remote Learning Service call.
type RequestRecord struct {
	ID        int64
	Operation string
	LatencyMs int64
	Success   bool
	ErrorText string
	CreatedAt time.Time
}

// RequestLog appends one row per service call. It satisfies the api
// client's Recorder hook.
type RequestLog struct {
	db *sql.DB
}

// RecordRequest appends a call record. Failures are swallowed: losing a
// log row must never fail the interaction that produced it.
func (l *RequestLog) RecordRequest(operation string, latency time.Duration, success bool, errText string) {
	_, _ = l.db.Exec(
		`INSERT INTO request_log (operation, latency_ms, success, error_text) VALUES (?, ?, ?, ?)`,
		operation, latency.Milliseconds(), boolInt(success), errText)
}

// Recent returns up to limit records, newest first.
func (l *RequestLog) Recent(ctx context.Context, limit int) ([]RequestRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, operation, latency_ms, success, error_text, created_at
		 FROM request_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query request log: %w", err)
	}
	defer rows.Close()

	var records []RequestRecord
	for rows.Next() {
		var r RequestRecord
		var success int
		if err := rows.Scan(&r.ID, &r.Operation, &r.LatencyMs, &success, &r.ErrorText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request log row: %w", err)
		}
		r.Success = success != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune deletes records older than the cutoff.
func (l *RequestLog) Prune(ctx context.Context, before time.Time) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM request_log WHERE created_at < ?`, before)
	if err != nil {
		return fmt.Errorf("prune request log: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
