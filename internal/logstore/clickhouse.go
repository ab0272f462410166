package logstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rajindersingh041/log-alerts/internal/database"
	"github.com/rajindersingh041/log-alerts/internal/models"
)

// ClickHouse reads the events MergeTree table through database/sql.
// The Context map is the payload.
type ClickHouse struct {
	db    *sql.DB
	table string
}

func NewClickHouse(db *sql.DB, table string) *ClickHouse {
	return &ClickHouse{db: db, table: table}
}

func (s *ClickHouse) Find(ctx context.Context, f Filter) ([]models.LogEntry, error) {
	if f.TenantID != "" {
		return nil, fmt.Errorf("%s has no tenant column", s.table)
	}
	query := database.ClickHouseRecentAlerts(s.table, len(f.Severities), len(f.Sources))

	args := make([]any, 0, 2+len(f.Severities)+len(f.Sources))
	args = append(args, f.Since.UTC())
	for _, sev := range f.Severities {
		args = append(args, string(sev))
	}
	for _, src := range f.Sources {
		args = append(args, src)
	}
	args = append(args, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var (
			e       models.LogEntry
			level   string
			payload sql.NullString
		)
		// The Scan order must match the SELECT
		if err := rows.Scan(&e.Timestamp, &level, &e.Source, &e.Message, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		e.Severity = models.ParseSeverity(level)
		if payload.Valid {
			e.Payload = models.NewPayload([]byte(payload.String))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after row iteration: %w", err)
	}
	return entries, nil
}

func (s *ClickHouse) Close() {
	s.db.Close()
}
