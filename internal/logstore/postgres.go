package logstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rajindersingh041/log-alerts/internal/database"
	"github.com/rajindersingh041/log-alerts/internal/models"
)

// PgxQuerier is the part of *pgxpool.Pool the store needs.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Postgres reads the Prisma-managed integration log table.
type Postgres struct {
	db    PgxQuerier
	table string
}

func NewPostgres(db PgxQuerier, table string) *Postgres {
	return &Postgres{db: db, table: table}
}

func (s *Postgres) Find(ctx context.Context, f Filter) ([]models.LogEntry, error) {
	query := database.PostgresRecentAlerts(s.table, len(f.Sources) > 0, f.TenantID != "")
	args := []any{f.Since.UTC(), severityStrings(f.Severities)}
	if len(f.Sources) > 0 {
		args = append(args, f.Sources)
	}
	if f.TenantID != "" {
		args = append(args, f.TenantID)
	}
	args = append(args, f.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var (
			e       models.LogEntry
			level   string
			payload []byte
		)
		if err := rows.Scan(&e.Timestamp, &level, &e.Source, &e.Message, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		e.Severity = models.ParseSeverity(level)
		e.Payload = models.NewPayload(payload)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after row iteration: %w", err)
	}
	return entries, nil
}

func (s *Postgres) Close() {
	s.db.Close()
}
