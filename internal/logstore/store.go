// Package logstore reads recent alert-worthy entries from the external log
// table. Both backends only ever issue SELECTs.
package logstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rajindersingh041/log-alerts/internal/config"
	"github.com/rajindersingh041/log-alerts/internal/database"
	"github.com/rajindersingh041/log-alerts/internal/models"
)

// Filter describes the one bounded read a run performs.
type Filter struct {
	Since      time.Time
	Severities []models.Severity
	Sources    []string
	// TenantID restricts to one tenant; only the Postgres table carries it.
	TenantID   string
	Limit      int
}

// Store is a scoped connection to the log table. Find returns at most
// f.Limit entries newest first, fully read before it returns.
type Store interface {
	Find(ctx context.Context, f Filter) ([]models.LogEntry, error)
	Close()
}

// Open connects to the backend named by cfg.Store.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store {
	case config.BackendPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.Postgres, cfg.QueryTimeout)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool, cfg.Table), nil
	case config.BackendClickHouse:
		db, err := database.ConnectClickHouse(ctx, cfg.ClickHouse, cfg.QueryTimeout)
		if err != nil {
			return nil, err
		}
		return NewClickHouse(db, cfg.Table), nil
	default:
		return nil, fmt.Errorf("unknown log store %q", cfg.Store)
	}
}

func severityStrings(sev []models.Severity) []string {
	out := make([]string, len(sev))
	for i, s := range sev {
		out[i] = string(s)
	}
	return out
}
