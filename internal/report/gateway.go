// Package report runs the recent-alerts check: one bounded read from the log
// store, rendered for an operator.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rajindersingh041/log-alerts/internal/config"
	"github.com/rajindersingh041/log-alerts/internal/logstore"
	"github.com/rajindersingh041/log-alerts/internal/models"
)

// Opener acquires a store connection. logstore.Open is the production one.
type Opener func(ctx context.Context, cfg *config.Config) (logstore.Store, error)

// Gateway performs a single check. It holds no state between runs.
type Gateway struct {
	cfg  *config.Config
	open Opener
	out  io.Writer
	log  *slog.Logger
	now  func() time.Time
}

func NewGateway(cfg *config.Config, open Opener, out io.Writer, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{cfg: cfg, open: open, out: out, log: log, now: time.Now}
}

// Filter returns the read the gateway issues for a run starting at now.
func (g *Gateway) Filter(now time.Time) logstore.Filter {
	return logstore.Filter{
		Since:      now.UTC().Add(-g.cfg.Window()),
		Severities: models.AlertSeverities,
		Sources:    g.cfg.Sources,
		TenantID:   g.cfg.TenantID,
		Limit:      config.ResultLimit,
	}
}

// Run connects, queries and prints. The store is closed on every path once
// acquired, and nothing is written to out unless the query succeeded.
func (g *Gateway) Run(ctx context.Context) error {
	if err := g.cfg.Validate(); err != nil {
		return ConfigurationError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.QueryTimeout)
	defer cancel()

	store, err := g.open(ctx, g.cfg)
	if err != nil {
		return ConnectionError(err)
	}
	defer func() {
		store.Close()
		g.log.Debug("log store connection released")
	}()

	filter := g.Filter(g.now())
	g.log.Debug("querying log store",
		"store", g.cfg.Store,
		"table", g.cfg.Table,
		"since", filter.Since.Format(time.RFC3339),
		"tenant", filter.TenantID,
		"limit", filter.Limit,
	)

	entries, err := store.Find(ctx, filter)
	if err != nil {
		return QueryError(err)
	}
	if len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}

	var buf bytes.Buffer
	if err := Render(&buf, g.cfg.WindowMinutes, entries); err != nil {
		return NewError(KindUnknown, "render report", err)
	}
	if _, err := buf.WriteTo(g.out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	g.log.Info("log check complete", "entries", len(entries), "window_minutes", g.cfg.WindowMinutes)
	return nil
}
