// Command check-logs prints the warnings and errors recorded in the log store
// during the last LOG_WINDOW_MINUTES minutes. It runs once and exits; schedule
// it externally to poll.
package main

import (
	"context"
	"os"

	"github.com/rajindersingh041/log-alerts/internal/config"
	"github.com/rajindersingh041/log-alerts/internal/logger"
	"github.com/rajindersingh041/log-alerts/internal/logstore"
	"github.com/rajindersingh041/log-alerts/internal/report"
)

func main() {
	os.Exit(report.ExitCode(run(context.Background())))
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		return report.ConfigurationError(err)
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log, _ := logger.WithRunID(logger.Get())
	log.Debug("Checking log store",
		"store", cfg.Store,
		"table", cfg.Table,
		"window_minutes", cfg.WindowMinutes,
		"timeout", cfg.QueryTimeout.String(),
	)

	gw := report.NewGateway(cfg, logstore.Open, os.Stdout, log)
	if err := gw.Run(ctx); err != nil {
		log.Error("Log check failed", "error", err)
		return err
	}
	return nil
}
