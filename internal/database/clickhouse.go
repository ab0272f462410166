package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/rajindersingh041/log-alerts/internal/config"
)

// ClickHouseDSN builds the native-protocol DSN used by the events table backend.
func ClickHouseDSN(cfg config.ClickHouse, timeout time.Duration) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	u := url.URL{
		Scheme:   "clickhouse",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.DB,
		RawQuery: url.Values{"dial_timeout": {timeout.String()}}.Encode(),
	}
	return u.String()
}

// ConnectClickHouse opens the database/sql handle and pings it once.
func ConnectClickHouse(ctx context.Context, cfg config.ClickHouse, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("clickhouse", ClickHouseDSN(cfg, timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse db: %w", err)
	}
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	return db, nil
}
