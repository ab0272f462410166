package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// The Postgres table is the one Prisma manages for integration logs:
//
//	"IntegrationLog" ("id", "tenantId", "source", "level", "message", "payload" jsonb, "createdAt")
//
// The ClickHouse table is the events MergeTree written by the ingest services:
//
//	events (Timestamp DateTime, Level String, Source String, Message String, Context Map(String, String))

// PostgresRecentAlerts returns the select for the Prisma log table.
// Arguments in order: since, severities, sources (when filterSources),
// tenant id (when filterTenant), limit.
func PostgresRecentAlerts(table string, filterSources, filterTenant bool) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT "createdAt", "level", "source", COALESCE("message", ''), "payload"::text FROM %s`, ident)
	b.WriteString(` WHERE "createdAt" >= $1 AND lower("level") = ANY($2)`)
	arg := 3
	if filterSources {
		fmt.Fprintf(&b, ` AND "source" = ANY($%d)`, arg)
		arg++
	}
	if filterTenant {
		fmt.Fprintf(&b, ` AND "tenantId" = $%d`, arg)
		arg++
	}
	fmt.Fprintf(&b, ` ORDER BY "createdAt" DESC LIMIT $%d`, arg)
	return b.String()
}

// ClickHouseRecentAlerts returns the select for the events table using
// positional ? arguments: since, each severity, each source, then limit.
func ClickHouseRecentAlerts(table string, severities, sources int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT Timestamp, Level, Source, Message, toJSONString(Context) FROM %s", table)
	fmt.Fprintf(&b, " WHERE Timestamp >= ? AND lower(Level) IN (%s)", placeholders(severities))
	if sources > 0 {
		fmt.Fprintf(&b, " AND Source IN (%s)", placeholders(sources))
	}
	b.WriteString(" ORDER BY Timestamp DESC LIMIT ?")
	return b.String()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
