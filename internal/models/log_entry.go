package models

import (
	"strings"
	"time"
)

// Severity is the importance level a producer attached to a log entry.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// AlertSeverities are the levels worth reporting to an operator.
var AlertSeverities = []Severity{SeverityWarn, SeverityError}

// ParseSeverity normalises whatever casing the producer used ("WARN", "Error").
func ParseSeverity(s string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(s)))
}

// LogEntry is one row of the append-only log table. It is never written back.
type LogEntry struct {
	Timestamp time.Time
	Severity  Severity
	Source    string
	Message   string
	Payload   Payload
}
