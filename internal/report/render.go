package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rajindersingh041/log-alerts/internal/models"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// EmptyMessage is the single line printed when nothing qualified.
func EmptyMessage(windowMinutes int) string {
	return fmt.Sprintf("No warnings or errors in the last %d minutes.", windowMinutes)
}

// FormatEntry renders one entry and, when it has a payload, its indented
// payload line.
func FormatEntry(e models.LogEntry) ([]string, error) {
	line := fmt.Sprintf("[%s] %s %s: %s",
		e.Timestamp.UTC().Format(TimestampLayout),
		strings.ToUpper(e.Source),
		strings.ToUpper(string(e.Severity)),
		e.Message,
	)
	if !e.Payload.Present() {
		return []string{line}, nil
	}
	text, err := e.Payload.Text()
	if err != nil {
		return nil, fmt.Errorf("entry from %s at %s: %w", e.Source, e.Timestamp.Format(TimestampLayout), err)
	}
	return []string{line, "  Payload: " + text}, nil
}

// Render writes the report for entries in the order given.
func Render(w io.Writer, windowMinutes int, entries []models.LogEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage(windowMinutes))
		return err
	}
	for _, e := range entries {
		lines, err := FormatEntry(e)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return err
			}
		}
	}
	return nil
}
