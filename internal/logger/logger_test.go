package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "text", Output: &buf})

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at WARN level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestWithRunIDJSON(t *testing.T) {
	var buf bytes.Buffer
	l, id := WithRunID(New(Config{Level: "INFO", Format: "json", Output: &buf}))
	if id == "" {
		t.Fatal("empty run id")
	}

	l.Info("checking logs", "window_minutes", 30)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("record is not json: %v (%q)", err, buf.String())
	}
	if rec["run_id"] != id {
		t.Errorf("run_id = %v, want %s", rec["run_id"], id)
	}
	if rec["msg"] != "checking logs" {
		t.Errorf("msg = %v", rec["msg"])
	}
}
