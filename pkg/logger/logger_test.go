package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestCriticalLevelName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel, "json")

	log.Critical("app: init failed", "component", "db")

	entry := decodeLine(t, &buf)
	if entry["level"] != "CRITICAL" {
		t.Fatalf("expected CRITICAL level, got %v", entry["level"])
	}
	if entry["component"] != "db" {
		t.Fatalf("expected component field, got %v", entry["component"])
	}
}

func TestBusinessErrorSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.DebugLevel, "json")

	log.BusinessError("moims.join: not found", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for nil error, got %q", buf.String())
	}

	log.BusinessError("moims.join: not found", errors.New("moim not found"), "code", "ab12cd34")
	entry := decodeLine(t, &buf)
	if entry["level"] != "WARN" {
		t.Fatalf("expected WARN level, got %v", entry["level"])
	}
	if entry["error"] != "moim not found" {
		t.Fatalf("expected error field, got %v", entry["error"])
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel, "json").With("user_id", "user-1")

	log.Info("moims.create: created")

	entry := decodeLine(t, &buf)
	if entry["user_id"] != "user-1" {
		t.Fatalf("expected user_id field, got %v", entry["user_id"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		env   string
		want  zerolog.Level
	}{
		{value: "", env: "development", want: zerolog.DebugLevel},
		{value: "", env: "production", want: zerolog.InfoLevel},
		{value: "WARNING", env: "production", want: zerolog.WarnLevel},
		{value: "fatal", env: "production", want: LevelCritical},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.value, tt.env); got != tt.want {
			t.Fatalf("parseLevel(%q, %q) = %v, want %v", tt.value, tt.env, got, tt.want)
		}
	}
}
