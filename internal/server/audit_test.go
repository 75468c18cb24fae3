// Copyright 2025 Joseph Cumines
//
// Audit logging unit tests

package server

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAuditLoggerDisabled(t *testing.T) {
	a, err := NewAuditLogger("")
	if err != nil {
		t.Fatalf("NewAuditLogger(\"\") error = %v", err)
	}
	if a.IsEnabled() {
		t.Error("IsEnabled() = true with no file path")
	}
	// Logging with a disabled logger must be a no-op, not a panic.
	a.LogToolCall("connect_app", nil, "success", time.Millisecond)
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestAuditLoggerWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	a, err := NewAuditLogger(path)
	if err != nil {
		t.Fatalf("NewAuditLogger() error = %v", err)
	}
	if !a.IsEnabled() {
		t.Fatal("IsEnabled() = false with file path")
	}

	args := json.RawMessage(`{"title":"Notepad"}`)
	a.LogToolCall("connect_app", args, "success", 125*time.Millisecond)
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("audit log is empty")
	}

	var entry struct {
		Msg       string  `json:"msg"`
		Tool      string  `json:"tool"`
		Arguments string  `json:"arguments"`
		Status    string  `json:"status"`
		Duration  float64 `json:"duration_seconds"`
	}
	if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
		t.Fatalf("audit entry is not JSON: %v", err)
	}
	if entry.Msg != "tool_invocation" {
		t.Errorf("msg = %q", entry.Msg)
	}
	if entry.Tool != "connect_app" || entry.Status != "success" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Duration != 0.125 {
		t.Errorf("duration_seconds = %v, want 0.125", entry.Duration)
	}
	if !strings.Contains(entry.Arguments, "Notepad") {
		t.Errorf("arguments = %q", entry.Arguments)
	}
}

func TestRedactArguments(t *testing.T) {
	tests := []struct {
		name       string
		args       string
		wantRedact []string
		wantKept   []string
	}{
		{
			name:       "top-level secret",
			args:       `{"title":"App","password":"hunter2"}`,
			wantRedact: []string{"hunter2"},
			wantKept:   []string{"App"},
		},
		{
			name:       "partial key match",
			args:       `{"my_api_key_v2":"abc123"}`,
			wantRedact: []string{"abc123"},
		},
		{
			name:       "nested map",
			args:       `{"outer":{"token":"xyz"}}`,
			wantRedact: []string{"xyz"},
		},
		{
			name:       "array of maps",
			args:       `{"items":[{"secret":"s1"},{"label":"ok"}]}`,
			wantRedact: []string{"s1"},
			wantKept:   []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactArguments(json.RawMessage(tt.args))
			for _, v := range tt.wantRedact {
				if strings.Contains(got, v) {
					t.Errorf("redactArguments() = %q, still contains %q", got, v)
				}
			}
			for _, v := range tt.wantKept {
				if !strings.Contains(got, v) {
					t.Errorf("redactArguments() = %q, lost %q", got, v)
				}
			}
			if len(tt.wantRedact) > 0 && !strings.Contains(got, "[REDACTED]") {
				t.Errorf("redactArguments() = %q, no [REDACTED] marker", got)
			}
		})
	}

	if got := redactArguments(nil); got != "{}" {
		t.Errorf("redactArguments(nil) = %q, want {}", got)
	}
	if got := redactArguments(json.RawMessage("not json")); got != "[unparseable]" {
		t.Errorf("redactArguments(garbage) = %q, want [unparseable]", got)
	}
}
