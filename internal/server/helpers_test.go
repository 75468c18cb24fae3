// Copyright 2025 Joseph Cumines
//
// Helper function unit tests

package server

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
	"github.com/joeycumines/WindowsUseSDK/internal/transport"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short", "hello", "hello"},
		{"exactly max", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"over max", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"multi-byte runes", strings.Repeat("注", 51), strings.Repeat("注", 50) + "..."},
		{"multi-byte under max", strings.Repeat("注", 30), strings.Repeat("注", 30)},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateText(tt.input)
			if got != tt.want {
				t.Errorf("truncateText(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateText(%q) produced invalid UTF-8", tt.input)
			}
		})
	}
}

func TestToolErrorResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "coded error",
			err:  automation.Errorf(automation.CodeElementNotFound, "no match for selector"),
			want: "Error [ELEMENT_NOT_FOUND]: no match for selector",
		},
		{
			name: "wrapped coded error",
			err:  fmt.Errorf("resolving: %w", automation.Errorf(automation.CodeNotConnected, "no app connected")),
			want: "Error [NOT_CONNECTED]: no app connected",
		},
		{
			name: "plain error",
			err:  errors.New("something broke"),
			want: "Error: something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := toolErrorResult(tt.err)
			if !res.IsError {
				t.Fatal("toolErrorResult() IsError = false")
			}
			if got := resultText(res); got != tt.want {
				t.Errorf("toolErrorResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultHelpers(t *testing.T) {
	res := textResultf("value: %d", 42)
	if res.IsError {
		t.Error("textResultf() IsError = true")
	}
	if resultText(res) != "value: 42" {
		t.Errorf("textResultf() = %q", resultText(res))
	}

	res = errorResultf("bad: %s", "thing")
	if !res.IsError {
		t.Error("errorResultf() IsError = false")
	}
	if resultText(res) != "bad: thing" {
		t.Errorf("errorResultf() = %q", resultText(res))
	}
}

func TestValidateToolInput(t *testing.T) {
	tools := map[string]*Tool{
		"sample": {
			Name: "sample",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"count": map[string]any{"type": "integer"},
					"ratio": map[string]any{"type": "number"},
					"flag":  map[string]any{"type": "boolean"},
					"mode":  map[string]any{"type": "string", "enum": []string{"fast", "slow"}},
				},
				"required": []string{"name"},
			},
		},
		"schemaless": {Name: "schemaless"},
	}

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantErr bool
	}{
		{"valid minimal", "sample", map[string]any{"name": "x"}, false},
		{"valid full", "sample", map[string]any{
			"name": "x", "count": float64(3), "ratio": 1.5, "flag": true, "mode": "fast",
		}, false},
		{"missing required", "sample", map[string]any{"count": float64(1)}, true},
		{"wrong type", "sample", map[string]any{"name": 42}, true},
		{"fractional integer", "sample", map[string]any{"name": "x", "count": 1.5}, true},
		{"whole float is integer", "sample", map[string]any{"name": "x", "count": float64(2)}, false},
		{"bad enum", "sample", map[string]any{"name": "x", "mode": "turbo"}, true},
		{"extra property allowed", "sample", map[string]any{"name": "x", "bonus": "y"}, false},
		{"null value skipped", "sample", map[string]any{"name": "x", "count": nil}, false},
		{"no schema", "schemaless", map[string]any{"anything": true}, false},
		{"unknown tool", "missing", map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errResp := validateToolInput(tt.tool, tt.args, tools)
			if (errResp != nil) != tt.wantErr {
				t.Errorf("validateToolInput() = %v, wantErr %v", errResp, tt.wantErr)
			}
			if errResp != nil && errResp.Error.Code != transport.ErrCodeInvalidParams {
				t.Errorf("error code = %d, want %d", errResp.Error.Code, transport.ErrCodeInvalidParams)
			}
		})
	}
}
