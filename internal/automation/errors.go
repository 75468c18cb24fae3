// Copyright 2025 Joseph Cumines
//
// Structured error kinds for automation failures

package automation

import (
	"errors"
	"fmt"
)

// Code identifies a category of automation failure. Codes are stable and
// surfaced verbatim to MCP callers, which are expected to branch on them
// (typically by re-inspecting the tree and retrying with a corrected call).
type Code string

const (
	CodeNotConnected          Code = "NOT_CONNECTED"
	CodeWindowNotFound        Code = "WINDOW_NOT_FOUND"
	CodeAmbiguousWindow       Code = "AMBIGUOUS_WINDOW"
	CodeInvalidSelector       Code = "INVALID_SELECTOR"
	CodeElementNotFound       Code = "ELEMENT_NOT_FOUND"
	CodePatternNotSupported   Code = "PATTERN_NOT_SUPPORTED"
	CodeReadOnlyElement       Code = "READ_ONLY_ELEMENT"
	CodeItemNotFound          Code = "ITEM_NOT_FOUND"
	CodeIndexOutOfRange       Code = "INDEX_OUT_OF_RANGE"
	CodeMenuPathNotFound      Code = "MENU_PATH_NOT_FOUND"
	CodeCloseFailed           Code = "CLOSE_FAILED"
	CodeInputSimulationFailed Code = "INPUT_SIMULATION_FAILED"
	CodeCaptureFailed         Code = "CAPTURE_FAILED"
	CodeNoTextValue           Code = "NO_TEXT_VALUE"
	CodeUnknownTool           Code = "UNKNOWN_TOOL"
)

// Error is the failure type for every operation in this package and its
// providers. The Code is stable; the Message is human-readable diagnostics
// (including, where relevant, the unmatched selector or menu segment).
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Errorf creates an Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the failure code from an error chain.
// Returns false if the error does not carry an automation code.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// IsCode reports whether err carries the given failure code.
func IsCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
