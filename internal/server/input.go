// Copyright 2025 Joseph Cumines
//
// Keyboard input tool handler

package server

import (
	"encoding/json"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// handleSendKeys handles the send_keys tool
//
// This is one of two tools that steal foreground focus: synthesized
// keystrokes land on whatever window is active, so the target is activated
// exactly once before injection.
func (s *MCPServer) handleSendKeys(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Keys string `json:"keys"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	if params.Keys == "" {
		return errorResult("keys parameter is required"), nil
	}

	target, err := sess.Target()
	if err != nil {
		return toolErrorResult(err), nil
	}

	if err := target.Activate(); err != nil {
		return toolErrorResult(automation.Errorf(automation.CodeInputSimulationFailed,
			"cannot bring window %q to the foreground: %v", target.Title(), err)), nil
	}

	if err := target.SendKeys(params.Keys); err != nil {
		if _, ok := automation.CodeOf(err); ok {
			return toolErrorResult(err), nil
		}
		return toolErrorResult(automation.Errorf(automation.CodeInputSimulationFailed,
			"keystroke injection failed: %v", err)), nil
	}

	return textResultf("Sent keys: %s", params.Keys), nil
}
