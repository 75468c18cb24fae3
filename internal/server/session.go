// Copyright 2025 Joseph Cumines
//
// Connection and window tool handlers

package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// closePollInterval is how often close_window re-checks the window after
// posting the close request.
const closePollInterval = 100 * time.Millisecond

// handleConnectApp handles the connect_app tool
func (s *MCPServer) handleConnectApp(call *ToolCall) (*ToolResult, error) {
	var params struct {
		AppNameRegex string `json:"app_name_regex"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	if params.AppNameRegex == "" {
		return errorResult("app_name_regex parameter is required"), nil
	}

	sess, err := s.sessions.Connect(params.AppNameRegex)
	if err != nil {
		return toolErrorResult(err), nil
	}

	return textResultf("Connected to: %s", sess.Main().Title()), nil
}

// handleListWindows handles the list_windows tool
func (s *MCPServer) handleListWindows(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	infos, err := sess.ListWindows()
	if err != nil {
		return toolErrorResult(err), nil
	}

	var sb strings.Builder
	for _, info := range infos {
		marker := " "
		if info.IsCurrent {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s [%d] %s", marker, info.Index, info.Title)
		if info.IsMain {
			sb.WriteString(" (main)")
		}
		sb.WriteString("\n")
	}

	return textResult(strings.TrimRight(sb.String(), "\n")), nil
}

// handleSwitchWindow handles the switch_window tool
func (s *MCPServer) handleSwitchWindow(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Index *int   `json:"index"`
		Title string `json:"title"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	if params.Index == nil && params.Title == "" {
		return errorResult("either title or index parameter is required"), nil
	}

	index := 0
	byIndex := params.Index != nil
	if byIndex {
		index = *params.Index
	}

	title, err := sess.SwitchWindow(params.Title, index, byIndex)
	if err != nil {
		return toolErrorResult(err), nil
	}

	return textResultf("Switched to: %s", title), nil
}

// handleCloseWindow handles the close_window tool
func (s *MCPServer) handleCloseWindow(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	main := sess.Main()
	title := main.Title()

	if err := main.Close(); err != nil {
		return toolErrorResult(automation.Errorf(automation.CodeCloseFailed,
			"close request for %q failed: %v", title, err)), nil
	}

	// Closing is asynchronous: the app may prompt to save or refuse
	// outright. Poll until the window is gone or the timeout elapses.
	deadline := time.Now().Add(time.Duration(s.cfg.RequestTimeout) * time.Second)
	for main.Exists() {
		if time.Now().After(deadline) {
			return toolErrorResult(automation.Errorf(automation.CodeCloseFailed,
				"window %q is still open; a confirmation dialog may be blocking the close", title)), nil
		}
		time.Sleep(closePollInterval)
	}

	s.sessions.Disconnect()
	return textResultf("Closed: %s", title), nil
}
