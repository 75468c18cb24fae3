// Copyright 2025 Joseph Cumines
//
// Accessibility tree tool handler

package server

import (
	"encoding/json"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// handleGetUITree handles the get_ui_tree tool
func (s *MCPServer) handleGetUITree(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		MaxDepth *int   `json:"max_depth"`
		Format   string `json:"format"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	maxDepth := s.cfg.TreeDepth
	if params.MaxDepth != nil {
		maxDepth = *params.MaxDepth
	}

	root, err := sess.Root()
	if err != nil {
		return toolErrorResult(err), nil
	}

	tree := automation.Walk(root, maxDepth)

	switch params.Format {
	case "", "outline":
		return textResult(tree.Outline()), nil
	case "json":
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return errorResultf("Failed to encode tree: %v", err), nil
		}
		return textResult(string(data)), nil
	default:
		return errorResultf("unknown format %q (expected outline or json)", params.Format), nil
	}
}
