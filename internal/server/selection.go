// Copyright 2025 Joseph Cumines
//
// Item, grid row, and menu selection tool handlers

package server

import (
	"encoding/json"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// handleSelectItem handles the select_item tool
func (s *MCPServer) handleSelectItem(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Selector json.RawMessage `json:"selector"`
		ItemName string          `json:"item_name"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	if params.ItemName == "" {
		return errorResult("item_name parameter is required"), nil
	}

	container, errResult := s.resolveElement(sess, params.Selector)
	if errResult != nil {
		return errResult, nil
	}

	if err := automation.SelectItem(container, params.ItemName); err != nil {
		return toolErrorResult(err), nil
	}

	return textResultf("Selected item: %s", params.ItemName), nil
}

// handleSelectGridRow handles the select_grid_row tool
func (s *MCPServer) handleSelectGridRow(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Selector json.RawMessage `json:"selector"`
		RowIndex *int            `json:"row_index"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	if params.RowIndex == nil {
		return errorResult("row_index parameter is required"), nil
	}

	grid, errResult := s.resolveElement(sess, params.Selector)
	if errResult != nil {
		return errResult, nil
	}

	if err := automation.SelectGridRow(grid, *params.RowIndex); err != nil {
		return toolErrorResult(err), nil
	}

	return textResultf("Selected row: %d", *params.RowIndex), nil
}

// handleSelectMenu handles the select_menu tool
func (s *MCPServer) handleSelectMenu(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		MenuPath string `json:"menu_path"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	if params.MenuPath == "" {
		return errorResult("menu_path parameter is required"), nil
	}

	// Menus hang off the window itself, not a user-supplied element.
	root, err := sess.Root()
	if err != nil {
		return toolErrorResult(err), nil
	}

	if err := automation.SelectMenu(root, params.MenuPath); err != nil {
		return toolErrorResult(err), nil
	}

	return textResultf("Selected menu: %s", params.MenuPath), nil
}
