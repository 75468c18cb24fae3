// Copyright 2025 Joseph Cumines
//
// Element interaction tool handlers

package server

import (
	"bytes"
	"encoding/json"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// resolveElement parses the raw selector argument and resolves it to the
// first matching element under the current target window. The selector
// arrives either as a JSON object or as a string containing one; the string
// form is unwrapped first. The root is re-acquired on every call so
// resolution always sees the live tree.
func (s *MCPServer) resolveElement(sess *automation.Session, rawSelector json.RawMessage) (automation.Element, *ToolResult) {
	raw := bytes.TrimSpace(rawSelector)
	if len(raw) > 0 && raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, toolErrorResult(automation.Errorf(automation.CodeInvalidSelector,
				"selector is not valid JSON: %v", err))
		}
		raw = []byte(encoded)
	}

	sel, err := automation.ParseSelector(string(raw))
	if err != nil {
		return nil, toolErrorResult(err)
	}

	root, err := sess.Root()
	if err != nil {
		return nil, toolErrorResult(err)
	}

	el, err := automation.ResolveFirst(sel, root, root)
	if err != nil {
		return nil, toolErrorResult(err)
	}
	return el, nil
}

// handleClickElement handles the click_element tool
func (s *MCPServer) handleClickElement(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Selector json.RawMessage `json:"selector"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	el, errResult := s.resolveElement(sess, params.Selector)
	if errResult != nil {
		return errResult, nil
	}

	if err := automation.Click(el); err != nil {
		return toolErrorResult(err), nil
	}

	return textResultf("Clicked: %s", el.Name()), nil
}

// handleSetText handles the set_text tool
func (s *MCPServer) handleSetText(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Selector json.RawMessage `json:"selector"`
		Text     string          `json:"text"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	el, errResult := s.resolveElement(sess, params.Selector)
	if errResult != nil {
		return errResult, nil
	}

	if err := automation.SetText(el, params.Text); err != nil {
		return toolErrorResult(err), nil
	}

	return textResultf("Set text: %s", truncateText(params.Text)), nil
}

// handleGetText handles the get_text tool
func (s *MCPServer) handleGetText(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Selector json.RawMessage `json:"selector"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	el, errResult := s.resolveElement(sess, params.Selector)
	if errResult != nil {
		return errResult, nil
	}

	text, err := automation.GetText(el)
	if err != nil {
		return toolErrorResult(err), nil
	}

	return textResult(text), nil
}
