// Copyright 2025 Joseph Cumines
//
// Screenshot tool handler

package server

import (
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// handleSaveScreenshot handles the save_screenshot tool
//
// Like send_keys, this activates the target window exactly once: an occluded
// or minimized window captures as a blank or stale surface.
func (s *MCPServer) handleSaveScreenshot(call *ToolCall) (*ToolResult, error) {
	sess, errResult := s.requireSession()
	if errResult != nil {
		return errResult, nil
	}

	var params struct {
		Filename string `json:"filename"`
	}

	if err := json.Unmarshal(call.Arguments, &params); err != nil {
		return errorResultf("Invalid parameters: %v", err), nil
	}

	if params.Filename == "" {
		return errorResult("filename parameter is required"), nil
	}

	// The output is always PNG regardless of the requested extension.
	path := params.Filename
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}

	target, err := sess.Target()
	if err != nil {
		return toolErrorResult(err), nil
	}

	if err := target.Activate(); err != nil {
		return toolErrorResult(automation.Errorf(automation.CodeCaptureFailed,
			"cannot bring window %q to the foreground: %v", target.Title(), err)), nil
	}

	img, err := target.Capture()
	if err != nil {
		if _, ok := automation.CodeOf(err); ok {
			return toolErrorResult(err), nil
		}
		return toolErrorResult(automation.Errorf(automation.CodeCaptureFailed,
			"cannot capture window %q: %v", target.Title(), err)), nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return toolErrorResult(automation.Errorf(automation.CodeCaptureFailed,
				"cannot create directory %q: %v", dir, err)), nil
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return toolErrorResult(automation.Errorf(automation.CodeCaptureFailed,
			"cannot create %q: %v", path, err)), nil
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return toolErrorResult(automation.Errorf(automation.CodeCaptureFailed,
			"cannot encode %q: %v", path, err)), nil
	}

	return textResultf("Saved screenshot: %s", path), nil
}
