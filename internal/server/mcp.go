// Copyright 2025 Joseph Cumines
//
// MCP server implementation

package server

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
	"github.com/joeycumines/WindowsUseSDK/internal/config"
	"github.com/joeycumines/WindowsUseSDK/internal/transport"
)

const (
	serverName    = "windows-use-sdk"
	serverVersion = "0.1.0"
	protocolVer   = "2024-11-05"
)

// MCPServer exposes desktop UI automation tools over MCP.
//
// Tool dispatch is serialized: the desktop is a single mutable resource, and
// interleaving two tool calls would race on focus and window state. The
// transports may deliver requests concurrently; dispatchMu forces them
// through one at a time in arrival order.
//
//lint:ignore BETTERALIGN struct is intentionally ordered for clarity
type MCPServer struct {
	cfg        *config.Config
	sessions   *automation.Manager
	tools      map[string]*Tool
	audit      *AuditLogger
	metrics    *transport.Metrics
	dispatchMu sync.Mutex
	mu         sync.RWMutex
}

// Tool represents an MCP tool
//
//lint:ignore BETTERALIGN struct is intentionally ordered for clarity
type Tool struct {
	Handler     func(*ToolCall) (*ToolResult, error)
	InputSchema map[string]interface{}
	Name        string
	Description string
}

// ToolCall represents a tool call request
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult represents a tool call result
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content represents a content item in a tool result
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// NewMCPServer creates a new MCP server over the given desktop provider.
func NewMCPServer(cfg *config.Config, desktop automation.Desktop) (*MCPServer, error) {
	audit, err := NewAuditLogger(cfg.AuditLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	s := &MCPServer{
		cfg:      cfg,
		sessions: automation.NewManager(desktop),
		audit:    audit,
		metrics:  transport.NewMetrics(),
	}

	s.registerTools()

	return s, nil
}

// Metrics returns the server's metrics instance, shared with the HTTP
// transport so everything lands on one /metrics endpoint.
func (s *MCPServer) Metrics() *transport.Metrics { return s.metrics }

// Shutdown releases server resources.
func (s *MCPServer) Shutdown() {
	if err := s.audit.Close(); err != nil {
		log.Printf("Error closing audit log: %v", err)
	}
	log.Println("Shutting down MCP server...")
}

// selectorProperty is the shared schema fragment for selector arguments. The
// type is left open: a selector arrives either as a JSON object or as the
// string encoding of one.
func selectorProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"description": desc + " (JSON object, or a string containing its JSON encoding)",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Regular expression matched against the element name",
			},
			"control_type": map[string]interface{}{
				"type":        "string",
				"description": "Exact control type (Button, Edit, ComboBox, ...)",
			},
			"auto_id": map[string]interface{}{
				"type":        "string",
				"description": "Exact automation ID",
			},
			"parent": map[string]interface{}{
				"type":        "object",
				"description": "Selector for an ancestor element narrowing the search scope",
			},
		},
	}
}

// registerTools registers all available tools
func (s *MCPServer) registerTools() {
	s.tools = map[string]*Tool{
		"connect_app": {
			Name:        "connect_app",
			Description: "Connect to a running application by window title (regex). Must be called before any other tool.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"app_name_regex": map[string]interface{}{
						"type":        "string",
						"description": "Regular expression matched against top-level window titles",
					},
				},
				"required": []string{"app_name_regex"},
			},
			Handler: s.handleConnectApp,
		},
		"list_windows": {
			Name:        "list_windows",
			Description: "List the visible top-level windows of the connected application",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
			Handler: s.handleListWindows,
		},
		"switch_window": {
			Name:        "switch_window",
			Description: "Switch the operation target to another window of the connected application, by title substring or by index from list_windows",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Substring of the target window title",
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Window index from list_windows (takes precedence over title)",
					},
				},
			},
			Handler: s.handleSwitchWindow,
		},
		"get_ui_tree": {
			Name:        "get_ui_tree",
			Description: "Return the accessibility tree of the current window",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_depth": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum tree depth below the window (0 = unbounded)",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format",
						"enum":        []string{"outline", "json"},
					},
				},
			},
			Handler: s.handleGetUITree,
		},
		"click_element": {
			Name:        "click_element",
			Description: "Click the first element matching the selector, without moving the pointer",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"selector": selectorProperty("Selector for the element to click"),
				},
				"required": []string{"selector"},
			},
			Handler: s.handleClickElement,
		},
		"set_text": {
			Name:        "set_text",
			Description: "Set the text of the first element matching the selector, replacing its current value",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"selector": selectorProperty("Selector for the target text element"),
					"text": map[string]interface{}{
						"type":        "string",
						"description": "The text to set",
					},
				},
				"required": []string{"selector", "text"},
			},
			Handler: s.handleSetText,
		},
		"get_text": {
			Name:        "get_text",
			Description: "Read the text of the first element matching the selector",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"selector": selectorProperty("Selector for the element to read"),
				},
				"required": []string{"selector"},
			},
			Handler: s.handleGetText,
		},
		"send_keys": {
			Name:        "send_keys",
			Description: "Activate the window and send keystrokes ({ENTER}, ^s for Ctrl+S, %{F4} for Alt+F4, ...)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"keys": map[string]interface{}{
						"type":        "string",
						"description": "Keystroke sequence in send-keys notation",
					},
				},
				"required": []string{"keys"},
			},
			Handler: s.handleSendKeys,
		},
		"select_item": {
			Name:        "select_item",
			Description: "Select a named item inside a combo box, list, or tree matched by the selector",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"selector": selectorProperty("Selector for the container element"),
					"item_name": map[string]interface{}{
						"type":        "string",
						"description": "Exact name of the item to select",
					},
				},
				"required": []string{"selector", "item_name"},
			},
			Handler: s.handleSelectItem,
		},
		"select_grid_row": {
			Name:        "select_grid_row",
			Description: "Select a data row by 0-based index in a grid or table matched by the selector",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"selector": selectorProperty("Selector for the grid element"),
					"row_index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based row index (header rows excluded)",
					},
				},
				"required": []string{"selector", "row_index"},
			},
			Handler: s.handleSelectGridRow,
		},
		"select_menu": {
			Name:        "select_menu",
			Description: "Invoke a menu item by path, e.g. \"File -> Save As\"",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"menu_path": map[string]interface{}{
						"type":        "string",
						"description": "Menu path with \"->\" separating the segments",
					},
				},
				"required": []string{"menu_path"},
			},
			Handler: s.handleSelectMenu,
		},
		"save_screenshot": {
			Name:        "save_screenshot",
			Description: "Activate the window, capture it, and save the image as PNG",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filename": map[string]interface{}{
						"type":        "string",
						"description": "Destination file path (a .png extension is enforced)",
					},
				},
				"required": []string{"filename"},
			},
			Handler: s.handleSaveScreenshot,
		},
		"close_window": {
			Name:        "close_window",
			Description: "Close the connected window and end the session",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
			Handler: s.handleCloseWindow,
		},
	}
}

// requireSession returns the active session, or nil with an error result
// when no application is connected. Every tool except connect_app goes
// through this guard.
func (s *MCPServer) requireSession() (*automation.Session, *ToolResult) {
	sess, err := s.sessions.Require()
	if err != nil {
		return nil, toolErrorResult(err)
	}
	return sess, nil
}

// HandleMessage processes one JSON-RPC message and returns the response, or
// nil for notifications. Used as the handler callback for both transports.
func (s *MCPServer) HandleMessage(msg *transport.Message) (*transport.Message, error) {
	switch msg.Method {
	case "initialize":
		return &transport.Message{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Result: []byte(fmt.Sprintf(
				`{"protocolVersion":%q,"capabilities":{"tools":{}},"serverInfo":{"name":%q,"version":%q}}`,
				protocolVer, serverName, serverVersion)),
		}, nil

	case "notifications/initialized":
		return nil, nil

	case "tools/list":
		return s.handleToolsList(msg), nil

	case "tools/call":
		return s.handleToolsCall(msg), nil
	}

	return &transport.Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Error: &transport.ErrorObj{
			Code:    transport.ErrCodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", msg.Method),
		},
	}, nil
}

func (s *MCPServer) handleToolsList(msg *transport.Message) *transport.Message {
	s.mu.RLock()
	tools := make([]map[string]interface{}, 0, len(s.tools))
	for _, tool := range s.tools {
		tools = append(tools, map[string]interface{}{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": tool.InputSchema,
		})
	}
	s.mu.RUnlock()

	result, _ := json.Marshal(map[string]interface{}{"tools": tools})
	return &transport.Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  result,
	}
}

func (s *MCPServer) handleToolsCall(msg *transport.Message) *transport.Message {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return &transport.Message{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Error: &transport.ErrorObj{
				Code:    transport.ErrCodeInvalidRequest,
				Message: fmt.Sprintf("Invalid request: %v", err),
			},
		}
	}

	s.mu.RLock()
	tool, exists := s.tools[params.Name]
	s.mu.RUnlock()

	if !exists {
		result, _ := json.Marshal(errorResultf("Error [UNKNOWN_TOOL]: tool %q is not defined", params.Name))
		return &transport.Message{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Result:  result,
		}
	}

	// Omitted arguments are legal for tools whose inputs are all optional;
	// normalize so every handler sees a JSON object.
	if len(params.Arguments) == 0 || string(params.Arguments) == "null" {
		params.Arguments = json.RawMessage(`{}`)
	}

	// Validate arguments against the tool's input schema before dispatch.
	if len(params.Arguments) > 0 {
		var args map[string]any
		if err := json.Unmarshal(params.Arguments, &args); err == nil {
			if errResp := validateToolInput(params.Name, args, s.tools); errResp != nil {
				errResp.ID = msg.ID
				return errResp
			}
		}
	}

	// Tool calls mutate desktop state; run them one at a time.
	s.dispatchMu.Lock()
	start := time.Now()
	result, err := tool.Handler(&ToolCall{
		Name:      params.Name,
		Arguments: params.Arguments,
	})
	duration := time.Since(start)
	s.dispatchMu.Unlock()

	status := "success"
	if err != nil || (result != nil && result.IsError) {
		status = "error"
	}
	s.metrics.RecordRequest(params.Name, status, duration)
	s.audit.LogToolCall(params.Name, params.Arguments, status, duration)

	if err != nil {
		return &transport.Message{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Error: &transport.ErrorObj{
				Code:    transport.ErrCodeInternalError,
				Message: err.Error(),
			},
		}
	}

	resultMap := map[string]interface{}{
		"content": result.Content,
	}
	if result.IsError {
		resultMap["isError"] = true
	}

	resultBytes, _ := json.Marshal(resultMap)
	return &transport.Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  resultBytes,
	}
}

// Serve runs the server over the stdio transport until stdin closes.
func (s *MCPServer) Serve(tr *transport.StdioTransport) error {
	log.Println("MCP server starting (stdio)...")
	return tr.Serve(s.HandleMessage)
}

// ServeHTTP runs the server over the HTTP/SSE transport until closed.
func (s *MCPServer) ServeHTTP(tr *transport.HTTPTransport) error {
	log.Println("MCP server starting (http)...")
	return tr.Serve(s.HandleMessage)
}
