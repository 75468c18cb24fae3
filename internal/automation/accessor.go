// Copyright 2025 Joseph Cumines

// Package automation contains the core of the Windows automation MCP server:
// the declarative element selector and its resolution engine, the
// single-session connection state machine, the tree walker, and the action
// primitives the tool dispatcher binds resolved elements to.
//
// The package never talks to the operating system directly. All OS access
// goes through the Desktop/Window/Element accessor interfaces below,
// implemented by internal/win32 for real use and by automationtest for tests.
// Element handles are live references owned by the target application; they
// are never cached across tool calls - every dispatch re-resolves from the
// session root because the tree can mutate between calls.
package automation

import (
	"fmt"
	"image"
)

// Rect is a bounding rectangle in screen coordinates.
type Rect struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// Width returns the rectangle width.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the rectangle height.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d) %dx%d", r.Left, r.Top, r.Width(), r.Height())
}

// Element is one live node of the accessibility tree. Attribute getters are
// cheap snapshots; Children re-enumerates on every call. Action methods fail
// with CodePatternNotSupported when the node does not expose the relevant
// capability, CodeReadOnlyElement when a value is present but not writable,
// and CodeNoTextValue when no text value exists.
type Element interface {
	Name() string
	ControlType() string
	AutomationID() string
	Enabled() bool
	Rect() Rect

	// Children enumerates direct children in document order. An error means
	// the subtree has become inaccessible (e.g. the owning panel was closed
	// mid-operation).
	Children() ([]Element, error)

	// Invoke triggers the element's default action (InvokePattern); no
	// pointer movement and no focus change.
	Invoke() error

	// Toggle flips a two-state element such as a check box.
	Toggle() error

	// Expand and Collapse open/close an expandable element (combo box
	// dropdown, submenu).
	Expand() error
	Collapse() error

	// SetText assigns the element's text value directly (ValuePattern).
	SetText(text string) error

	// Text reads the element's current text value.
	Text() (string, error)

	// Select selects the element within its selection container
	// (SelectionItemPattern).
	Select() error
}

// Window is one top-level window. Activate and Close are the only operations
// with observable focus side effects; everything else is passive.
type Window interface {
	Handle() uintptr
	Title() string
	ProcessID() uint32
	Visible() bool

	// Exists reports whether the underlying window is still alive.
	Exists() bool

	// Root returns a fresh element handle for the window's subtree root.
	Root() (Element, error)

	// Activate brings the window to the foreground. Used only by the two
	// tools documented to foreground (send_keys, save_screenshot).
	Activate() error

	// Close requests the window close. The request is asynchronous; callers
	// verify with Exists.
	Close() error

	// SendKeys forwards the key-sequence string to the input-simulation
	// facility verbatim. The core does not interpret the notation.
	SendKeys(keys string) error

	// Capture grabs the window's current bitmap, cropped to its visible
	// frame. Encoding and file I/O are the caller's concern.
	Capture() (image.Image, error)
}

// Desktop enumerates the operating system's top-level windows. It is the
// entry point to everything else.
type Desktop interface {
	Windows() ([]Window, error)
}
