// Copyright 2025 Joseph Cumines

// Package automationtest provides an in-memory accessibility tree used to
// exercise selector resolution, session management, and tool dispatch
// without a live desktop.
package automationtest

import (
	"errors"
	"image"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// FakeElement is a scriptable automation.Element. Zero values behave like an
// inert element: every capability fails and Children succeeds with none.
type FakeElement struct {
	ElemName    string
	ElemType    string
	ElemAutoID  string
	ElemEnabled bool
	ElemRect    automation.Rect
	Kids        []*FakeElement

	// Capability switches; false means the capability is unsupported.
	CanInvoke   bool
	CanToggle   bool
	CanExpand   bool
	CanCollapse bool
	CanSetText  bool
	CanSelect   bool
	TextValue   string
	HasText     bool

	// FailChildren makes Children return an error, simulating a subtree
	// that became inaccessible mid-walk.
	FailChildren bool

	// OnExpand, when set, runs before Expand returns; used to script
	// dropdowns that populate their items lazily.
	OnExpand func()

	Invoked   int
	Toggled   int
	Expanded  int
	Collapsed int
	Selected  int
	SetTexts  []string
}

var _ automation.Element = (*FakeElement)(nil)

func (e *FakeElement) Name() string          { return e.ElemName }
func (e *FakeElement) ControlType() string   { return e.ElemType }
func (e *FakeElement) AutomationID() string  { return e.ElemAutoID }
func (e *FakeElement) Enabled() bool         { return e.ElemEnabled }
func (e *FakeElement) Rect() automation.Rect { return e.ElemRect }

func (e *FakeElement) Children() ([]automation.Element, error) {
	if e.FailChildren {
		return nil, errors.New("element is no longer accessible")
	}
	out := make([]automation.Element, len(e.Kids))
	for i, kid := range e.Kids {
		out[i] = kid
	}
	return out, nil
}

func (e *FakeElement) Invoke() error {
	if !e.CanInvoke {
		return errors.New("invoke not supported")
	}
	e.Invoked++
	return nil
}

func (e *FakeElement) Toggle() error {
	if !e.CanToggle {
		return errors.New("toggle not supported")
	}
	e.Toggled++
	return nil
}

func (e *FakeElement) Expand() error {
	if !e.CanExpand {
		return errors.New("expand not supported")
	}
	e.Expanded++
	if e.OnExpand != nil {
		e.OnExpand()
	}
	return nil
}

func (e *FakeElement) Collapse() error {
	if !e.CanCollapse {
		return errors.New("collapse not supported")
	}
	e.Collapsed++
	return nil
}

func (e *FakeElement) SetText(text string) error {
	if !e.CanSetText {
		return automation.Errorf(automation.CodeReadOnlyElement,
			"%s element is read-only", e.ElemType)
	}
	e.SetTexts = append(e.SetTexts, text)
	return nil
}

func (e *FakeElement) Text() (string, error) {
	if !e.HasText {
		return "", errors.New("no text value")
	}
	return e.TextValue, nil
}

func (e *FakeElement) Select() error {
	if !e.CanSelect {
		return errors.New("select not supported")
	}
	e.Selected++
	return nil
}

// Find returns the first descendant (document order, self excluded) whose
// name equals name, or nil. Convenience for test assertions.
func (e *FakeElement) Find(name string) *FakeElement {
	for _, kid := range e.Kids {
		if kid.ElemName == name {
			return kid
		}
		if found := kid.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FakeWindow is a scriptable automation.Window backed by a FakeElement tree.
type FakeWindow struct {
	HWND      uintptr
	WinTitle  string
	PID       uint32
	IsVisible bool
	Alive     bool
	Tree      *FakeElement

	FailRoot    bool
	FailKeys    bool
	FailCapture bool
	FailClose   bool

	// StickyClose makes Close succeed without the window going away,
	// like an app stuck behind an unanswered save prompt.
	StickyClose bool

	Activations int
	Closed      int
	SentKeys    []string
	Captures    int
}

var _ automation.Window = (*FakeWindow)(nil)

func (w *FakeWindow) Handle() uintptr   { return w.HWND }
func (w *FakeWindow) Title() string     { return w.WinTitle }
func (w *FakeWindow) ProcessID() uint32 { return w.PID }
func (w *FakeWindow) Visible() bool     { return w.IsVisible }
func (w *FakeWindow) Exists() bool      { return w.Alive }

func (w *FakeWindow) Root() (automation.Element, error) {
	if w.FailRoot || w.Tree == nil {
		return nil, errors.New("window has no accessible root")
	}
	return w.Tree, nil
}

func (w *FakeWindow) Activate() error {
	w.Activations++
	return nil
}

func (w *FakeWindow) Close() error {
	w.Closed++
	if w.FailClose {
		return errors.New("close rejected")
	}
	if !w.StickyClose {
		w.Alive = false
		w.IsVisible = false
	}
	return nil
}

func (w *FakeWindow) SendKeys(keys string) error {
	if w.FailKeys {
		return errors.New("input injection blocked")
	}
	w.SentKeys = append(w.SentKeys, keys)
	return nil
}

func (w *FakeWindow) Capture() (image.Image, error) {
	if w.FailCapture {
		return nil, errors.New("capture failed")
	}
	w.Captures++
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

// FakeDesktop is a scriptable automation.Desktop.
type FakeDesktop struct {
	Wins    []*FakeWindow
	FailLog []error // consumed front to back; nil entries mean success
}

var _ automation.Desktop = (*FakeDesktop)(nil)

func (d *FakeDesktop) Windows() ([]automation.Window, error) {
	if len(d.FailLog) > 0 {
		err := d.FailLog[0]
		d.FailLog = d.FailLog[1:]
		if err != nil {
			return nil, err
		}
	}
	out := make([]automation.Window, len(d.Wins))
	for i, w := range d.Wins {
		out[i] = w
	}
	return out, nil
}

// NewWindow builds a visible, live FakeWindow around the given tree.
func NewWindow(hwnd uintptr, title string, pid uint32, tree *FakeElement) *FakeWindow {
	return &FakeWindow{
		HWND:      hwnd,
		WinTitle:  title,
		PID:       pid,
		IsVisible: true,
		Alive:     true,
		Tree:      tree,
	}
}

// Button builds an invokable Button element.
func Button(name, autoID string) *FakeElement {
	return &FakeElement{
		ElemName: name, ElemType: "Button", ElemAutoID: autoID,
		ElemEnabled: true, CanInvoke: true,
	}
}

// Edit builds a writable Edit element holding text.
func Edit(name, autoID, text string) *FakeElement {
	return &FakeElement{
		ElemName: name, ElemType: "Edit", ElemAutoID: autoID,
		ElemEnabled: true, CanSetText: true, HasText: true, TextValue: text,
	}
}

// Pane builds a plain container with the given children.
func Pane(name, autoID string, kids ...*FakeElement) *FakeElement {
	return &FakeElement{
		ElemName: name, ElemType: "Pane", ElemAutoID: autoID,
		ElemEnabled: true, Kids: kids,
	}
}
