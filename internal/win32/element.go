// Copyright 2025 Joseph Cumines

//go:build windows

package win32

import (
	"errors"
	"fmt"
	"strconv"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

var errUnsupported = errors.New("capability not supported by this element")

// hwndElement is an automation.Element backed by a live HWND. It holds the
// handle only; every attribute read goes back to the window, so a stale
// handle surfaces as empty attributes and failed children rather than
// corrupt state.
type hwndElement struct {
	hwnd windows.HWND
}

var _ automation.Element = (*hwndElement)(nil)

func newElement(hwnd windows.HWND) *hwndElement { return &hwndElement{hwnd: hwnd} }

func (e *hwndElement) Name() string        { return windowText(e.hwnd) }
func (e *hwndElement) ControlType() string { return ControlTypeForClass(className(e.hwnd)) }

// AutomationID is the dialog control ID when the control has one; WinForms
// assigns these from the designer, plain Win32 dialogs from the resource
// script.
func (e *hwndElement) AutomationID() string {
	id := dlgCtrlID(e.hwnd)
	if id == 0 {
		return ""
	}
	return strconv.Itoa(int(id))
}

func (e *hwndElement) Enabled() bool { return isWindowEnabled(e.hwnd) }

func (e *hwndElement) Rect() automation.Rect {
	rc := windowRect(e.hwnd)
	return automation.Rect{Left: rc.Left, Top: rc.Top, Right: rc.Right, Bottom: rc.Bottom}
}

func (e *hwndElement) Children() ([]automation.Element, error) {
	if !isWindow(e.hwnd) {
		return nil, fmt.Errorf("window %#x no longer exists", e.hwnd)
	}

	var out []automation.Element

	// The window menu bar, if present, appears as a synthetic subtree.
	if menu, _, _ := procGetMenu.Call(uintptr(e.hwnd)); menu != 0 {
		out = append(out, &menuBarElement{owner: e.hwnd, menu: menu})
	}

	for _, h := range directChildren(e.hwnd) {
		child := newElement(h)
		out = append(out, child)
		// Combo and list boxes surface their items as synthetic children of
		// the control element itself, so only the control goes here.
	}

	switch ControlTypeForClass(className(e.hwnd)) {
	case "ComboBox":
		items, err := comboItems(e.hwnd)
		if err == nil {
			out = append(out, items...)
		}
	case "List":
		if items, err := listBoxItems(e.hwnd); err == nil {
			out = append(out, items...)
		}
	}

	return out, nil
}

func (e *hwndElement) Invoke() error {
	switch e.ControlType() {
	case "Button":
		_, err := sendMessage(e.hwnd, bmClick, 0, 0)
		return err
	}
	return errUnsupported
}

func (e *hwndElement) Toggle() error {
	if e.ControlType() != "Button" {
		return errUnsupported
	}
	// Check boxes and radio buttons are Button-classed; BM_CLICK toggles.
	_, err := sendMessage(e.hwnd, bmClick, 0, 0)
	return err
}

func (e *hwndElement) Expand() error {
	if e.ControlType() != "ComboBox" {
		return errUnsupported
	}
	_, err := sendMessage(e.hwnd, cbShowDropdown, 1, 0)
	return err
}

func (e *hwndElement) Collapse() error {
	if e.ControlType() != "ComboBox" {
		return errUnsupported
	}
	_, err := sendMessage(e.hwnd, cbShowDropdown, 0, 0)
	return err
}

func (e *hwndElement) SetText(text string) error {
	ct := e.ControlType()
	if ct != "Edit" && ct != "ComboBox" {
		return errUnsupported
	}
	if ct == "Edit" && windowStyle(e.hwnd)&esReadonly != 0 {
		return automation.Errorf(automation.CodeReadOnlyElement,
			"edit control %q is read-only", e.Name())
	}
	u16, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return err
	}
	if _, err := sendMessage(e.hwnd, wmSetText, 0, uintptr(unsafe.Pointer(u16))); err != nil {
		return err
	}
	return nil
}

func (e *hwndElement) Text() (string, error) {
	n, err := sendMessage(e.hwnd, wmGetTextLength, 0, 0)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", errUnsupported
	}
	buf := make([]uint16, n+1)
	if _, err := sendMessage(e.hwnd, wmGetText, uintptr(len(buf)), uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf), nil
}

func (e *hwndElement) Select() error { return errUnsupported }

// comboItems reads the entries of a combo box as synthetic ListItem
// elements.
func comboItems(hwnd windows.HWND) ([]automation.Element, error) {
	count, err := sendMessage(hwnd, cbGetCount, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]automation.Element, 0, count)
	for i := uintptr(0); i < count; i++ {
		n, err := sendMessage(hwnd, cbGetLBTextLen, i, 0)
		if err != nil {
			continue
		}
		buf := make([]uint16, n+1)
		if _, err := sendMessage(hwnd, cbGetLBText, i, uintptr(unsafe.Pointer(&buf[0]))); err != nil {
			continue
		}
		out = append(out, &itemElement{
			owner: hwnd, index: int(i),
			name:      windows.UTF16ToString(buf),
			selectMsg: cbSetCurSel,
		})
	}
	return out, nil
}

// listBoxItems reads the rows of a list box as synthetic ListItem elements.
func listBoxItems(hwnd windows.HWND) ([]automation.Element, error) {
	count, err := sendMessage(hwnd, lbGetCount, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]automation.Element, 0, count)
	for i := uintptr(0); i < count; i++ {
		n, err := sendMessage(hwnd, lbGetTextLen, i, 0)
		if err != nil {
			continue
		}
		buf := make([]uint16, n+1)
		if _, err := sendMessage(hwnd, lbGetText, i, uintptr(unsafe.Pointer(&buf[0]))); err != nil {
			continue
		}
		out = append(out, &itemElement{
			owner: hwnd, index: int(i),
			name:      windows.UTF16ToString(buf),
			selectMsg: lbSetCurSel,
		})
	}
	return out, nil
}

// itemElement is a synthetic element for one entry of a combo or list box.
// Selection goes through the owning control's item messages.
type itemElement struct {
	owner     windows.HWND
	index     int
	name      string
	selectMsg uint32
}

var _ automation.Element = (*itemElement)(nil)

func (e *itemElement) Name() string                            { return e.name }
func (e *itemElement) ControlType() string                     { return "ListItem" }
func (e *itemElement) AutomationID() string                    { return "" }
func (e *itemElement) Enabled() bool                           { return true }
func (e *itemElement) Rect() automation.Rect                   { return automation.Rect{} }
func (e *itemElement) Children() ([]automation.Element, error) { return nil, nil }
func (e *itemElement) Invoke() error                           { return e.Select() }
func (e *itemElement) Toggle() error                           { return errUnsupported }
func (e *itemElement) Expand() error                           { return errUnsupported }
func (e *itemElement) Collapse() error                         { return errUnsupported }
func (e *itemElement) SetText(string) error                    { return errUnsupported }
func (e *itemElement) Text() (string, error)                   { return e.name, nil }

func (e *itemElement) Select() error {
	_, err := sendMessage(e.owner, e.selectMsg, uintptr(e.index), 0)
	return err
}
