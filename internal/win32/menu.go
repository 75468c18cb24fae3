// Copyright 2025 Joseph Cumines

//go:build windows

package win32

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// menuBarElement is a synthetic MenuBar wrapping the window's HMENU. Its
// children are the top-level menus (File, Edit, ...).
type menuBarElement struct {
	owner windows.HWND
	menu  uintptr
}

var _ automation.Element = (*menuBarElement)(nil)

func (e *menuBarElement) Name() string                  { return "Application" }
func (e *menuBarElement) ControlType() string           { return "MenuBar" }
func (e *menuBarElement) AutomationID() string          { return "" }
func (e *menuBarElement) Enabled() bool                 { return true }
func (e *menuBarElement) Rect() automation.Rect         { return automation.Rect{} }
func (e *menuBarElement) Invoke() error                 { return errUnsupported }
func (e *menuBarElement) Toggle() error                 { return errUnsupported }
func (e *menuBarElement) Expand() error                 { return errUnsupported }
func (e *menuBarElement) Collapse() error               { return errUnsupported }
func (e *menuBarElement) SetText(string) error          { return errUnsupported }
func (e *menuBarElement) Text() (string, error)         { return "", errUnsupported }
func (e *menuBarElement) Select() error                 { return errUnsupported }

func (e *menuBarElement) Children() ([]automation.Element, error) {
	return menuItems(e.owner, e.menu), nil
}

// menuItemElement is one entry of a menu. Leaf items carry a command ID and
// invoke via WM_COMMAND; submenu items expose their entries as children.
type menuItemElement struct {
	owner   windows.HWND
	menu    uintptr // owning HMENU
	pos     int
	name    string
	cmdID   uint32
	submenu uintptr // 0 for leaf items
	enabled bool
}

var _ automation.Element = (*menuItemElement)(nil)

// menuItems enumerates the entries of an HMENU as synthetic MenuItem
// elements.
func menuItems(owner windows.HWND, menu uintptr) []automation.Element {
	count, _, _ := procGetMenuItemCount.Call(menu)
	n := int(int32(count))
	if n <= 0 {
		return nil
	}

	out := make([]automation.Element, 0, n)
	for pos := 0; pos < n; pos++ {
		var buf [256]uint16
		procGetMenuStringW.Call(menu, uintptr(pos),
			uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)), mfByPosition)
		// Strip the accelerator suffix ("Save\tCtrl+S") and access-key
		// ampersands so names match what users see.
		name := windows.UTF16ToString(buf[:])
		if i := strings.IndexByte(name, '\t'); i >= 0 {
			name = name[:i]
		}
		name = strings.ReplaceAll(name, "&", "")
		if name == "" {
			continue // separator
		}

		submenu, _, _ := procGetSubMenu.Call(menu, uintptr(pos))
		id, _, _ := procGetMenuItemID.Call(menu, uintptr(pos))
		state, _, _ := procGetMenuState.Call(menu, uintptr(pos), mfByPosition)

		out = append(out, &menuItemElement{
			owner:   owner,
			menu:    menu,
			pos:     pos,
			name:    name,
			cmdID:   uint32(id),
			submenu: submenu,
			enabled: state&(mfGrayed|mfDisabled) == 0,
		})
	}
	return out
}

func (e *menuItemElement) Name() string          { return e.name }
func (e *menuItemElement) ControlType() string   { return "MenuItem" }
func (e *menuItemElement) AutomationID() string  { return "" }
func (e *menuItemElement) Enabled() bool         { return e.enabled }
func (e *menuItemElement) Rect() automation.Rect { return automation.Rect{} }
func (e *menuItemElement) SetText(string) error  { return errUnsupported }
func (e *menuItemElement) Text() (string, error) { return "", errUnsupported }
func (e *menuItemElement) Toggle() error         { return errUnsupported }
func (e *menuItemElement) Select() error         { return e.Invoke() }

func (e *menuItemElement) Children() ([]automation.Element, error) {
	if e.submenu == 0 {
		return nil, nil
	}
	return menuItems(e.owner, e.submenu), nil
}

// Expand is a no-op for submenu items: children come straight from the menu
// handle without opening the menu on screen.
func (e *menuItemElement) Expand() error {
	if e.submenu == 0 {
		return errUnsupported
	}
	return nil
}

func (e *menuItemElement) Collapse() error {
	if e.submenu == 0 {
		return errUnsupported
	}
	return nil
}

// Invoke posts the item's command to the owning window, the same message the
// window receives when the user clicks the item.
func (e *menuItemElement) Invoke() error {
	if e.submenu != 0 || e.cmdID == 0 || e.cmdID == 0xFFFFFFFF {
		return errUnsupported
	}
	_, err := sendMessage(e.owner, wmCommand, uintptr(e.cmdID), 0)
	return err
}
