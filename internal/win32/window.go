// Copyright 2025 Joseph Cumines

//go:build windows

package win32

import (
	"fmt"
	"image"

	"golang.org/x/sys/windows"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
)

// hwndWindow is an automation.Window over a top-level HWND.
type hwndWindow struct {
	hwnd windows.HWND
}

var _ automation.Window = (*hwndWindow)(nil)

func (w *hwndWindow) Handle() uintptr   { return uintptr(w.hwnd) }
func (w *hwndWindow) Title() string     { return windowText(w.hwnd) }
func (w *hwndWindow) ProcessID() uint32 { return windowPID(w.hwnd) }
func (w *hwndWindow) Visible() bool     { return isWindowVisible(w.hwnd) }
func (w *hwndWindow) Exists() bool      { return isWindow(w.hwnd) }

func (w *hwndWindow) Root() (automation.Element, error) {
	if !isWindow(w.hwnd) {
		return nil, fmt.Errorf("window %#x no longer exists", w.hwnd)
	}
	return newElement(w.hwnd), nil
}

func (w *hwndWindow) Activate() error {
	return setForeground(w.hwnd)
}

// Close asks the window to close via WM_CLOSE; the application may refuse
// (unsaved changes prompt) without this returning an error, so callers poll
// Exists afterwards.
func (w *hwndWindow) Close() error {
	r, _, err := procPostMessageW.Call(uintptr(w.hwnd), wmClose, 0, 0)
	if r == 0 {
		return fmt.Errorf("cannot post close to window %#x: %v", w.hwnd, err)
	}
	return nil
}

func (w *hwndWindow) SendKeys(notation string) error {
	return SendKeys(notation)
}

func (w *hwndWindow) Capture() (image.Image, error) {
	return captureWindow(w.hwnd)
}

// Desktop enumerates visible top-level windows.
type Desktop struct{}

var _ automation.Desktop = (*Desktop)(nil)

// NewDesktop returns the Win32-backed desktop provider.
func NewDesktop() *Desktop { return &Desktop{} }

// Windows lists the current top-level windows in z-order. Untitled windows
// are skipped: they are message-only or chrome windows the tools can never
// address by title.
func (d *Desktop) Windows() ([]automation.Window, error) {
	var out []automation.Window
	for _, h := range enumTopLevelWindows() {
		if windowText(h) == "" {
			continue
		}
		out = append(out, &hwndWindow{hwnd: h})
	}
	return out, nil
}
