// Copyright 2025 Joseph Cumines

//go:build windows

package win32

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procEnumChildWindows         = user32.NewProc("EnumChildWindows")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowEnabled          = user32.NewProc("IsWindowEnabled")
	procGetParent                = user32.NewProc("GetParent")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetDlgCtrlID             = user32.NewProc("GetDlgCtrlID")
	procGetWindowLongW           = user32.NewProc("GetWindowLongW")
	procSendMessageW             = user32.NewProc("SendMessageW")
	procSendMessageTimeoutW      = user32.NewProc("SendMessageTimeoutW")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procShowWindow               = user32.NewProc("ShowWindow")
	procIsIconic                 = user32.NewProc("IsIconic")
	procSendInput                = user32.NewProc("SendInput")
	procVkKeyScanW               = user32.NewProc("VkKeyScanW")
	procGetMenu                  = user32.NewProc("GetMenu")
	procGetSubMenu               = user32.NewProc("GetSubMenu")
	procGetMenuItemCount         = user32.NewProc("GetMenuItemCount")
	procGetMenuStringW           = user32.NewProc("GetMenuStringW")
	procGetMenuItemID            = user32.NewProc("GetMenuItemID")
	procGetMenuState             = user32.NewProc("GetMenuState")
	procPrintWindow              = user32.NewProc("PrintWindow")
	procGetDC                    = user32.NewProc("GetDC")
	procReleaseDC                = user32.NewProc("ReleaseDC")

	procCreateCompatibleDC     = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject           = gdi32.NewProc("SelectObject")
	procDeleteObject           = gdi32.NewProc("DeleteObject")
	procDeleteDC               = gdi32.NewProc("DeleteDC")
	procGetDIBits              = gdi32.NewProc("GetDIBits")

	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const (
	wmClose   = 0x0010
	wmSetText = 0x000C
	wmGetText = 0x000D
	wmGetTextLength = 0x000E
	wmCommand = 0x0111

	bmClick    = 0x00F5
	bmGetCheck = 0x00F0

	cbGetCount     = 0x0146
	cbGetLBText    = 0x0148
	cbGetLBTextLen = 0x0149
	cbSetCurSel    = 0x014E
	cbShowDropdown = 0x014F

	lbGetCount   = 0x018B
	lbGetText    = 0x0189
	lbGetTextLen = 0x018A
	lbSetCurSel  = 0x0186

	gwlStyle  = -16
	esReadonly = 0x0800

	swRestore = 9

	smtoAbortIfHung = 0x0002

	mfByPosition = 0x0400
	mfGrayed     = 0x0001
	mfDisabled   = 0x0002

	dwmwaExtendedFrameBounds = 9

	sendMessageTimeoutMS = 2000
)

type point struct {
	X, Y int32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

// sendMessage calls SendMessageTimeoutW so a hung target window cannot wedge
// the server. Returns the message result.
func sendMessage(hwnd windows.HWND, msg uint32, wparam, lparam uintptr) (uintptr, error) {
	var result uintptr
	r, _, _ := procSendMessageTimeoutW.Call(
		uintptr(hwnd), uintptr(msg), wparam, lparam,
		smtoAbortIfHung, sendMessageTimeoutMS,
		uintptr(unsafe.Pointer(&result)),
	)
	if r == 0 {
		return 0, fmt.Errorf("message 0x%04X to window %#x timed out", msg, hwnd)
	}
	return result, nil
}

func windowText(hwnd windows.HWND) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(
		uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func className(hwnd windows.HWND) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(
		uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func windowPID(hwnd windows.HWND) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	return pid
}

func isWindowVisible(hwnd windows.HWND) bool {
	r, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
	return r != 0
}

func isWindow(hwnd windows.HWND) bool {
	r, _, _ := procIsWindow.Call(uintptr(hwnd))
	return r != 0
}

func isWindowEnabled(hwnd windows.HWND) bool {
	r, _, _ := procIsWindowEnabled.Call(uintptr(hwnd))
	return r != 0
}

func windowRect(hwnd windows.HWND) rect {
	var rc rect
	procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&rc)))
	return rc
}

func dlgCtrlID(hwnd windows.HWND) int32 {
	r, _, _ := procGetDlgCtrlID.Call(uintptr(hwnd))
	return int32(r)
}

func windowStyle(hwnd windows.HWND) uint32 {
	idx := int32(gwlStyle) // -16, sign-extended the way GetWindowLongW expects
	r, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(uint32(idx)))
	return uint32(r)
}

// enumWindowsCallback is the shared EnumWindows/EnumChildWindows trampoline.
var enumWindowsCallback = syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
	sink := (*windowSink)(unsafe.Pointer(lparam))
	sink.handles = append(sink.handles, windows.HWND(hwnd))
	return 1 // continue enumeration
})

type windowSink struct {
	handles []windows.HWND
}

func enumTopLevelWindows() []windows.HWND {
	var sink windowSink
	procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(&sink)))
	return sink.handles
}

func enumChildWindows(parent windows.HWND) []windows.HWND {
	var sink windowSink
	procEnumChildWindows.Call(uintptr(parent), enumWindowsCallback, uintptr(unsafe.Pointer(&sink)))
	return sink.handles
}

// directChildren filters EnumChildWindows (which is recursive) down to the
// immediate children of parent.
func directChildren(parent windows.HWND) []windows.HWND {
	var out []windows.HWND
	for _, h := range enumChildWindows(parent) {
		p, _, _ := procGetParent.Call(uintptr(h))
		if windows.HWND(p) == parent {
			out = append(out, h)
		}
	}
	return out
}

func setForeground(hwnd windows.HWND) error {
	if r, _, _ := procIsIconic.Call(uintptr(hwnd)); r != 0 {
		procShowWindow.Call(uintptr(hwnd), swRestore)
	}
	r, _, _ := procSetForegroundWindow.Call(uintptr(hwnd))
	if r == 0 {
		return fmt.Errorf("SetForegroundWindow refused for window %#x", hwnd)
	}
	return nil
}
