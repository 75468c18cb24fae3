// Copyright 2025 Joseph Cumines

//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"github.com/joeycumines/WindowsUseSDK/internal/keys"
)

const (
	inputKeyboard = 1

	keyeventfKeyup   = 0x0002
	keyeventfUnicode = 0x0004

	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12 // Alt
)

// namedVirtualKeys maps braced key names from the send_keys notation to
// virtual-key codes.
var namedVirtualKeys = map[string]uint16{
	"BACKSPACE": 0x08, "BS": 0x08,
	"TAB":    0x09,
	"ENTER":  0x0D, "RETURN": 0x0D,
	"ESC":    0x1B, "ESCAPE": 0x1B,
	"SPACE":  0x20,
	"PGUP":   0x21, "PGDN": 0x22,
	"END":    0x23, "HOME": 0x24,
	"LEFT":   0x25, "UP": 0x26, "RIGHT": 0x27, "DOWN": 0x28,
	"INSERT": 0x2D, "INS": 0x2D,
	"DELETE": 0x2E, "DEL": 0x2E,
	"F1": 0x70, "F2": 0x71, "F3": 0x72, "F4": 0x73,
	"F5": 0x74, "F6": 0x75, "F7": 0x76, "F8": 0x77,
	"F9": 0x78, "F10": 0x79, "F11": 0x7A, "F12": 0x7B,
}

// keyboardInput mirrors the Win32 INPUT struct for INPUT_KEYBOARD. The
// padding keeps the union sized for the larger MOUSEINPUT member.
type keyboardInput struct {
	inputType uint32
	_         uint32 // alignment
	wVk       uint16
	wScan     uint16
	dwFlags   uint32
	time      uint32
	dwExtra   uintptr
	_         [8]byte // pad to sizeof(INPUT)
}

// SendKeys parses notation and injects the resulting keystrokes into the
// foreground window. The caller is responsible for having activated the
// target window first.
func SendKeys(notation string) error {
	seq, err := keys.Parse(notation)
	if err != nil {
		return err
	}
	for _, k := range seq {
		for rep := 0; rep < k.Repeat; rep++ {
			if err := injectKey(k); err != nil {
				return err
			}
		}
	}
	return nil
}

func injectKey(k keys.Key) error {
	var events []keyboardInput

	press := func(vk uint16) {
		events = append(events, keyboardInput{inputType: inputKeyboard, wVk: vk})
	}
	release := func(vk uint16) {
		events = append(events, keyboardInput{inputType: inputKeyboard, wVk: vk, dwFlags: keyeventfKeyup})
	}

	if k.Ctrl {
		press(vkControl)
	}
	if k.Alt {
		press(vkMenu)
	}
	if k.Shift {
		press(vkShift)
	}

	switch {
	case k.Name != "":
		vk, ok := namedVirtualKeys[k.Name]
		if !ok {
			return fmt.Errorf("unknown key name %q", k.Name)
		}
		press(vk)
		release(vk)
	case k.Ctrl || k.Alt:
		// Shortcut chords need a virtual-key press, not a unicode event.
		vk, err := virtualKeyForRune(k.Rune)
		if err != nil {
			return err
		}
		press(vk)
		release(vk)
	default:
		// Plain text goes in as unicode so layout does not matter.
		scan := uint16(k.Rune)
		events = append(events,
			keyboardInput{inputType: inputKeyboard, wScan: scan, dwFlags: keyeventfUnicode},
			keyboardInput{inputType: inputKeyboard, wScan: scan, dwFlags: keyeventfUnicode | keyeventfKeyup},
		)
	}

	if k.Shift {
		release(vkShift)
	}
	if k.Alt {
		release(vkMenu)
	}
	if k.Ctrl {
		release(vkControl)
	}

	n, _, lastErr := procSendInput.Call(
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		unsafe.Sizeof(events[0]),
	)
	if int(n) != len(events) {
		return fmt.Errorf("SendInput injected %d of %d events: %v", n, len(events), lastErr)
	}
	return nil
}

// virtualKeyForRune maps a character to its virtual-key code on the current
// keyboard layout.
func virtualKeyForRune(r rune) (uint16, error) {
	res, _, _ := procVkKeyScanW.Call(uintptr(uint16(r)))
	scan := int16(res)
	if scan == -1 {
		return 0, fmt.Errorf("no virtual key for character %q", r)
	}
	return uint16(scan & 0xFF), nil
}
