// Copyright 2025 Joseph Cumines

// Package win32 implements the desktop accessibility provider on top of the
// classic Win32 window hierarchy: HWND enumeration, window messages for
// reading and manipulating controls, SendInput for keystrokes, and
// PrintWindow for capture.
//
// Control items that Win32 does not expose as child windows - combo box
// entries, list box rows, menu items - are surfaced as synthetic elements
// backed by the owning control's item messages, so selection and menu tools
// see a uniform element tree.
//
// Everything except the control-type classification table is build-tagged
// windows; other platforms compile only the table and its tests.
package win32
