// Copyright 2025 Joseph Cumines

package win32

import "strings"

// classControlTypes maps well-known window class names to the control-type
// vocabulary exposed in the element tree. Keys are lowercase; WinForms and
// VB6 decorate class names with suffixes, so classification strips to the
// registered prefix first.
var classControlTypes = map[string]string{
	"button":            "Button",
	"edit":              "Edit",
	"static":            "Text",
	"combobox":          "ComboBox",
	"listbox":           "List",
	"scrollbar":         "ScrollBar",
	"msctls_statusbar":  "StatusBar",
	"msctls_progress":   "ProgressBar",
	"msctls_trackbar":   "Slider",
	"msctls_updown":     "Spinner",
	"syslistview":       "List",
	"systreeview":       "Tree",
	"systabcontrol":     "Tab",
	"sysheader":         "Header",
	"toolbarwindow":     "ToolBar",
	"tooltips_class":    "ToolTip",
	"richedit":          "Edit",
	"sysdatetimepick":   "Calendar",
	"sysmonthcal":       "Calendar",
	"syslink":           "Hyperlink",
	"#32768":            "Menu",
	"#32770":            "Window", // dialog box class
	"sysanimate":        "Pane",
	"rebarwindow":       "Pane",
	"msctls_hotkey":     "Edit",
	"sysipaddress":      "Edit",
	"comboboxex":        "ComboBox",
	"sysnativelistview": "List",
}

// ControlTypeForClass classifies a window class name. WinForms classes embed
// the native class between dots ("WindowsForms10.BUTTON.app.0.x"), so each
// dotted component is tried before prefix matching. Unrecognized classes
// come back as "Pane".
func ControlTypeForClass(class string) string {
	lower := strings.ToLower(class)
	if ct, ok := classControlTypes[lower]; ok {
		return ct
	}
	for _, part := range strings.Split(lower, ".") {
		if ct, ok := classControlTypes[part]; ok {
			return ct
		}
	}
	for prefix, ct := range classControlTypes {
		if strings.HasPrefix(lower, prefix) {
			return ct
		}
	}
	return "Pane"
}
