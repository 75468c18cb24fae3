// Copyright 2025 Joseph Cumines
//
// Action primitives bound to resolved elements

package automation

import (
	"strings"
	"time"
)

// settleDelay is the pause after expanding a dropdown or menu, giving the
// target application time to populate the popup. Tests zero it out.
var settleDelay = 300 * time.Millisecond

// Click invokes el without pointer movement, trying the invoke, toggle, and
// expand/collapse capabilities in that order - the same fallback chain real
// applications need (buttons, check boxes, tree expanders). Fails with
// CodePatternNotSupported when the element exposes none of them.
func Click(el Element) error {
	if err := el.Invoke(); err == nil {
		return nil
	}
	if err := el.Toggle(); err == nil {
		return nil
	}
	if err := el.Expand(); err == nil {
		return nil
	}
	if err := el.Collapse(); err == nil {
		return nil
	}
	return Errorf(CodePatternNotSupported,
		"cannot click %s %q: element supports none of Invoke, Toggle, ExpandCollapse",
		el.ControlType(), el.Name())
}

// SetText assigns the element's text value directly, no keyboard emulation.
func SetText(el Element, text string) error {
	if err := el.SetText(text); err != nil {
		if _, ok := CodeOf(err); ok {
			return err
		}
		return Errorf(CodePatternNotSupported,
			"cannot set text on %s %q: %v", el.ControlType(), el.Name(), err)
	}
	return nil
}

// GetText returns the element's current text: its value when it has one,
// falling back to the display name the way window_text does. Fails with
// CodeNoTextValue only when neither exists.
func GetText(el Element) (string, error) {
	text, err := el.Text()
	if err == nil {
		return text, nil
	}
	if name := el.Name(); name != "" {
		return name, nil
	}
	if _, ok := CodeOf(err); ok {
		return "", err
	}
	return "", Errorf(CodeNoTextValue,
		"%s element has no text value", el.ControlType())
}

// SelectItem selects the descendant of container whose name equals itemName
// (exact match). The container is expanded first so dropdown items
// materialize, and collapsed again afterwards regardless of outcome.
func SelectItem(container Element, itemName string) error {
	if err := container.Expand(); err == nil {
		time.Sleep(settleDelay)
	}
	defer container.Collapse() //nolint:errcheck // best-effort cleanup

	item := findDescendant(container, func(el Element) bool {
		return el.Name() == itemName
	})
	if item == nil {
		return Errorf(CodeItemNotFound, "item %q not found in %s %q",
			itemName, container.ControlType(), container.Name())
	}

	if err := item.Select(); err != nil {
		if _, ok := CodeOf(err); ok {
			return err
		}
		return Errorf(CodePatternNotSupported, "cannot select %q: %v", itemName, err)
	}
	return nil
}

// SelectGridRow selects the row at the given 0-based index in a grid/table.
// Row candidates are the container's Custom/DataItem children minus header
// rows, matching how WinForms DataGridView exposes its rows.
func SelectGridRow(container Element, rowIndex int) error {
	children, err := container.Children()
	if err != nil {
		return Errorf(CodeElementNotFound, "grid %q became inaccessible: %v",
			container.Name(), err)
	}

	var rows []Element
	for _, child := range children {
		ct := child.ControlType()
		if ct != "Custom" && ct != "DataItem" {
			continue
		}
		name := child.Name()
		if strings.Contains(strings.ToLower(name), "header") || strings.Contains(name, "トップ") {
			continue
		}
		rows = append(rows, child)
	}

	if rowIndex < 0 || rowIndex >= len(rows) {
		return Errorf(CodeIndexOutOfRange, "row index %d out of range (0-%d) in %s %q",
			rowIndex, len(rows)-1, container.ControlType(), container.Name())
	}

	row := rows[rowIndex]
	if err := row.Select(); err == nil {
		return nil
	}
	// Some grids only expose selection on the cells.
	if cells, err := row.Children(); err == nil && len(cells) > 0 {
		if err := cells[0].Select(); err == nil {
			return nil
		}
	}
	if err := row.Invoke(); err == nil {
		return nil
	}
	return Errorf(CodePatternNotSupported, "cannot select row %d in %s %q",
		rowIndex, container.ControlType(), container.Name())
}

// SelectMenu walks a "->"-delimited path of menu item names from the
// window's menu bar, expanding each submenu before matching the next
// segment. Fails with CodeMenuPathNotFound at the first unmatched segment,
// naming that segment.
func SelectMenu(root Element, menuPath string) error {
	var segments []string
	for _, seg := range strings.Split(menuPath, "->") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return Errorf(CodeMenuPathNotFound, "empty menu path")
	}

	menuBar, err := findMenuBar(root)
	if err != nil {
		return err
	}

	items, err := menuBar.Children()
	if err != nil {
		return Errorf(CodeMenuPathNotFound, "menu bar became inaccessible: %v", err)
	}
	var current Element
	for _, item := range items {
		if item.Name() == segments[0] {
			current = item
			break
		}
	}
	if current == nil {
		return Errorf(CodeMenuPathNotFound, "menu item %q not found in menu bar", segments[0])
	}

	if len(segments) == 1 {
		return invokeMenuItem(current, segments[0])
	}
	if err := current.Expand(); err != nil {
		if err := current.Invoke(); err != nil {
			return Errorf(CodeMenuPathNotFound, "cannot open menu %q: %v", segments[0], err)
		}
	}

	for i, segment := range segments[1:] {
		time.Sleep(settleDelay) // wait for the submenu to appear
		item := findDescendant(root, func(el Element) bool {
			return el.ControlType() == "MenuItem" && el.Name() == segment
		})
		if item == nil {
			return Errorf(CodeMenuPathNotFound, "menu item %q not found", segment)
		}
		if i == len(segments)-2 {
			return invokeMenuItem(item, segment)
		}
		if err := item.Expand(); err != nil {
			if err := item.Invoke(); err != nil {
				return Errorf(CodeMenuPathNotFound, "cannot open submenu %q: %v", segment, err)
			}
		}
	}
	return nil
}

// invokeMenuItem triggers the final segment of a menu path.
func invokeMenuItem(item Element, segment string) error {
	if err := item.Invoke(); err != nil {
		if err := item.Expand(); err != nil {
			return Errorf(CodeMenuPathNotFound, "cannot select menu item %q: %v", segment, err)
		}
	}
	return nil
}

// findMenuBar locates the window's application menu bar, skipping the
// window system menu (exposed with the name "System", or "システム" on
// Japanese systems).
func findMenuBar(root Element) (Element, error) {
	children, err := root.Children()
	if err != nil {
		return nil, Errorf(CodeMenuPathNotFound, "window became inaccessible: %v", err)
	}
	for _, child := range children {
		if child.ControlType() != "MenuBar" {
			continue
		}
		if name := child.Name(); name == "System" || name == "システム" {
			continue
		}
		return child, nil
	}
	return nil, Errorf(CodeMenuPathNotFound, "no menu bar found in the window")
}
