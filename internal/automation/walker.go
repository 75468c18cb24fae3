// Copyright 2025 Joseph Cumines
//
// Tree walker: serializes the live accessibility tree into a snapshot

package automation

import (
	"fmt"
	"strings"
)

// maxOutlineNameLen caps element names in the outline rendering; longer
// names are truncated so a single verbose label cannot blow up the payload.
const maxOutlineNameLen = 50

// UITreeNode is a read-only snapshot of one element, produced by Walk. It
// exists only as a response payload and is never retained across calls.
type UITreeNode struct {
	Name        string        `json:"name"`
	ControlType string        `json:"control_type"`
	AutoID      string        `json:"auto_id,omitempty"`
	Enabled     bool          `json:"is_enabled"`
	Rect        Rect          `json:"bounding_rectangle"`
	Children    []*UITreeNode `json:"children,omitempty"`
}

// Walk materializes the subtree rooted at root into a UITreeNode,
// depth-first in document order. maxDepth bounds recursion below the root
// (maxDepth <= 0 walks the full tree).
//
// Subtrees that become inaccessible mid-walk - the target application
// closing a panel concurrently - are omitted rather than failing the call:
// a partial tree is preferred because the caller re-queries before acting.
func Walk(root Element, maxDepth int) *UITreeNode {
	return walk(root, 0, maxDepth)
}

func walk(el Element, depth, maxDepth int) *UITreeNode {
	node := &UITreeNode{
		Name:        el.Name(),
		ControlType: el.ControlType(),
		AutoID:      el.AutomationID(),
		Enabled:     el.Enabled(),
		Rect:        el.Rect(),
	}

	if maxDepth > 0 && depth >= maxDepth {
		return node
	}

	children, err := el.Children()
	if err != nil {
		return node // subtree went away; keep what we have
	}
	for _, child := range children {
		node.Children = append(node.Children, walk(child, depth+1, maxDepth))
	}
	return node
}

// Outline renders the tree as indented text, one element per line:
//
//	{indent}{ControlType}  Name="{Name}"  AutoId="{AutoId}"
//
// with two spaces per depth level and names truncated to 50 characters.
// This is the default get_ui_tree payload.
func (n *UITreeNode) Outline() string {
	var b strings.Builder
	n.writeOutline(&b, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func (n *UITreeNode) writeOutline(b *strings.Builder, depth int) {
	name := n.Name
	// Truncate by runes so multi-byte names cannot split mid-character.
	if r := []rune(name); len(r) > maxOutlineNameLen {
		name = string(r[:maxOutlineNameLen])
	}
	fmt.Fprintf(b, "%s%s  Name=%q  AutoId=%q\n",
		strings.Repeat("  ", depth), n.ControlType, name, n.AutoID)
	for _, child := range n.Children {
		child.writeOutline(b, depth+1)
	}
}
