// Copyright 2025 Joseph Cumines
//
// Selector resolution engine

package automation

// Resolve returns every element in scope's descendant subtree matching sel,
// in document (depth-first) order.
//
// When sel.Parent is present it is resolved first against root - the full
// session root, not scope - and the effective scope becomes the descendant
// subtree of the parent's first match. Resolution is side-effect free: it
// never activates the window and never moves focus.
//
// Subtrees whose children cannot be enumerated (the owning panel closed
// mid-resolution) are skipped rather than failing the whole resolution;
// callers recover by re-querying the tree. A failed enumeration at the scope
// root itself does fail, with CodeElementNotFound.
func Resolve(sel *Selector, scope, root Element) ([]Element, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	effective := scope
	if sel.Parent != nil {
		parent, err := ResolveFirst(sel.Parent, root, root)
		if err != nil {
			return nil, err
		}
		effective = parent
	}

	children, err := effective.Children()
	if err != nil {
		return nil, Errorf(CodeElementNotFound,
			"search scope became inaccessible while resolving %s: %v", sel, err)
	}

	var matches []Element
	for _, child := range children {
		collect(sel, child, &matches)
	}
	return matches, nil
}

// collect appends el and its matching descendants to out, depth-first.
func collect(sel *Selector, el Element, out *[]Element) {
	if sel.matches(el) {
		*out = append(*out, el)
	}
	children, err := el.Children()
	if err != nil {
		return // subtree went away; skip it
	}
	for _, child := range children {
		collect(sel, child, out)
	}
}

// ResolveFirst resolves sel and returns the first match in document order,
// the ambiguity policy for all single-target tools. Zero matches fail with
// CodeElementNotFound carrying the unmatched selector.
func ResolveFirst(sel *Selector, scope, root Element) (Element, error) {
	matches, err := Resolve(sel, scope, root)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, Errorf(CodeElementNotFound, "no element matches selector %s", sel)
	}
	return matches[0], nil
}

// findDescendant returns the first descendant of el (document order)
// satisfying pred, or nil. Inaccessible subtrees are skipped.
func findDescendant(el Element, pred func(Element) bool) Element {
	children, err := el.Children()
	if err != nil {
		return nil
	}
	for _, child := range children {
		if pred(child) {
			return child
		}
		if found := findDescendant(child, pred); found != nil {
			return found
		}
	}
	return nil
}
