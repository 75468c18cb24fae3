// Copyright 2025 Joseph Cumines
//
// Declarative element selector

package automation

import (
	"encoding/json"
	"regexp"
)

// Selector is a declarative, possibly nested description of a target element.
// Title is matched as a regular expression search against the element's
// display name (case-sensitive unless the expression opts out); ControlType
// and AutoID are exact matches. Parent, when present, is resolved first
// against the full session root and narrows the search scope to the
// descendants of its first match.
//
// At least one of Title, ControlType, AutoID must be present at every
// nesting level; a level with all three absent is rejected with
// CodeInvalidSelector before any tree access occurs.
type Selector struct {
	Title       string    `json:"title,omitempty"`
	ControlType string    `json:"control_type,omitempty"`
	AutoID      string    `json:"auto_id,omitempty"`
	Parent      *Selector `json:"parent,omitempty"`

	titleRE *regexp.Regexp
}

// ParseSelector parses the JSON form of a selector and validates every
// nesting level. Malformed JSON and schema violations both fail with
// CodeInvalidSelector.
func ParseSelector(raw string) (*Selector, error) {
	var sel Selector
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return nil, Errorf(CodeInvalidSelector, "selector is not valid JSON: %v", err)
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return &sel, nil
}

// Validate checks the discriminating-field invariant at every nesting level
// and compiles the title patterns. Safe to call more than once.
func (s *Selector) Validate() error {
	for level := s; level != nil; level = level.Parent {
		if level.Title == "" && level.ControlType == "" && level.AutoID == "" {
			return Errorf(CodeInvalidSelector,
				"selector must contain at least one of: title, control_type, auto_id (offending level: %s)", level)
		}
		if level.Title != "" && level.titleRE == nil {
			re, err := regexp.Compile(level.Title)
			if err != nil {
				return Errorf(CodeInvalidSelector, "invalid title pattern %q: %v", level.Title, err)
			}
			level.titleRE = re
		}
	}
	return nil
}

// matches reports whether el satisfies every field present on this level
// (logical AND). Validate must have been called first.
func (s *Selector) matches(el Element) bool {
	if s.titleRE != nil && !s.titleRE.MatchString(el.Name()) {
		return false
	}
	if s.ControlType != "" && el.ControlType() != s.ControlType {
		return false
	}
	if s.AutoID != "" && el.AutomationID() != s.AutoID {
		return false
	}
	return true
}

// String renders the selector in its compact JSON form for diagnostics.
func (s *Selector) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}
