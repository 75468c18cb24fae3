// Copyright 2025 Joseph Cumines

// Package keys parses the keystroke notation accepted by send_keys into a
// normalized sequence of key events.
//
// The notation uses ^, %, and + as prefix modifiers (Ctrl, Alt, Shift), and
// braces for named keys with an optional repeat count:
//
//	^s          Ctrl+S
//	%{F4}       Alt+F4
//	{ENTER}     Enter
//	{TAB 3}     Tab pressed three times
//	hello       the literal characters h e l l o
//
// A modifier applies to exactly the next key (literal or braced). Parsing is
// strict: unclosed braces, empty braces, and a trailing modifier with no key
// are all rejected, so malformed input fails before any event is injected.
package keys

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is a single logical keystroke. Either Name (a braced key like ENTER)
// or Rune (a literal character) is set, never both.
type Key struct {
	Name   string
	Rune   rune
	Ctrl   bool
	Alt    bool
	Shift  bool
	Repeat int // at least 1
}

// Parse converts notation into the ordered key sequence it denotes.
func Parse(notation string) ([]Key, error) {
	var (
		out              []Key
		ctrl, alt, shift bool
	)
	runes := []rune(notation)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '^':
			ctrl = true
		case '%':
			alt = true
		case '+':
			shift = true
		case '{':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '}' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("unclosed brace at position %d", i)
			}
			body := strings.TrimSpace(string(runes[i+1 : end]))
			if body == "" {
				return nil, fmt.Errorf("empty braces at position %d", i)
			}
			name, repeat, err := splitRepeat(body)
			if err != nil {
				return nil, err
			}
			out = append(out, Key{
				Name: name, Ctrl: ctrl, Alt: alt, Shift: shift, Repeat: repeat,
			})
			ctrl, alt, shift = false, false, false
			i = end
		default:
			out = append(out, Key{
				Rune: r, Ctrl: ctrl, Alt: alt, Shift: shift, Repeat: 1,
			})
			ctrl, alt, shift = false, false, false
		}
	}

	if ctrl || alt || shift {
		return nil, fmt.Errorf("trailing modifier with no key in %q", notation)
	}
	return out, nil
}

// splitRepeat separates an optional trailing repeat count from a braced key
// body, e.g. "TAB 3" -> ("TAB", 3).
func splitRepeat(body string) (string, int, error) {
	fields := strings.Fields(body)
	switch len(fields) {
	case 1:
		return strings.ToUpper(fields[0]), 1, nil
	case 2:
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return "", 0, fmt.Errorf("invalid repeat count %q for key %q", fields[1], fields[0])
		}
		return strings.ToUpper(fields[0]), n, nil
	default:
		return "", 0, fmt.Errorf("malformed braced key %q", body)
	}
}
