// Copyright 2025 Joseph Cumines
//
// Single-session connection state machine

package automation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Session is the single active connection to one target application. It
// holds the title pattern used to connect, the main window, and the current
// operation target (which may differ from the main window after
// SwitchWindow). It deliberately does not hold element handles: the root is
// re-acquired from the live window on every call.
type Session struct {
	TitlePattern string

	desktop Desktop
	main    Window
	target  Window // nil means main (with automatic dialog detection)
}

// Manager owns the at-most-one active session. Dispatch is serialized by the
// MCP server, but the mutex keeps the manager safe regardless of transport.
type Manager struct {
	desktop Desktop
	mu      sync.Mutex
	current *Session
}

// NewManager creates a session manager over the given desktop.
func NewManager(desktop Desktop) *Manager {
	return &Manager{desktop: desktop}
}

// Connect finds the top-level window whose title matches pattern (regex
// search) and makes it the active session, discarding any previous one.
//
// Window connection requires an unambiguous match, unlike element
// resolution: zero matches fail with CodeWindowNotFound, more than one with
// CodeAmbiguousWindow. Connecting to the wrong application is higher blast
// radius than clicking a duplicate button.
func (m *Manager) Connect(pattern string) (*Session, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, Errorf(CodeWindowNotFound, "invalid title pattern %q: %v", pattern, err)
	}

	windows, err := m.desktop.Windows()
	if err != nil {
		return nil, Errorf(CodeWindowNotFound, "cannot enumerate top-level windows: %v", err)
	}

	var matches []Window
	for _, w := range windows {
		if w.Visible() && re.MatchString(w.Title()) {
			matches = append(matches, w)
		}
	}

	switch len(matches) {
	case 0:
		return nil, Errorf(CodeWindowNotFound, "no top-level window matches %q", pattern)
	case 1:
	default:
		titles := make([]string, len(matches))
		for i, w := range matches {
			titles[i] = fmt.Sprintf("%q", w.Title())
		}
		return nil, Errorf(CodeAmbiguousWindow,
			"%d top-level windows match %q: %s", len(matches), pattern, strings.Join(titles, ", "))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &Session{
		TitlePattern: pattern,
		desktop:      m.desktop,
		main:         matches[0],
	}
	return m.current, nil
}

// Require returns the active session, failing with CodeNotConnected when
// there is none or when the connected window has died since the last call.
func (m *Manager) Require() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, Errorf(CodeNotConnected, "no app connected; call connect_app first")
	}
	if !m.current.main.Exists() {
		m.current = nil
		return nil, Errorf(CodeNotConnected, "connected window no longer exists")
	}
	return m.current, nil
}

// Disconnect releases the active session, if any. Called by close_window
// after the close succeeds, and implicitly by a fresh Connect.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// Main returns the session's main window.
func (s *Session) Main() Window { return s.main }

// Target returns the window that read/action tools should operate on.
//
// When no explicit target is set, a visible top-level window of the
// connected process other than the main window (a modal dialog) takes
// precedence, so tools operate on the dialog transparently. An explicit
// non-main target set via SwitchWindow disables dialog detection until the
// caller switches back to the main window.
func (s *Session) Target() (Window, error) {
	if s.target != nil && s.target.Handle() != s.main.Handle() {
		if !s.target.Exists() {
			s.target = nil // fall through to main + dialog detection
		} else {
			return s.target, nil
		}
	}

	if dialog := s.findDialog(); dialog != nil {
		return dialog, nil
	}

	if !s.main.Exists() {
		return nil, Errorf(CodeNotConnected, "connected window no longer exists")
	}
	return s.main, nil
}

// findDialog returns a visible top-level window of the connected process
// whose handle differs from the main window, or nil.
func (s *Session) findDialog() Window {
	windows, err := s.desktop.Windows()
	if err != nil {
		return nil
	}
	pid := s.main.ProcessID()
	for _, w := range windows {
		if w.ProcessID() == pid && w.Handle() != s.main.Handle() && w.Visible() {
			return w
		}
	}
	return nil
}

// Root returns a fresh root element for the current target window. Never
// cached: the tree can mutate between tool calls.
func (s *Session) Root() (Element, error) {
	target, err := s.Target()
	if err != nil {
		return nil, err
	}
	root, err := target.Root()
	if err != nil {
		return nil, Errorf(CodeNotConnected, "cannot access window %q: %v", target.Title(), err)
	}
	return root, nil
}

// WindowInfo describes one window of the connected process for list_windows.
type WindowInfo struct {
	Index     int
	Title     string
	IsMain    bool
	IsCurrent bool
}

// ListWindows enumerates the visible top-level windows of the connected
// process, in desktop z-order.
func (s *Session) ListWindows() ([]WindowInfo, error) {
	owned, err := s.ownedWindows()
	if err != nil {
		return nil, err
	}

	current, err := s.Target()
	if err != nil {
		return nil, err
	}

	infos := make([]WindowInfo, len(owned))
	for i, w := range owned {
		infos[i] = WindowInfo{
			Index:     i,
			Title:     w.Title(),
			IsMain:    w.Handle() == s.main.Handle(),
			IsCurrent: w.Handle() == current.Handle(),
		}
	}
	return infos, nil
}

// SwitchWindow changes the operation target to the window selected by title
// substring or by index from ListWindows (index wins when both are given).
// Switching to the main window re-enables automatic dialog detection.
// Returns the new target's title.
func (s *Session) SwitchWindow(title string, index int, byIndex bool) (string, error) {
	owned, err := s.ownedWindows()
	if err != nil {
		return "", err
	}

	var chosen Window
	switch {
	case byIndex:
		if index < 0 || index >= len(owned) {
			return "", Errorf(CodeWindowNotFound,
				"window index %d out of range (0-%d)", index, len(owned)-1)
		}
		chosen = owned[index]
	case title != "":
		for _, w := range owned {
			if strings.Contains(w.Title(), title) {
				chosen = w
				break
			}
		}
		if chosen == nil {
			return "", Errorf(CodeWindowNotFound, "no window title contains %q", title)
		}
	default:
		return "", Errorf(CodeWindowNotFound, "provide either title or index")
	}

	if chosen.Handle() == s.main.Handle() {
		s.target = nil
	} else {
		s.target = chosen
	}
	return chosen.Title(), nil
}

func (s *Session) ownedWindows() ([]Window, error) {
	windows, err := s.desktop.Windows()
	if err != nil {
		return nil, Errorf(CodeWindowNotFound, "cannot enumerate windows: %v", err)
	}
	pid := s.main.ProcessID()
	var owned []Window
	for _, w := range windows {
		if w.ProcessID() == pid && w.Visible() {
			owned = append(owned, w)
		}
	}
	return owned, nil
}
