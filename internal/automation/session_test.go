// Copyright 2025 Joseph Cumines

package automation_test

import (
	"testing"

	"github.com/joeycumines/WindowsUseSDK/internal/automation"
	"github.com/joeycumines/WindowsUseSDK/internal/automation/automationtest"
)

func TestManagerConnect(t *testing.T) {
	tests := []struct {
		name     string
		windows  []*automationtest.FakeWindow
		pattern  string
		wantCode automation.Code
	}{
		{
			name: "single match",
			windows: []*automationtest.FakeWindow{
				automationtest.NewWindow(1, "My App v2.1", 100, automationtest.Pane("root", "")),
				automationtest.NewWindow(2, "Other Thing", 200, automationtest.Pane("root", "")),
			},
			pattern: "My App",
		},
		{
			name: "regex match",
			windows: []*automationtest.FakeWindow{
				automationtest.NewWindow(1, "Editor - file.txt", 100, automationtest.Pane("root", "")),
			},
			pattern: `Editor - .*\.txt`,
		},
		{
			name: "no match",
			windows: []*automationtest.FakeWindow{
				automationtest.NewWindow(1, "Other", 100, automationtest.Pane("root", "")),
			},
			pattern:  "My App",
			wantCode: automation.CodeWindowNotFound,
		},
		{
			name: "invisible windows ignored",
			windows: []*automationtest.FakeWindow{
				{HWND: 1, WinTitle: "My App", PID: 100, IsVisible: false, Alive: true},
			},
			pattern:  "My App",
			wantCode: automation.CodeWindowNotFound,
		},
		{
			name: "ambiguous",
			windows: []*automationtest.FakeWindow{
				automationtest.NewWindow(1, "My App - doc1", 100, automationtest.Pane("root", "")),
				automationtest.NewWindow(2, "My App - doc2", 101, automationtest.Pane("root", "")),
			},
			pattern:  "My App",
			wantCode: automation.CodeAmbiguousWindow,
		},
		{
			name:     "invalid pattern",
			pattern:  "(",
			wantCode: automation.CodeWindowNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := automation.NewManager(&automationtest.FakeDesktop{Wins: tt.windows})
			sess, err := m.Connect(tt.pattern)
			if tt.wantCode != "" {
				if code, ok := automation.CodeOf(err); !ok || code != tt.wantCode {
					t.Fatalf("Connect(%q) error = %v, want code %s", tt.pattern, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Connect(%q) failed: %v", tt.pattern, err)
			}
			if sess.TitlePattern != tt.pattern {
				t.Errorf("TitlePattern = %q, want %q", sess.TitlePattern, tt.pattern)
			}
		})
	}
}

func TestManagerRequire(t *testing.T) {
	win := automationtest.NewWindow(1, "My App", 100, automationtest.Pane("root", ""))
	m := automation.NewManager(&automationtest.FakeDesktop{Wins: []*automationtest.FakeWindow{win}})

	if _, err := m.Require(); !automation.IsCode(err, automation.CodeNotConnected) {
		t.Fatalf("Require before Connect: error = %v, want NOT_CONNECTED", err)
	}

	if _, err := m.Connect("My App"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Require(); err != nil {
		t.Fatalf("Require after Connect failed: %v", err)
	}

	// The target application dying invalidates the session on next use.
	win.Alive = false
	if _, err := m.Require(); !automation.IsCode(err, automation.CodeNotConnected) {
		t.Fatalf("Require after window death: error = %v, want NOT_CONNECTED", err)
	}
	if _, err := m.Require(); !automation.IsCode(err, automation.CodeNotConnected) {
		t.Fatal("stale session survived a failed Require")
	}
}

func TestManagerReconnectReplacesSession(t *testing.T) {
	a := automationtest.NewWindow(1, "App A", 100, automationtest.Pane("root", ""))
	b := automationtest.NewWindow(2, "App B", 200, automationtest.Pane("root", ""))
	m := automation.NewManager(&automationtest.FakeDesktop{Wins: []*automationtest.FakeWindow{a, b}})

	if _, err := m.Connect("App A"); err != nil {
		t.Fatal(err)
	}
	sess, err := m.Connect("App B")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Main().Title() != "App B" {
		t.Errorf("session main = %q, want App B", sess.Main().Title())
	}
}

func TestSessionDialogTargeting(t *testing.T) {
	main := automationtest.NewWindow(1, "My App", 100, automationtest.Pane("root", ""))
	other := automationtest.NewWindow(9, "Unrelated", 500, automationtest.Pane("root", ""))
	desktop := &automationtest.FakeDesktop{Wins: []*automationtest.FakeWindow{main, other}}
	m := automation.NewManager(desktop)
	sess, err := m.Connect("My App")
	if err != nil {
		t.Fatal(err)
	}

	target, err := sess.Target()
	if err != nil {
		t.Fatal(err)
	}
	if target.Handle() != main.Handle() {
		t.Fatalf("no dialog present, target = %q, want main window", target.Title())
	}

	// A dialog from the same process pops up: tools retarget automatically.
	dialog := automationtest.NewWindow(2, "Save Changes?", 100, automationtest.Pane("dlg", ""))
	desktop.Wins = append(desktop.Wins, dialog)
	target, err = sess.Target()
	if err != nil {
		t.Fatal(err)
	}
	if target.Handle() != dialog.Handle() {
		t.Fatalf("target = %q, want the dialog", target.Title())
	}

	// Dialog dismissed: back to the main window.
	dialog.IsVisible = false
	target, err = sess.Target()
	if err != nil {
		t.Fatal(err)
	}
	if target.Handle() != main.Handle() {
		t.Fatalf("target after dismissal = %q, want main window", target.Title())
	}
}

func TestSessionSwitchWindow(t *testing.T) {
	main := automationtest.NewWindow(1, "My App", 100, automationtest.Pane("root", ""))
	tool := automationtest.NewWindow(2, "Tool Palette", 100, automationtest.Pane("root", ""))
	desktop := &automationtest.FakeDesktop{Wins: []*automationtest.FakeWindow{main, tool}}
	m := automation.NewManager(desktop)
	sess, err := m.Connect("My App")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("by title substring", func(t *testing.T) {
		title, err := sess.SwitchWindow("Palette", 0, false)
		if err != nil {
			t.Fatal(err)
		}
		if title != "Tool Palette" {
			t.Errorf("switched to %q, want Tool Palette", title)
		}
		target, err := sess.Target()
		if err != nil {
			t.Fatal(err)
		}
		if target.Handle() != tool.Handle() {
			t.Error("target did not follow the switch")
		}
	})

	t.Run("explicit target disables dialog detection", func(t *testing.T) {
		dialog := automationtest.NewWindow(3, "Popup", 100, automationtest.Pane("root", ""))
		desktop.Wins = append(desktop.Wins, dialog)
		defer func() { desktop.Wins = desktop.Wins[:2] }()

		target, err := sess.Target()
		if err != nil {
			t.Fatal(err)
		}
		if target.Handle() != tool.Handle() {
			t.Errorf("target = %q, want the explicit Tool Palette target", target.Title())
		}
	})

	t.Run("by index", func(t *testing.T) {
		title, err := sess.SwitchWindow("", 0, true)
		if err != nil {
			t.Fatal(err)
		}
		if title != "My App" {
			t.Errorf("switched to %q, want My App", title)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		if _, err := sess.SwitchWindow("", 7, true); !automation.IsCode(err, automation.CodeWindowNotFound) {
			t.Fatalf("error = %v, want WINDOW_NOT_FOUND", err)
		}
	})

	t.Run("title not found", func(t *testing.T) {
		if _, err := sess.SwitchWindow("Nope", 0, false); !automation.IsCode(err, automation.CodeWindowNotFound) {
			t.Fatalf("error = %v, want WINDOW_NOT_FOUND", err)
		}
	})
}

func TestSessionListWindows(t *testing.T) {
	main := automationtest.NewWindow(1, "My App", 100, automationtest.Pane("root", ""))
	tool := automationtest.NewWindow(2, "Tool Palette", 100, automationtest.Pane("root", ""))
	other := automationtest.NewWindow(3, "Different Process", 999, automationtest.Pane("root", ""))
	m := automation.NewManager(&automationtest.FakeDesktop{
		Wins: []*automationtest.FakeWindow{main, tool, other},
	})
	sess, err := m.Connect("My App")
	if err != nil {
		t.Fatal(err)
	}

	infos, err := sess.ListWindows()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d windows, want 2 (other process excluded)", len(infos))
	}
	if !infos[0].IsMain || infos[0].Title != "My App" {
		t.Errorf("infos[0] = %+v, want the main window first", infos[0])
	}
	if infos[1].IsMain {
		t.Errorf("infos[1] = %+v marked main", infos[1])
	}
}

func TestSessionRootIsFreshPerCall(t *testing.T) {
	win := automationtest.NewWindow(1, "My App", 100, automationtest.Pane("root", ""))
	m := automation.NewManager(&automationtest.FakeDesktop{Wins: []*automationtest.FakeWindow{win}})
	sess, err := m.Connect("My App")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := sess.Root(); err != nil {
		t.Fatal(err)
	}

	// Swap the tree under the window; the next Root must see the new one.
	win.Tree = automationtest.Pane("rebuilt", "v2")
	root, err := sess.Root()
	if err != nil {
		t.Fatal(err)
	}
	if root.AutomationID() != "v2" {
		t.Error("Root returned a stale tree; must re-acquire per call")
	}
}
