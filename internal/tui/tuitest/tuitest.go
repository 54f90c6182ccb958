// Package tuitest runs Bubble Tea commands synchronously for tests.
package tuitest

import (
	"reflect"

	tea "github.com/charmbracelet/bubbletea"
)

const cursorPkg = "github.com/charmbracelet/bubbles/cursor"

// Drain runs cmd and every command it batches, returning the messages in
// order. Cursor blink messages are dropped so a focused text field cannot
// keep a test looping.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	if msg == nil || isCursorMsg(msg) {
		return nil
	}
	return []tea.Msg{msg}
}

func isCursorMsg(msg tea.Msg) bool {
	t := reflect.TypeOf(msg)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() == cursorPkg
}

// Find returns the first message of type T
func Find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Without drops every message of type T
func Without[T tea.Msg](msgs []tea.Msg) []tea.Msg {
	want := reflect.TypeOf((*T)(nil)).Elem()
	var out []tea.Msg
	for _, m := range msgs {
		if reflect.TypeOf(m) != want {
			out = append(out, m)
		}
	}
	return out
}

// Key builds a key press for a single rune or a named key such as "enter"
func Key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
