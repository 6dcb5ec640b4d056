package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(t *testing.T, m interactiveModel, k tea.KeyType) interactiveModel {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: k})
	im, ok := next.(interactiveModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return im
}

func TestInteractiveFocusMoves(t *testing.T) {
	m := newInteractiveModel(nil)
	m = press(t, m, tea.KeyTab)
	if m.focus != 1 || !m.inputs[1].Focused() || m.inputs[0].Focused() {
		t.Fatalf("tab should move focus to the function field, focus=%d", m.focus)
	}
	m = press(t, m, tea.KeyTab)
	if m.focus != 0 || !m.inputs[0].Focused() {
		t.Fatalf("tab should wrap back to the module field, focus=%d", m.focus)
	}
	m = press(t, m, tea.KeyEnter)
	if m.focus != 1 || !m.inputs[1].Focused() {
		t.Fatalf("enter on the module field should advance, focus=%d", m.focus)
	}
}

func TestInteractiveSubmitRejectsEmptyInput(t *testing.T) {
	m := newInteractiveModel(nil)
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyEnter)
	if m.status == "" || len(m.history) != 0 {
		t.Fatalf("empty submit should set a status and record nothing: %q %v", m.status, m.history)
	}
}
