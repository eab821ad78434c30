package picker

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dermoumi/rmux/internal/config"
)

func newTestModel(names ...string) pickerModel {
	projects := make([]config.Project, len(names))
	for i, n := range names {
		projects[i] = config.Project{Name: n, Path: "/projects/" + n + ".yml"}
	}
	ti := textinput.New()
	ti.Focus()
	m := pickerModel{projects: projects, input: ti, chosen: -1}
	m.refilter()
	return m
}

func typeString(m pickerModel, s string) pickerModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(pickerModel)
	}
	return m
}

func TestPicker_FilterNarrowsList(t *testing.T) {
	m := newTestModel("api", "web", "worker")
	if len(m.filtered) != 3 {
		t.Fatalf("initial filter: %d", len(m.filtered))
	}

	m = typeString(m, "w")
	if len(m.filtered) != 2 {
		t.Errorf("filter 'w': got %d matches", len(m.filtered))
	}

	m = typeString(m, "eb")
	if len(m.filtered) != 1 || m.projects[m.filtered[0]].Name != "web" {
		t.Errorf("filter 'web': %v", m.filtered)
	}
}

func TestPicker_EnterChoosesUnderCursor(t *testing.T) {
	m := newTestModel("api", "web", "worker")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(pickerModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(pickerModel)

	if m.chosen != 1 || m.projects[m.chosen].Name != "web" {
		t.Errorf("chosen: %d", m.chosen)
	}
}

func TestPicker_EscCancels(t *testing.T) {
	m := newTestModel("api")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(pickerModel)
	if m.chosen != -1 {
		t.Errorf("esc should leave nothing chosen, got %d", m.chosen)
	}
}

func TestPicker_CursorClampedAfterFilter(t *testing.T) {
	m := newTestModel("api", "web", "worker")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(pickerModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(pickerModel)
	if m.cursor != 2 {
		t.Fatalf("cursor: %d", m.cursor)
	}

	m = typeString(m, "api")
	if m.cursor != 0 {
		t.Errorf("cursor not clamped: %d", m.cursor)
	}
}

func TestPicker_ViewShowsRunningMarker(t *testing.T) {
	m := newTestModel("api", "web")
	m.running = map[string]bool{"web": true}
	view := m.View()
	if !strings.Contains(view, "api") || !strings.Contains(view, "web") {
		t.Errorf("view missing project names:\n%s", view)
	}
	if !strings.Contains(view, "running") {
		t.Errorf("view missing running marker:\n%s", view)
	}
}
