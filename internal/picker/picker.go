// Package picker implements the interactive project chooser shown when
// rmux start runs without a project name and no local project file exists.
package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dermoumi/rmux/internal/config"
)

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Pick shows the project list with a fuzzy filter and returns the chosen
// project. ok is false when the user cancelled.
func Pick(projects []config.Project, running map[string]bool) (config.Project, bool, error) {
	ti := textinput.New()
	ti.Placeholder = "Filter projects..."
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()

	m := pickerModel{
		projects: projects,
		running:  running,
		input:    ti,
		chosen:   -1,
	}
	m.refilter()

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return config.Project{}, false, err
	}
	result := final.(pickerModel)
	if result.chosen < 0 {
		return config.Project{}, false, nil
	}
	return projects[result.chosen], true, nil
}

// pickerModel implements tea.Model.
type pickerModel struct {
	projects []config.Project
	running  map[string]bool
	input    textinput.Model

	filtered []int // indices into projects
	cursor   int
	chosen   int // index into projects, -1 while undecided

	height int
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if len(m.filtered) > 0 {
				m.chosen = m.filtered[m.cursor]
			}
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *pickerModel) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.filtered = m.filtered[:0]
	for i, p := range m.projects {
		if query == "" || strings.Contains(strings.ToLower(p.Name), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a project"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  no matching projects"))
		b.WriteString("\n")
	}
	for pos, idx := range m.filtered {
		p := m.projects[idx]
		line := "  " + p.Name
		if m.running[p.Name] {
			line += " " + runningStyle.Render("(running)")
		}
		if pos == m.cursor {
			line = selectedStyle.Render("> " + p.Name)
			if m.running[p.Name] {
				line += " " + runningStyle.Render("(running)")
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter select · esc cancel"))
	b.WriteString("\n")
	return b.String()
}
