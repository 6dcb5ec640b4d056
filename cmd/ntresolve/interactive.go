package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carved4/go-ntresolve/pkg/resolver"
)

const maxHistory = 12

type interactiveModel struct {
	r       *resolver.Resolver
	inputs  []textinput.Model
	focus   int
	history []string
	status  string
}

func newInteractiveModel(r *resolver.Resolver) interactiveModel {
	module := textinput.New()
	module.Placeholder = "kernel32.dll"
	module.Prompt = "module   > "
	module.CharLimit = 260
	module.Focus()

	function := textinput.New()
	function.Placeholder = "GetCurrentProcessId or #ordinal"
	function.Prompt = "function > "
	function.CharLimit = 260

	return interactiveModel{r: r, inputs: []textinput.Model{module, function}}
}

func (m interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			cmd := m.setFocus((m.focus + 1) % len(m.inputs))
			return m, cmd
		case "enter":
			if m.focus == 1 {
				m.submit()
			}
			cmd := m.setFocus(1)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *interactiveModel) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *interactiveModel) submit() {
	t, err := parseTarget(m.inputs[0].Value(), m.inputs[1].Value())
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return
	}
	m.status = ""
	m.history = append(m.history, renderResult(resolveTarget(m.r, t)))
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.inputs[1].Reset()
}

func (m interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ntresolve · interactive"))
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(box("HISTORY", m.history))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab switch field · enter resolve · esc quit"))
	b.WriteString("\n")
	return b.String()
}
