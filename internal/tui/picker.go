// Package tui holds qi's interactive terminal surfaces. Only the conflict
// picker lives here; everything else in qi is plain line output.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/barysiuk/qi/internal/core"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c")),
}

// pickerModel is the conflict picker shown when a script name resolves to
// more than one repository. It blocks until the operator picks an entry or
// aborts.
type pickerModel struct {
	entries []core.ScriptEntry
	cursor  int
	width   int

	chosen  int  // set on selection
	aborted bool // set on quit
}

func newPickerModel(entries []core.ScriptEntry) pickerModel {
	return pickerModel{entries: entries, chosen: -1, width: 80}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, pickerKeys.Select):
			m.chosen = m.cursor
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Quit):
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := titleStyle.Render(fmt.Sprintf("%q exists in multiple repositories:", m.entries[0].Name)) + "\n\n"

	for i, e := range m.entries {
		line := fmt.Sprintf("%d. %s %s", i+1, e.RepoName, mutedStyle.Render("("+e.RepoURL+")"))
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		s += ansi.Truncate(line, max(m.width-1, 20), "…") + "\n"
	}

	s += helpStyle.Render("↑/↓ move · enter select · esc cancel")
	return s
}

// Picker is the interactive core.Selector used when qi runs on a terminal.
type Picker struct{}

// Select runs the picker program and returns the chosen entry index.
func (Picker) Select(entries []core.ScriptEntry) (int, error) {
	p := tea.NewProgram(newPickerModel(entries))
	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("running picker: %w", err)
	}

	m := final.(pickerModel)
	if m.aborted || m.chosen < 0 {
		return 0, core.ErrSelectionAborted
	}
	return m.chosen, nil
}
