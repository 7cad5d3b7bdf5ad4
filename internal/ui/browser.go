package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/squad-ai/squad/internal/agent"
)

// browserItem adapts an agent definition to the bubbles list delegate.
type browserItem struct {
	def agent.Definition
}

func (i browserItem) Title() string       { return i.def.Name }
func (i browserItem) Description() string { return i.def.Category + " · " + i.def.Description }
func (i browserItem) FilterValue() string { return i.def.Name + " " + i.def.Description }

// browserModel drives the fuzzy-filterable persona picker.
type browserModel struct {
	list     list.Model
	selected string
	quit     bool
}

func newBrowserModel(theme *Theme, defs []agent.Definition) browserModel {
	items := make([]list.Item, 0, len(defs))
	for _, def := range defs {
		items = append(items, browserItem{def: def})
	}

	delegate := list.NewDefaultDelegate()
	if !theme.NoColor {
		accent := lipgloss.Color(theme.Colors.Primary)
		delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
			Foreground(accent).BorderLeftForeground(accent)
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
			BorderLeftForeground(accent)
	}

	l := list.New(items, delegate, 0, 0)
	l.Title = "squad agents"
	if !theme.NoColor {
		l.Styles.Title = l.Styles.Title.Background(lipgloss.Color(theme.Colors.Primary))
	}
	l.SetShowStatusBar(false)
	return browserModel{list: l}
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		// Keys reach the filter input first when filtering is active.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.Type {
		case tea.KeyEnter:
			if item, ok := m.list.SelectedItem().(browserItem); ok {
				m.selected = item.def.Name
			}
			m.quit = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	if m.quit {
		return ""
	}
	return m.list.View()
}

// Browse opens the interactive persona picker and returns the chosen
// agent name, or "" when the user cancels.
func Browse(theme *Theme, defs []agent.Definition) (string, error) {
	p := tea.NewProgram(newBrowserModel(theme, defs), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("ui: browser failed: %w", err)
	}
	m, ok := final.(browserModel)
	if !ok {
		return "", fmt.Errorf("ui: unexpected model %T", final)
	}
	return m.selected, nil
}
