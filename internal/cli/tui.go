package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// TagListModel is the bubbletea model for interactive tag selection.
type TagListModel struct {
	Tags     []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewTagListModel creates a new tag list model.
func NewTagListModel(tags []string) TagListModel {
	return TagListModel{
		Tags:   tags,
		Height: 15,
	}
}

func (m TagListModel) Init() tea.Cmd {
	return nil
}

func (m TagListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Tags)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Tags[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 5
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TagListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Tag"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Tags) {
		end = len(m.Tags)
	}

	for i := m.Offset; i < end; i++ {
		line := m.Tags[i]
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.Tags) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(scrollIndicator(m.Cursor, len(m.Tags))))
		b.WriteString("\n")
	}
	return b.String()
}

// scrollIndicator renders a "n of m" position hint for long lists.
func scrollIndicator(cursor, total int) string {
	return fmt.Sprintf("%d of %d", cursor+1, total)
}
