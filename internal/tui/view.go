package tui

import (
	"strconv"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		if m.info != "" {
			return m.info + "\n"
		}
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(m.opts.Title))
	sb.WriteString("\n")

	for i, c := range m.columns {
		label := m.styles.Label
		if m.mode == modeForm && i == m.focus {
			label = m.styles.Focused
		}
		sb.WriteString(label.Render(c.Name))
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(m.styles.Box.Render(m.table.View()))
	sb.WriteString("\n")

	switch m.mode {
	case modeTable:
		sb.WriteString("Column: " + m.columns[m.column].Name + "\n")
	case modeEdit:
		sb.WriteString("Row " + strconv.Itoa(m.editRow) + ", " + m.columns[m.column].Name + "\n")
		sb.WriteString(m.editor.View() + "\n")
	case modeSave:
		sb.WriteString(m.prompt.View() + "\n")
	}

	if m.err != nil {
		sb.WriteString(m.styles.Error.Render("Error: "+m.err.Error()+"\n(press any key)") + "\n")
	} else if m.info != "" {
		sb.WriteString(m.styles.Info.Render(m.info) + "\n")
	}

	sb.WriteString(m.styles.Help.Render(m.help()))
	return sb.String()
}

func (m Model) help() string {
	switch m.mode {
	case modeTable:
		return "↑/↓ row • ←/→ column • enter edit • tab form • ctrl+s save • ctrl+c quit"
	case modeEdit:
		return "enter confirm • esc cancel"
	case modeSave:
		return "enter save • esc cancel"
	default:
		return "tab next field • enter add row • esc table • ctrl+s save • ctrl+c quit"
	}
}
