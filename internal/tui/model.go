// Package tui is the interactive entry form: a text input per column, a
// preview table of the row buffer with in-place cell editing, and a save
// prompt.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

type mode int

const (
	modeForm mode = iota
	modeTable
	modeEdit
	modeSave
)

// SaveFunc persists the buffer to path.
type SaveFunc func(path string, b *ledger.Buffer) error

// Options configures the entry form.
type Options struct {
	// Path pre-fills the save prompt.
	Path   string
	Save   SaveFunc
	Logger *zap.Logger
	Title  string
}

// Model is the bubbletea model of the entry form.
type Model struct {
	buffer  *ledger.Buffer
	columns []model.Column
	opts    Options
	logger  *zap.Logger

	mode   mode
	inputs []textinput.Model
	focus  int

	table   table.Model
	column  int // selected data column in table mode
	editor  textinput.Model
	editRow int // user row being edited
	prompt  textinput.Model

	info      string
	err       error
	savedPath string
	quitting  bool

	styles Styles
}

// New creates an entry form over b.
func New(b *ledger.Buffer, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "Data Entry"
	}

	cols := b.Columns()
	inputs := make([]textinput.Model, len(cols))
	for i, c := range cols {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 128
		ti.Width = 30
		if c.Numeric {
			ti.Placeholder = "0"
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	editor := textinput.New()
	editor.Prompt = "> "
	editor.CharLimit = 128

	prompt := textinput.New()
	prompt.Prompt = "Save as: "
	prompt.Placeholder = "entries.xlsx"
	prompt.CharLimit = 512
	prompt.Width = 50

	m := Model{
		buffer:  b,
		columns: cols,
		opts:    opts,
		logger:  logger,
		inputs:  inputs,
		table: table.New(
			table.WithColumns(tableColumns(cols)),
			table.WithFocused(false),
			table.WithHeight(10),
		),
		editor: editor,
		prompt: prompt,
		styles: DefaultStyles(),
	}
	m.refresh()
	return m
}

func tableColumns(cols []model.Column) []table.Column {
	out := []table.Column{{Title: "#", Width: 4}}
	for _, c := range cols {
		w := lipgloss.Width(c.Name) + 2
		if w < 12 {
			w = 12
		}
		out = append(out, table.Column{Title: c.Name, Width: w})
	}
	return out
}

// refresh reloads the preview rows from the buffer.
func (m *Model) refresh() {
	records := m.buffer.Records()
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = append(table.Row{fmt.Sprint(i + 1)}, r...)
	}
	m.table.SetRows(rows)
}

// Buffer returns the row buffer behind the form.
func (m Model) Buffer() *ledger.Buffer { return m.buffer }

// SavedPath returns the path the buffer was saved to, or "".
func (m Model) SavedPath() string { return m.savedPath }

// Err returns the notification currently shown, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	if key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// An error notification blocks input until dismissed.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(key)
	case modeTable:
		return m.updateTable(key)
	case modeEdit:
		return m.updateEdit(key)
	case modeSave:
		return m.updateSave(key)
	}
	return m, nil
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeForm:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	case modeTable:
		m.table, cmd = m.table.Update(msg)
	case modeEdit:
		m.editor, cmd = m.editor.Update(msg)
	case modeSave:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "tab", "down":
		return m.focusInput((m.focus + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m.focusInput((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case "enter":
		return m.submit()
	case "ctrl+s":
		return m.enterSave()
	case "esc":
		if m.buffer.Len() > 0 {
			return m.enterTable()
		}
		return m, nil
	}
	return m.updateFocused(key)
}

func (m Model) focusInput(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

// submit validates the form and appends a row. The inputs are cleared only
// when the row was stored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	values := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		values[i] = in.Value()
	}

	if err := ledger.CheckComplete(m.columns, values); err != nil {
		m.err = err
		return m, nil
	}
	if err := m.buffer.Add(values...); err != nil {
		m.logger.Debug("row rejected", zap.Error(err))
		m.err = err
		return m, nil
	}

	m.logger.Info("row added", zap.Int("row", m.buffer.Len()), zap.Strings("values", values))
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.info = fmt.Sprintf("Added row %d", m.buffer.Len())
	m.refresh()
	return m.focusInput(0)
}

func (m Model) enterTable() (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.mode = modeTable
	m.table.Focus()
	return m, nil
}

func (m Model) updateTable(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "left", "h":
		if m.column > 0 {
			m.column--
		}
		return m, nil
	case "right", "l":
		if m.column < len(m.columns)-1 {
			m.column++
		}
		return m, nil
	case "enter", "e":
		return m.startEdit()
	case "tab", "esc":
		m.table.Blur()
		m.mode = modeForm
		return m, m.inputs[m.focus].Focus()
	case "ctrl+s":
		return m.enterSave()
	}
	return m.updateFocused(key)
}

// startEdit opens the cell editor prefilled with the selected cell.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	if m.buffer.Len() == 0 {
		return m, nil
	}
	m.editRow = m.table.Cursor() + 1
	row, err := m.buffer.Row(m.editRow)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.editor.SetValue(row[m.column].String())
	m.editor.CursorEnd()
	m.mode = modeEdit
	return m, m.editor.Focus()
}

func (m Model) updateEdit(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		name := m.columns[m.column].Name
		err := m.buffer.Update(m.editRow, name, m.editor.Value())
		m.editor.Blur()
		m.mode = modeTable
		if err != nil {
			m.err = fmt.Errorf("update failed for '%s': %w", name, err)
			return m, nil
		}
		m.logger.Info("cell updated", zap.Int("row", m.editRow), zap.String("column", name))
		m.info = fmt.Sprintf("Updated row %d, %s", m.editRow, name)
		m.refresh()
		return m, nil
	case "esc":
		m.editor.Blur()
		m.mode = modeTable
		return m, nil
	}
	return m.updateFocused(key)
}

func (m Model) enterSave() (tea.Model, tea.Cmd) {
	if m.buffer.Len() == 0 {
		m.info = "Nothing to save yet"
		return m, nil
	}
	m.inputs[m.focus].Blur()
	m.table.Blur()
	m.prompt.SetValue(m.opts.Path)
	m.prompt.CursorEnd()
	m.mode = modeSave
	return m, m.prompt.Focus()
}

func (m Model) updateSave(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		path := m.prompt.Value()
		if path == "" {
			return m, nil
		}
		if filepath.Ext(path) == "" {
			path += ".xlsx"
		}
		if m.opts.Save == nil {
			m.err = errors.New("saving is not available")
			return m, nil
		}
		if err := m.opts.Save(path, m.buffer); err != nil {
			m.logger.Error("save failed", zap.String("path", path), zap.Error(err))
			m.err = fmt.Errorf("failed to save the file: %w", err)
			return m, nil
		}
		m.logger.Info("workbook saved", zap.String("path", path), zap.Int("rows", m.buffer.Len()))
		m.savedPath = path
		m.info = "File saved successfully to: " + filepath.Base(path)
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.prompt.Blur()
		m.mode = modeForm
		return m, m.inputs[m.focus].Focus()
	}
	return m.updateFocused(key)
}
