// Package console renders the record form, filters and records table in
// a terminal with bubbletea.
package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/service"
)

const (
	filterName = iota
	filterDivision
)

// Focus order: the seven form fields, the two filters, then the table.
var (
	focusFilterName     = len(model.Fields)
	focusFilterDivision = len(model.Fields) + 1
	focusTable          = len(model.Fields) + 2
	focusCount          = len(model.Fields) + 3
)

// Model is the bubbletea model of the console form.
type Model struct {
	svc     *service.FormService
	inputs  []textinput.Model
	filters [2]textinput.Model
	table   table.Model
	focus   int
	view    service.View
	status  string
	styles  Styles
}

// NewModel creates a console bound to the given form session.
func NewModel(svc *service.FormService) Model {
	m := Model{
		svc:    svc,
		styles: DefaultStyles(),
	}

	for _, f := range model.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Label()
		in.CharLimit = model.MaxInputLength
		in.Width = 30
		m.inputs = append(m.inputs, in)
	}

	for i, placeholder := range []string{"Filter by Name", "Filter by Division"} {
		fi := textinput.New()
		fi.Prompt = ""
		fi.Placeholder = placeholder
		fi.CharLimit = 50
		fi.Width = 30
		m.filters[i] = fi
	}

	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 18},
			{Title: "Age", Width: 4},
			{Title: "marks1", Width: 6},
			{Title: "marks2", Width: 6},
			{Title: "marks3", Width: 6},
			{Title: "marks4", Width: 6},
			{Title: "marks5", Width: 6},
			{Title: "Percentage", Width: 10},
			{Title: "Division", Width: 16},
		}),
		table.WithHeight(10),
	)

	m.inputs[0].Focus()
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		if key.String() == "down" && m.focus == focusTable {
			break
		}
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab", "up":
		if key.String() == "up" && m.focus == focusTable {
			break
		}
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "esc":
		m.svc.Reset()
		m.status = "Form cleared."
		m.refresh()
		return m, nil
	case "enter":
		if m.focus < len(model.Fields) {
			m.submit()
			return m, nil
		}
	case "ctrl+e":
		return m, m.editSelected()
	case "ctrl+d":
		m.deleteSelected()
		return m, nil
	}

	return m.forward(msg)
}

// forward passes msg to the focused widget and pushes any text change
// into the session.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case m.focus < len(model.Fields):
		before := m.inputs[m.focus].Value()
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if after := m.inputs[m.focus].Value(); after != before {
			if _, err := m.svc.SetField(model.Fields[m.focus], after); err != nil {
				m.status = err.Error()
			}
			m.refresh()
		}
	case m.focus == focusFilterName || m.focus == focusFilterDivision:
		i := m.focus - focusFilterName
		before := m.filters[i].Value()
		m.filters[i], cmd = m.filters[i].Update(msg)
		if m.filters[i].Value() != before {
			m.svc.SetFilter(model.Filter{
				Name:     m.filters[filterName].Value(),
				Division: m.filters[filterDivision].Value(),
			})
			m.refresh()
		}
	default:
		m.table, cmd = m.table.Update(msg)
	}

	return m, cmd
}

func (m *Model) setFocus(next int) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	for i := range m.filters {
		m.filters[i].Blur()
	}
	m.table.Blur()

	m.focus = next
	switch {
	case next < len(model.Fields):
		return m.inputs[next].Focus()
	case next == focusTable:
		m.table.Focus()
		return nil
	default:
		return m.filters[next-focusFilterName].Focus()
	}
}

func (m *Model) submit() {
	result, err := m.svc.Submit()
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		m.status = fmt.Sprintf("%d field(s) need attention.", len(verr.Fields))
	case err != nil:
		m.status = err.Error()
	case result.Updated:
		m.status = fmt.Sprintf("Updated %s (%s%%, %s).", result.Record.Name, result.Record.Percentage, result.Record.Division)
	default:
		m.status = fmt.Sprintf("Added %s (%s%%, %s).", result.Record.Name, result.Record.Percentage, result.Record.Division)
	}
	m.refresh()
}

func (m *Model) selected() (model.StudentRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Records) {
		return model.StudentRecord{}, false
	}
	return m.view.Records[i], true
}

func (m *Model) editSelected() tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		m.status = "Select a record first."
		return nil
	}
	if _, err := m.svc.BeginEdit(rec.ID); err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = "Editing " + rec.Name + "."
	m.refresh()
	return m.setFocus(0)
}

func (m *Model) deleteSelected() {
	rec, ok := m.selected()
	if !ok {
		m.status = "Select a record first."
		return
	}
	if err := m.svc.Delete(rec.ID); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "Deleted " + rec.Name + "."
	m.refresh()
}

// refresh pulls a fresh snapshot and mirrors it into the widgets.
func (m *Model) refresh() {
	m.view = m.svc.Snapshot()

	for i, f := range model.Fields {
		if v := m.view.Form.Fields.Value(f); m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}

	rows := make([]table.Row, 0, len(m.view.Records))
	for _, r := range m.view.Records {
		rows = append(rows, table.Row{
			r.Name, r.Age, r.Marks1, r.Marks2, r.Marks3, r.Marks4, r.Marks5,
			r.Percentage.String(), string(r.Division),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// View renders the console.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Enter Student Record"))
	b.WriteString("\n\n")

	for i, f := range model.Fields {
		label := m.styles.Label.Render(fmt.Sprintf("%-13s", f.Label()))
		b.WriteString(label + " " + m.inputs[i].View())
		if msg := m.view.Form.Errors[string(f)]; msg != "" {
			b.WriteString("  " + m.styles.Error.Render(msg))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + m.styles.Button.Render("[enter] "+m.view.Form.SubmitLabel) + "\n\n")

	b.WriteString(m.styles.Title.Render("Student Records"))
	b.WriteString("\n")
	b.WriteString(m.filters[filterName].View() + "   " + m.filters[filterDivision].View() + "\n\n")

	if len(m.view.Records) == 0 {
		b.WriteString(m.styles.Muted.Render(m.view.Message) + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
		s := m.view.Summary
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(
			"%d shown of %d · average %s%% · high %s%% · low %s%%",
			s.Count, m.view.Total, s.Average, s.Highest, s.Lowest,
		)) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("tab/shift+tab: move · enter: submit · ctrl+e: edit row · ctrl+d: delete row · esc: clear · ctrl+c: quit"))

	return b.String()
}

// Styles holds the console's lipgloss styles.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Error  lipgloss.Style
	Button lipgloss.Style
	Muted  lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the console palette.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E40AF")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		Button: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#2563EB")).Padding(0, 1),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Help:   lipgloss.NewStyle().Faint(true),
	}
}
