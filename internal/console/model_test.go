package console

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/service"
)

func newConsole(t *testing.T) (Model, *repository.RecordRepository) {
	t.Helper()
	repo := repository.NewRecordRepository()
	return NewModel(service.NewFormService(repo, zerolog.Nop())), repo
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEdit  = tea.KeyMsg{Type: tea.KeyCtrlE}
	keyDel   = tea.KeyMsg{Type: tea.KeyCtrlD}
)

func fillForm(t *testing.T, m Model, values ...string) Model {
	t.Helper()
	for i, v := range values {
		m = typeText(t, m, v)
		if i < len(values)-1 {
			m = press(t, m, keyTab)
		}
	}
	return m
}

func TestTypingValidatesImmediately(t *testing.T) {
	m, _ := newConsole(t)
	m = press(t, m, keyTab)
	m = typeText(t, m, "x")

	assert.Equal(t, "Age must be a number.", m.view.Form.Errors["age"])
	assert.Contains(t, m.View(), "Age must be a number.")
}

func TestSubmitAddsRecord(t *testing.T) {
	m, repo := newConsole(t)
	m = fillForm(t, m, "Anna", "20", "60", "50", "70", "40", "80")
	m = press(t, m, keyEnter)

	require.Equal(t, 1, repo.Len())
	assert.Contains(t, m.status, "Added Anna (60.0%, First Division)")
	assert.Equal(t, "", m.inputs[0].Value())
	assert.Contains(t, m.View(), "First Division")
}

func TestSubmitInvalidKeepsStoreEmpty(t *testing.T) {
	m, repo := newConsole(t)
	m = press(t, m, keyEnter)

	assert.Zero(t, repo.Len())
	assert.Contains(t, m.status, "7 field(s)")
	assert.Contains(t, m.View(), "Name is required.")
	assert.Contains(t, m.View(), "No record found.")
}

func TestEditAndDeleteSelectedRow(t *testing.T) {
	m, repo := newConsole(t)
	m = fillForm(t, m, "Anna", "20", "60", "50", "70", "40", "80")
	m = press(t, m, keyEnter)

	m = press(t, m, keyEdit)
	assert.Equal(t, service.LabelUpdate, m.view.Form.SubmitLabel)
	assert.Equal(t, "Anna", m.inputs[0].Value())
	assert.Equal(t, 0, m.focus)

	m = press(t, m, keyDel)
	assert.Zero(t, repo.Len())
	assert.Equal(t, service.LabelAdd, m.view.Form.SubmitLabel)
	assert.Contains(t, m.status, "Deleted Anna")

	m = press(t, m, keyEsc)
	assert.Equal(t, "", m.inputs[0].Value())
}

func TestFilterInputsNarrowTable(t *testing.T) {
	m, _ := newConsole(t)
	m = fillForm(t, m, "Anna", "20", "60", "60", "60", "60", "60")
	m = press(t, m, keyEnter)
	m = press(t, m, keyTab)
	require.Equal(t, focusFilterName, m.focus)

	m = typeText(t, m, "bob")
	assert.Empty(t, m.view.Records)
	assert.Contains(t, m.View(), "No record found.")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	m = press(t, m, keyTab)
	m = typeText(t, m, "FIRST")
	require.Len(t, m.view.Records, 1)
	assert.Equal(t, model.DivisionFirst, m.view.Records[0].Division)
}

func TestFocusWrapsAround(t *testing.T) {
	m, _ := newConsole(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusTable, m.focus)
	m = press(t, m, keyTab)
	assert.Equal(t, 0, m.focus)
}

func TestInputsAcceptSharedMaximumLength(t *testing.T) {
	m, _ := newConsole(t)
	m = typeText(t, m, strings.Repeat("a", model.MaxInputLength+20))

	assert.Len(t, m.inputs[0].Value(), model.MaxInputLength)
	assert.Len(t, m.view.Form.Fields.Name, model.MaxInputLength)
}
