package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/uche09/rolodex/internal/contact"
	"github.com/uche09/rolodex/internal/mem"
	"github.com/uche09/rolodex/internal/search"
)

// mode is the interactive screen currently shown.
type mode int

const (
	modeMenu mode = iota
	modeInput
	modeResult
)

// action is the menu entry being executed.
type action int

const (
	actionNone action = iota
	actionAdd
	actionSearch
	actionDelete
)

// addFields are prompted one at a time for a new contact.
var addFields = []string{"name", "phone", "email", "tag"}

// Model is the interactive menu over a loaded store. Mutations are
// applied in memory; the caller persists the store after the program
// exits if Dirty reports true.
type Model struct {
	store  *mem.Store
	engine *search.Engine
	styles Styles

	mode   mode
	action action
	input  textinput.Model
	step   int
	fields []string
	result string
	dirty  bool
}

// NewModel creates the interactive model for a store.
func NewModel(store *mem.Store) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	return Model{
		store:  store,
		engine: search.NewEngine(store),
		styles: DefaultStyles(),
		input:  ti,
	}
}

// Dirty reports whether any mutation happened during the session.
func (m Model) Dirty() bool { return m.dirty }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeMenu:
		return m.updateMenu(key)
	case modeInput:
		return m.updateInput(msg, key)
	default:
		m.mode = modeMenu
		return m, nil
	}
}

func (m Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "a":
		return m.startInput(actionAdd, "name"), textinput.Blink
	case "s":
		return m.startInput(actionSearch, "search query"), textinput.Blink
	case "d":
		return m.startInput(actionDelete, "contact id"), textinput.Blink
	case "l":
		m.result = m.renderList()
		m.mode = modeResult
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) startInput(a action, placeholder string) Model {
	m.action = a
	m.mode = modeInput
	m.step = 0
	m.fields = nil
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.Focus()
	return m
}

func (m Model) updateInput(msg tea.Msg, key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeMenu
		m.input.Blur()
		return m, nil
	case "enter":
		return m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	switch m.action {
	case actionAdd:
		m.fields = append(m.fields, value)
		m.step++
		if m.step < len(addFields) {
			m.input.Placeholder = addFields[m.step]
			return m, nil
		}
		m.result = m.finishAdd()
	case actionSearch:
		m.result = m.runSearch(value)
	case actionDelete:
		m.result = m.runDelete(value)
	}
	m.mode = modeResult
	m.input.Blur()
	return m, nil
}

func (m *Model) finishAdd() string {
	c := contact.New(m.fields[0], m.fields[1], m.fields[2], m.fields[3])
	if c.Name == "" || c.Phone == "" {
		return m.styles.Error.Render("name and phone are required")
	}
	if dup, found := m.store.FindIdentity(c); found {
		return m.styles.Warning.Render(
			fmt.Sprintf("already in rolodex as %q (%s)", dup.Name, dup.ID))
	}
	if err := m.store.Add(c); err != nil {
		return m.styles.Error.Render(err.Error())
	}
	m.dirty = true
	return m.styles.Success.Render(fmt.Sprintf("added %q (%s)", c.Name, c.ID))
}

func (m *Model) runSearch(query string) string {
	results, err := m.engine.FuzzySearch(context.Background(), query)
	if err != nil {
		return m.styles.Error.Render(err.Error())
	}
	if len(results) == 0 {
		return m.styles.Dim.Render("no matches")
	}
	var b strings.Builder
	for _, c := range results {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			m.styles.Value.Render(c.Name),
			m.styles.Label.Render(c.Phone),
			m.styles.Dim.Render(c.ID)))
	}
	return b.String()
}

func (m *Model) runDelete(id string) string {
	if err := m.store.Delete(id); err != nil {
		return m.styles.Error.Render(err.Error())
	}
	m.dirty = true
	return m.styles.Success.Render(fmt.Sprintf("deleted %s", id))
}

func (m Model) renderList() string {
	all := m.store.All()
	if len(all) == 0 {
		return m.styles.Dim.Render("no contacts")
	}
	var b strings.Builder
	for _, c := range all {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			m.styles.Value.Render(c.Name),
			m.styles.Label.Render(c.Phone),
			m.styles.Dim.Render(c.Email)))
	}
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("rolodex"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeMenu:
		b.WriteString(m.styles.Label.Render("[a]dd  [s]earch  [l]ist  [d]elete  [q]uit"))
		b.WriteString("\n")
	case modeInput:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("enter to confirm, esc to cancel"))
		b.WriteString("\n")
	case modeResult:
		b.WriteString(m.result)
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("press any key for the menu"))
		b.WriteString("\n")
	}
	return m.styles.Panel.Render(b.String())
}

// RunTUI runs the interactive menu and reports whether the store was
// mutated, so the caller knows to persist it.
func RunTUI(store *mem.Store) (bool, error) {
	final, err := tea.NewProgram(NewModel(store)).Run()
	if err != nil {
		return false, err
	}
	model, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return model.Dirty(), nil
}
