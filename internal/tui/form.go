package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/session"
)

func (m *model) searchForm() session.SearchForm {
	return session.SearchForm{
		Query:      m.query.Value(),
		Source:     bridge.Sources[m.sourceIdx],
		SearchType: bridge.SearchTypes[m.typeIdx],
		MaxResults: m.maxResults.Value(),
		FromYear:   m.fromYear.Value(),
	}
}

func (m *model) input(field formField) *textinput.Model {
	switch field {
	case fieldQuery:
		return &m.query
	case fieldMaxResults:
		return &m.maxResults
	case fieldFromYear:
		return &m.fromYear
	default:
		return nil
	}
}

func (m *model) focusField(field formField) {
	m.blurForm()
	m.focus = field
	if in := m.input(field); in != nil {
		in.Focus()
	}
}

func (m *model) blurForm() {
	m.query.Blur()
	m.maxResults.Blur()
	m.fromYear.Blur()
}

func fieldFor(name string) formField {
	switch name {
	case session.FieldMaxResults:
		return fieldMaxResults
	case session.FieldFromYear:
		return fieldFromYear
	default:
		return fieldQuery
	}
}

// validationFocus moves focus to the field a validation error names.
func (m *model) validationFocus(err error) bool {
	var verr *session.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	m.focusField(fieldFor(verr.Field))
	return true
}

func (m *model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		m.focusField((m.focus + 1) % fieldCount)
		return nil
	case "shift+tab", "up":
		m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return nil
	case "enter":
		return m.searchCmd()
	case "pgdown":
		m.viewport.ViewDown()
		return nil
	case "pgup":
		m.viewport.ViewUp()
		return nil
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch m.focus {
		case fieldSource:
			m.sourceIdx = cycle(m.sourceIdx, delta, len(bridge.Sources))
			return nil
		case fieldSearchType:
			m.typeIdx = cycle(m.typeIdx, delta, len(bridge.SearchTypes))
			return nil
		}
	}
	in := m.input(m.focus)
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

func cycle(idx, delta, n int) int {
	return ((idx+delta)%n + n) % n
}
