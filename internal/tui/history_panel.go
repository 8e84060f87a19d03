package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/history"
	"github.com/csheth/paperlens/internal/wizard"
)

func (m *model) openHistory() {
	if m.overlay == overlayHistory {
		m.closeHistory()
		return
	}
	m.overlay = overlayHistory
	m.historyCursor = 0
	m.historyFilter.SetValue("")
	m.historyFilter.Focus()
	m.blurForm()
}

func (m *model) closeHistory() {
	m.overlay = overlayNone
	m.config.History.CancelClear()
	m.historyFilter.Blur()
	if m.step() == wizard.StepSearch {
		m.focusField(m.focus)
	}
}

// visibleHistory is the filtered list currently on screen.
func (m *model) visibleHistory() []history.Entry {
	return m.config.History.Filter(m.historyFilter.Value())
}

func (m *model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	store := m.config.History
	ctx := context.Background()

	if store.ClearPending() {
		switch msg.String() {
		case "y", "Y", "enter":
			store.ConfirmClear(ctx)
			m.closeHistory()
			m.setInfo(m.step(), "Search history cleared")
		default:
			store.CancelClear()
		}
		return nil
	}

	entries := m.visibleHistory()
	switch msg.String() {
	case "esc", "ctrl+r":
		m.closeHistory()
		return nil
	case "up", "ctrl+p":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		return nil
	case "down", "ctrl+n":
		if m.historyCursor < len(entries)-1 {
			m.historyCursor++
		}
		return nil
	case "enter":
		if len(entries) == 0 {
			return nil
		}
		m.applyHistoryEntry(entries[m.historyCursor])
		return nil
	case "ctrl+x", "delete":
		if len(entries) == 0 {
			return nil
		}
		store.Delete(ctx, entries[m.historyCursor].ID)
		if remaining := len(m.visibleHistory()); m.historyCursor >= remaining && remaining > 0 {
			m.historyCursor = remaining - 1
		}
		return nil
	case "ctrl+l":
		store.RequestClear()
		return nil
	}

	var cmd tea.Cmd
	before := m.historyFilter.Value()
	m.historyFilter, cmd = m.historyFilter.Update(msg)
	if m.historyFilter.Value() != before {
		m.historyCursor = 0
	}
	return cmd
}

// applyHistoryEntry refills the search form from entry and returns to the
// search page. It does not start a search.
func (m *model) applyHistoryEntry(entry history.Entry) {
	m.query.SetValue(entry.Query)
	m.query.CursorEnd()
	if i := indexOf(bridge.Sources, entry.Source); bridge.Sources[i] == entry.Source {
		m.sourceIdx = i
	}
	if i := indexOf(bridge.SearchTypes, entry.SearchType); bridge.SearchTypes[i] == entry.SearchType {
		m.typeIdx = i
	}
	m.focus = fieldQuery
	m.closeHistory()
	if m.step() != wizard.StepSearch {
		m.goToStep(wizard.StepSearch)
	}
	m.setInfo(wizard.StepSearch, fmt.Sprintf("Loaded %q from history. Press Enter to search.", entry.Query))
}

func (m *model) historyView() string {
	t := m.theme
	store := m.config.History
	lines := []string{t.sectionHeader.Render("Search History"), m.historyFilter.View(), ""}

	entries := m.visibleHistory()
	switch {
	case store.Len() == 0:
		lines = append(lines, t.helper.Render("No searches yet."))
	case len(entries) == 0:
		lines = append(lines, t.helper.Render("No searches match this filter."))
	}
	for i, e := range entries {
		line := fmt.Sprintf("%-40s %s · %s · %s", clip(e.Query, 40), e.Source, e.SearchType, e.DisplayTime)
		if i == m.historyCursor {
			line = t.cursorLine.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	if store.ClearPending() {
		lines = append(lines, t.err.Render(fmt.Sprintf("Clear all %d searches? y to confirm, any other key to cancel.", store.Len())))
	} else {
		lines = append(lines, t.helper.Render("Enter: use • Ctrl+X: delete • Ctrl+L: clear all • Esc: close"))
	}
	if store.Degraded() {
		lines = append(lines, t.helper.Render("History is not being saved this session."))
	}
	return t.overlayBox.Render(strings.Join(lines, "\n"))
}
