package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/gateway"
	"github.com/csheth/paperlens/internal/wizard"
)

type actionID string

const (
	actionHelp          actionID = "help"
	actionAbout         actionID = "about"
	actionHistory       actionID = "history"
	actionToggleTheme   actionID = "toggle-theme"
	actionCloseOverlay  actionID = "close-overlay"
	actionForward       actionID = "forward"
	actionBack          actionID = "back"
	actionStepSearch    actionID = "step-search"
	actionStepVisualize actionID = "step-visualize"
	actionStepExport    actionID = "step-export"
	actionVisualize     actionID = "visualize"
	actionOpenDashboard actionID = "open-dashboard"
	actionFormatUp      actionID = "format-up"
	actionFormatDown    actionID = "format-down"
	actionExport        actionID = "export"
	actionOpenExport    actionID = "open-export"
	actionRevealExport  actionID = "reveal-export"
	actionDismissExport actionID = "dismiss-export"
)

// action binds keys to a handler. available gates both dispatch and
// whether the key shows up in the footer.
type action struct {
	id        actionID
	keys      key.Binding
	available func(m *model) bool
	run       func(m *model) tea.Cmd
}

func binding(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

func always(*model) bool { return true }

func noOverlay(m *model) bool { return m.overlay == overlayNone }

func onStep(step wizard.Step) func(*model) bool {
	return func(m *model) bool { return m.overlay == overlayNone && m.step() == step }
}

func confirming(m *model) bool {
	return onStep(wizard.StepExport)(m) && m.session.LastExport != nil
}

func choosingFormat(m *model) bool {
	return onStep(wizard.StepExport)(m) && m.session.LastExport == nil
}

func jumpTo(step wizard.Step) func(*model) tea.Cmd {
	return func(m *model) tea.Cmd {
		if !m.session.Wizard.Selectable(step, m.session.HasPapers()) {
			m.setError(m.step(), "Search for papers before moving on.")
			return nil
		}
		return m.goToStep(step)
	}
}

// actions is the key dispatch table, filled in init because its handlers
// reach back into model methods that consult it.
var actions []action

func init() {
	actions = []action{
		{id: actionHelp, keys: binding("help", "f1", "?"), available: func(m *model) bool {
			return m.overlay == overlayNone || m.overlay == overlayHelp
		}, run: func(m *model) tea.Cmd {
			m.toggleOverlay(overlayHelp)
			return nil
		}},
		{id: actionAbout, keys: binding("about", "ctrl+a"), available: always, run: func(m *model) tea.Cmd {
			m.toggleOverlay(overlayAbout)
			return nil
		}},
		{id: actionHistory, keys: binding("history", "ctrl+r"), available: always, run: func(m *model) tea.Cmd {
			m.openHistory()
			return nil
		}},
		{id: actionToggleTheme, keys: binding("theme", "ctrl+d"), available: always, run: func(m *model) tea.Cmd {
			return m.toggleTheme()
		}},
		{id: actionCloseOverlay, keys: binding("close", "esc"), available: func(m *model) bool {
			return m.overlay != overlayNone
		}, run: func(m *model) tea.Cmd {
			m.overlay = overlayNone
			return nil
		}},
		{id: actionForward, keys: binding("next", "ctrl+n"), available: func(m *model) bool {
			return noOverlay(m) && m.session.Nav().Visible
		}, run: func(m *model) tea.Cmd {
			if m.session.Nav().ForwardRestarts {
				return m.afterTransition(m.session.Restart())
			}
			t, _ := m.session.Wizard.Next()
			return m.afterTransition(t)
		}},
		{id: actionBack, keys: binding("back", "ctrl+b"), available: func(m *model) bool {
			return noOverlay(m) && m.session.Nav().ShowBack
		}, run: func(m *model) tea.Cmd {
			t, ok := m.session.Wizard.Previous()
			if !ok {
				return nil
			}
			return m.afterTransition(t)
		}},
		{id: actionStepSearch, keys: binding("search step", "f2"), available: noOverlay, run: jumpTo(wizard.StepSearch)},
		{id: actionStepVisualize, keys: binding("visualize step", "f3"), available: noOverlay, run: jumpTo(wizard.StepVisualize)},
		{id: actionStepExport, keys: binding("export step", "f4"), available: noOverlay, run: jumpTo(wizard.StepExport)},
		{id: actionVisualize, keys: binding("generate", "enter", "g"), available: onStep(wizard.StepVisualize), run: func(m *model) tea.Cmd {
			return m.visualizeCmd()
		}},
		{id: actionOpenDashboard, keys: binding("open dashboard", "o"), available: func(m *model) bool {
			return onStep(wizard.StepVisualize)(m) && m.session.DashboardPath != ""
		}, run: func(m *model) tea.Cmd {
			return m.openPathCmd(gateway.ControlOpenDashboard, m.session.DashboardPath)
		}},
		{id: actionFormatUp, keys: binding("prev format", "up", "k"), available: choosingFormat, run: func(m *model) tea.Cmd {
			m.exportCursor = cycle(m.exportCursor, -1, len(bridge.ExportFormats))
			return nil
		}},
		{id: actionFormatDown, keys: binding("next format", "down", "j"), available: choosingFormat, run: func(m *model) tea.Cmd {
			m.exportCursor = cycle(m.exportCursor, 1, len(bridge.ExportFormats))
			return nil
		}},
		{id: actionExport, keys: binding("export", "enter", "e"), available: choosingFormat, run: func(m *model) tea.Cmd {
			return m.exportCmd(bridge.ExportFormats[m.exportCursor])
		}},
		{id: actionOpenExport, keys: binding("open file", "o"), available: confirming, run: func(m *model) tea.Cmd {
			path := m.session.LastExport.Filepath
			m.session.DismissExport()
			m.exportSummary = nil
			return m.openPathCmd(gateway.ControlOpenFile, path)
		}},
		{id: actionRevealExport, keys: binding("show in folder", "f"), available: confirming, run: func(m *model) tea.Cmd {
			path := m.session.LastExport.Filepath
			m.session.DismissExport()
			m.exportSummary = nil
			return m.openPathCmd(gateway.ControlOpenFileManager, path)
		}},
		{id: actionDismissExport, keys: binding("dismiss", "d", "esc"), available: confirming, run: func(m *model) tea.Cmd {
			m.session.DismissExport()
			m.exportSummary = nil
			return nil
		}},
	}
}

// dispatchKey runs the first available action bound to msg.
func (m *model) dispatchKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	for _, a := range actions {
		if !key.Matches(msg, a.keys) || !a.available(m) {
			continue
		}
		if m.step() == wizard.StepSearch && m.overlay == overlayNone && typesText(msg) {
			continue
		}
		return a.run(m), true
	}
	return nil, false
}

// typesText reports keys that belong to a focused text field on the search
// page.
func typesText(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
}

func (m *model) commandAvailable(id actionID) bool {
	for _, a := range actions {
		if a.id == id {
			return a.available(m)
		}
	}
	return false
}

// footerActions lists the actions usable right now.
func (m *model) footerActions() []action {
	var out []action
	for _, a := range actions {
		if a.available(m) {
			out = append(out, a)
		}
	}
	return out
}

func (m *model) toggleOverlay(o overlay) {
	if m.overlay == o {
		m.overlay = overlayNone
		return
	}
	m.overlay = o
}
