package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/gateway"
	"github.com/csheth/paperlens/internal/wizard"
)

// busy wraps a dispatched command with the spinner tick. A nil cmd means
// the gateway dropped the activation and nothing should change.
func (m *model) busy(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *model) searchCmd() tea.Cmd {
	if m.gateway.Busy(gateway.ControlSearch) {
		return nil
	}
	req, err := m.searchForm().Validate()
	if err != nil {
		m.validationFocus(err)
		m.setError(wizard.StepSearch, err.Error())
		return nil
	}
	b := m.config.Bridge
	cmd := gateway.Dispatch(m.gateway, gateway.ControlSearch, bridge.OpSearchPapers,
		func(ctx context.Context) bridge.Outcome[bridge.SearchResult] { return b.SearchPapers(ctx, req) },
		func(o bridge.Outcome[bridge.SearchResult]) tea.Msg { return searchResultMsg{req: req, outcome: o} },
	)
	if cmd != nil {
		m.setInfo(wizard.StepSearch, fmt.Sprintf("Searching %s for %q…", req.Source, req.Query))
	}
	return m.busy(cmd)
}

func (m *model) visualizeCmd() tea.Cmd {
	if !m.session.HasPapers() {
		m.setError(wizard.StepVisualize, "No papers to visualize")
		return nil
	}
	b := m.config.Bridge
	papers, gen := m.session.Papers(), m.session.Generation()
	cmd := gateway.Dispatch(m.gateway, gateway.ControlVisualize, bridge.OpGenerateVisualizations,
		func(ctx context.Context) bridge.Outcome[bridge.VisualizationResult] {
			return b.GenerateVisualizations(ctx, papers)
		},
		func(o bridge.Outcome[bridge.VisualizationResult]) tea.Msg { return vizResultMsg{generation: gen, outcome: o} },
	)
	if cmd != nil {
		m.setInfo(wizard.StepVisualize, fmt.Sprintf("Generating visualizations for %d papers…", len(papers)))
	}
	return m.busy(cmd)
}

func (m *model) exportCmd(format string) tea.Cmd {
	if !m.session.HasPapers() {
		m.setError(wizard.StepExport, "No papers to export")
		return nil
	}
	b := m.config.Bridge
	papers := m.session.Papers()
	cmd := gateway.Dispatch(m.gateway, gateway.ControlExport, bridge.OpExportData,
		func(ctx context.Context) bridge.Outcome[bridge.ExportResult] { return b.ExportData(ctx, format, papers) },
		func(o bridge.Outcome[bridge.ExportResult]) tea.Msg { return exportResultMsg{format: format, outcome: o} },
	)
	if cmd != nil {
		m.setInfo(wizard.StepExport, fmt.Sprintf("Exporting %d papers as %s…", len(papers), format))
	}
	return m.busy(cmd)
}

func (m *model) statisticsCmd() tea.Cmd {
	b := m.config.Bridge
	papers, gen := m.session.Papers(), m.session.Generation()
	return m.busy(gateway.Dispatch(m.gateway, gateway.ControlStatistics, bridge.OpGetPaperStatistics,
		func(ctx context.Context) bridge.Outcome[bridge.Statistics] { return b.GetPaperStatistics(ctx, papers) },
		func(o bridge.Outcome[bridge.Statistics]) tea.Msg { return statsResultMsg{generation: gen, outcome: o} },
	))
}

func (m *model) appInfoCmd() tea.Cmd {
	b := m.config.Bridge
	if b == nil {
		return nil
	}
	return gateway.Dispatch(m.gateway, gateway.ControlAppInfo, bridge.OpGetAppInfo,
		func(ctx context.Context) bridge.Outcome[bridge.AppInfo] { return b.GetAppInfo(ctx) },
		func(o bridge.Outcome[bridge.AppInfo]) tea.Msg { return appInfoMsg{outcome: o} },
	)
}

// openPathCmd asks the host to open path, either directly or by revealing
// it in the file manager.
func (m *model) openPathCmd(control gateway.Control, path string) tea.Cmd {
	b := m.config.Bridge
	op := bridge.OpOpenFile
	call := b.OpenFile
	if control == gateway.ControlOpenFileManager {
		op = bridge.OpOpenFileManager
		call = b.OpenFileManager
	}
	return m.busy(gateway.Dispatch(m.gateway, control, op,
		func(ctx context.Context) bridge.Outcome[bridge.Empty] { return call(ctx, path) },
		func(o bridge.Outcome[bridge.Empty]) tea.Msg { return fileActionMsg{control: control, path: path, outcome: o} },
	))
}

func writeDashboardCmd(page Dashboard, dir string, generation int) tea.Cmd {
	return func() tea.Msg {
		path, err := page.WriteFile(dir)
		return dashboardWrittenMsg{generation: generation, path: path, err: err}
	}
}
