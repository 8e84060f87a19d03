package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/gateway"
	"github.com/csheth/paperlens/internal/wizard"
)

var formatLabels = map[string]string{
	"csv":   "CSV spreadsheet",
	"excel": "Excel workbook",
	"json":  "JSON records",
	"pdf":   "PDF report",
}

func (m *model) View() string {
	if !m.ready {
		return m.loadingView()
	}
	parts := []string{m.heroView(), m.stepBarView()}
	switch m.overlay {
	case overlayHelp:
		parts = append(parts, m.helpView())
	case overlayAbout:
		parts = append(parts, m.aboutView())
	case overlayHistory:
		parts = append(parts, m.historyView())
	default:
		parts = append(parts, m.pageView(), m.statusView(), m.navView())
	}
	parts = append(parts, m.footerView())
	return joinNonEmpty(parts)
}

func (m *model) loadingView() string {
	return joinNonEmpty([]string{
		m.theme.title.Render("PaperLens"),
		m.theme.busy.Render(m.spinner.View() + " Initializing components..."),
	})
}

func (m *model) appName() string {
	if info := m.session.AppInfo; info != nil && info.Name != "" {
		if info.Version != "" {
			return fmt.Sprintf("%s v%s", info.Name, strings.TrimPrefix(info.Version, "v"))
		}
		return info.Name
	}
	return "PaperLens"
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.title.Render(m.appName()),
		m.theme.tagline.Render(heroTagline),
	)
}

func (m *model) stepBarView() string {
	t := m.theme
	hasPapers := m.session.HasPapers()
	var cells []string
	for _, ind := range m.session.Wizard.Indicators() {
		label := fmt.Sprintf("%d %s", int(ind.Step), ind.Step)
		var cell string
		switch {
		case ind.State == wizard.IndicatorActive:
			cell = t.stepActive.Render(label)
		case ind.State == wizard.IndicatorCompleted:
			cell = t.stepDone.Render("✓ " + label)
		case !m.session.Wizard.Selectable(ind.Step, hasPapers):
			cell = t.stepDisabled.Render(label)
		default:
			cell = t.stepPending.Render(label)
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, t.helper.Render(" › "))
}

// pageView draws the step's fixed panel above the scrolling viewport.
func (m *model) pageView() string {
	return joinNonEmpty([]string{m.panelView(), m.viewport.View()})
}

func (m *model) panelView() string {
	switch m.step() {
	case wizard.StepVisualize:
		return m.visualizePanel()
	case wizard.StepExport:
		return m.exportPanel()
	default:
		return m.searchPanel()
	}
}

func (m *model) searchPanel() string {
	t := m.theme
	rows := []string{t.sectionHeader.Render("Search papers")}
	for f := fieldQuery; f < fieldCount; f++ {
		marker := "  "
		if f == m.focus {
			marker = t.busy.Render("▸ ")
		}
		var value string
		switch f {
		case fieldSource:
			value = selector(bridge.Sources[m.sourceIdx], f == m.focus)
		case fieldSearchType:
			value = selector(bridge.SearchTypes[m.typeIdx], f == m.focus)
		default:
			value = m.input(f).View()
		}
		rows = append(rows, fmt.Sprintf("%s%-12s %s", marker, fieldLabels[f], value))
	}
	if m.gateway.Busy(gateway.ControlSearch) {
		rows = append(rows, m.busyLine("Searching…"))
	} else {
		rows = append(rows, t.helper.Render("Tab: next field • ←/→: change option • Enter: search"))
	}
	return strings.Join(rows, "\n")
}

func selector(value string, focused bool) string {
	if focused {
		return "‹ " + value + " ›"
	}
	return value
}

func (m *model) visualizePanel() string {
	t := m.theme
	rows := []string{
		t.sectionHeader.Render("Visualize"),
		fmt.Sprintf("%d papers ready for charting.", len(m.session.Papers())),
	}
	switch {
	case m.gateway.Busy(gateway.ControlVisualize):
		rows = append(rows, m.busyLine("Generating visualizations…"))
	case m.session.DashboardPath != "":
		rows = append(rows, t.helper.Render("Dashboard: "+m.session.DashboardPath))
		rows = append(rows, t.helper.Render("Enter: regenerate • o: open dashboard"))
	default:
		rows = append(rows, t.helper.Render("Enter: generate visualizations"))
	}
	if m.gateway.Busy(gateway.ControlOpenDashboard) {
		rows = append(rows, m.busyLine("Opening dashboard…"))
	}
	return strings.Join(rows, "\n")
}

func (m *model) exportPanel() string {
	t := m.theme
	if rec := m.session.LastExport; rec != nil {
		rows := []string{
			t.success.Render("✓ Export complete"),
			fmt.Sprintf("Format: %s", rec.Format),
			"File: " + rec.Filepath,
		}
		if m.exportSummary != nil {
			rows = append(rows, t.helper.Render(m.exportSummary.Line()))
		}
		rows = append(rows, t.helper.Render("o: open file • f: show in folder • d: dismiss"))
		return t.confirmBox.Render(strings.Join(rows, "\n"))
	}
	rows := []string{t.sectionHeader.Render("Export")}
	for i, format := range bridge.ExportFormats {
		line := fmt.Sprintf("%-6s %s", format, formatLabels[format])
		if i == m.exportCursor {
			line = t.cursorLine.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	if m.gateway.Busy(gateway.ControlExport) {
		rows = append(rows, m.busyLine("Exporting…"))
	} else {
		rows = append(rows, t.helper.Render("↑/↓: choose format • Enter: export"))
	}
	return strings.Join(rows, "\n")
}

func (m *model) busyLine(label string) string {
	return m.theme.busy.Render(m.spinner.View() + " " + label)
}

func (m *model) statusView() string {
	line, ok := m.status[m.step()]
	if !ok {
		return ""
	}
	t := m.theme
	switch line.kind {
	case statusError:
		return t.err.Render(line.text)
	case statusSuccess:
		return t.success.Render(line.text)
	default:
		return t.info.Render(line.text)
	}
}

func (m *model) navView() string {
	nav := m.session.Nav()
	if !nav.Visible {
		return ""
	}
	var items []string
	if nav.ShowBack {
		items = append(items, "ctrl+b ‹ Back")
	}
	forward := "ctrl+n " + nav.ForwardLabel + " ›"
	if nav.ForwardRestarts {
		forward = "ctrl+n ↺ " + nav.ForwardLabel
	}
	items = append(items, forward)
	return m.theme.navBar.Render(strings.Join(items, "    "))
}

func (m *model) footerView() string {
	t := m.theme
	var cells []string
	for _, a := range m.footerActions() {
		h := a.keys.Help()
		cells = append(cells, t.key.Render(h.Key)+t.keyDesc.Render(" "+h.Desc))
	}
	cells = append(cells, t.key.Render("ctrl+c")+t.keyDesc.Render(" quit"))
	width := m.layout.windowWidth
	if width <= 0 {
		return strings.Join(cells, " ")
	}
	// wrap the key hints onto as many rows as the terminal needs
	var rows []string
	var row string
	for _, cell := range cells {
		switch {
		case row == "":
			row = cell
		case lipgloss.Width(row)+1+lipgloss.Width(cell) > width:
			rows = append(rows, row)
			row = cell
		default:
			row += " " + cell
		}
	}
	rows = append(rows, row)
	return strings.Join(rows, "\n")
}

func (m *model) helpView() string {
	t := m.theme
	rows := []string{t.sectionHeader.Render("Keys")}
	for _, a := range actions {
		h := a.keys.Help()
		rows = append(rows, fmt.Sprintf("%-16s %s", strings.Join(a.keys.Keys(), " / "), h.Desc))
	}
	rows = append(rows,
		"",
		t.sectionHeader.Render("Search form"),
		t.helper.Render("tab / shift+tab moves between fields, ←/→ changes source and type, enter searches."),
		t.helper.Render("pgup / pgdown scrolls the results."),
		"",
		t.helper.Render("Press ? or esc to close."),
	)
	return t.overlayBox.Render(strings.Join(rows, "\n"))
}

func (m *model) aboutView() string {
	t := m.theme
	rows := []string{
		t.sectionHeader.Render(m.appName()),
		heroTagline,
		"",
		fmt.Sprintf("Theme: %s", t.name),
		fmt.Sprintf("Dashboards: %s", m.config.DashboardDir),
		fmt.Sprintf("Saved searches: %d", m.config.History.Len()),
	}
	if m.session.AppInfo == nil {
		rows = append(rows, t.helper.Render("Host information unavailable."))
	}
	rows = append(rows, "", t.helper.Render("Press esc to close."))
	return t.overlayBox.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
