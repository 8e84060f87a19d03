package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/bridge/bridgetest"
	"github.com/csheth/paperlens/internal/prefs"
	"github.com/csheth/paperlens/internal/wizard"
)

type fakeBridge struct {
	calls      map[string]int
	lastSearch bridge.SearchRequest
	lastPapers []bridge.Paper
	lastFormat string
	lastOpened string

	search bridge.Outcome[bridge.SearchResult]
	viz    bridge.Outcome[bridge.VisualizationResult]
	export bridge.Outcome[bridge.ExportResult]
	stats  bridge.Outcome[bridge.Statistics]
	open   bridge.Outcome[bridge.Empty]
	// statsFor, when set, answers statistics calls instead of stats.
	statsFor func([]bridge.Paper) bridge.Outcome[bridge.Statistics]
}

func newFakeBridge() *fakeBridge {
	papers := bridgetest.Papers(3)
	return &fakeBridge{
		calls:  map[string]int{},
		search: bridge.Succeeded(bridge.SearchResult{Papers: papers, Count: len(papers)}),
		viz: bridge.Succeeded(bridge.VisualizationResult{
			Visualizations: bridgetest.Bundle("years", "citations", "timeline"),
		}),
		export: bridge.Failed[bridge.ExportResult]("export not configured"),
		stats:  bridge.Succeeded(bridgetest.Statistics()),
		open:   bridge.Succeeded(bridge.Empty{}),
	}
}

func (f *fakeBridge) SearchPapers(_ context.Context, req bridge.SearchRequest) bridge.Outcome[bridge.SearchResult] {
	f.calls[bridge.OpSearchPapers]++
	f.lastSearch = req
	return f.search
}

func (f *fakeBridge) GenerateVisualizations(_ context.Context, papers []bridge.Paper) bridge.Outcome[bridge.VisualizationResult] {
	f.calls[bridge.OpGenerateVisualizations]++
	f.lastPapers = papers
	return f.viz
}

func (f *fakeBridge) ExportData(_ context.Context, format string, papers []bridge.Paper) bridge.Outcome[bridge.ExportResult] {
	f.calls[bridge.OpExportData]++
	f.lastFormat = format
	f.lastPapers = papers
	return f.export
}

func (f *fakeBridge) GetPaperStatistics(_ context.Context, papers []bridge.Paper) bridge.Outcome[bridge.Statistics] {
	f.calls[bridge.OpGetPaperStatistics]++
	f.lastPapers = papers
	if f.statsFor != nil {
		return f.statsFor(papers)
	}
	return f.stats
}

func (f *fakeBridge) GetAppInfo(context.Context) bridge.Outcome[bridge.AppInfo] {
	f.calls[bridge.OpGetAppInfo]++
	return bridge.Succeeded(bridge.AppInfo{Name: "PaperLens", Version: "2.1.0"})
}

func (f *fakeBridge) OpenFile(_ context.Context, path string) bridge.Outcome[bridge.Empty] {
	f.calls[bridge.OpOpenFile]++
	f.lastOpened = path
	return f.open
}

func (f *fakeBridge) OpenFileManager(_ context.Context, path string) bridge.Outcome[bridge.Empty] {
	f.calls[bridge.OpOpenFileManager]++
	f.lastOpened = path
	return f.open
}

func newTestModel(t *testing.T, b bridge.Bridge, store prefs.Store) *model {
	t.Helper()
	if store == nil {
		store = prefs.NewMemoryStore()
	}
	return newModel(Config{
		Bridge:       b,
		Prefs:        store,
		DashboardDir: t.TempDir(),
		SkipLoading:  true,
		Now:          func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
}

// drain runs cmd and feeds every resulting message back into the model
// until no work is left.
func drain(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("command queue did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func press(m *model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func searchFor(t *testing.T, m *model, query string) {
	t.Helper()
	m.query.SetValue(query)
	drain(t, m, press(m, keyOf(tea.KeyEnter)))
}

func TestSearchThenVisualize(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)

	if m.session.Nav().Visible {
		t.Fatal("nav bar should be hidden before the first search")
	}
	drain(t, m, press(m, runes("transformer")))
	m.maxResults.SetValue("50")
	m.fromYear.SetValue("2021")
	drain(t, m, press(m, keyOf(tea.KeyEnter)))

	if fb.calls[bridge.OpSearchPapers] != 1 {
		t.Fatalf("expected one search call, got %d", fb.calls[bridge.OpSearchPapers])
	}
	req := fb.lastSearch
	if req.Query != "transformer" || req.Source != "all" || req.SearchType != "all" || req.MaxResults != 50 {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.FromYear == nil || *req.FromYear != 2021 {
		t.Fatalf("expected from year 2021, got %v", req.FromYear)
	}
	if len(m.session.Papers()) != 3 {
		t.Fatalf("expected 3 papers, got %d", len(m.session.Papers()))
	}
	if !m.session.Nav().Visible {
		t.Fatal("nav bar should unlock after results arrive")
	}
	if got := m.status[wizard.StepSearch].text; got != "Found 3 papers" {
		t.Fatalf("unexpected status %q", got)
	}
	if m.config.History.Len() != 1 {
		t.Fatalf("expected the search in history, got %d entries", m.config.History.Len())
	}

	drain(t, m, press(m, keyOf(tea.KeyCtrlN)))
	if m.step() != wizard.StepVisualize {
		t.Fatalf("expected visualize step, got %s", m.step())
	}
	drain(t, m, press(m, keyOf(tea.KeyEnter)))

	if fb.calls[bridge.OpGenerateVisualizations] != 1 {
		t.Fatalf("expected one visualization call, got %d", fb.calls[bridge.OpGenerateVisualizations])
	}
	if len(fb.lastPapers) != 3 {
		t.Fatalf("visualizations should receive the 3 papers, got %d", len(fb.lastPapers))
	}
	report := m.session.Viz
	if report == nil || report.Rendered != 3 || report.Total != 6 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := os.Stat(m.session.DashboardPath); err != nil {
		t.Fatalf("dashboard not written: %v", err)
	}
	if got := m.status[wizard.StepVisualize].text; got != "Visualizations generated successfully" {
		t.Fatalf("unexpected status %q", got)
	}
	if !strings.Contains(m.vizContent(), "3/6 visualizations rendered") {
		t.Fatalf("viz content missing report line:\n%s", m.vizContent())
	}
}

func TestSearchIsSingleFlight(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)
	m.query.SetValue("transformer")

	first := press(m, keyOf(tea.KeyEnter))
	second := press(m, keyOf(tea.KeyEnter))
	if first == nil {
		t.Fatal("first activation should dispatch")
	}
	if second != nil {
		t.Fatal("second activation should be dropped while the first is pending")
	}
	drain(t, m, first)
	if fb.calls[bridge.OpSearchPapers] != 1 {
		t.Fatalf("expected exactly one call, got %d", fb.calls[bridge.OpSearchPapers])
	}

	drain(t, m, press(m, keyOf(tea.KeyEnter)))
	if fb.calls[bridge.OpSearchPapers] != 2 {
		t.Fatalf("control should be released after completion, got %d calls", fb.calls[bridge.OpSearchPapers])
	}
}

func TestSearchValidationBlocksCall(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)
	m.query.SetValue("transformer")
	m.maxResults.SetValue("5")

	if cmd := press(m, keyOf(tea.KeyEnter)); cmd != nil {
		t.Fatal("invalid form should not dispatch")
	}
	if fb.calls[bridge.OpSearchPapers] != 0 {
		t.Fatal("bridge must not be called for an invalid form")
	}
	if m.focus != fieldMaxResults {
		t.Fatalf("focus should move to max results, got %v", m.focus)
	}
	line := m.status[wizard.StepSearch]
	if line.kind != statusError || line.text != "Max results must be between 10 and 1000" {
		t.Fatalf("unexpected status %+v", line)
	}

	m.query.SetValue("   ")
	m.maxResults.SetValue("50")
	press(m, keyOf(tea.KeyEnter))
	if got := m.status[wizard.StepSearch].text; got != "Please enter search keywords" {
		t.Fatalf("unexpected status %q", got)
	}
	if m.focus != fieldQuery {
		t.Fatalf("focus should move to the query, got %v", m.focus)
	}
}

func TestSearchFailureKeepsState(t *testing.T) {
	fb := newFakeBridge()
	fb.search = bridge.Failed[bridge.SearchResult]("host unreachable")
	m := newTestModel(t, fb, nil)

	searchFor(t, m, "transformer")

	if got := m.status[wizard.StepSearch].text; got != "Error: host unreachable" {
		t.Fatalf("unexpected status %q", got)
	}
	if m.session.HasPapers() || m.session.Nav().Visible {
		t.Fatal("a failed search must not unlock navigation")
	}
	if m.config.History.Len() != 0 {
		t.Fatal("failed searches are not recorded")
	}
}

func TestSearchWithNoResults(t *testing.T) {
	fb := newFakeBridge()
	fb.search = bridge.Succeeded(bridge.SearchResult{})
	m := newTestModel(t, fb, nil)

	searchFor(t, m, "nothing matches this")

	line := m.status[wizard.StepSearch]
	if line.kind != statusInfo || line.text != "No papers found. Try different keywords or sources." {
		t.Fatalf("unexpected status %+v", line)
	}
	if cmd := press(m, keyOf(tea.KeyF3)); cmd != nil || m.step() != wizard.StepSearch {
		t.Fatal("later steps stay locked without papers")
	}
}

func TestStatisticsFetchedOnEnteringExport(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)

	press(m, keyOf(tea.KeyF4))
	if m.step() != wizard.StepSearch || fb.calls[bridge.OpGetPaperStatistics] != 0 {
		t.Fatal("export must stay locked before a search")
	}

	searchFor(t, m, "transformer")
	drain(t, m, press(m, keyOf(tea.KeyF4)))
	if m.step() != wizard.StepExport {
		t.Fatalf("expected export step, got %s", m.step())
	}
	if fb.calls[bridge.OpGetPaperStatistics] != 1 {
		t.Fatalf("expected one statistics call, got %d", fb.calls[bridge.OpGetPaperStatistics])
	}
	content := m.statsContent()
	for _, want := range []string{"Papers: 3", "🥇 A. Vaswani (Google Brain)", "and 2 more", "#4 J. Uszkoreit"} {
		if !strings.Contains(content, want) {
			t.Fatalf("stats content missing %q:\n%s", want, content)
		}
	}

	drain(t, m, press(m, keyOf(tea.KeyCtrlB)))
	if fb.calls[bridge.OpGetPaperStatistics] != 1 {
		t.Fatal("leaving export must not refetch statistics")
	}
}

func TestStaleStatisticsRefetchedForNewPapers(t *testing.T) {
	fb := newFakeBridge()
	fb.statsFor = func(papers []bridge.Paper) bridge.Outcome[bridge.Statistics] {
		return bridge.Succeeded(bridge.Statistics{TotalPapers: len(papers), YearRange: "2021 - 2023"})
	}
	m := newTestModel(t, fb, nil)

	searchFor(t, m, "transformer")
	pending := press(m, keyOf(tea.KeyF4))
	if pending == nil {
		t.Fatal("entering export should start a statistics fetch")
	}
	drain(t, m, press(m, keyOf(tea.KeyCtrlN)))
	if m.step() != wizard.StepSearch {
		t.Fatalf("expected restart to the search step, got %s", m.step())
	}

	fb.search = bridge.Succeeded(bridge.SearchResult{Papers: bridgetest.Papers(1), Count: 1})
	searchFor(t, m, "diffusion")
	drain(t, m, press(m, keyOf(tea.KeyF4)))
	if m.step() != wizard.StepExport {
		t.Fatalf("expected export step, got %s", m.step())
	}

	drain(t, m, pending)
	if fb.calls[bridge.OpGetPaperStatistics] != 2 {
		t.Fatalf("expected the old fetch plus one for the new papers, got %d", fb.calls[bridge.OpGetPaperStatistics])
	}
	if len(fb.lastPapers) != 1 {
		t.Fatalf("refetch should use the new papers, got %d", len(fb.lastPapers))
	}
	if m.session.Stats == nil || m.session.Stats.TotalPapers != 1 {
		t.Fatalf("statistics should describe the new papers, got %+v", m.session.Stats)
	}
	if !strings.Contains(m.statsContent(), "Papers: 1") {
		t.Fatalf("stats content should show the new total:\n%s", m.statsContent())
	}
}

func TestStaleStatisticsDroppedOffExportStep(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)

	searchFor(t, m, "transformer")
	pending := press(m, keyOf(tea.KeyF4))
	drain(t, m, press(m, keyOf(tea.KeyCtrlN)))
	fb.search = bridge.Succeeded(bridge.SearchResult{Papers: bridgetest.Papers(1), Count: 1})
	searchFor(t, m, "diffusion")

	drain(t, m, pending)
	if m.session.Stats != nil {
		t.Fatalf("statistics for replaced papers must not be applied, got %+v", m.session.Stats)
	}
	if fb.calls[bridge.OpGetPaperStatistics] != 1 {
		t.Fatalf("no refetch off the export step, got %d calls", fb.calls[bridge.OpGetPaperStatistics])
	}

	drain(t, m, press(m, keyOf(tea.KeyF4)))
	if fb.calls[bridge.OpGetPaperStatistics] != 2 || m.session.Stats == nil {
		t.Fatal("entering export again should fetch for the new papers")
	}
}

func TestStaleVisualizationsDropped(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)

	searchFor(t, m, "transformer")
	drain(t, m, press(m, keyOf(tea.KeyCtrlN)))
	pending := press(m, keyOf(tea.KeyEnter))
	if pending == nil {
		t.Fatal("enter on the visualize step should dispatch")
	}
	drain(t, m, press(m, keyOf(tea.KeyCtrlB)))

	fb.search = bridge.Succeeded(bridge.SearchResult{Papers: bridgetest.Papers(1), Count: 1})
	searchFor(t, m, "diffusion")
	drain(t, m, pending)

	if m.session.Viz != nil || m.session.DashboardPath != "" {
		t.Fatalf("visualizations for replaced papers must not be applied: %+v %q", m.session.Viz, m.session.DashboardPath)
	}
	if entries, _ := os.ReadDir(m.config.DashboardDir); len(entries) != 0 {
		t.Fatalf("no dashboard should be written, found %d files", len(entries))
	}
	if _, ok := m.status[wizard.StepVisualize]; ok {
		t.Fatalf("pending status should be cleared, got %+v", m.status[wizard.StepVisualize])
	}

	m.Update(dashboardWrittenMsg{generation: m.session.Generation() - 1, path: "/tmp/old.html"})
	if m.session.DashboardPath != "" {
		t.Fatal("a dashboard saved for replaced papers must be ignored")
	}

	drain(t, m, press(m, keyOf(tea.KeyCtrlN)))
	drain(t, m, press(m, keyOf(tea.KeyEnter)))
	if m.session.Viz == nil || len(fb.lastPapers) != 1 {
		t.Fatal("visualizing the new papers should work once the old call resolved")
	}
}

func TestExportConfirmationFlow(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)
	path := filepath.Join(t.TempDir(), "papers.csv")
	if err := os.WriteFile(path, []byte("title,authors\na,b\nc,d\ne,f\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fb.export = bridge.Succeeded(bridge.ExportResult{Filepath: path})

	searchFor(t, m, "transformer")
	drain(t, m, press(m, keyOf(tea.KeyF4)))
	drain(t, m, press(m, keyOf(tea.KeyEnter)))

	if fb.calls[bridge.OpExportData] != 1 || fb.lastFormat != "csv" {
		t.Fatalf("expected one csv export, got %d calls format %q", fb.calls[bridge.OpExportData], fb.lastFormat)
	}
	if m.session.LastExport == nil || m.session.LastExport.Filepath != path {
		t.Fatalf("confirmation not shown: %+v", m.session.LastExport)
	}
	if m.exportSummary == nil || m.exportSummary.Rows != 3 {
		t.Fatalf("unexpected summary %+v", m.exportSummary)
	}
	if got := m.status[wizard.StepExport].text; got != "Successfully exported to: "+path {
		t.Fatalf("unexpected status %q", got)
	}
	if !m.commandAvailable(actionOpenExport) || m.commandAvailable(actionExport) {
		t.Fatal("confirmation should swap the format chooser for file actions")
	}

	drain(t, m, press(m, runes("o")))
	if fb.calls[bridge.OpOpenFile] != 1 || fb.lastOpened != path {
		t.Fatalf("expected open_file for %s, got %d calls for %q", path, fb.calls[bridge.OpOpenFile], fb.lastOpened)
	}
	if m.session.LastExport != nil {
		t.Fatal("opening the file dismisses the confirmation")
	}
	if got := m.status[wizard.StepExport].text; got != "Opened "+path {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestExportFormatSelection(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)
	fb.export = bridge.Failed[bridge.ExportResult]("disk full")

	searchFor(t, m, "transformer")
	drain(t, m, press(m, keyOf(tea.KeyF4)))
	press(m, keyOf(tea.KeyDown))
	press(m, keyOf(tea.KeyDown))
	drain(t, m, press(m, keyOf(tea.KeyEnter)))

	if fb.lastFormat != "json" {
		t.Fatalf("expected json export, got %q", fb.lastFormat)
	}
	if got := m.status[wizard.StepExport].text; got != "Error: disk full" {
		t.Fatalf("unexpected status %q", got)
	}
	if m.session.LastExport != nil {
		t.Fatal("failed exports do not open the confirmation")
	}
}

func TestRestartKeepsPapers(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)
	searchFor(t, m, "transformer")
	drain(t, m, press(m, keyOf(tea.KeyF4)))

	if nav := m.session.Nav(); !nav.ForwardRestarts || nav.ForwardLabel != "Restart" {
		t.Fatalf("unexpected nav on export %+v", nav)
	}
	drain(t, m, press(m, keyOf(tea.KeyCtrlN)))
	if m.step() != wizard.StepSearch {
		t.Fatalf("restart should return to search, got %s", m.step())
	}
	if len(m.session.Papers()) != 3 {
		t.Fatal("restart keeps the current results")
	}
}

func TestHistoryPanel(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)

	searchFor(t, m, "transformer")
	searchFor(t, m, "transformer")
	searchFor(t, m, "diffusion")
	if m.config.History.Len() != 2 {
		t.Fatalf("duplicate searches should collapse, got %d entries", m.config.History.Len())
	}

	press(m, keyOf(tea.KeyCtrlR))
	if m.overlay != overlayHistory {
		t.Fatal("ctrl+r should open history")
	}
	if !strings.Contains(m.View(), "Search History") {
		t.Fatal("history overlay not rendered")
	}
	press(m, keyOf(tea.KeyDown))
	press(m, keyOf(tea.KeyEnter))
	if m.overlay != overlayNone {
		t.Fatal("selecting an entry closes the panel")
	}
	if m.query.Value() != "transformer" {
		t.Fatalf("query not restored, got %q", m.query.Value())
	}

	press(m, keyOf(tea.KeyCtrlR))
	press(m, runes("diff"))
	if got := m.visibleHistory(); len(got) != 1 || got[0].Query != "diffusion" {
		t.Fatalf("filter mismatch: %+v", got)
	}
	press(m, keyOf(tea.KeyCtrlL))
	press(m, runes("n"))
	if m.config.History.Len() != 2 {
		t.Fatal("declining the clear keeps history")
	}
	press(m, keyOf(tea.KeyCtrlL))
	press(m, runes("y"))
	if m.config.History.Len() != 0 {
		t.Fatal("confirming the clear empties history")
	}
	if m.overlay != overlayNone {
		t.Fatal("clearing closes the panel")
	}
}

func TestDarkModePersists(t *testing.T) {
	store := prefs.NewMemoryStore()
	m := newTestModel(t, newFakeBridge(), store)
	if m.dark {
		t.Fatal("light theme is the default")
	}
	press(m, keyOf(tea.KeyCtrlD))
	if !m.dark || m.theme.name != "dark" {
		t.Fatal("ctrl+d should switch to the dark theme")
	}
	if !prefs.LoadDarkMode(context.Background(), store) {
		t.Fatal("dark mode not persisted")
	}

	again := newTestModel(t, newFakeBridge(), store)
	if !again.dark {
		t.Fatal("a new session should start dark")
	}
}

func TestSuccessStatusExpires(t *testing.T) {
	m := newTestModel(t, newFakeBridge(), nil)
	m.config.StatusTTL = time.Second

	if cmd := m.setSuccess(wizard.StepSearch, "done"); cmd == nil {
		t.Fatal("success messages should schedule expiry")
	}
	m.Update(statusExpiredMsg{seq: m.statusSeq})
	if _, ok := m.status[wizard.StepSearch]; ok {
		t.Fatal("success message should be hidden after expiry")
	}

	m.setSuccess(wizard.StepSearch, "first")
	stale := m.statusSeq
	m.setError(wizard.StepSearch, "newer error")
	m.Update(statusExpiredMsg{seq: stale})
	if got := m.status[wizard.StepSearch].text; got != "newer error" {
		t.Fatalf("a stale expiry must not hide newer messages, got %q", got)
	}
}

func TestViewStates(t *testing.T) {
	fb := newFakeBridge()
	m := newModel(Config{Bridge: fb, DashboardDir: t.TempDir()})
	if !strings.Contains(m.View(), "Initializing components...") {
		t.Fatal("loading screen expected before ready")
	}
	m.Update(readyMsg{})
	drain(t, m, m.appInfoCmd())
	view := m.View()
	for _, want := range []string{"PaperLens v2.1.0", "Search papers", "1 Search"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	press(m, keyOf(tea.KeyF1))
	if !strings.Contains(m.View(), "Keys") {
		t.Fatal("help overlay not rendered")
	}
	press(m, keyOf(tea.KeyEsc))
	if m.overlay != overlayNone {
		t.Fatal("esc closes overlays")
	}
}

func TestViewportSizedInUpdate(t *testing.T) {
	fb := newFakeBridge()
	m := newTestModel(t, fb, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	searchFor(t, m, "transformer")

	want := m.layout.bodyHeight(m.panelView())
	if m.viewport.Height != want {
		t.Fatalf("viewport height %d, want %d", m.viewport.Height, want)
	}
	m.viewport.Height = 3
	_ = m.View()
	if m.viewport.Height != 3 {
		t.Fatal("View must not resize the viewport")
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.viewport.Height != want {
		t.Fatalf("viewport height %d after resize, want %d", m.viewport.Height, want)
	}
}

func TestAgainstFakeHost(t *testing.T) {
	srv := bridgetest.New()
	defer srv.Close()
	client, err := bridge.New(bridge.Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, client, nil)

	searchFor(t, m, "transformer")
	if !m.session.HasPapers() {
		t.Fatalf("expected papers from fake host, status %+v", m.status[wizard.StepSearch])
	}
	drain(t, m, press(m, keyOf(tea.KeyCtrlN)))
	drain(t, m, press(m, keyOf(tea.KeyEnter)))
	if srv.Calls(bridge.OpGenerateVisualizations) != 1 {
		t.Fatalf("expected one visualization request, got %d", srv.Calls(bridge.OpGenerateVisualizations))
	}
	if m.session.Viz == nil || m.session.DashboardPath == "" {
		t.Fatal("dashboard should be rendered and saved")
	}
}
