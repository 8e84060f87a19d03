package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/exportinfo"
	"github.com/csheth/paperlens/internal/gateway"
	"github.com/csheth/paperlens/internal/history"
	"github.com/csheth/paperlens/internal/logging"
	"github.com/csheth/paperlens/internal/prefs"
	"github.com/csheth/paperlens/internal/session"
	"github.com/csheth/paperlens/internal/viz"
	"github.com/csheth/paperlens/internal/wizard"
)

// Dashboard is a page the render pipeline can draw into and that can be
// saved for the user to open.
type Dashboard interface {
	viz.Page
	WriteFile(dir string) (string, error)
}

// SearchDefaults seeds the search form.
type SearchDefaults struct {
	Source     string
	SearchType string
	MaxResults int
	// FromYear of zero leaves the field empty.
	FromYear int
}

// DefaultStatusTTL is how long success messages stay on screen.
const DefaultStatusTTL = 5 * time.Second

// Config wires runtime options into the TUI program.
type Config struct {
	Bridge   bridge.Bridge
	Prefs    prefs.Store
	History  *history.Store
	Pipeline *viz.Pipeline
	// NewDashboard builds a fresh page for every render.
	NewDashboard func(dark bool) Dashboard
	DashboardDir string
	Defaults     SearchDefaults
	Now          func() time.Time
	// StatusTTL hides success messages after the given delay. Zero keeps
	// them until replaced.
	StatusTTL time.Duration
	// SkipLoading starts on the ready screen.
	SkipLoading bool
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	if c.Prefs == nil {
		c.Prefs = prefs.NewMemoryStore()
	}
	if c.History == nil {
		c.History = history.Load(context.Background(), c.Prefs)
	}
	if c.Pipeline == nil {
		c.Pipeline = viz.NewPipeline(viz.Options{})
	}
	if c.NewDashboard == nil {
		slots := c.Pipeline.Slots()
		c.NewDashboard = func(dark bool) Dashboard {
			return viz.NewDocument(viz.DocumentOptions{Slots: slots, Capabilities: []string{"plotly"}, Dark: dark})
		}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.DashboardDir == "" {
		c.DashboardDir = filepath.Join(os.TempDir(), "paperlens")
	}
	if c.Defaults.Source == "" {
		c.Defaults.Source = bridge.Sources[0]
	}
	if c.Defaults.SearchType == "" {
		c.Defaults.SearchType = bridge.SearchTypes[0]
	}
	if c.Defaults.MaxResults == 0 {
		c.Defaults.MaxResults = 300
	}
	return c
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	config = config.withDefaults()

	query := newInput("e.g. transformer attention", 200, 60)
	maxResults := newInput("10-1000", 4, 8)
	maxResults.SetValue(strconv.Itoa(config.Defaults.MaxResults))
	fromYear := newInput("any", 4, 8)
	if config.Defaults.FromYear > 0 {
		fromYear.SetValue(strconv.Itoa(config.Defaults.FromYear))
	}
	historyFilter := newInput("Filter history…", 120, 40)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	dark := prefs.LoadDarkMode(context.Background(), config.Prefs)

	m := &model{
		config:        config,
		session:       session.New(config.History),
		gateway:       gateway.New(),
		dark:          dark,
		theme:         newTheme(dark),
		layout:        newPageLayout(),
		ready:         config.SkipLoading,
		query:         query,
		maxResults:    maxResults,
		fromYear:      fromYear,
		sourceIdx:     indexOf(bridge.Sources, config.Defaults.Source),
		typeIdx:       indexOf(bridge.SearchTypes, config.Defaults.SearchType),
		historyFilter: historyFilter,
		spinner:       spin,
		viewport:      vp,
		status:        map[wizard.Step]statusLine{},
	}
	m.focusField(fieldQuery)
	m.refreshViewport()
	m.syncViewport()
	return m
}

func newInput(placeholder string, limit, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = width
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

type model struct {
	config  Config
	session *session.Session
	gateway *gateway.Gateway
	dark    bool
	theme   theme
	layout  pageLayout

	ready   bool
	overlay overlay

	query      textinput.Model
	maxResults textinput.Model
	fromYear   textinput.Model
	sourceIdx  int
	typeIdx    int
	focus      formField

	historyFilter textinput.Model
	historyCursor int

	exportCursor  int
	exportSummary *exportinfo.Summary

	spinner  spinner.Model
	viewport viewport.Model

	status    map[wizard.Step]statusLine
	statusSeq int
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.appInfoCmd(), m.spinner.Tick}
	if !m.ready {
		cmds = append(cmds, tea.Tick(loadingDelay, func(time.Time) tea.Msg { return readyMsg{} }))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	m.syncViewport()
	return next, cmd
}

func (m *model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.ready || len(m.gateway.Snapshot()) > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case readyMsg:
		m.ready = true
		return m, nil
	case gateway.Done:
		payload := m.gateway.Complete(msg)
		if payload == nil {
			return m, nil
		}
		return m.update(payload)
	case searchResultMsg:
		return m, m.handleSearchResult(msg)
	case vizResultMsg:
		return m, m.handleVizResult(msg)
	case dashboardWrittenMsg:
		return m, m.handleDashboardWritten(msg)
	case exportResultMsg:
		return m, m.handleExportResult(msg)
	case statsResultMsg:
		return m, m.handleStatsResult(msg)
	case appInfoMsg:
		if msg.outcome.Success {
			info := msg.outcome.Value
			m.session.AppInfo = &info
		}
		return m, nil
	case fileActionMsg:
		return m, m.handleFileAction(msg)
	case statusExpiredMsg:
		for step, line := range m.status {
			if line.seq == msg.seq && line.kind == statusSuccess {
				delete(m.status, step)
			}
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.refreshViewport()
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if !m.ready {
		return m, nil
	}
	if m.overlay == overlayHistory {
		return m, m.handleHistoryKey(msg)
	}
	if cmd, handled := m.dispatchKey(msg); handled {
		return m, cmd
	}
	if m.overlay != overlayNone {
		return m, nil
	}
	if m.step() == wizard.StepSearch {
		return m, m.handleFormKey(msg)
	}
	return m, nil
}

func (m *model) step() wizard.Step { return m.session.Wizard.Current() }

// goToStep jumps straight to step; afterTransition applies the side
// effects every page change shares.
func (m *model) goToStep(step wizard.Step) tea.Cmd {
	t, err := m.session.Wizard.GoTo(step)
	if err != nil {
		logging.Errorf("[wizard] %v", err)
		return nil
	}
	return m.afterTransition(t)
}

func (m *model) afterTransition(t wizard.Transition) tea.Cmd {
	m.viewport.GotoTop()
	m.refreshViewport()
	if t.To == wizard.StepSearch {
		m.focusField(m.focus)
	} else {
		m.blurForm()
	}
	if m.session.NeedsStatistics(t) {
		return m.statisticsCmd()
	}
	return nil
}

func (m *model) setStatus(step wizard.Step, kind statusKind, text string) tea.Cmd {
	m.statusSeq++
	m.status[step] = statusLine{kind: kind, text: text, seq: m.statusSeq}
	if kind != statusSuccess || m.config.StatusTTL <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(m.config.StatusTTL, func(time.Time) tea.Msg { return statusExpiredMsg{seq: seq} })
}

func (m *model) setInfo(step wizard.Step, text string) {
	m.setStatus(step, statusInfo, text)
}

func (m *model) setError(step wizard.Step, text string) {
	m.setStatus(step, statusError, text)
}

func (m *model) setSuccess(step wizard.Step, text string) tea.Cmd {
	return m.setStatus(step, statusSuccess, text)
}

func (m *model) handleSearchResult(msg searchResultMsg) tea.Cmd {
	n, err := m.session.ApplySearch(context.Background(), msg.req, msg.outcome)
	if err != nil {
		m.setError(wizard.StepSearch, fmt.Sprintf("Error: %v", err))
		return nil
	}
	m.exportSummary = nil
	m.historyCursor = 0
	m.viewport.GotoTop()
	m.refreshViewport()
	if n == 0 {
		m.setInfo(wizard.StepSearch, "No papers found. Try different keywords or sources.")
		return nil
	}
	return m.setSuccess(wizard.StepSearch, fmt.Sprintf("Found %d papers", n))
}

func (m *model) handleVizResult(msg vizResultMsg) tea.Cmd {
	if !m.session.Current(msg.generation) {
		logging.Infof("[viz] dropping visualizations for a replaced paper set")
		delete(m.status, wizard.StepVisualize)
		return nil
	}
	if !msg.outcome.Success {
		m.setError(wizard.StepVisualize, fmt.Sprintf("Error: %s", msg.outcome.Error))
		return nil
	}
	page := m.config.NewDashboard(m.dark)
	report := m.config.Pipeline.Render(msg.outcome.Value.Visualizations, page)
	m.session.ApplyVisualizations(report, "")
	m.refreshViewport()
	m.setInfo(wizard.StepVisualize, report.String()+". Saving dashboard…")
	return writeDashboardCmd(page, m.config.DashboardDir, msg.generation)
}

func (m *model) handleDashboardWritten(msg dashboardWrittenMsg) tea.Cmd {
	if !m.session.Current(msg.generation) {
		logging.Infof("[viz] dashboard %s belongs to a replaced paper set", msg.path)
		return nil
	}
	if msg.err != nil {
		logging.Warnf("[viz] write dashboard: %v", msg.err)
		m.setError(wizard.StepVisualize, fmt.Sprintf("Visualizations generated but the dashboard could not be saved: %v", msg.err))
		return nil
	}
	if m.session.Viz != nil {
		m.session.DashboardPath = msg.path
	}
	m.refreshViewport()
	return m.setSuccess(wizard.StepVisualize, "Visualizations generated successfully")
}

func (m *model) handleExportResult(msg exportResultMsg) tea.Cmd {
	rec, err := m.session.ApplyExport(msg.format, msg.outcome, m.config.Now())
	if err != nil {
		m.setError(wizard.StepExport, fmt.Sprintf("Error: %v", err))
		return nil
	}
	summary := exportinfo.Inspect(rec.Filepath)
	m.exportSummary = &summary
	return m.setSuccess(wizard.StepExport, fmt.Sprintf("Successfully exported to: %s", rec.Filepath))
}

// handleStatsResult applies statistics for the current paper set. A reply
// for a replaced set is dropped; if the export step is waiting on the new
// set, its fetch was refused while the old call held the control, so it is
// issued now.
func (m *model) handleStatsResult(msg statsResultMsg) tea.Cmd {
	if !m.session.Current(msg.generation) {
		logging.Infof("[export] dropping statistics for a replaced paper set")
		if m.step() == wizard.StepExport && m.session.HasPapers() && m.session.Stats == nil {
			return m.statisticsCmd()
		}
		return nil
	}
	if _, err := m.session.ApplyStatistics(msg.outcome); err != nil {
		logging.Warnf("[export] statistics: %v", err)
		m.setError(wizard.StepExport, fmt.Sprintf("Statistics unavailable: %v", err))
		return nil
	}
	m.refreshViewport()
	return nil
}

func (m *model) handleFileAction(msg fileActionMsg) tea.Cmd {
	step := m.step()
	if !msg.outcome.Success {
		m.setError(step, fmt.Sprintf("Could not open %s: %s", msg.path, msg.outcome.Error))
		return nil
	}
	if msg.control == gateway.ControlOpenFileManager {
		return m.setSuccess(step, "Revealed in file manager")
	}
	return m.setSuccess(step, "Opened "+msg.path)
}

func (m *model) toggleTheme() tea.Cmd {
	m.dark = !m.dark
	m.theme = newTheme(m.dark)
	m.refreshViewport()
	if err := prefs.SaveDarkMode(context.Background(), m.config.Prefs, m.dark); err != nil {
		logging.Warnf("[prefs] save theme: %v", err)
		m.setError(m.step(), "Theme changed but could not be saved")
		return nil
	}
	return nil
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}
