// Package session holds the state a running wizard shares across steps and
// the transition functions the TUI applies when remote calls resolve.
package session

import (
	"context"
	"time"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/history"
	"github.com/csheth/paperlens/internal/logging"
	"github.com/csheth/paperlens/internal/viz"
	"github.com/csheth/paperlens/internal/wizard"
)

// ExportRecord is the last completed export, held until the confirmation
// is dismissed or acted upon.
type ExportRecord struct {
	Format    string
	Filepath  string
	CreatedAt time.Time
}

// Session is the state of one wizard run.
type Session struct {
	Wizard  *wizard.Machine
	History *history.Store

	papers []bridge.Paper
	// generation changes whenever papers is replaced; replies carry the
	// generation they were requested for.
	generation int

	Stats         *StatsView
	Viz           *viz.Report
	DashboardPath string
	LastExport    *ExportRecord
	AppInfo       *bridge.AppInfo
}

// New starts a session on the search step.
func New(h *history.Store) *Session {
	return &Session{Wizard: wizard.New(), History: h}
}

// Papers returns the current result set. Callers must not modify it.
func (s *Session) Papers() []bridge.Paper { return s.papers }

// Generation identifies the current paper set.
func (s *Session) Generation() int { return s.generation }

// Current reports whether a reply requested for generation still matches
// the papers on screen.
func (s *Session) Current(generation int) bool { return generation == s.generation }

// HasPapers reports whether a search has produced results.
func (s *Session) HasPapers() bool { return len(s.papers) > 0 }

// Nav returns the navigation affordances for the current state.
func (s *Session) Nav() wizard.Nav { return s.Wizard.Nav(s.HasPapers()) }

// ApplySearch stores the papers of a successful search and records the
// query in history. Failed searches leave the session untouched.
func (s *Session) ApplySearch(ctx context.Context, req bridge.SearchRequest, outcome bridge.Outcome[bridge.SearchResult]) (int, error) {
	if !outcome.Success {
		return 0, outcome.Err()
	}
	papers := outcome.Value.Papers
	if papers == nil {
		papers = []bridge.Paper{}
	}
	s.papers = papers
	s.generation++
	s.Stats = nil
	s.Viz = nil
	s.DashboardPath = ""
	if s.History != nil {
		s.History.Add(ctx, req.Query, req.Source, req.SearchType)
	}
	logging.Infof("[search] %q returned %d papers", req.Query, len(papers))
	return len(papers), nil
}

// ApplyVisualizations records a render report and where the dashboard was
// written.
func (s *Session) ApplyVisualizations(report viz.Report, dashboardPath string) {
	s.Viz = &report
	s.DashboardPath = dashboardPath
}

// ApplyStatistics converts a statistics result into its display form.
func (s *Session) ApplyStatistics(outcome bridge.Outcome[bridge.Statistics]) (StatsView, error) {
	if !outcome.Success {
		return StatsView{}, outcome.Err()
	}
	view := BuildStats(outcome.Value)
	s.Stats = &view
	return view, nil
}

// NeedsStatistics reports whether t should trigger a statistics fetch:
// only on entry to the export step, and only with papers loaded.
func (s *Session) NeedsStatistics(t wizard.Transition) bool {
	return t.EnteredExport() && s.HasPapers()
}

// ApplyExport opens the export confirmation for a successful export.
func (s *Session) ApplyExport(format string, outcome bridge.Outcome[bridge.ExportResult], now time.Time) (ExportRecord, error) {
	if !outcome.Success {
		return ExportRecord{}, outcome.Err()
	}
	rec := ExportRecord{Format: format, Filepath: outcome.Value.Filepath, CreatedAt: now}
	s.LastExport = &rec
	logging.Infof("[export] %s written to %s", format, rec.Filepath)
	return rec, nil
}

// DismissExport closes the confirmation. It is also applied when the user
// opens the file or its folder; the result of that call does not reopen it.
func (s *Session) DismissExport() {
	s.LastExport = nil
}

// Restart returns to the search step. Papers are kept so the user can
// step forward again without re-running the search.
func (s *Session) Restart() wizard.Transition {
	s.LastExport = nil
	return s.Wizard.Restart()
}
