package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/gateway"
	"github.com/csheth/paperlens/internal/viz"
	"github.com/csheth/paperlens/internal/wizard"
)

// pageLayout splits the terminal between fixed chrome and the page body.
type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
}

// header, step bar, status, nav bar, footer and the blank lines between them
const chromeHeight = 10

const minBodyHeight = 4

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	usable := height - chromeHeight
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable
}

// bodyHeight is what remains for the scrolling viewport once the page's
// fixed panel is drawn above it.
func (l pageLayout) bodyHeight(panel string) int {
	h := l.viewportHeight
	if panel != "" {
		h -= lipgloss.Height(panel) + 1
	}
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// refreshViewport rebuilds the scrolling content for the current step.
// syncViewport fits the viewport under the current panel. Update runs it
// after every message.
func (m *model) syncViewport() {
	if m.step() == wizard.StepExport && m.session.Stats == nil {
		// the statistics spinner is part of the viewport content
		m.refreshViewport()
	}
	m.viewport.Height = m.layout.bodyHeight(m.panelView())
}

func (m *model) refreshViewport() {
	var content string
	switch m.step() {
	case wizard.StepSearch:
		content = m.resultsContent()
	case wizard.StepVisualize:
		content = m.vizContent()
	case wizard.StepExport:
		content = m.statsContent()
	}
	m.viewport.SetContent(content)
}

func (m *model) resultsContent() string {
	t := m.theme
	papers := m.session.Papers()
	if len(papers) == 0 {
		return t.helper.Render("Results appear here after a search.")
	}
	wrap := m.wrapWidth(4)
	var b strings.Builder
	b.WriteString(t.sectionHeader.Render(fmt.Sprintf("Results (%d)", len(papers))))
	b.WriteRune('\n')
	for i, p := range papers {
		b.WriteRune('\n')
		b.WriteString(t.paperTitle.Render(wordwrap.String(fmt.Sprintf("%d. %s", i+1, p.Title), wrap)))
		b.WriteRune('\n')
		authors := p.AuthorLine()
		if authors == "" {
			authors = "Unknown authors"
		}
		b.WriteString(indentMultiline(wordwrap.String(authors, wrap), "   "))
		b.WriteRune('\n')
		b.WriteString(t.helper.Render(indentMultiline(wordwrap.String(paperMeta(p), wrap), "   ")))
		b.WriteRune('\n')
		if p.DOI != "" {
			b.WriteString(t.helper.Render("   DOI: " + p.DOI))
			b.WriteRune('\n')
		}
		if abstract := previewText(p.Abstract, abstractPreviewLimit); abstract != "" {
			b.WriteString(indentMultiline(wordwrap.String(abstract, wrap), "   "))
			b.WriteRune('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func paperMeta(p bridge.Paper) string {
	date := p.PublicationDate
	if date == "" {
		date = "N/A"
	}
	journal := p.Journal
	if journal == "" {
		journal = "N/A"
	}
	return fmt.Sprintf("Date: %s · Journal: %s · Citations: %d · Source: %s", date, journal, p.CitationCount(), p.Source)
}

func (m *model) vizContent() string {
	t := m.theme
	report := m.session.Viz
	if report == nil {
		return t.helper.Render("Charts appear here once they are generated.")
	}
	lines := []string{t.sectionHeader.Render(report.String()), ""}
	wrap := m.wrapWidth(6)
	for _, slot := range report.Slots {
		switch slot.Status {
		case viz.StatusRendered:
			lines = append(lines, t.success.Render("✓ "+slot.Spec.Title))
		case viz.StatusFallback:
			lines = append(lines, t.helper.Render("• "+slot.Spec.Title+": "+slot.Message))
		default:
			lines = append(lines, t.err.Render(wordwrap.String("✗ "+slot.Spec.Title+": "+slot.Message, wrap)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *model) statsContent() string {
	t := m.theme
	stats := m.session.Stats
	if stats == nil {
		if m.gateway.Busy(gateway.ControlStatistics) {
			return t.busy.Render(m.spinner.View() + " Loading statistics…")
		}
		return t.helper.Render("Statistics appear once papers are loaded.")
	}
	var b strings.Builder
	b.WriteString(t.sectionHeader.Render("Statistics"))
	b.WriteRune('\n')
	b.WriteString(fmt.Sprintf("Papers: %d   Authors: %d   Years: %s", stats.TotalPapers, stats.TotalAuthors, stats.YearRange))
	b.WriteRune('\n')
	b.WriteString("Sources: " + stats.DataSources)
	b.WriteRune('\n')
	if len(stats.TopAuthors) == 0 {
		return strings.TrimRight(b.String(), "\n")
	}
	b.WriteRune('\n')
	b.WriteString(t.sectionHeader.Render("Top authors"))
	b.WriteRune('\n')
	wrap := m.wrapWidth(8)
	for _, row := range stats.TopAuthors {
		name := row.Name
		if row.Affiliation != "" {
			name += " (" + row.Affiliation + ")"
		}
		b.WriteString(fmt.Sprintf("%s %s · %d papers", row.Badge, name, row.PaperCount))
		b.WriteRune('\n')
		for _, title := range row.Papers {
			b.WriteString(t.helper.Render(indentMultiline(wordwrap.String("- "+title, wrap), "     ")))
			b.WriteRune('\n')
		}
		if more := row.MoreLabel(); more != "" {
			b.WriteString(t.helper.Render("     " + more))
			b.WriteRune('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func clip(value string, width int) string {
	return truncate.StringWithTail(value, uint(width), "…")
}
