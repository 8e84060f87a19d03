package viz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/paperlens/internal/bridge"
)

func chart(id, body string) string {
	return `<div id="` + id + `" class="plotly-graph-div" style="height:400px; width:100%;"></div>` +
		`<script type="text/javascript">` + body + `</script>`
}

func plotlyChart(id string) string {
	return chart(id, `window.PLOTLYENV=window.PLOTLYENV || {}; Plotly.newPlot("`+id+`", [{"x":[1,2,3],"y":[4,5,6]}], {});`)
}

func TestSplitSeparatesScriptsInOrder(t *testing.T) {
	raw := `<div class="wrap"><div id="a"></div><script>first();</script></div>` +
		`<script>   </script>` +
		`<p>caption</p><script>second();</script>`

	frag, err := Split(raw)
	require.NoError(t, err)

	assert.NotContains(t, frag.Markup, "<script")
	assert.Contains(t, frag.Markup, `<div id="a"></div>`)
	assert.Contains(t, frag.Markup, "<p>caption</p>")
	require.Len(t, frag.Units, 2)
	assert.Equal(t, Unit{Index: 0, Code: "first();"}, frag.Units[0])
	assert.Equal(t, Unit{Index: 1, Code: "second();"}, frag.Units[1])
}

func TestSplitMarkupOnly(t *testing.T) {
	frag, err := Split(`<img src="cloud.png" alt="word cloud">`)
	require.NoError(t, err)
	assert.Empty(t, frag.Units)
	assert.Contains(t, frag.Markup, "cloud.png")
}

func TestRenderCountsPopulatedSlots(t *testing.T) {
	p := NewPipeline(Options{Slots: ClassicSlots})
	doc := NewDocument(DocumentOptions{Slots: ClassicSlots, Capabilities: []string{"plotly"}})
	bundle := bridge.VisualizationBundle{
		SlotNetwork:  plotlyChart("network"),
		SlotYears:    plotlyChart("years"),
		SlotSources:  plotlyChart("sources"),
		SlotTimeline: "<div>tiny</div>",
	}

	report := p.Render(bundle, doc)

	assert.Equal(t, 3, report.Rendered)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, "3/5 visualizations rendered", report.String())

	byslot := map[string]SlotResult{}
	for _, r := range report.Slots {
		byslot[r.Spec.Slot] = r
	}
	assert.Equal(t, StatusFallback, byslot[SlotCitations].Status)
	assert.Equal(t, "No citation data available", byslot[SlotCitations].Message)
	assert.Equal(t, StatusFallback, byslot[SlotTimeline].Status)
	assert.Equal(t, "No timeline data available", byslot[SlotTimeline].Message)

	c, _ := doc.Container("citations-viz")
	assert.Contains(t, c.Markup(), "No citation data available")
	n, _ := doc.Container("network-viz")
	assert.Contains(t, n.Markup(), `id="network"`)
	assert.NotContains(t, n.Markup(), "<script")
	assert.Len(t, doc.Executed("network-viz"), 1)
}

type recordingPage struct {
	containers map[string]*fakeContainer
	loaded     map[string]bool
	events     []string
	execErr    map[string]error
}

type fakeContainer struct {
	id     string
	page   *recordingPage
	markup string
}

func (c *fakeContainer) SetMarkup(m string) {
	c.markup = m
	c.page.events = append(c.page.events, "insert:"+c.id)
}

func (c *fakeContainer) Markup() string { return c.markup }

func newRecordingPage(specs []SlotSpec) *recordingPage {
	p := &recordingPage{containers: map[string]*fakeContainer{}, loaded: map[string]bool{"plotly": true}, execErr: map[string]error{}}
	for _, s := range specs {
		p.containers[s.ContainerID] = &fakeContainer{id: s.ContainerID, page: p}
	}
	return p
}

func (p *recordingPage) Container(id string) (Container, bool) {
	c, ok := p.containers[id]
	if !ok {
		return nil, false
	}
	return c, true
}

func (p *recordingPage) Loaded(capability string) bool { return p.loaded[capability] }

func (p *recordingPage) Exec(id string, unit Unit) error {
	p.events = append(p.events, "exec:"+id+":"+unit.Code)
	return p.execErr[id]
}

func TestRenderLengthThreshold(t *testing.T) {
	specs := ClassicSlots[:2]
	page := newRecordingPage(specs)
	p := NewPipeline(Options{Slots: specs})
	atLimit := "<p>" + strings.Repeat("x", DefaultMinLength-7) + "</p>"
	overLimit := "<p>" + strings.Repeat("x", DefaultMinLength-6) + "</p>"
	require.Len(t, atLimit, DefaultMinLength)
	require.Len(t, overLimit, DefaultMinLength+1)

	report := p.Render(bridge.VisualizationBundle{SlotNetwork: atLimit, SlotYears: overLimit}, page)

	assert.Equal(t, StatusFallback, report.Slots[0].Status)
	assert.Contains(t, page.containers["network-viz"].markup, "Keyword network not available")
	assert.Equal(t, StatusRendered, report.Slots[1].Status)
	assert.Equal(t, 1, report.Rendered)
}

func TestRenderInsertsAllMarkupBeforeExecuting(t *testing.T) {
	specs := ClassicSlots[:2]
	page := newRecordingPage(specs)
	p := NewPipeline(Options{Slots: specs})
	pad := strings.Repeat(" ", DefaultMinLength)
	bundle := bridge.VisualizationBundle{
		SlotNetwork: `<div id="n"></div><script>one()</script><script>two()</script>` + pad,
		SlotYears:   `<div id="y"></div><script>three()</script>` + pad,
	}

	report := p.Render(bundle, page)

	require.Equal(t, 2, report.Rendered)
	assert.Equal(t, []string{
		"insert:network-viz",
		"insert:years-viz",
		"exec:network-viz:one()",
		"exec:network-viz:two()",
		"exec:years-viz:three()",
	}, page.events)
}

func TestRenderMissingCapabilityReplacesSlotOnly(t *testing.T) {
	specs := ClassicSlots[:2]
	page := newRecordingPage(specs)
	page.loaded["plotly"] = false
	p := NewPipeline(Options{Slots: specs})
	pad := strings.Repeat(" ", DefaultMinLength)
	bundle := bridge.VisualizationBundle{
		SlotNetwork: plotlyChart("network"),
		SlotYears:   `<table><tr><td>2021</td><td>4</td></tr></table><script>console.log("ok")</script>` + pad,
	}

	report := p.Render(bundle, page)

	assert.Equal(t, 1, report.Rendered)
	assert.Equal(t, StatusFailed, report.Slots[0].Status)
	assert.Equal(t, "Plotly not loaded. Check internet connection.", report.Slots[0].Message)
	assert.Contains(t, page.containers["network-viz"].markup, "Plotly not loaded")
	assert.Equal(t, StatusRendered, report.Slots[1].Status)
	for _, e := range page.events {
		assert.NotContains(t, e, "exec:network-viz")
	}
}

func TestRenderExecErrorIsolated(t *testing.T) {
	specs := ClassicSlots[:2]
	page := newRecordingPage(specs)
	page.execErr["network-viz"] = errors.New("boom")
	p := NewPipeline(Options{Slots: specs})

	report := p.Render(bridge.VisualizationBundle{
		SlotNetwork: plotlyChart("network"),
		SlotYears:   plotlyChart("years"),
	}, page)

	assert.Equal(t, 1, report.Rendered)
	assert.Equal(t, "Visualization error: boom", report.Slots[0].Message)
	assert.Contains(t, page.containers["network-viz"].markup, "Visualization error: boom")
}

func TestRenderMissingContainer(t *testing.T) {
	page := newRecordingPage(ClassicSlots[1:])
	p := NewPipeline(Options{Slots: ClassicSlots})

	report := p.Render(bridge.VisualizationBundle{SlotNetwork: plotlyChart("network")}, page)
	assert.Equal(t, StatusMissingContainer, report.Slots[0].Status)
	assert.Zero(t, report.Rendered)
}

func TestDocumentExecLeavesNoHeadArtifacts(t *testing.T) {
	doc := NewDocument(DocumentOptions{Capabilities: []string{"plotly"}})
	p := NewPipeline(Options{})
	before := doc.HeadLen()
	var headDuringExec []int
	doc.eval = func(d *Document, id string, u Unit) error {
		headDuringExec = append(headDuringExec, d.HeadLen())
		return commitUnit(d, id, u)
	}

	bundle := bridge.VisualizationBundle{
		SlotWordcloud: plotlyChart("wordcloud"),
		SlotNetwork:   plotlyChart("network"),
	}
	for i := 0; i < 3; i++ {
		report := p.Render(bundle, doc)
		require.Equal(t, 2, report.Rendered)
	}

	assert.Equal(t, before, doc.HeadLen())
	require.NotEmpty(t, headDuringExec)
	for _, n := range headDuringExec {
		assert.Equal(t, before+1, n)
	}
	assert.Len(t, doc.Executed("network-viz"), 1, "re-render replaces previous units")
}

func TestDocumentWithoutLoaderIsNotLoaded(t *testing.T) {
	doc := NewDocument(DocumentOptions{Capabilities: []string{"plotly", "vega"}})
	assert.True(t, doc.Loaded("plotly"))
	assert.False(t, doc.Loaded("vega"))
	assert.Equal(t, 1, doc.HeadLen())
}

func TestDocumentWriteFile(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	doc := NewDocument(DocumentOptions{Capabilities: []string{"plotly"}, Now: func() time.Time { return now }})
	NewPipeline(Options{}).Render(bridge.VisualizationBundle{SlotYears: plotlyChart("years")}, doc)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := doc.WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dashboard-20240506-070809.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "https://cdn.plot.ly/plotly-2.27.0.min.js")
	assert.Contains(t, html, `Plotly.newPlot("years"`)
	assert.Contains(t, html, "Word cloud not available")
	assert.Less(t, strings.Index(html, `id="years-viz"`), strings.Index(html, `Plotly.newPlot("years"`))
}
