package viz

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// DefaultLoaders maps capabilities to the scripts that provide them.
var DefaultLoaders = map[string]string{
	"plotly": "https://cdn.plot.ly/plotly-2.27.0.min.js",
}

// Evaluator runs a unit inside a document. The default evaluator commits
// the unit to the panel so it runs when the dashboard is opened.
type Evaluator func(d *Document, containerID string, unit Unit) error

// DocumentOptions configures NewDocument.
type DocumentOptions struct {
	Title        string
	Slots        []SlotSpec
	Capabilities []string
	Loaders      map[string]string
	Evaluator    Evaluator
	Dark         bool
	Now          func() time.Time
}

type headNode struct {
	ID     string
	Src    string
	Inline string
}

type panel struct {
	id       string
	title    string
	markup   string
	executed []string
}

func (p *panel) SetMarkup(markup string) {
	p.markup = markup
	p.executed = nil
}

func (p *panel) Markup() string { return p.markup }

// Document is a standalone HTML dashboard that satisfies Page.
type Document struct {
	title   string
	dark    bool
	panels  []*panel
	byID    map[string]*panel
	loaded  map[string]bool
	head    []headNode
	eval    Evaluator
	now     func() time.Time
	execSeq int
}

// NewDocument builds an empty dashboard with one panel per slot. Only
// capabilities that have a loader are considered loaded.
func NewDocument(opts DocumentOptions) *Document {
	slots := opts.Slots
	if len(slots) == 0 {
		slots = DefaultSlots
	}
	loaders := opts.Loaders
	if loaders == nil {
		loaders = DefaultLoaders
	}
	d := &Document{
		title:  opts.Title,
		dark:   opts.Dark,
		byID:   map[string]*panel{},
		loaded: map[string]bool{},
		eval:   opts.Evaluator,
		now:    opts.Now,
	}
	if d.title == "" {
		d.title = "PaperLens Visualizations"
	}
	if d.eval == nil {
		d.eval = commitUnit
	}
	if d.now == nil {
		d.now = time.Now
	}
	for _, s := range slots {
		p := &panel{id: s.ContainerID, title: s.Title}
		d.panels = append(d.panels, p)
		d.byID[s.ContainerID] = p
	}
	for _, name := range opts.Capabilities {
		src, ok := loaders[name]
		if !ok {
			continue
		}
		d.loaded[name] = true
		d.head = append(d.head, headNode{ID: "loader-" + name, Src: src})
	}
	return d
}

func (d *Document) Container(id string) (Container, bool) {
	p, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return p, true
}

func (d *Document) Loaded(capability string) bool { return d.loaded[capability] }

// Exec attaches the unit to the head as a fresh script node, evaluates it
// and detaches it again.
func (d *Document) Exec(containerID string, unit Unit) error {
	if _, ok := d.byID[containerID]; !ok {
		return fmt.Errorf("no container %q", containerID)
	}
	d.execSeq++
	node := headNode{ID: fmt.Sprintf("exec-%d", d.execSeq), Inline: unit.Code}
	d.head = append(d.head, node)
	defer d.detach(node.ID)
	return d.eval(d, containerID, unit)
}

func (d *Document) detach(id string) {
	for i, n := range d.head {
		if n.ID == id {
			d.head = append(d.head[:i], d.head[i+1:]...)
			return
		}
	}
}

// HeadLen reports the number of nodes in the document head.
func (d *Document) HeadLen() int { return len(d.head) }

// Executed returns the units committed to a panel.
func (d *Document) Executed(containerID string) []string {
	p, ok := d.byID[containerID]
	if !ok {
		return nil
	}
	return append([]string(nil), p.executed...)
}

func commitUnit(d *Document, containerID string, unit Unit) error {
	p := d.byID[containerID]
	p.executed = append(p.executed, unit.Code)
	return nil
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{range .Head}}<script id="{{.ID}}" src="{{.Src}}"></script>
{{end}}<style>
body { font-family: sans-serif; margin: 2rem; background: {{if .Dark}}#1e1e1e{{else}}#ffffff{{end}}; color: {{if .Dark}}#e0e0e0{{else}}#222222{{end}}; }
section { margin-bottom: 2rem; }
.viz-fallback { color: #888888; font-style: italic; }
.viz-error { color: #c0392b; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.Generated}}</p>
{{range .Panels}}<section>
<h2>{{.Title}}</h2>
<div id="{{.ID}}">{{.Markup}}</div>
{{range .Scripts}}<script>{{.}}</script>
{{end}}</section>
{{end}}</body>
</html>
`))

type templatePanel struct {
	ID      string
	Title   string
	Markup  template.HTML
	Scripts []template.JS
}

// HTML renders the dashboard.
func (d *Document) HTML() ([]byte, error) {
	data := struct {
		Title     string
		Dark      bool
		Generated string
		Head      []headNode
		Panels    []templatePanel
	}{
		Title:     d.title,
		Dark:      d.dark,
		Generated: d.now().Format("Jan 2, 2006 15:04"),
		Head:      d.head,
	}
	for _, p := range d.panels {
		tp := templatePanel{ID: p.id, Title: p.title, Markup: template.HTML(p.markup)}
		for _, code := range p.executed {
			tp.Scripts = append(tp.Scripts, template.JS(code))
		}
		data.Panels = append(data.Panels, tp)
	}
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the dashboard into dir and returns the file path.
func (d *Document) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := d.HTML()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "dashboard-"+d.now().Format("20060102-150405")+".html")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write dashboard: %w", err)
	}
	return path, nil
}
