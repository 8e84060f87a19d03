package viz

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/logging"
)

// DefaultMinLength is the length a fragment must exceed to count as
// content; anything at or below it gets the slot's fallback.
const DefaultMinLength = 100

// Container is the element a slot renders into.
type Container interface {
	SetMarkup(markup string)
	Markup() string
}

// Page is the execution context the pipeline renders into.
type Page interface {
	Container(id string) (Container, bool)
	// Loaded reports whether a charting capability is available.
	Loaded(capability string) bool
	// Exec runs one unit on behalf of the container with the given id.
	Exec(containerID string, unit Unit) error
}

// CapabilityRule says which units need a capability: any unit whose code
// contains one of Markers.
type CapabilityRule struct {
	Name    string
	Label   string
	Markers []string
}

func (r CapabilityRule) requiredBy(code string) bool {
	for _, m := range r.Markers {
		if strings.Contains(code, m) {
			return true
		}
	}
	return false
}

// PlotlyRule guards the plotly calls the bridge emits.
var PlotlyRule = CapabilityRule{
	Name:    "plotly",
	Label:   "Plotly",
	Markers: []string{"Plotly.newPlot", "Plotly.react", "Plotly.plot"},
}

// Options configures a Pipeline. Zero values select defaults.
type Options struct {
	MinLength int
	Slots     []SlotSpec
	Rules     []CapabilityRule
}

// Pipeline renders visualization bundles.
type Pipeline struct {
	minLength int
	slots     []SlotSpec
	rules     []CapabilityRule
}

// NewPipeline applies defaults to opts.
func NewPipeline(opts Options) *Pipeline {
	p := &Pipeline{minLength: opts.MinLength, slots: opts.Slots, rules: opts.Rules}
	if p.minLength <= 0 {
		p.minLength = DefaultMinLength
	}
	if len(p.slots) == 0 {
		p.slots = DefaultSlots
	}
	if p.rules == nil {
		p.rules = []CapabilityRule{PlotlyRule}
	}
	return p
}

// Slots returns the configured slot layout.
func (p *Pipeline) Slots() []SlotSpec { return p.slots }

// SlotStatus is the outcome for one slot.
type SlotStatus int

const (
	StatusFallback SlotStatus = iota
	StatusRendered
	StatusFailed
	StatusMissingContainer
)

func (s SlotStatus) String() string {
	switch s {
	case StatusRendered:
		return "rendered"
	case StatusFailed:
		return "failed"
	case StatusMissingContainer:
		return "missing container"
	default:
		return "fallback"
	}
}

// SlotResult describes what happened to one slot.
type SlotResult struct {
	Spec    SlotSpec
	Status  SlotStatus
	Message string
	Units   int
}

// Report summarises one render.
type Report struct {
	Rendered int
	Total    int
	Slots    []SlotResult
}

func (r Report) String() string {
	return fmt.Sprintf("%d/%d visualizations rendered", r.Rendered, r.Total)
}

type pendingSlot struct {
	index     int
	container Container
	units     []Unit
}

// Render inserts every slot's markup, then executes the scripts of the
// slots that received content. A slot counts as rendered only when all of
// its units ran.
func (p *Pipeline) Render(bundle bridge.VisualizationBundle, page Page) Report {
	report := Report{Total: len(p.slots), Slots: make([]SlotResult, len(p.slots))}
	var pending []pendingSlot

	for i, spec := range p.slots {
		result := &report.Slots[i]
		result.Spec = spec
		container, ok := page.Container(spec.ContainerID)
		if !ok {
			result.Status = StatusMissingContainer
			result.Message = fmt.Sprintf("container %s not found", spec.ContainerID)
			logging.Warnf("[viz] %s: %s", spec.Slot, result.Message)
			continue
		}
		raw := bundle[spec.Slot]
		if len(raw) <= p.minLength {
			result.Status = StatusFallback
			result.Message = spec.Fallback
			container.SetMarkup(fallbackMarkup(spec.Fallback))
			continue
		}
		frag, err := Split(raw)
		if err != nil {
			p.fail(result, container, fmt.Sprintf("Visualization error: %v", err))
			continue
		}
		container.SetMarkup(frag.Markup)
		result.Units = len(frag.Units)
		pending = append(pending, pendingSlot{index: i, container: container, units: frag.Units})
	}

	for _, ps := range pending {
		result := &report.Slots[ps.index]
		if p.execute(result, ps, page) {
			result.Status = StatusRendered
			report.Rendered++
		}
	}
	logging.Infof("[viz] %s", report)
	return report
}

func (p *Pipeline) execute(result *SlotResult, ps pendingSlot, page Page) bool {
	for _, unit := range ps.units {
		if rule, missing := p.missingCapability(unit, page); missing {
			p.fail(result, ps.container, fmt.Sprintf("%s not loaded. Check internet connection.", rule.Label))
			return false
		}
		if err := page.Exec(result.Spec.ContainerID, unit); err != nil {
			p.fail(result, ps.container, fmt.Sprintf("Visualization error: %v", err))
			return false
		}
	}
	return true
}

func (p *Pipeline) missingCapability(unit Unit, page Page) (CapabilityRule, bool) {
	for _, rule := range p.rules {
		if rule.requiredBy(unit.Code) && !page.Loaded(rule.Name) {
			return rule, true
		}
	}
	return CapabilityRule{}, false
}

func (p *Pipeline) fail(result *SlotResult, container Container, message string) {
	result.Status = StatusFailed
	result.Message = message
	container.SetMarkup(errorMarkup(message))
	logging.Warnf("[viz] %s: %s", result.Spec.Slot, message)
}

func fallbackMarkup(message string) string {
	return `<p class="viz-fallback">` + html.EscapeString(message) + `</p>`
}

func errorMarkup(message string) string {
	return `<p class="viz-error">` + html.EscapeString(message) + `</p>`
}
