// Package wizard holds the three-step Search → Visualize → Export flow.
package wizard

import (
	"errors"
	"fmt"

	"github.com/csheth/paperlens/internal/logging"
)

// Step is one wizard page. Steps are totally ordered.
type Step int

const (
	StepSearch Step = iota + 1
	StepVisualize
	StepExport
)

// Steps lists every step in order.
var Steps = []Step{StepSearch, StepVisualize, StepExport}

// ErrInvalidStep is returned for steps outside 1..3.
var ErrInvalidStep = errors.New("wizard: step out of range")

// Valid reports whether s is one of the three steps.
func (s Step) Valid() bool { return s >= StepSearch && s <= StepExport }

func (s Step) String() string {
	switch s {
	case StepSearch:
		return "Search"
	case StepVisualize:
		return "Visualize"
	case StepExport:
		return "Export"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Page names the page shown for s.
func (s Step) Page() string {
	switch s {
	case StepSearch:
		return "search"
	case StepVisualize:
		return "visualization"
	case StepExport:
		return "export"
	default:
		return ""
	}
}

// Transition records a completed GoTo.
type Transition struct {
	From Step
	To   Step
}

// EnteredExport is true only when the transition moved into the export
// step from another step.
func (t Transition) EnteredExport() bool {
	return t.To == StepExport && t.From != StepExport
}

// Machine owns the current step.
type Machine struct {
	current Step
}

// New starts at the search step.
func New() *Machine {
	return &Machine{current: StepSearch}
}

// Current returns the active step.
func (m *Machine) Current() Step { return m.current }

// GoTo moves to step. Out of range steps leave the machine untouched.
func (m *Machine) GoTo(step Step) (Transition, error) {
	if !step.Valid() {
		return Transition{}, fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
	t := Transition{From: m.current, To: step}
	m.current = step
	logging.Debugf("[wizard] %s -> %s", t.From, t.To)
	return t, nil
}

// Next advances one step. It reports false at the export step, where the
// forward control restarts instead.
func (m *Machine) Next() (Transition, bool) {
	if m.current >= StepExport {
		return Transition{}, false
	}
	t, _ := m.GoTo(m.current + 1)
	return t, true
}

// Previous goes back one step, reporting false on the first step.
func (m *Machine) Previous() (Transition, bool) {
	if m.current <= StepSearch {
		return Transition{}, false
	}
	t, _ := m.GoTo(m.current - 1)
	return t, true
}

// Restart returns to the search step.
func (m *Machine) Restart() Transition {
	t, _ := m.GoTo(StepSearch)
	return t
}

// Forward performs whatever the forward control currently means: Next on
// steps 1-2, Restart on step 3.
func (m *Machine) Forward() Transition {
	if t, ok := m.Next(); ok {
		return t
	}
	return m.Restart()
}

// Nav describes the fixed navigation bar.
type Nav struct {
	Visible         bool
	ShowBack        bool
	ForwardLabel    string
	ForwardRestarts bool
}

// Nav computes the navigation affordances. The bar stays hidden until a
// search produced papers or the user left the first step.
func (m *Machine) Nav(hasPapers bool) Nav {
	if !hasPapers && m.current == StepSearch {
		return Nav{}
	}
	nav := Nav{
		Visible:      true,
		ShowBack:     m.current != StepSearch,
		ForwardLabel: "Next",
	}
	if m.current == StepExport {
		nav.ForwardLabel = "Restart"
		nav.ForwardRestarts = true
	}
	return nav
}

// IndicatorState is the visual state of one step in the indicator bar.
type IndicatorState int

const (
	IndicatorPending IndicatorState = iota
	IndicatorActive
	IndicatorCompleted
)

// Indicator pairs a step with its state.
type Indicator struct {
	Step  Step
	State IndicatorState
}

// Indicators marks the active step and every earlier step as completed.
func (m *Machine) Indicators() []Indicator {
	out := make([]Indicator, 0, len(Steps))
	for _, s := range Steps {
		state := IndicatorPending
		switch {
		case s == m.current:
			state = IndicatorActive
		case s < m.current:
			state = IndicatorCompleted
		}
		out = append(out, Indicator{Step: s, State: state})
	}
	return out
}

// Selectable reports whether the indicator for step may be used to jump
// there directly. Later steps stay disabled until a search returned papers.
func (m *Machine) Selectable(step Step, hasPapers bool) bool {
	if !step.Valid() {
		return false
	}
	return step == StepSearch || hasPapers
}
