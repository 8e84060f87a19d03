// Package gateway runs remote bridge calls as bubbletea commands while
// holding a busy lock per triggering control.
//
// A Gateway is owned by the program's Update loop: Dispatch and Complete
// must both be called from it, which is what keeps the busy map free of
// locking.
package gateway

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/logging"
)

// Control names a UI affordance that can trigger a remote call.
type Control string

const (
	ControlSearch          Control = "search"
	ControlVisualize       Control = "visualize"
	ControlExport          Control = "export"
	ControlStatistics      Control = "statistics"
	ControlAppInfo         Control = "appinfo"
	ControlOpenFile        Control = "open-file"
	ControlOpenFileManager Control = "open-file-manager"
	ControlOpenDashboard   Control = "open-dashboard"
)

// Flight describes one in-flight call.
type Flight struct {
	ID        string
	Control   Control
	Op        string
	StartedAt time.Time
}

// Done is delivered when a dispatched call resolves. Pass it to Complete to
// release the control and obtain the caller's payload message.
type Done struct {
	Flight   Flight
	Duration time.Duration
	Failed   bool
	Err      string
	Payload  tea.Msg
}

// Gateway tracks which controls are busy.
type Gateway struct {
	counter  int64
	inflight map[Control]Flight
	now      func() time.Time
}

// New returns an idle gateway.
func New() *Gateway {
	return &Gateway{inflight: map[Control]Flight{}, now: time.Now}
}

// Busy reports whether control has an unresolved call.
func (g *Gateway) Busy(control Control) bool {
	_, ok := g.inflight[control]
	return ok
}

// Snapshot lists in-flight calls ordered by start time.
func (g *Gateway) Snapshot() []Flight {
	flights := make([]Flight, 0, len(g.inflight))
	for _, f := range g.inflight {
		flights = append(flights, f)
	}
	sort.Slice(flights, func(i, j int) bool { return flights[i].StartedAt.Before(flights[j].StartedAt) })
	return flights
}

// Complete releases the control named in done and returns its payload.
func (g *Gateway) Complete(done Done) tea.Msg {
	if current, ok := g.inflight[done.Flight.Control]; ok && current.ID == done.Flight.ID {
		delete(g.inflight, done.Flight.Control)
	}
	return done.Payload
}

func (g *Gateway) acquire(control Control, op string) (Flight, bool) {
	if g.Busy(control) {
		logging.Debugf("[gateway] %s busy; ignoring %s", control, op)
		return Flight{}, false
	}
	g.counter++
	flight := Flight{
		ID:        fmt.Sprintf("%s-%d", control, g.counter),
		Control:   control,
		Op:        op,
		StartedAt: g.now(),
	}
	g.inflight[control] = flight
	return flight, true
}

// Dispatch marks control busy and returns a command that performs call and
// wraps its outcome with wrap. It returns nil when control is already busy,
// so repeated activation is dropped rather than queued.
func Dispatch[T any](g *Gateway, control Control, op string, call func(context.Context) bridge.Outcome[T], wrap func(bridge.Outcome[T]) tea.Msg) tea.Cmd {
	flight, ok := g.acquire(control, op)
	if !ok {
		return nil
	}
	logging.Infof("[gateway] %s started (%s)", op, flight.ID)
	return func() tea.Msg {
		outcome := run(call)
		duration := time.Since(flight.StartedAt)
		done := Done{
			Flight:   flight,
			Duration: duration,
			Failed:   !outcome.Success,
			Err:      outcome.Error,
			Payload:  wrap(outcome),
		}
		if done.Failed {
			logging.Warnf("[gateway] %s failed (duration=%s, err=%s)", op, duration, outcome.Error)
		} else {
			logging.Infof("[gateway] %s succeeded (duration=%s)", op, duration)
		}
		return done
	}
}

// run shields the Update loop from panicking bridge implementations.
func run[T any](call func(context.Context) bridge.Outcome[T]) (outcome bridge.Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			outcome = bridge.Failed[T](fmt.Sprintf("%v", r))
		}
	}()
	return call(context.Background())
}
