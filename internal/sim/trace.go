package sim

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/joeycumines/survivor/internal/bt"
	"github.com/joeycumines/survivor/internal/world"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Recorder is a bt.Observer that collects the actions that succeeded during
// a tick.
type Recorder struct {
	actions []string
}

// Observe implements bt.Observer.
func (r *Recorder) Observe(name string, kind bt.Kind, status bt.Status) {
	if kind == bt.KindAction && status == bt.Success {
		r.actions = append(r.actions, name)
	}
}

// Take returns the recorded actions and resets the recorder.
func (r *Recorder) Take() []string {
	out := r.actions
	r.actions = nil
	return out
}

// Frame is one traced tick.
type Frame struct {
	Tick     int
	Time     float64
	Agent    world.AgentInfo
	Steering world.SteeringOutput
	Slots    []world.ItemInfo
	Actions  []string
}

// Summary is the end-of-run report.
type Summary struct {
	Ticks       int
	Time        float64
	Survived    bool
	Health      float64
	Kills       int
	EnemiesLeft int
	ItemsLeft   int
	KnownHouses int
	KnownItems  int
}

// TraceOption configures a Trace.
type TraceOption func(*Trace)

// WithColor enables lipgloss styling.
func WithColor(enabled bool) TraceOption {
	return func(t *Trace) { t.color = enabled }
}

// WithEvery prints only every n-th frame.
func WithEvery(n int) TraceOption {
	return func(t *Trace) {
		if n > 0 {
			t.every = n
		}
	}
}

// Trace renders frames as aligned text rows.
type Trace struct {
	w     io.Writer
	color bool
	every int

	header lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	faint  lipgloss.Style
}

// NewTrace writes to w. Styling is off unless WithColor(true) is given.
func NewTrace(w io.Writer, opts ...TraceOption) *Trace {
	t := &Trace{
		w:      w,
		every:  1,
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		bad:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		faint:  lipgloss.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Trace) style(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

// Header writes the column titles.
func (t *Trace) Header() error {
	line := fmt.Sprintf("%5s %7s %15s %6s %6s %6s %-24s %s",
		"tick", "time", "position", "health", "energy", "stam", "inventory", "actions")
	_, err := fmt.Fprintln(t.w, t.style(t.header, line))
	return err
}

// Write renders f, honoring WithEvery.
func (t *Trace) Write(f Frame) error {
	if f.Tick%t.every != 0 {
		return nil
	}
	pos := fmt.Sprintf("(%6.1f,%6.1f)", f.Agent.Position.X, f.Agent.Position.Y)
	line := fmt.Sprintf("%5d %7.1f %15s %s %s %s %-24s %s",
		f.Tick,
		f.Time,
		pos,
		t.stat(f.Agent.Health),
		t.stat(f.Agent.Energy),
		t.stat(f.Agent.Stamina),
		slotsString(f.Slots),
		t.actions(f),
	)
	_, err := fmt.Fprintln(t.w, line)
	return err
}

func (t *Trace) stat(v float64) string {
	text := fmt.Sprintf("%6.1f", v)
	switch {
	case v < 3:
		return t.style(t.bad, text)
	case v < 7:
		return t.style(t.warn, text)
	default:
		return t.style(t.good, text)
	}
}

func (t *Trace) actions(f Frame) string {
	if len(f.Actions) == 0 {
		return t.style(t.faint, "-")
	}
	text := strings.Join(f.Actions, ",")
	if f.Agent.Bitten {
		text += " [bitten]"
	}
	return text
}

func slotsString(slots []world.ItemInfo) string {
	parts := make([]string, len(slots))
	for i, item := range slots {
		if item.IsEmpty() {
			parts[i] = "."
			continue
		}
		parts[i] = item.Type.String()
	}
	return strings.Join(parts, " ")
}

// Summary writes the end-of-run report.
func (t *Trace) Summary(s Summary) error {
	outcome := t.style(t.good, "survived")
	if !s.Survived {
		outcome = t.style(t.bad, "died")
	}
	_, err := fmt.Fprintf(t.w,
		"%s after %d ticks (%.1fs): health %.1f, kills %d, enemies left %d, items left %d, houses known %d, items remembered %d\n",
		outcome, s.Ticks, s.Time, s.Health, s.Kills, s.EnemiesLeft, s.ItemsLeft, s.KnownHouses, s.KnownItems)
	return err
}
