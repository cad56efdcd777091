package sim

import (
	"context"
	"fmt"

	"github.com/joeycumines/survivor/internal/world"
)

// Decider produces the steering for one tick.
type Decider interface {
	Update(dt float64) (world.SteeringOutput, error)
}

// RunOptions configures Run.
type RunOptions struct {
	Ticks int
	DT    float64
	// Trace, if set, receives a frame per tick.
	Trace *Trace
	// Recorder, if set, supplies the actions taken each tick. It must be
	// observing the decider's tree.
	Recorder *Recorder
}

// Run alternates decider updates and world steps until the tick budget is
// spent, the agent dies, or ctx is done. It returns the number of ticks run.
func Run(ctx context.Context, host *Host, decider Decider, opts RunOptions) (int, error) {
	if opts.DT <= 0 {
		return 0, fmt.Errorf("sim: dt must be positive, got %v", opts.DT)
	}
	if opts.Trace != nil {
		if err := opts.Trace.Header(); err != nil {
			return 0, err
		}
	}
	tick := 0
	for ; tick < opts.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return tick, err
		}
		if host.AgentInfo().Dead {
			break
		}
		steering, err := decider.Update(opts.DT)
		if err != nil {
			return tick, fmt.Errorf("sim: tick %d: %w", tick, err)
		}
		host.Step(opts.DT, steering)

		var actions []string
		if opts.Recorder != nil {
			actions = opts.Recorder.Take()
		}
		if opts.Trace != nil {
			err := opts.Trace.Write(Frame{
				Tick:     tick,
				Time:     host.Time(),
				Agent:    host.AgentInfo(),
				Steering: steering,
				Slots:    host.Slots(),
				Actions:  actions,
			})
			if err != nil {
				return tick, err
			}
		}
	}
	return tick, nil
}
