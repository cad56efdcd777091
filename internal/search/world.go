package search

import (
	"math"

	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// WorldOptions configures the world sweep.
type WorldOptions struct {
	// Spacing is the distance between consecutive rings.
	Spacing float64
	// AcceptanceRadius is how close the agent must get to a waypoint.
	AcceptanceRadius float64
}

// DefaultWorldOptions returns the options the agent ships with.
func DefaultWorldOptions() WorldOptions {
	return WorldOptions{
		Spacing:          40,
		AcceptanceRadius: 5,
	}
}

// WorldSearch sweeps the world in growing concentric squares around its
// center, looping forever.
type WorldSearch struct {
	info      world.WorldInfo
	opts      WorldOptions
	waypoints []geom.Vector2
	cursor    int
	loops     int
}

// NewWorldSearch generates the sweep for info.
func NewWorldSearch(info world.WorldInfo, opts WorldOptions) *WorldSearch {
	return &WorldSearch{
		info:      info,
		opts:      opts,
		waypoints: worldWaypoints(info, opts.Spacing),
	}
}

// worldWaypoints returns the center followed by one ring per spacing step.
// Each ring visits its corners and edge midpoints counter-clockwise from the
// bottom left. Points are clamped to the world bounds, so non-square worlds
// are still covered without leaving the map.
func worldWaypoints(info world.WorldInfo, spacing float64) []geom.Vector2 {
	c := info.Center
	out := []geom.Vector2{c}
	halfW := info.Dimensions.X / 2
	halfH := info.Dimensions.Y / 2
	extent := math.Max(halfW, halfH)
	if spacing <= 0 || extent <= 0 {
		return out
	}
	clamp := func(p geom.Vector2) geom.Vector2 {
		return geom.Vec(
			geom.Clamp(p.X, c.X-halfW, c.X+halfW),
			geom.Clamp(p.Y, c.Y-halfH, c.Y+halfH),
		)
	}
	for r := spacing; r <= extent; r += spacing {
		ring := []geom.Vector2{
			geom.Vec(c.X-r, c.Y-r),
			geom.Vec(c.X, c.Y-r),
			geom.Vec(c.X+r, c.Y-r),
			geom.Vec(c.X+r, c.Y),
			geom.Vec(c.X+r, c.Y+r),
			geom.Vec(c.X, c.Y+r),
			geom.Vec(c.X-r, c.Y+r),
			geom.Vec(c.X-r, c.Y),
		}
		for _, p := range ring {
			out = append(out, clamp(p))
		}
	}
	return out
}

// Waypoints returns a copy of the generated waypoints.
func (w *WorldSearch) Waypoints() []geom.Vector2 {
	out := make([]geom.Vector2, len(w.waypoints))
	copy(out, w.waypoints)
	return out
}

// Cursor returns the index of the current waypoint.
func (w *WorldSearch) Cursor() int {
	return w.cursor
}

// Loops returns how many full sweeps have completed.
func (w *WorldSearch) Loops() int {
	return w.loops
}

// CurrentLocation returns the waypoint the agent should head to.
func (w *WorldSearch) CurrentLocation() geom.Vector2 {
	return w.waypoints[w.cursor]
}

// UpdateCurrentLocation advances the cursor if pos is within the acceptance
// radius of the current waypoint, wrapping to 0 after the last one. It
// reports whether the cursor moved.
func (w *WorldSearch) UpdateCurrentLocation(pos geom.Vector2) bool {
	if !geom.Within(pos, w.CurrentLocation(), w.opts.AcceptanceRadius) {
		return false
	}
	w.cursor++
	if w.cursor >= len(w.waypoints) {
		w.cursor = 0
		w.loops++
	}
	return true
}
