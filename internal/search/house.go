package search

import (
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// HouseOptions configures house exploration.
type HouseOptions struct {
	// WallThickness insets the waypoints from the footprint edges.
	WallThickness float64
	// AcceptanceRadius is how close the agent must get to a waypoint.
	AcceptanceRadius float64
	// RecheckAfter is the cooldown, in seconds, before a fully searched house
	// is worth visiting again.
	RecheckAfter float64
}

// DefaultHouseOptions returns the options the agent ships with.
func DefaultHouseOptions() HouseOptions {
	return HouseOptions{
		WallThickness:    5,
		AcceptanceRadius: 3,
		RecheckAfter:     100,
	}
}

// HouseSearch walks the inside of one house. It holds a copy of the house
// geometry plus its own cursor and cooldown state.
type HouseSearch struct {
	house     world.HouseInfo
	opts      HouseOptions
	waypoints []geom.Vector2

	cursor          int
	shouldCheck     bool
	timeSinceLooted float64
}

// NewHouseSearch generates the waypoints for house. The pattern is the four
// corners of the footprint inset by the wall thickness, counter-clockwise
// from the bottom left, followed by the center. When the inset footprint
// has no area the center is the only waypoint.
func NewHouseSearch(house world.HouseInfo, opts HouseOptions) *HouseSearch {
	return &HouseSearch{
		house:       house,
		opts:        opts,
		waypoints:   houseWaypoints(house, opts.WallThickness),
		shouldCheck: true,
	}
}

func houseWaypoints(house world.HouseInfo, wall float64) []geom.Vector2 {
	halfW := house.Size.X/2 - wall
	halfH := house.Size.Y/2 - wall
	c := house.Center
	if halfW <= 0 || halfH <= 0 {
		return []geom.Vector2{c}
	}
	return []geom.Vector2{
		geom.Vec(c.X-halfW, c.Y-halfH),
		geom.Vec(c.X+halfW, c.Y-halfH),
		geom.Vec(c.X+halfW, c.Y+halfH),
		geom.Vec(c.X-halfW, c.Y+halfH),
		c,
	}
}

// House returns the house geometry.
func (h *HouseSearch) House() world.HouseInfo {
	return h.house
}

// Waypoints returns a copy of the generated waypoints.
func (h *HouseSearch) Waypoints() []geom.Vector2 {
	out := make([]geom.Vector2, len(h.waypoints))
	copy(out, h.waypoints)
	return out
}

// Cursor returns the index of the current waypoint.
func (h *HouseSearch) Cursor() int {
	return h.cursor
}

// CurrentLocation returns the waypoint the agent should head to.
func (h *HouseSearch) CurrentLocation() geom.Vector2 {
	return h.waypoints[h.cursor]
}

// ShouldCheck reports whether the house is due for a search.
func (h *HouseSearch) ShouldCheck() bool {
	return h.shouldCheck
}

// TimeSinceLooted returns the cooldown progress in seconds.
func (h *HouseSearch) TimeSinceLooted() float64 {
	return h.timeSinceLooted
}

// UpdateTimeSinceLooted advances the cooldown of a searched house. Once the
// cooldown exceeds RecheckAfter the house becomes due again.
func (h *HouseSearch) UpdateTimeSinceLooted(dt float64) {
	if h.shouldCheck {
		return
	}
	h.timeSinceLooted += dt
	if h.timeSinceLooted > h.opts.RecheckAfter {
		h.shouldCheck = true
		h.timeSinceLooted = 0
	}
}

// UpdateCurrentLocation advances the cursor if pos is within the acceptance
// radius of the current waypoint. Reaching the last waypoint wraps the cursor
// to 0 and starts the recheck cooldown. It reports whether the cursor moved.
func (h *HouseSearch) UpdateCurrentLocation(pos geom.Vector2) bool {
	if !geom.Within(pos, h.CurrentLocation(), h.opts.AcceptanceRadius) {
		return false
	}
	if h.cursor < len(h.waypoints)-1 {
		h.cursor++
		return true
	}
	h.cursor = 0
	h.shouldCheck = false
	h.timeSinceLooted = 0
	return true
}

// Contains reports whether p lies inside the house walls.
func (h *HouseSearch) Contains(p geom.Vector2) bool {
	halfW := h.house.Size.X / 2
	halfH := h.house.Size.Y / 2
	c := h.house.Center
	return p.X > c.X-halfW && p.X < c.X+halfW &&
		p.Y > c.Y-halfH && p.Y < c.Y+halfH
}
