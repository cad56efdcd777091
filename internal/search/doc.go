// Package search holds the resumable exploration generators: a waypoint
// pattern over a house footprint and a concentric-square sweep over the
// world.
//
// Waypoints are generated once at construction. Each tick the agent reports
// its position; the cursor advances when the agent is within the acceptance
// radius of the current waypoint and wraps to 0 after the last one, so the
// per-tick cost is constant and coverage is deterministic.
package search
