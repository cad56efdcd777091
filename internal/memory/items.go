// Package memory keeps what the agent has perceived before: items it saw but
// did not pick up, and every house it has come across.
package memory

import (
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// Items is a growable list of remembered items, deduplicated by proximity.
type Items struct {
	radius float64
	items  []world.ItemInfo
}

// NewItems creates an empty list. Items closer than radius to an existing
// entry are considered the same item.
func NewItems(radius float64) *Items {
	return &Items{radius: radius}
}

// Remember adds item unless an entry within the dedup radius exists. It
// reports whether the item was added.
func (m *Items) Remember(item world.ItemInfo) bool {
	if _, ok := m.indexNear(item.Location); ok {
		return false
	}
	m.items = append(m.items, item)
	return true
}

// Forget removes the entry near location, if any.
func (m *Items) Forget(location geom.Vector2) bool {
	i, ok := m.indexNear(location)
	if !ok {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return true
}

// Knows reports whether an entry exists near location.
func (m *Items) Knows(location geom.Vector2) bool {
	_, ok := m.indexNear(location)
	return ok
}

// Closest returns the remembered item nearest to pos that passes keep.
// A nil keep accepts everything. Ties go to the earliest remembered.
func (m *Items) Closest(pos geom.Vector2, keep func(world.ItemInfo) bool) (world.ItemInfo, bool) {
	var (
		best  world.ItemInfo
		bestD float64
		found bool
	)
	for _, item := range m.items {
		if keep != nil && !keep(item) {
			continue
		}
		d := geom.DistanceSquared(pos, item.Location)
		if !found || d < bestD {
			best, bestD, found = item, d, true
		}
	}
	return best, found
}

// All returns a copy of the remembered items.
func (m *Items) All() []world.ItemInfo {
	out := make([]world.ItemInfo, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of remembered items.
func (m *Items) Len() int {
	return len(m.items)
}

func (m *Items) indexNear(location geom.Vector2) (int, bool) {
	for i, item := range m.items {
		if geom.Within(item.Location, location, m.radius) {
			return i, true
		}
	}
	return -1, false
}
