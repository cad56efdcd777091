package memory

import (
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/search"
	"github.com/joeycumines/survivor/internal/world"
)

// sameHouseRadius is how close two perceived centers must be to be treated as
// the same house.
const sameHouseRadius = 1.0

// Houses is the collection of houses the agent has seen, each with its own
// persistent HouseSearch.
type Houses struct {
	opts   search.HouseOptions
	houses []*search.HouseSearch
}

// NewHouses creates an empty collection whose searches use opts.
func NewHouses(opts search.HouseOptions) *Houses {
	return &Houses{opts: opts}
}

// Observe returns the search for house, creating it the first time the house
// is perceived. created reports whether a new search was made.
func (m *Houses) Observe(house world.HouseInfo) (hs *search.HouseSearch, created bool) {
	if hs, ok := m.Lookup(house.Center); ok {
		return hs, false
	}
	hs = search.NewHouseSearch(house, m.opts)
	m.houses = append(m.houses, hs)
	return hs, true
}

// Lookup finds the known house centered at center.
func (m *Houses) Lookup(center geom.Vector2) (*search.HouseSearch, bool) {
	for _, hs := range m.houses {
		if geom.Within(hs.House().Center, center, sameHouseRadius) {
			return hs, true
		}
	}
	return nil, false
}

// Update advances the recheck cooldown of every known house.
func (m *Houses) Update(dt float64) {
	for _, hs := range m.houses {
		hs.UpdateTimeSinceLooted(dt)
	}
}

// Containing returns the known house whose walls contain p.
func (m *Houses) Containing(p geom.Vector2) (*search.HouseSearch, bool) {
	for _, hs := range m.houses {
		if hs.Contains(p) {
			return hs, true
		}
	}
	return nil, false
}

// All returns the known houses in discovery order.
func (m *Houses) All() []*search.HouseSearch {
	out := make([]*search.HouseSearch, len(m.houses))
	copy(out, m.houses)
	return out
}

// Len returns the number of known houses.
func (m *Houses) Len() int {
	return len(m.houses)
}
