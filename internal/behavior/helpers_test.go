package behavior

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/survivor/internal/blackboard"
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/inventory"
	"github.com/joeycumines/survivor/internal/memory"
	"github.com/joeycumines/survivor/internal/rule"
	"github.com/joeycumines/survivor/internal/search"
	"github.com/joeycumines/survivor/internal/world"
)

// openNav treats every point as navigable.
type openNav struct{}

func (openNav) ClosestNavigablePoint(p geom.Vector2) geom.Vector2 { return p }

// stubItems is an in-memory item service keyed by entity hash.
type stubItems struct {
	known  map[int]world.ItemInfo
	charge map[int]float64
	slots  map[int]world.ItemInfo
}

func newStubItems() *stubItems {
	return &stubItems{
		known:  make(map[int]world.ItemInfo),
		charge: make(map[int]float64),
		slots:  make(map[int]world.ItemInfo),
	}
}

func (s *stubItems) spawn(hash int, typ world.ItemType, charge float64, at geom.Vector2) world.EntityInfo {
	s.known[hash] = world.ItemInfo{Type: typ, Location: at, Hash: hash}
	s.charge[hash] = charge
	return world.EntityInfo{Type: world.EntityItem, Location: at, Hash: hash}
}

func (s *stubItems) Inspect(e world.EntityInfo) (world.ItemInfo, bool) {
	item, ok := s.known[e.Hash]
	return item, ok
}

func (s *stubItems) Grab(e world.EntityInfo, _ world.ItemInfo) bool {
	_, ok := s.known[e.Hash]
	return ok
}

func (s *stubItems) Store(slot int, item world.ItemInfo) bool {
	s.slots[slot] = item
	return true
}

func (s *stubItems) Release(world.ItemInfo) bool {
	return true
}

func (s *stubItems) Remove(slot int) bool {
	delete(s.slots, slot)
	return true
}

func (s *stubItems) Destroy(e world.EntityInfo) bool {
	delete(s.known, e.Hash)
	return true
}

func (s *stubItems) Use(slot int) bool {
	item, ok := s.slots[slot]
	if !ok {
		return false
	}
	s.charge[item.Hash]--
	return true
}

func (s *stubItems) RemainingCharge(item world.ItemInfo) float64 {
	return s.charge[item.Hash]
}

type harness struct {
	ctx    *Context
	items  *stubItems
	inv    *inventory.Inventory
	known  *memory.Items
	houses *memory.Houses
	ws     *search.WorldSearch
}

func newHarness(t *testing.T, capacity int) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	items := newStubItems()
	inv, err := inventory.New(items, capacity, inventory.DefaultLimits(), logger)
	require.NoError(t, err)
	rules, err := rule.CompileSources(rule.DefaultSources())
	require.NoError(t, err)

	h := &harness{
		items:  items,
		inv:    inv,
		known:  memory.NewItems(2),
		houses: memory.NewHouses(search.DefaultHouseOptions()),
		ws: search.NewWorldSearch(world.WorldInfo{Dimensions: geom.Vec(200, 200)},
			search.DefaultWorldOptions()),
	}
	tuning := DefaultTuning()
	board := new(blackboard.Blackboard)
	require.NoError(t, Populate(board, Refs{
		Inventory:   inv,
		Navigator:   openNav{},
		Items:       items,
		KnownItems:  h.known,
		KnownHouses: h.houses,
		WorldSearch: h.ws,
	}, tuning))
	h.ctx = &Context{Board: board, Config: tuning, Rules: rules, Logger: logger}
	h.setPlayer(world.AgentInfo{MaxLinearSpeed: 5, MaxAngularSpeed: 2, GrabRange: 3, Health: 10, Energy: 10, Stamina: 10})
	return h
}

func (h *harness) setPlayer(p world.AgentInfo) {
	if err := blackboard.Change(h.ctx.Board, KeyPlayerInfo, p); err != nil {
		panic(err)
	}
}

func (h *harness) player() world.AgentInfo {
	p, _ := blackboard.Get(h.ctx.Board, KeyPlayerInfo)
	return p
}

func change[T any](t *testing.T, h *harness, key blackboard.Key[T], v T) {
	t.Helper()
	require.NoError(t, blackboard.Change(h.ctx.Board, key, v))
}

func get[T any](t *testing.T, h *harness, key blackboard.Key[T]) T {
	t.Helper()
	v, ok := blackboard.Get(h.ctx.Board, key)
	require.True(t, ok, "missing %s", key)
	return v
}

// give puts an item straight into the inventory.
func (h *harness) give(t *testing.T, hash int, typ world.ItemType, charge float64) {
	t.Helper()
	e := h.items.spawn(hash, typ, charge, h.player().Position)
	require.True(t, h.inv.PickupItem(e))
}
