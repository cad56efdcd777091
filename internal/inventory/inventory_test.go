package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// fakeItems is an in-memory world.ItemService. Charge is tracked per item
// hash; Use decrements it by one.
type fakeItems struct {
	known        map[int]world.ItemInfo
	charge       map[int]float64
	slots        map[int]world.ItemInfo
	held         map[int]bool
	destroyed    []int
	released     []int
	refuse       bool
	refuseUse    bool
	refuseStore  bool
	refuseRemove bool
}

func newFakeItems() *fakeItems {
	return &fakeItems{
		known:  make(map[int]world.ItemInfo),
		charge: make(map[int]float64),
		slots:  make(map[int]world.ItemInfo),
		held:   make(map[int]bool),
	}
}

func (f *fakeItems) spawn(hash int, typ world.ItemType, charge float64) world.EntityInfo {
	loc := geom.Vec(float64(hash), 0)
	f.known[hash] = world.ItemInfo{Type: typ, Location: loc, Hash: hash}
	f.charge[hash] = charge
	return world.EntityInfo{Type: world.EntityItem, Location: loc, Hash: hash}
}

func (f *fakeItems) Inspect(e world.EntityInfo) (world.ItemInfo, bool) {
	item, ok := f.known[e.Hash]
	return item, ok
}

func (f *fakeItems) Grab(e world.EntityInfo, _ world.ItemInfo) bool {
	if f.refuse {
		return false
	}
	_, ok := f.known[e.Hash]
	if ok {
		f.held[e.Hash] = true
	}
	return ok
}

func (f *fakeItems) Store(slot int, item world.ItemInfo) bool {
	if f.refuseStore {
		return false
	}
	delete(f.held, item.Hash)
	f.slots[slot] = item
	return true
}

func (f *fakeItems) Release(item world.ItemInfo) bool {
	if !f.held[item.Hash] {
		return false
	}
	delete(f.held, item.Hash)
	f.released = append(f.released, item.Hash)
	return true
}

func (f *fakeItems) Remove(slot int) bool {
	if f.refuseRemove {
		return false
	}
	delete(f.slots, slot)
	return true
}

func (f *fakeItems) Destroy(e world.EntityInfo) bool {
	f.destroyed = append(f.destroyed, e.Hash)
	delete(f.known, e.Hash)
	return true
}

func (f *fakeItems) Use(slot int) bool {
	if f.refuseUse {
		return false
	}
	item, ok := f.slots[slot]
	if !ok {
		return false
	}
	f.charge[item.Hash]--
	return true
}

func (f *fakeItems) RemainingCharge(item world.ItemInfo) float64 {
	return f.charge[item.Hash]
}

func newInventory(t *testing.T, f *fakeItems, capacity int, limits Limits) *Inventory {
	t.Helper()
	inv, err := New(f, capacity, limits, nil)
	require.NoError(t, err)
	return inv
}

func occupied(inv *Inventory) int {
	n := 0
	for _, s := range inv.Slots() {
		if !s.IsEmpty() {
			n++
		}
	}
	return n
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, 2, DefaultLimits(), nil)
	require.Error(t, err)
	_, err = New(newFakeItems(), -1, DefaultLimits(), nil)
	require.Error(t, err)

	inv := newInventory(t, newFakeItems(), 5, DefaultLimits())
	require.Equal(t, 5, inv.Capacity())
	slot, ok := inv.FreeSlot()
	require.True(t, ok)
	require.Equal(t, 0, slot)
}

func TestPickupItem_FullWithoutEvictableGunFails(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	limits := DefaultLimits()
	limits.MaxGuns = 2
	inv := newInventory(t, f, 2, limits)

	require.True(t, inv.PickupItem(f.spawn(1, world.ItemPistol, 10)))
	require.Equal(t, world.ItemPistol, inv.Slots()[0].Type)
	require.True(t, inv.PickupItem(f.spawn(2, world.ItemShotgun, 10)))
	require.Equal(t, world.ItemShotgun, inv.Slots()[1].Type)

	before := inv.Slots()
	require.False(t, inv.PickupItem(f.spawn(3, world.ItemPistol, 10)))
	require.Equal(t, before, inv.Slots())
}

func TestPickupItem_CapRejectsEvenWithFreeSlot(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	limits := DefaultLimits()
	limits.MaxFood = 1
	inv := newInventory(t, f, 5, limits)

	require.True(t, inv.PickupItem(f.spawn(1, world.ItemFood, 5)))
	require.False(t, inv.ShouldPickupItem(f.spawn(2, world.ItemFood, 5)))
	require.False(t, inv.PickupItem(f.spawn(2, world.ItemFood, 5)))
	require.Equal(t, 1, occupied(inv))
}

func TestPickupItem_ReplacesAlmostEmptyItem(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 2, DefaultLimits())

	require.True(t, inv.PickupItem(f.spawn(1, world.ItemPistol, 1)))
	require.True(t, inv.PickupItem(f.spawn(2, world.ItemMedkit, 5)))

	fresh := f.spawn(3, world.ItemShotgun, 8)
	require.True(t, inv.ShouldPickupItem(fresh))
	require.True(t, inv.PickupItem(fresh))

	slots := inv.Slots()
	require.Equal(t, world.ItemShotgun, slots[0].Type)
	require.Equal(t, 3, slots[0].Hash)
	require.Equal(t, world.ItemMedkit, slots[1].Type)
	require.Equal(t, slots[0], f.slots[0], "host slot mirrors local slot")
}

func TestPickupItem_GarbageIsDestroyed(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 1, DefaultLimits())

	require.True(t, inv.ShouldPickupItem(f.spawn(9, world.ItemGarbage, 0)))
	require.True(t, inv.PickupItem(f.spawn(9, world.ItemGarbage, 0)))
	require.Equal(t, []int{9}, f.destroyed)
	require.Equal(t, 0, occupied(inv))
}

func TestPickupItem_GrabRefused(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 2, DefaultLimits())
	f.refuse = true

	require.False(t, inv.PickupItem(f.spawn(1, world.ItemPistol, 5)))
	require.Equal(t, 0, occupied(inv))
}

func TestPickupItem_GrabRefusedKeepsEvictionCandidate(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 1, DefaultLimits())
	require.True(t, inv.PickupItem(f.spawn(1, world.ItemPistol, 0)))

	f.refuse = true
	require.False(t, inv.PickupItem(f.spawn(2, world.ItemPistol, 9)))
	require.Equal(t, 1, inv.Slots()[0].Hash)
}

func TestPickupItem_HostRefusalReleasesGrabbedItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		capacity     int
		refuseStore  bool
		refuseRemove bool
		wantSlot     int // hash left in slot 0, 0 for empty
	}{
		{name: "store into free slot", capacity: 2, refuseStore: true},
		{name: "remove before replace", capacity: 1, refuseRemove: true, wantSlot: 1},
		{name: "store after eviction", capacity: 1, refuseStore: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFakeItems()
			inv := newInventory(t, f, tt.capacity, DefaultLimits())
			if tt.capacity == 1 {
				// an almost empty pistol that a fresh one would replace
				require.True(t, inv.PickupItem(f.spawn(1, world.ItemPistol, 0)))
			}

			f.refuseStore, f.refuseRemove = tt.refuseStore, tt.refuseRemove
			require.False(t, inv.PickupItem(f.spawn(2, world.ItemPistol, 9)))

			assert.Equal(t, []int{2}, f.released)
			assert.Empty(t, f.held, "nothing left in hand")
			assert.Equal(t, tt.wantSlot, inv.Slots()[0].Hash)
			assert.Equal(t, f.slots[0].Hash, inv.Slots()[0].Hash, "host slot mirrors local slot")
		})
	}
}

func TestPickupItem_NonItemEntity(t *testing.T) {
	t.Parallel()

	inv := newInventory(t, newFakeItems(), 2, DefaultLimits())
	enemy := world.EntityInfo{Type: world.EntityEnemy, Hash: 1}
	require.False(t, inv.PickupItem(enemy))
	require.False(t, inv.ShouldPickupItem(enemy))
	require.False(t, inv.PickupItem(world.EntityInfo{Type: world.EntityItem, Hash: 404}))
}

func TestShouldPickupItem_IsPure(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 1, DefaultLimits())
	require.True(t, inv.PickupItem(f.spawn(1, world.ItemFood, 1)))

	candidate := f.spawn(2, world.ItemFood, 5)
	for range 3 {
		require.True(t, inv.ShouldPickupItem(candidate))
	}
	require.Equal(t, 1, inv.Slots()[0].Hash, "advisory check must not evict")
	require.Equal(t, world.ItemFood, f.slots[0].Type)
}

func TestUseItemOfType_DepletesAndClears(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 3, DefaultLimits())
	require.True(t, inv.PickupItem(f.spawn(1, world.ItemMedkit, 2)))

	require.True(t, inv.UseItemOfType(world.ItemMedkit))
	require.True(t, inv.ContainsItemOfType(world.ItemMedkit))

	require.True(t, inv.UseItemOfType(world.ItemMedkit))
	require.False(t, inv.ContainsItemOfType(world.ItemMedkit))
	_, hostHasIt := f.slots[0]
	require.False(t, hostHasIt)

	require.False(t, inv.UseItemOfType(world.ItemMedkit))
}

func TestUseItemOfType_DepletedButRemoveRefused(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 1, DefaultLimits())
	require.True(t, inv.PickupItem(f.spawn(1, world.ItemFood, 1)))

	f.refuseRemove = true
	require.True(t, inv.UseItemOfType(world.ItemFood))
	assert.True(t, inv.ContainsItemOfType(world.ItemFood), "still in the host slot")
	assert.Equal(t, world.ItemFood, f.slots[0].Type)
}

func TestUseItemOfType_Rejected(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 1, DefaultLimits())
	require.True(t, inv.PickupItem(f.spawn(1, world.ItemFood, 3)))

	f.refuseUse = true
	require.False(t, inv.UseItemOfType(world.ItemFood))
	require.True(t, inv.ContainsItemOfType(world.ItemFood))
	require.False(t, inv.UseItemOfType(world.ItemEmpty))
}

func TestUseFirstOf(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 2, DefaultLimits())
	require.True(t, inv.PickupItem(f.spawn(1, world.ItemPistol, 5)))

	used, ok := inv.UseFirstOf(world.ItemShotgun, world.ItemPistol)
	require.True(t, ok)
	require.Equal(t, world.ItemPistol, used)

	_, ok = inv.UseFirstOf(world.ItemMedkit)
	require.False(t, ok)
}

func TestPickupItem_SlotCountDeltaIsBounded(t *testing.T) {
	t.Parallel()

	f := newFakeItems()
	inv := newInventory(t, f, 3, DefaultLimits())
	types := []world.ItemType{
		world.ItemPistol, world.ItemFood, world.ItemGarbage, world.ItemShotgun,
		world.ItemMedkit, world.ItemFood, world.ItemPistol, world.ItemMedkit,
	}
	for i, typ := range types {
		before := occupied(inv)
		inv.PickupItem(f.spawn(i+1, typ, float64(i%3)))
		delta := occupied(inv) - before
		assert.Contains(t, []int{0, 1}, delta, "pickup %d (%s)", i, typ)
		assert.Equal(t, 3, inv.Capacity())
	}
}
