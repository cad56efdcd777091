// Package inventory models the agent's fixed-capacity item slots.
//
// The inventory mirrors the host's slots: every change is pushed to the
// host through world.ItemService, and the local copy is only updated once
// the host accepts it.
package inventory

import (
	"fmt"
	"log/slog"

	"github.com/joeycumines/survivor/internal/world"
)

// Limits configures per-category caps and the thresholds below which a held
// item may be discarded to make room for a fresh one.
type Limits struct {
	MaxGuns    int
	MaxMedkits int
	MaxFood    int

	MinGunAmmo      float64
	MinMedkitCharge float64
	MinFoodEnergy   float64
}

// DefaultLimits returns the limits the agent ships with.
func DefaultLimits() Limits {
	return Limits{
		MaxGuns:         2,
		MaxMedkits:      2,
		MaxFood:         1,
		MinGunAmmo:      2,
		MinMedkitCharge: 2,
		MinFoodEnergy:   2,
	}
}

func (l Limits) max(c world.Category) int {
	switch c {
	case world.CategoryGun:
		return l.MaxGuns
	case world.CategoryMedkit:
		return l.MaxMedkits
	case world.CategoryFood:
		return l.MaxFood
	default:
		return 0
	}
}

func (l Limits) minCharge(c world.Category) float64 {
	switch c {
	case world.CategoryGun:
		return l.MinGunAmmo
	case world.CategoryMedkit:
		return l.MinMedkitCharge
	case world.CategoryFood:
		return l.MinFoodEnergy
	default:
		return 0
	}
}

// Inventory is a fixed-size ordered sequence of slots. A slot holds either a
// real item or the empty marker; the slot count never changes.
//
// Not safe for concurrent use.
type Inventory struct {
	items  world.ItemService
	limits Limits
	slots  []world.ItemInfo
	logger *slog.Logger
}

// New creates an inventory with capacity empty slots.
func New(items world.ItemService, capacity int, limits Limits, logger *slog.Logger) (*Inventory, error) {
	if items == nil {
		return nil, fmt.Errorf("inventory: nil item service")
	}
	if capacity < 0 {
		return nil, fmt.Errorf("inventory: negative capacity %d", capacity)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{
		items:  items,
		limits: limits,
		slots:  make([]world.ItemInfo, capacity),
		logger: logger,
	}, nil
}

// Capacity returns the number of slots.
func (inv *Inventory) Capacity() int {
	return len(inv.slots)
}

// Limits returns the configured caps and thresholds.
func (inv *Inventory) Limits() Limits {
	return inv.limits
}

// Slots returns a copy of the slot contents.
func (inv *Inventory) Slots() []world.ItemInfo {
	out := make([]world.ItemInfo, len(inv.slots))
	copy(out, inv.slots)
	return out
}

// FreeSlot returns the index of the first empty slot.
func (inv *Inventory) FreeSlot() (int, bool) {
	for i, item := range inv.slots {
		if item.IsEmpty() {
			return i, true
		}
	}
	return -1, false
}

// IsFull reports whether every slot is occupied.
func (inv *Inventory) IsFull() bool {
	_, ok := inv.FreeSlot()
	return !ok
}

// AmountOfType counts slots holding the given type.
func (inv *Inventory) AmountOfType(t world.ItemType) int {
	n := 0
	for _, item := range inv.slots {
		if item.Type == t && !item.IsEmpty() {
			n++
		}
	}
	return n
}

// AmountOfCategory counts slots holding any type of the category.
func (inv *Inventory) AmountOfCategory(c world.Category) int {
	n := 0
	for _, t := range c.Types() {
		n += inv.AmountOfType(t)
	}
	return n
}

// ContainsItemOfType reports whether any occupied slot holds the type.
func (inv *Inventory) ContainsItemOfType(t world.ItemType) bool {
	return t != world.ItemEmpty && inv.AmountOfType(t) > 0
}

func (inv *Inventory) hasTooManyOf(c world.Category) bool {
	return inv.AmountOfCategory(c) >= inv.limits.max(c)
}

// almostEmptySlot returns the first slot of the same category whose
// remaining charge is below the category's discard threshold.
func (inv *Inventory) almostEmptySlot(c world.Category) (int, bool) {
	if c == world.CategoryNone || c == world.CategoryGarbage {
		return -1, false
	}
	threshold := inv.limits.minCharge(c)
	for i, item := range inv.slots {
		if item.IsEmpty() || item.Type.Category() != c {
			continue
		}
		if inv.items.RemainingCharge(item) < threshold {
			return i, true
		}
	}
	return -1, false
}

// Admits reports whether PickupItem would accept the item, without changing
// anything. Garbage is always admitted since picking it up destroys it.
func (inv *Inventory) Admits(item world.ItemInfo) bool {
	c := item.Type.Category()
	switch c {
	case world.CategoryGarbage:
		return true
	case world.CategoryNone:
		return false
	}
	if !inv.IsFull() {
		return !inv.hasTooManyOf(c)
	}
	_, ok := inv.almostEmptySlot(c)
	return ok
}

// ShouldPickupItem is the advisory counterpart of PickupItem. It inspects the
// entity and applies the same admission rules; it never evicts.
func (inv *Inventory) ShouldPickupItem(entity world.EntityInfo) bool {
	if entity.Type != world.EntityItem {
		return false
	}
	item, ok := inv.items.Inspect(entity)
	if !ok {
		return false
	}
	return inv.Admits(item)
}

// PickupItem tries to take the entity into the inventory.
//
// Garbage is destroyed and reported as picked up without using a slot. With
// a free slot the category cap applies. With no free slot, an almost empty
// item of the same category is replaced; otherwise the pickup fails.
func (inv *Inventory) PickupItem(entity world.EntityInfo) bool {
	if entity.Type != world.EntityItem {
		return false
	}
	item, ok := inv.items.Inspect(entity)
	if !ok {
		return false
	}

	c := item.Type.Category()
	switch c {
	case world.CategoryGarbage:
		if !inv.items.Destroy(entity) {
			return false
		}
		inv.logger.Debug("destroyed garbage", "location", item.Location)
		return true
	case world.CategoryNone:
		return false
	}

	if slot, ok := inv.FreeSlot(); ok {
		if inv.hasTooManyOf(c) {
			return false
		}
		return inv.grabInto(slot, entity, item)
	}

	slot, ok := inv.almostEmptySlot(c)
	if !ok {
		return false
	}
	// grab first so a refused grab leaves the old item in place
	if !inv.items.Grab(entity, item) {
		return false
	}
	if !inv.items.Remove(slot) {
		inv.release(slot, item, "remove refused")
		return false
	}
	evicted := inv.slots[slot]
	inv.slots[slot] = world.ItemInfo{}
	if !inv.items.Store(slot, item) {
		inv.release(slot, item, "store refused after eviction", "evicted", evicted.Type)
		return false
	}
	inv.slots[slot] = item
	inv.logger.Info("replaced item", "slot", slot, "old", evicted.Type, "new", item.Type)
	return true
}

func (inv *Inventory) grabInto(slot int, entity world.EntityInfo, item world.ItemInfo) bool {
	if !inv.items.Grab(entity, item) {
		return false
	}
	if !inv.items.Store(slot, item) {
		inv.release(slot, item, "store refused")
		return false
	}
	inv.slots[slot] = item
	inv.logger.Info("picked up item", "slot", slot, "type", item.Type)
	return true
}

// release hands a grabbed item that never reached slot back to the host.
func (inv *Inventory) release(slot int, item world.ItemInfo, reason string, args ...any) {
	args = append([]any{"slot", slot, "type", item.Type, "reason", reason}, args...)
	if !inv.items.Release(item) {
		inv.logger.Error("pickup failed and the item could not be released", args...)
		return
	}
	inv.logger.Warn("pickup failed, item released", args...)
}

// UseItemOfType uses the first slot holding the type. When the item's
// remaining charge drops to zero or below, the slot is cleared.
func (inv *Inventory) UseItemOfType(t world.ItemType) bool {
	if t == world.ItemEmpty {
		return false
	}
	for i, item := range inv.slots {
		if item.Type != t {
			continue
		}
		if !inv.items.Use(i) {
			return false
		}
		if remaining := inv.items.RemainingCharge(item); remaining <= 0 {
			if !inv.items.Remove(i) {
				inv.logger.Warn("depleted item could not be removed", "slot", i, "type", t)
				return true
			}
			inv.slots[i] = world.ItemInfo{}
			inv.logger.Info("item depleted", "slot", i, "type", t)
		}
		return true
	}
	return false
}

// UseFirstOf tries the types in order and uses the first one held. It
// returns the type used.
func (inv *Inventory) UseFirstOf(types ...world.ItemType) (world.ItemType, bool) {
	for _, t := range types {
		if inv.ContainsItemOfType(t) {
			if inv.UseItemOfType(t) {
				return t, true
			}
			return world.ItemEmpty, false
		}
	}
	return world.ItemEmpty, false
}
