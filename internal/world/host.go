package world

import "github.com/joeycumines/survivor/internal/geom"

// Perceiver yields the per-tick perception snapshot. Enumerations are
// finite and carry no ordering guarantee.
type Perceiver interface {
	AgentInfo() AgentInfo
	WorldInfo() WorldInfo
	EntitiesInFOV() []EntityInfo
	HousesInFOV() []HouseInfo
	EnemyInfo(entity EntityInfo) (EnemyInfo, bool)
	PurgeZoneInfo(entity EntityInfo) (PurgeZoneInfo, bool)
}

// Navigator answers nearest-navigable-point queries. It never fails.
type Navigator interface {
	ClosestNavigablePoint(p geom.Vector2) geom.Vector2
}

// ItemService performs item operations on behalf of the inventory.
//
// A grabbed item is in hand until Store puts it in a slot or Release puts it
// back where it was found. RemainingCharge reports ammo, medkit health or food
// energy depending on the item's category.
type ItemService interface {
	Inspect(entity EntityInfo) (ItemInfo, bool)
	Grab(entity EntityInfo, item ItemInfo) bool
	Store(slot int, item ItemInfo) bool
	Release(item ItemInfo) bool
	Remove(slot int) bool
	Destroy(entity EntityInfo) bool
	Use(slot int) bool
	RemainingCharge(item ItemInfo) float64
}

// Host is everything the agent needs from the simulation.
type Host interface {
	Perceiver
	Navigator
	ItemService
	InventoryCapacity() int
}
