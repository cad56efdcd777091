// Package world defines the perception snapshots the agent consumes each tick
// and the interfaces of the host collaborators it calls into.
//
// All snapshot types are plain values. The host refreshes them every tick;
// the agent never mutates them.
package world

import (
	"fmt"

	"github.com/joeycumines/survivor/internal/geom"
)

// EntityType classifies a perceived entity.
type EntityType int

const (
	EntityItem EntityType = iota + 1
	EntityEnemy
	EntityPurgeZone
)

func (t EntityType) String() string {
	switch t {
	case EntityItem:
		return "item"
	case EntityEnemy:
		return "enemy"
	case EntityPurgeZone:
		return "purgezone"
	default:
		return fmt.Sprintf("EntityType(%d)", int(t))
	}
}

// ItemType is the concrete kind of an item. ItemEmpty is never produced by
// the host; the inventory uses it to mark a free slot.
type ItemType int

const (
	ItemEmpty ItemType = iota
	ItemPistol
	ItemShotgun
	ItemMedkit
	ItemFood
	ItemGarbage
)

var itemTypeNames = map[ItemType]string{
	ItemEmpty:   "empty",
	ItemPistol:  "pistol",
	ItemShotgun: "shotgun",
	ItemMedkit:  "medkit",
	ItemFood:    "food",
	ItemGarbage: "garbage",
}

func (t ItemType) String() string {
	if s, ok := itemTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

// ParseItemType is the inverse of ItemType.String.
func ParseItemType(s string) (ItemType, error) {
	for t, name := range itemTypeNames {
		if name == s && t != ItemEmpty {
			return t, nil
		}
	}
	return ItemEmpty, fmt.Errorf("unknown item type: %q", s)
}

// Category groups item types that share a pickup cap and a discard threshold.
type Category int

const (
	CategoryNone Category = iota
	CategoryGun
	CategoryMedkit
	CategoryFood
	CategoryGarbage
)

func (c Category) String() string {
	switch c {
	case CategoryGun:
		return "gun"
	case CategoryMedkit:
		return "medkit"
	case CategoryFood:
		return "food"
	case CategoryGarbage:
		return "garbage"
	default:
		return "none"
	}
}

// Category returns the cap category of the item type.
func (t ItemType) Category() Category {
	switch t {
	case ItemPistol, ItemShotgun:
		return CategoryGun
	case ItemMedkit:
		return CategoryMedkit
	case ItemFood:
		return CategoryFood
	case ItemGarbage:
		return CategoryGarbage
	default:
		return CategoryNone
	}
}

// Types returns the item types belonging to the category.
func (c Category) Types() []ItemType {
	switch c {
	case CategoryGun:
		return []ItemType{ItemPistol, ItemShotgun}
	case CategoryMedkit:
		return []ItemType{ItemMedkit}
	case CategoryFood:
		return []ItemType{ItemFood}
	case CategoryGarbage:
		return []ItemType{ItemGarbage}
	default:
		return nil
	}
}

// AgentInfo is the agent's own status.
type AgentInfo struct {
	Position        geom.Vector2
	Orientation     float64
	LinearVelocity  geom.Vector2
	MaxLinearSpeed  float64
	MaxAngularSpeed float64
	GrabRange       float64
	FOVRange        float64
	Health          float64
	Energy          float64
	Stamina         float64
	Bitten          bool
	WasBitten       bool
	Dead            bool
	IsInHouse       bool
}

// EntityInfo is an unclassified reference to something in the FOV.
type EntityInfo struct {
	Type     EntityType
	Location geom.Vector2
	Hash     int
}

// EnemyInfo describes an enemy in the FOV.
type EnemyInfo struct {
	Type     string
	Location geom.Vector2
	Size     float64
	Health   float64
	Hash     int
}

// ItemInfo describes an item, either lying in the world or held in a slot.
type ItemInfo struct {
	Type     ItemType
	Location geom.Vector2
	Hash     int
}

// IsEmpty reports whether the item is the free-slot marker.
func (i ItemInfo) IsEmpty() bool {
	return i.Type == ItemEmpty
}

// HouseInfo is the static footprint of a house.
type HouseInfo struct {
	Center geom.Vector2
	Size   geom.Vector2
}

// PurgeZoneInfo is a circular hazard.
type PurgeZoneInfo struct {
	Center geom.Vector2
	Radius float64
	Hash   int
}

// Contains reports whether p is strictly inside the zone.
func (z PurgeZoneInfo) Contains(p geom.Vector2) bool {
	return geom.Within(z.Center, p, z.Radius)
}

// WorldInfo is the playable area.
type WorldInfo struct {
	Center     geom.Vector2
	Dimensions geom.Vector2
}

// SteeringOutput is the per-tick decision record handed back to the host.
type SteeringOutput struct {
	LinearVelocity  geom.Vector2
	AngularVelocity float64
	RunMode         bool
	AutoOrient      bool
}
