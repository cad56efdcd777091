package behavior

import (
	"math"

	"github.com/joeycumines/survivor/internal/blackboard"
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// IsInPurgeZone reports whether the agent stands inside a visible purge zone.
// The first such zone is cached as CurrentPurgeZone.
func IsInPurgeZone(c *Context) bool {
	zones, ok := blackboard.Get(c.Board, KeyPurgeZonesInFOV)
	if !ok || len(zones) == 0 {
		return false
	}
	player, ok := c.player()
	if !ok {
		return false
	}
	for _, zone := range zones {
		if zone.Contains(player.Position) {
			return set(c, KeyCurrentPurgeZone, zone)
		}
	}
	return false
}

func IsEnemyInFOV(c *Context) bool {
	enemies, ok := blackboard.Get(c.Board, KeyEnemiesInFOV)
	return ok && len(enemies) > 0
}

// HasGun reports whether any gun is held.
func HasGun(c *Context) bool {
	inv, ok := c.inventory()
	return ok && inv.AmountOfCategory(world.CategoryGun) > 0
}

// IsFacingTarget reports whether the heading error towards Target is within
// the facing tolerance.
func IsFacingTarget(c *Context) bool {
	player, ok := c.player()
	if !ok {
		return false
	}
	target, ok := blackboard.Get(c.Board, KeyTarget)
	if !ok {
		return false
	}
	to := target.Sub(player.Position)
	if to.IsZero() {
		return true
	}
	diff := geom.WrapAngle(geom.Heading(to) - player.Orientation)
	return math.Abs(diff) <= c.Config.FacingTolerance
}

func IsFleeing(c *Context) bool {
	v, _ := blackboard.Get(c.Board, KeyIsFleeing)
	return v
}

func WasFleeing(c *Context) bool {
	v, _ := blackboard.Get(c.Board, KeyWasFleeing)
	return v
}

// IsBitten reports a bite this tick and raises InDanger.
func IsBitten(c *Context) bool {
	player, ok := c.player()
	if !ok || !player.Bitten {
		return false
	}
	set(c, KeyInDanger, true)
	return true
}

// WasBitten reports whether the agent is still in danger from a recent bite.
// A bite reported by the host raises InDanger, which the agent clears on a
// timer.
func WasBitten(c *Context) bool {
	player, ok := c.player()
	if !ok {
		return false
	}
	if player.WasBitten {
		set(c, KeyInDanger, true)
		return true
	}
	v, _ := blackboard.Get(c.Board, KeyInDanger)
	return v
}

func IsHurt(c *Context) bool {
	player, ok := c.player()
	return ok && player.Health < MaxHealth
}

// ShouldHeal reports whether the heal rule holds and a medkit is held.
func ShouldHeal(c *Context) bool {
	inv, ok := c.inventory()
	if !ok || !inv.ContainsItemOfType(world.ItemMedkit) {
		return false
	}
	return c.Rules != nil && c.eval(c.Rules.Heal)
}

func IsHungry(c *Context) bool {
	player, ok := c.player()
	return ok && player.Energy < MaxEnergy
}

// ShouldEat reports whether the eat rule holds and food is held.
func ShouldEat(c *Context) bool {
	inv, ok := c.inventory()
	if !ok || !inv.ContainsItemOfType(world.ItemFood) {
		return false
	}
	return c.Rules != nil && c.eval(c.Rules.Eat)
}

func IsItemInFOV(c *Context) bool {
	items, ok := blackboard.Get(c.Board, KeyItemsInFOV)
	return ok && len(items) > 0
}

// IsItemInPickupRange reports whether ClosestItem is within grab range.
func IsItemInPickupRange(c *Context) bool {
	player, ok := c.player()
	if !ok {
		return false
	}
	item, ok := blackboard.Get(c.Board, KeyClosestItem)
	if !ok || item.Type != world.EntityItem {
		return false
	}
	return geom.Within(player.Position, item.Location, player.GrabRange)
}

// ShouldPickupClosestItem reports whether ClosestItem is within walking range
// and the inventory would admit it.
func ShouldPickupClosestItem(c *Context) bool {
	player, ok := c.player()
	if !ok {
		return false
	}
	item, ok := blackboard.Get(c.Board, KeyClosestItem)
	if !ok || item.Type != world.EntityItem {
		return false
	}
	if !geom.Within(player.Position, item.Location, c.Config.MaxItemWalkRange) {
		return false
	}
	inv, ok := c.inventory()
	return ok && inv.ShouldPickupItem(item)
}

// HasKnownItem reports whether a remembered item is worth walking back to.
func HasKnownItem(c *Context) bool {
	_, ok := c.knownItemTarget()
	return ok
}

func (c *Context) knownItemTarget() (world.ItemInfo, bool) {
	player, ok := c.player()
	if !ok {
		return world.ItemInfo{}, false
	}
	known, ok := blackboard.Get(c.Board, KeyKnownItems)
	if !ok || known == nil {
		return world.ItemInfo{}, false
	}
	inv, ok := c.inventory()
	if !ok {
		return world.ItemInfo{}, false
	}
	return known.Closest(player.Position, func(item world.ItemInfo) bool {
		return geom.Within(player.Position, item.Location, c.Config.MaxItemWalkRange) &&
			inv.Admits(item)
	})
}

// IsExploringHouse reports whether a house search is in progress.
func IsExploringHouse(c *Context) bool {
	hs, ok := blackboard.Get(c.Board, KeyCurrentHouse)
	return ok && hs != nil
}
