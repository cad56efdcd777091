package behavior

import (
	"math"

	"github.com/joeycumines/survivor/internal/blackboard"
	"github.com/joeycumines/survivor/internal/bt"
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// Seek steers towards the navigable point nearest Target. Inside the
// acceptance radius the agent stops.
func Seek(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	target, ok := blackboard.Get(c.Board, KeyTarget)
	if !ok {
		return bt.Failure
	}
	nav, ok := blackboard.Get(c.Board, KeyNavigator)
	if !ok || nav == nil {
		return bt.Failure
	}
	canRun, _ := blackboard.Get(c.Board, KeyCanRun)

	target = nav.ClosestNavigablePoint(target)
	steering := world.SteeringOutput{AutoOrient: true}
	if !geom.Within(target, player.Position, c.Config.SeekAcceptanceRadius) {
		steering.RunMode = canRun
		steering.LinearVelocity = target.Sub(player.Position).Normalize().Scale(player.MaxLinearSpeed)
	}
	return bt.FromBool(set(c, KeySteeringOutput, steering))
}

// Flee steers away from FleeTarget until the agent is FleeDistance from it.
// Once far enough the agent stops, and a set IsFleeing gives way to
// WasFleeing.
func Flee(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	threat, ok := blackboard.Get(c.Board, KeyFleeTarget)
	if !ok {
		return bt.Failure
	}
	nav, ok := blackboard.Get(c.Board, KeyNavigator)
	if !ok || nav == nil {
		return bt.Failure
	}
	radius, ok := blackboard.Get(c.Board, KeyFleeDistance)
	if !ok || radius <= 0 {
		radius = c.Config.FleeRadius
	}
	canRun, _ := blackboard.Get(c.Board, KeyCanRun)

	threat = nav.ClosestNavigablePoint(threat)
	steering := world.SteeringOutput{AutoOrient: true}
	if geom.Within(threat, player.Position, radius) {
		steering.RunMode = canRun
		away := player.Position.Sub(threat)
		if away.IsZero() {
			away = geom.OrientationToVector(player.Orientation)
		}
		steering.LinearVelocity = away.Normalize().Scale(player.MaxLinearSpeed)
	} else if fleeing, _ := blackboard.Get(c.Board, KeyIsFleeing); fleeing {
		set(c, KeyIsFleeing, false)
		set(c, KeyWasFleeing, true)
	}
	return bt.FromBool(set(c, KeySteeringOutput, steering))
}

// Face turns towards Target, keeping whatever linear velocity was already
// chosen this tick.
func Face(c *Context) bt.Status {
	return face(c, false)
}

// FaceBehind turns away from Target.
func FaceBehind(c *Context) bt.Status {
	return face(c, true)
}

func face(c *Context, behind bool) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	target, ok := blackboard.Get(c.Board, KeyTarget)
	if !ok {
		return bt.Failure
	}
	steering, ok := blackboard.Get(c.Board, KeySteeringOutput)
	if !ok {
		return bt.Failure
	}
	dir := target.Sub(player.Position)
	if behind {
		dir = dir.Scale(-1)
	}
	steering.AutoOrient = false
	steering.AngularVelocity = 0
	if !dir.IsZero() {
		diff := geom.WrapAngle(geom.Heading(dir) - player.Orientation)
		steering.AngularVelocity = geom.Clamp(diff, -1, 1) * player.MaxAngularSpeed
	}
	return bt.FromBool(set(c, KeySteeringOutput, steering))
}

// GetReadyToEscapePurgeZone makes the centre of CurrentPurgeZone the thing to
// flee from, far enough to clear the zone, at a run.
func GetReadyToEscapePurgeZone(c *Context) bt.Status {
	zone, ok := blackboard.Get(c.Board, KeyCurrentPurgeZone)
	if !ok || zone.Radius <= 0 {
		return bt.Failure
	}
	ok = set(c, KeyFleeTarget, zone.Center) &&
		set(c, KeyFleeDistance, math.Max(c.Config.FleeRadius, zone.Radius+c.Config.SeekAcceptanceRadius)) &&
		set(c, KeyCanRun, true)
	return bt.FromBool(ok)
}

// GetReadyToFight makes Flee back away from FleeTarget only inside
// FightRadius.
func GetReadyToFight(c *Context) bt.Status {
	return bt.FromBool(set(c, KeyFleeDistance, c.Config.FightRadius))
}

// GetReadyToFlee makes Target the thing to flee from. The run rule decides
// whether the agent sprints. IsFleeing is only raised while Target is inside
// the flee radius.
func GetReadyToFlee(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	target, ok := blackboard.Get(c.Board, KeyTarget)
	if !ok {
		return bt.Failure
	}
	run := c.Rules != nil && c.eval(c.Rules.Run)
	ok = set(c, KeyFleeTarget, target) &&
		set(c, KeyFleeDistance, c.Config.FleeRadius) &&
		set(c, KeyCanRun, run)
	if ok && geom.Within(target, player.Position, c.Config.FleeRadius) {
		ok = set(c, KeyIsFleeing, true)
	}
	return bt.FromBool(ok)
}

// SetClosestEnemyAsTarget targets the nearest visible enemy, which also
// becomes the flee target.
func SetClosestEnemyAsTarget(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	enemies, _ := blackboard.Get(c.Board, KeyEnemiesInFOV)
	i := closest(player.Position, len(enemies), func(i int) geom.Vector2 { return enemies[i].Location })
	if i < 0 {
		return bt.Failure
	}
	loc := enemies[i].Location
	return bt.FromBool(set(c, KeyTarget, loc) && set(c, KeyFleeTarget, loc))
}

// SetClosestItemAsTarget targets the nearest visible item and caches it as
// ClosestItem.
func SetClosestItemAsTarget(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	items, _ := blackboard.Get(c.Board, KeyItemsInFOV)
	i := closest(player.Position, len(items), func(i int) geom.Vector2 { return items[i].Location })
	if i < 0 {
		return bt.Failure
	}
	return bt.FromBool(set(c, KeyTarget, items[i].Location) && set(c, KeyClosestItem, items[i]))
}

// SetClosestHouseAsTarget starts searching the nearest visible house that is
// due for a check.
func SetClosestHouseAsTarget(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	houses, _ := blackboard.Get(c.Board, KeyHousesInFOV)
	known, ok := blackboard.Get(c.Board, KeyKnownHouses)
	if !ok || known == nil {
		return bt.Failure
	}
	best, bestD := -1, 0.0
	for i, house := range houses {
		hs, _ := known.Observe(house)
		if !hs.ShouldCheck() {
			continue
		}
		// strict comparison keeps the first of equally distant houses
		if d := geom.DistanceSquared(player.Position, house.Center); best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return bt.Failure
	}
	hs, _ := known.Observe(houses[best])
	c.logger().Debug("exploring house", "center", hs.House().Center)
	return bt.FromBool(set(c, KeyCurrentHouse, hs) && set(c, KeyTarget, hs.CurrentLocation()))
}

// SetKnownItemAsTarget targets the nearest remembered item worth fetching.
func SetKnownItemAsTarget(c *Context) bt.Status {
	item, ok := c.knownItemTarget()
	if !ok {
		return bt.Failure
	}
	return bt.FromBool(set(c, KeyTarget, item.Location))
}

// SetTargetBehindPlayer assumes the biter is behind the agent and targets a
// point there, for both facing and fleeing.
func SetTargetBehindPlayer(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	behind := player.Position.Sub(geom.OrientationToVector(player.Orientation).Scale(c.Config.BehindDistance))
	ok = set(c, KeyTarget, behind) &&
		set(c, KeyFleeTarget, behind) &&
		set(c, KeyFleeDistance, c.Config.FleeRadius)
	return bt.FromBool(ok)
}

// ShootTarget fires a held gun. With several enemies in view the shotgun is
// preferred, otherwise the pistol; the other gun is the fallback.
func ShootTarget(c *Context) bt.Status {
	inv, ok := c.inventory()
	if !ok {
		return bt.Failure
	}
	enemies, _ := blackboard.Get(c.Board, KeyEnemiesInFOV)
	order := []world.ItemType{world.ItemPistol, world.ItemShotgun}
	if len(enemies) >= 2 {
		order = []world.ItemType{world.ItemShotgun, world.ItemPistol}
	}
	used, ok := inv.UseFirstOf(order...)
	if !ok {
		return bt.Failure
	}
	c.logger().Debug("fired", "weapon", used, "enemies", len(enemies))
	return bt.Success
}

func UseMedkit(c *Context) bt.Status {
	return useItem(c, world.ItemMedkit)
}

func EatFood(c *Context) bt.Status {
	return useItem(c, world.ItemFood)
}

func useItem(c *Context, t world.ItemType) bt.Status {
	inv, ok := c.inventory()
	if !ok {
		return bt.Failure
	}
	return bt.FromBool(inv.UseItemOfType(t))
}

// PickUpClosestItem takes ClosestItem into the inventory and forgets it if it
// was remembered.
func PickUpClosestItem(c *Context) bt.Status {
	inv, ok := c.inventory()
	if !ok {
		return bt.Failure
	}
	item, ok := blackboard.Get(c.Board, KeyClosestItem)
	if !ok || item.Type != world.EntityItem {
		return bt.Failure
	}
	if !inv.PickupItem(item) {
		return bt.Failure
	}
	if known, ok := blackboard.Get(c.Board, KeyKnownItems); ok && known != nil {
		known.Forget(item.Location)
	}
	set(c, KeyClosestItem, world.EntityInfo{})
	return bt.Success
}

// RememberItem records ClosestItem for later. Garbage is not worth
// remembering, and an item already known fails so the tree moves on.
func RememberItem(c *Context) bt.Status {
	entity, ok := blackboard.Get(c.Board, KeyClosestItem)
	if !ok || entity.Type != world.EntityItem {
		return bt.Failure
	}
	items, ok := blackboard.Get(c.Board, KeyItems)
	if !ok || items == nil {
		return bt.Failure
	}
	known, ok := blackboard.Get(c.Board, KeyKnownItems)
	if !ok || known == nil {
		return bt.Failure
	}
	item, ok := items.Inspect(entity)
	if !ok {
		return bt.Failure
	}
	switch item.Type.Category() {
	case world.CategoryNone, world.CategoryGarbage:
		return bt.Failure
	}
	if !known.Remember(item) {
		return bt.Failure
	}
	c.logger().Debug("remembered item", "type", item.Type, "location", item.Location)
	return bt.Success
}

// ExploreHouse advances the current house search and targets its next
// waypoint. Finishing the house clears CurrentHouse and fails.
func ExploreHouse(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	hs, ok := blackboard.Get(c.Board, KeyCurrentHouse)
	if !ok || hs == nil {
		return bt.Failure
	}
	hs.UpdateCurrentLocation(player.Position)
	if !hs.ShouldCheck() {
		c.logger().Debug("house searched", "center", hs.House().Center)
		set(c, KeyCurrentHouse, nil)
		return bt.Failure
	}
	return bt.FromBool(set(c, KeyTarget, hs.CurrentLocation()))
}

// ExploreWorld advances the world search and targets its next waypoint.
func ExploreWorld(c *Context) bt.Status {
	player, ok := c.player()
	if !ok {
		return bt.Failure
	}
	ws, ok := blackboard.Get(c.Board, KeyWorldSearch)
	if !ok || ws == nil {
		return bt.Failure
	}
	ws.UpdateCurrentLocation(player.Position)
	return bt.FromBool(set(c, KeyTarget, ws.CurrentLocation()))
}

// closest returns the index of the nearest of n locations, or -1. Ties go to
// the first encountered.
func closest(from geom.Vector2, n int, at func(int) geom.Vector2) int {
	best, bestD := -1, 0.0
	for i := 0; i < n; i++ {
		if d := geom.DistanceSquared(from, at(i)); best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
