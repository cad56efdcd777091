package behavior

import (
	"errors"
	"fmt"

	"github.com/joeycumines/survivor/internal/blackboard"
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/inventory"
	"github.com/joeycumines/survivor/internal/memory"
	"github.com/joeycumines/survivor/internal/search"
	"github.com/joeycumines/survivor/internal/world"
)

// Blackboard keys.
var (
	KeyPlayerInfo     = blackboard.NewKey[world.AgentInfo]("PlayerInfo")
	KeyWorldInfo      = blackboard.NewKey[world.WorldInfo]("WorldInfo")
	KeySteeringOutput = blackboard.NewKey[world.SteeringOutput]("SteeringOutput")

	KeyInventory   = blackboard.NewKey[*inventory.Inventory]("Inventory")
	KeyNavigator   = blackboard.NewKey[world.Navigator]("Navigator")
	KeyItems       = blackboard.NewKey[world.ItemService]("Items")
	KeyKnownItems  = blackboard.NewKey[*memory.Items]("KnownItems")
	KeyKnownHouses = blackboard.NewKey[*memory.Houses]("KnownHouses")
	KeyWorldSearch = blackboard.NewKey[*search.WorldSearch]("WorldSearch")

	KeyHousesInFOV     = blackboard.NewKey[[]world.HouseInfo]("HousesInFOV")
	KeyEnemiesInFOV    = blackboard.NewKey[[]world.EnemyInfo]("EnemiesInFOV")
	KeyItemsInFOV      = blackboard.NewKey[[]world.EntityInfo]("ItemsInFOV")
	KeyPurgeZonesInFOV = blackboard.NewKey[[]world.PurgeZoneInfo]("PurgeZonesInFOV")

	KeyCurrentPurgeZone = blackboard.NewKey[world.PurgeZoneInfo]("CurrentPurgeZone")
	KeyClosestItem      = blackboard.NewKey[world.EntityInfo]("ClosestItem")
	KeyCurrentHouse     = blackboard.NewKey[*search.HouseSearch]("CurrentHouse")

	KeyTarget       = blackboard.NewKey[geom.Vector2]("Target")
	KeyFleeTarget   = blackboard.NewKey[geom.Vector2]("FleeTarget")
	KeyFleeDistance = blackboard.NewKey[float64]("FleeDistance")

	KeyCanRun     = blackboard.NewKey[bool]("CanRun")
	KeyIsFleeing  = blackboard.NewKey[bool]("IsFleeing")
	KeyWasFleeing = blackboard.NewKey[bool]("WasFleeing")
	KeyInDanger   = blackboard.NewKey[bool]("InDanger")
)

// InitialTarget is where the agent heads before it has decided anything.
var InitialTarget = geom.Vec(0, 50)

// Refs are the externally owned objects the blackboard references.
type Refs struct {
	Inventory   *inventory.Inventory
	Navigator   world.Navigator
	Items       world.ItemService
	KnownItems  *memory.Items
	KnownHouses *memory.Houses
	WorldSearch *search.WorldSearch
}

// Populate adds every key the tree uses, with its initial value. It must be
// called once, on an empty blackboard.
func Populate(b *blackboard.Blackboard, refs Refs, tuning Tuning) error {
	if refs.Inventory == nil || refs.Navigator == nil || refs.Items == nil ||
		refs.KnownItems == nil || refs.KnownHouses == nil || refs.WorldSearch == nil {
		return fmt.Errorf("behavior: incomplete refs")
	}
	return errors.Join(
		blackboard.Add(b, KeyPlayerInfo, world.AgentInfo{}),
		blackboard.Add(b, KeyWorldInfo, world.WorldInfo{}),
		blackboard.Add(b, KeySteeringOutput, world.SteeringOutput{AutoOrient: true}),

		blackboard.Add(b, KeyInventory, refs.Inventory),
		blackboard.Add(b, KeyNavigator, refs.Navigator),
		blackboard.Add(b, KeyItems, refs.Items),
		blackboard.Add(b, KeyKnownItems, refs.KnownItems),
		blackboard.Add(b, KeyKnownHouses, refs.KnownHouses),
		blackboard.Add(b, KeyWorldSearch, refs.WorldSearch),

		blackboard.Add(b, KeyHousesInFOV, []world.HouseInfo(nil)),
		blackboard.Add(b, KeyEnemiesInFOV, []world.EnemyInfo(nil)),
		blackboard.Add(b, KeyItemsInFOV, []world.EntityInfo(nil)),
		blackboard.Add(b, KeyPurgeZonesInFOV, []world.PurgeZoneInfo(nil)),

		blackboard.Add(b, KeyCurrentPurgeZone, world.PurgeZoneInfo{}),
		blackboard.Add(b, KeyClosestItem, world.EntityInfo{}),
		blackboard.Add(b, KeyCurrentHouse, (*search.HouseSearch)(nil)),

		blackboard.Add(b, KeyTarget, InitialTarget),
		blackboard.Add(b, KeyFleeTarget, geom.Vector2{}),
		blackboard.Add(b, KeyFleeDistance, tuning.FleeRadius),

		blackboard.Add(b, KeyCanRun, false),
		blackboard.Add(b, KeyIsFleeing, false),
		blackboard.Add(b, KeyWasFleeing, false),
		blackboard.Add(b, KeyInDanger, false),
	)
}
