package behavior

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeycumines/survivor/internal/bt"
)

// ErrUnknownBranch is returned by NewTree for a branch name it does not know.
var ErrUnknownBranch = errors.New("behavior: unknown branch")

// Branch names, in default priority order.
const (
	BranchPurge      = "purge"
	BranchCombat     = "combat"
	BranchBitten     = "bitten"
	BranchSurvival   = "survival"
	BranchItems      = "items"
	BranchKnownItems = "known-items"
	BranchHouses     = "houses"
	BranchWorld      = "world"
	BranchWander     = "wander"
)

// DefaultOrder is the default branch priority, highest first.
var DefaultOrder = []string{
	BranchPurge,
	BranchCombat,
	BranchBitten,
	BranchSurvival,
	BranchItems,
	BranchKnownItems,
	BranchHouses,
	BranchWorld,
	BranchWander,
}

// Node is a behavior tree node over the agent context.
type Node = bt.Node[*Context]

var (
	cond = bt.Conditional[*Context]
	act  = bt.Action[*Context]
	seq  = bt.Sequence[*Context]
	sel  = bt.Selector[*Context]
	not  = bt.Inverted[*Context]
)

var branches = map[string]func() *Node{
	BranchPurge: func() *Node {
		return seq(BranchPurge,
			cond("IsInPurgeZone", IsInPurgeZone),
			act("GetReadyToEscapePurgeZone", GetReadyToEscapePurgeZone),
			act("Flee", Flee),
		)
	},
	BranchCombat: func() *Node {
		return sel(BranchCombat,
			seq("fight",
				seq("engage",
					cond("IsEnemyInFOV", IsEnemyInFOV),
					cond("HasGun", HasGun),
					act("SetClosestEnemyAsTarget", SetClosestEnemyAsTarget),
					act("GetReadyToFight", GetReadyToFight),
					act("Flee", Flee),
					act("Face", Face),
				),
				sel("fire",
					seq("shoot",
						cond("IsFacingTarget", IsFacingTarget),
						act("ShootTarget", ShootTarget),
					),
					// still turning, or the shot was refused
					act("Aim", Face),
				),
			),
			seq("run",
				cond("IsEnemyInFOV", IsEnemyInFOV),
				not(cond("HasGun", HasGun)),
				act("SetClosestEnemyAsTarget", SetClosestEnemyAsTarget),
				act("GetReadyToFlee", GetReadyToFlee),
				act("Flee", Flee),
			),
			seq("keep-fleeing",
				cond("IsFleeing", IsFleeing),
				act("Flee", Flee),
			),
			seq("look-back",
				cond("WasFleeing", WasFleeing),
				act("Face", Face),
			),
		)
	},
	BranchBitten: func() *Node {
		return sel(BranchBitten,
			seq("bitten",
				cond("IsBitten", IsBitten),
				act("SetTargetBehindPlayer", SetTargetBehindPlayer),
			),
			seq("turn-and-fight",
				cond("WasBitten", WasBitten),
				cond("HasGun", HasGun),
				act("Flee", Flee),
				act("Face", Face),
			),
			seq("run-from-bite",
				cond("WasBitten", WasBitten),
				not(cond("HasGun", HasGun)),
				act("GetReadyToFlee", GetReadyToFlee),
				act("Flee", Flee),
			),
		)
	},
	BranchSurvival: func() *Node {
		return sel(BranchSurvival,
			seq("heal",
				cond("IsHurt", IsHurt),
				cond("ShouldHeal", ShouldHeal),
				act("UseMedkit", UseMedkit),
			),
			seq("eat",
				cond("IsHungry", IsHungry),
				cond("ShouldEat", ShouldEat),
				act("EatFood", EatFood),
			),
		)
	},
	BranchItems: func() *Node {
		return sel(BranchItems,
			seq("walk-to-item",
				cond("IsItemInFOV", IsItemInFOV),
				act("SetClosestItemAsTarget", SetClosestItemAsTarget),
				cond("ShouldPickupClosestItem", ShouldPickupClosestItem),
				not(cond("IsItemInPickupRange", IsItemInPickupRange)),
				act("Seek", Seek),
			),
			seq("grab-item",
				cond("IsItemInFOV", IsItemInFOV),
				act("SetClosestItemAsTarget", SetClosestItemAsTarget),
				cond("ShouldPickupClosestItem", ShouldPickupClosestItem),
				cond("IsItemInPickupRange", IsItemInPickupRange),
				act("PickUpClosestItem", PickUpClosestItem),
			),
			seq("note-item",
				cond("IsItemInFOV", IsItemInFOV),
				act("SetClosestItemAsTarget", SetClosestItemAsTarget),
				not(cond("ShouldPickupClosestItem", ShouldPickupClosestItem)),
				act("RememberItem", RememberItem),
			),
		)
	},
	BranchKnownItems: func() *Node {
		return seq(BranchKnownItems,
			cond("HasKnownItem", HasKnownItem),
			act("SetKnownItemAsTarget", SetKnownItemAsTarget),
			act("Seek", Seek),
		)
	},
	BranchHouses: func() *Node {
		return seq(BranchHouses,
			sel("pick-house",
				cond("IsExploringHouse", IsExploringHouse),
				act("SetClosestHouseAsTarget", SetClosestHouseAsTarget),
			),
			act("ExploreHouse", ExploreHouse),
			act("Seek", Seek),
		)
	},
	BranchWorld: func() *Node {
		return seq(BranchWorld,
			act("ExploreWorld", ExploreWorld),
			act("Seek", Seek),
		)
	},
	BranchWander: func() *Node {
		return act(BranchWander, Seek)
	},
}

// NewTree builds the root selector over the named branches, highest priority
// first. An empty order means DefaultOrder. Names must be known and may not
// repeat.
func NewTree(order []string) (*Node, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	seen := make(map[string]bool, len(order))
	children := make([]*Node, 0, len(order))
	for _, name := range order {
		name = strings.TrimSpace(name)
		build, ok := branches[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBranch, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("behavior: duplicate branch %q", name)
		}
		seen[name] = true
		children = append(children, build())
	}
	return sel("root", children...), nil
}

// ParseOrder splits a comma separated branch list.
func ParseOrder(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
