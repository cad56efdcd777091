package behavior

import (
	"log/slog"

	"github.com/joeycumines/survivor/internal/blackboard"
	"github.com/joeycumines/survivor/internal/inventory"
	"github.com/joeycumines/survivor/internal/rule"
	"github.com/joeycumines/survivor/internal/world"
)

// Player stat ceilings.
const (
	MaxHealth = 10.0
	MaxEnergy = 10.0
)

// Tuning holds the numeric knobs of the behavior library.
type Tuning struct {
	// SeekAcceptanceRadius is how close to a target counts as arrived.
	SeekAcceptanceRadius float64
	// FleeRadius is how far from a threat the agent stops fleeing.
	FleeRadius float64
	// FightRadius is how close an armed agent lets its target come before
	// backing away. It should sit inside the FOV range so that the target
	// stays in view.
	FightRadius float64
	// MaxItemWalkRange limits how far the agent walks for an item.
	MaxItemWalkRange float64
	// FacingTolerance is the largest heading error, in radians, that still
	// counts as facing the target.
	FacingTolerance float64
	// BehindDistance is how far behind the agent SetTargetBehindPlayer
	// places the target.
	BehindDistance float64
}

// DefaultTuning returns the values the agent ships with.
func DefaultTuning() Tuning {
	return Tuning{
		SeekAcceptanceRadius: 2,
		FleeRadius:           50,
		FightRadius:          20,
		MaxItemWalkRange:     60,
		FacingTolerance:      0.1,
		BehindDistance:       10,
	}
}

// Context is the per-agent state passed by pointer into every node.
type Context struct {
	Board  *blackboard.Blackboard
	Config Tuning
	Rules  *rule.Rules
	Logger *slog.Logger
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// ruleEnv assembles the expression environment from the blackboard.
func (c *Context) ruleEnv() (rule.Env, bool) {
	agent, ok := blackboard.Get(c.Board, KeyPlayerInfo)
	if !ok {
		return rule.Env{}, false
	}
	enemies, _ := blackboard.Get(c.Board, KeyEnemiesInFOV)
	items, _ := blackboard.Get(c.Board, KeyItemsInFOV)
	houses, _ := blackboard.Get(c.Board, KeyHousesInFOV)
	return rule.Env{
		Agent:   agent,
		Enemies: len(enemies),
		Items:   len(items),
		Houses:  len(houses),
	}, true
}

// eval runs r, treating any error or missing rule as false.
func (c *Context) eval(r *rule.Rule) bool {
	if r == nil {
		return false
	}
	env, ok := c.ruleEnv()
	if !ok {
		return false
	}
	v, err := r.Eval(env)
	if err != nil {
		c.logger().Warn("rule evaluation failed", "rule", r.Name(), "error", err)
		return false
	}
	return v
}

// set writes v under key. The keys are all added by Populate, so a failure
// means the blackboard was built elsewhere; the node reports it as failure.
func set[T any](c *Context, key blackboard.Key[T], v T) bool {
	if err := blackboard.Change(c.Board, key, v); err != nil {
		c.logger().Debug("blackboard write failed", "key", key.Name(), "error", err)
		return false
	}
	return true
}

func (c *Context) inventory() (*inventory.Inventory, bool) {
	inv, ok := blackboard.Get(c.Board, KeyInventory)
	return inv, ok && inv != nil
}

func (c *Context) player() (world.AgentInfo, bool) {
	return blackboard.Get(c.Board, KeyPlayerInfo)
}
