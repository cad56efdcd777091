// Package agent runs one survivor: it refreshes perception into the
// blackboard, advances the agent's timers, and ticks the behavior tree once
// per update.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joeycumines/survivor/internal/behavior"
	"github.com/joeycumines/survivor/internal/blackboard"
	"github.com/joeycumines/survivor/internal/bt"
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/inventory"
	"github.com/joeycumines/survivor/internal/memory"
	"github.com/joeycumines/survivor/internal/rule"
	"github.com/joeycumines/survivor/internal/search"
	"github.com/joeycumines/survivor/internal/world"
)

// Tuning gathers everything configurable about an agent.
type Tuning struct {
	Limits   inventory.Limits
	Behavior behavior.Tuning
	House    search.HouseOptions
	World    search.WorldOptions
	Rules    rule.Sources

	// KnownItemRadius deduplicates remembered items.
	KnownItemRadius float64
	// BranchOrder is the tree's branch priority; empty means the default.
	BranchOrder []string
}

// DefaultTuning returns the tuning the agent ships with.
func DefaultTuning() Tuning {
	return Tuning{
		Limits:          inventory.DefaultLimits(),
		Behavior:        behavior.DefaultTuning(),
		House:           search.DefaultHouseOptions(),
		World:           search.DefaultWorldOptions(),
		Rules:           rule.DefaultSources(),
		KnownItemRadius: 2,
	}
}

// Timer durations, in seconds.
const (
	WasFleeingTime = 2.0
	IsFleeingTime  = 3.0
	CanRunTime     = 1.3
	InDangerTime   = 3.0
)

// Option configures an Agent.
type Option func(*Agent)

// WithObserver receives every node result, in evaluation order.
func WithObserver(obs bt.Observer) Option {
	return func(a *Agent) {
		a.observers = append(a.observers, obs)
	}
}

// Agent is a single survivor. Not safe for concurrent use; run each agent on
// one goroutine.
type Agent struct {
	id     uuid.UUID
	host   world.Host
	tuning Tuning
	logger *slog.Logger

	board       *blackboard.Blackboard
	inv         *inventory.Inventory
	knownItems  *memory.Items
	knownHouses *memory.Houses
	worldSearch *search.WorldSearch
	ctx         *behavior.Context
	tree        *bt.Tree[*behavior.Context]
	timers      []*flagTimer
	observers   []bt.Observer
	ticks       int
}

// New builds an agent for host.
func New(host world.Host, tuning Tuning, logger *slog.Logger, opts ...Option) (*Agent, error) {
	if host == nil {
		return nil, fmt.Errorf("agent: nil host")
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	logger = logger.With("agent", id.String())

	rules, err := rule.CompileSources(tuning.Rules)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	root, err := behavior.NewTree(tuning.BranchOrder)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	inv, err := inventory.New(host, host.InventoryCapacity(), tuning.Limits, logger)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}

	a := &Agent{
		id:          id,
		host:        host,
		tuning:      tuning,
		logger:      logger,
		board:       new(blackboard.Blackboard),
		inv:         inv,
		knownItems:  memory.NewItems(tuning.KnownItemRadius),
		knownHouses: memory.NewHouses(tuning.House),
		worldSearch: search.NewWorldSearch(host.WorldInfo(), tuning.World),
	}
	for _, opt := range opts {
		opt(a)
	}

	err = behavior.Populate(a.board, behavior.Refs{
		Inventory:   a.inv,
		Navigator:   host,
		Items:       host,
		KnownItems:  a.knownItems,
		KnownHouses: a.knownHouses,
		WorldSearch: a.worldSearch,
	}, tuning.Behavior)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}

	a.timers = []*flagTimer{
		{key: behavior.KeyWasFleeing, duration: WasFleeingTime},
		{key: behavior.KeyIsFleeing, duration: IsFleeingTime},
		{key: behavior.KeyCanRun, duration: CanRunTime},
		{key: behavior.KeyInDanger, duration: InDangerTime},
	}

	a.ctx = &behavior.Context{
		Board:  a.board,
		Config: tuning.Behavior,
		Rules:  rules,
		Logger: logger,
	}
	var treeOpts []bt.Option
	if obs := a.observer(); obs != nil {
		treeOpts = append(treeOpts, bt.WithObserver(obs))
	}
	a.tree = bt.New(a.ctx, root, treeOpts...)

	logger.Info("agent created",
		"inventory", inv.Capacity(),
		"waypoints", len(a.worldSearch.Waypoints()))
	return a, nil
}

func (a *Agent) observer() bt.Observer {
	observers := a.observers
	if a.logger.Enabled(context.Background(), slog.LevelDebug) {
		logger := a.logger
		observers = append(observers, func(name string, kind bt.Kind, status bt.Status) {
			logger.Debug("node", "name", name, "kind", kind, "status", status)
		})
	}
	switch len(observers) {
	case 0:
		return nil
	case 1:
		return observers[0]
	}
	return func(name string, kind bt.Kind, status bt.Status) {
		for _, obs := range observers {
			obs(name, kind, status)
		}
	}
}

// ID returns the agent's unique id.
func (a *Agent) ID() uuid.UUID { return a.id }

// Board returns the agent's blackboard.
func (a *Agent) Board() *blackboard.Blackboard { return a.board }

// Inventory returns the agent's inventory.
func (a *Agent) Inventory() *inventory.Inventory { return a.inv }

// KnownItems returns the remembered items.
func (a *Agent) KnownItems() *memory.Items { return a.knownItems }

// KnownHouses returns every house seen so far.
func (a *Agent) KnownHouses() *memory.Houses { return a.knownHouses }

// WorldSearch returns the world exploration state.
func (a *Agent) WorldSearch() *search.WorldSearch { return a.worldSearch }

// Tree returns the behavior tree definition.
func (a *Agent) Tree() *behavior.Node { return a.tree.Root() }

// Ticks returns the number of completed updates.
func (a *Agent) Ticks() int { return a.ticks }

// Update runs one decision cycle and returns the steering for this tick.
//
// Perception is fully refreshed before the tree is evaluated, and the tree
// runs to completion before the steering is read back.
func (a *Agent) Update(dt float64) (world.SteeringOutput, error) {
	if err := a.perceive(dt); err != nil {
		return world.SteeringOutput{}, err
	}
	for _, t := range a.timers {
		if err := t.advance(a.board, dt); err != nil {
			return world.SteeringOutput{}, err
		}
	}

	status, err := a.tree.Tick()
	if err != nil {
		return world.SteeringOutput{}, fmt.Errorf("agent: tick %d: %w", a.ticks, err)
	}
	a.ticks++

	steering, ok := blackboard.Get(a.board, behavior.KeySteeringOutput)
	if !ok {
		return world.SteeringOutput{}, fmt.Errorf("agent: %w: %s", blackboard.ErrKeyNotFound, behavior.KeySteeringOutput.Name())
	}
	if status != bt.Success {
		a.logger.Debug("tree did not succeed", "status", status)
	}
	return steering, nil
}

func (a *Agent) perceive(dt float64) error {
	info := a.host.AgentInfo()

	var (
		items   []world.EntityInfo
		enemies []world.EnemyInfo
		zones   []world.PurgeZoneInfo
	)
	for _, e := range a.host.EntitiesInFOV() {
		switch e.Type {
		case world.EntityItem:
			// kept as entity references so they can be grabbed or destroyed
			items = append(items, e)
		case world.EntityEnemy:
			if enemy, ok := a.host.EnemyInfo(e); ok {
				enemies = append(enemies, enemy)
			}
		case world.EntityPurgeZone:
			if zone, ok := a.host.PurgeZoneInfo(e); ok {
				zones = append(zones, zone)
			}
		}
	}

	houses := a.host.HousesInFOV()
	for _, h := range houses {
		if _, created := a.knownHouses.Observe(h); created {
			a.logger.Info("discovered house", "center", h.Center, "size", h.Size)
		}
	}
	a.knownHouses.Update(dt)

	a.pruneKnownItems(info.Position, info.GrabRange, items)

	return firstErr(
		blackboard.Change(a.board, behavior.KeyPlayerInfo, info),
		blackboard.Change(a.board, behavior.KeyWorldInfo, a.host.WorldInfo()),
		blackboard.Change(a.board, behavior.KeyItemsInFOV, items),
		blackboard.Change(a.board, behavior.KeyEnemiesInFOV, enemies),
		blackboard.Change(a.board, behavior.KeyPurgeZonesInFOV, zones),
		blackboard.Change(a.board, behavior.KeyHousesInFOV, houses),
		blackboard.Change(a.board, behavior.KeyFleeDistance, a.tuning.Behavior.FleeRadius),
	)
}

// pruneKnownItems forgets remembered items the agent is standing on that are
// no longer there.
func (a *Agent) pruneKnownItems(pos geom.Vector2, grabRange float64, visible []world.EntityInfo) {
	for _, item := range a.knownItems.All() {
		if !geom.Within(pos, item.Location, grabRange) {
			continue
		}
		seen := false
		for _, e := range visible {
			if geom.Within(e.Location, item.Location, a.tuning.KnownItemRadius) {
				seen = true
				break
			}
		}
		if !seen {
			a.knownItems.Forget(item.Location)
			a.logger.Debug("forgot missing item", "type", item.Type, "location", item.Location)
		}
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("agent: %w", err)
		}
	}
	return nil
}
