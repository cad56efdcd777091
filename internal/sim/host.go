package sim

import (
	"maps"
	"math"
	"slices"

	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// Simulation constants.
const (
	// StaminaDrain and StaminaRegen are per second, while running and not.
	StaminaDrain = 1.0
	StaminaRegen = 0.5
	// EnergyDrain is per second; starving costs StarveDamage health per
	// second.
	EnergyDrain  = 0.05
	StarveDamage = 0.1
	// BiteCooldown is how often a single enemy can bite.
	BiteCooldown = 1.0
	// WasBittenTime is how long WasBitten stays set after a bite.
	WasBittenTime = 1.0

	PistolRange  = 30.0
	PistolCone   = 0.3
	ShotgunRange = 15.0
	ShotgunCone  = 0.6

	MaxStat = 10.0
)

type groundItem struct {
	info world.ItemInfo
}

type enemy struct {
	info     world.EnemyInfo
	speed    float64
	damage   float64
	cooldown float64
}

type purgeZone struct {
	info       world.PurgeZoneInfo
	activeFrom float64
	damage     float64
}

// Host is an in-process world implementing world.Host. It is deterministic:
// the same scenario and steering sequence always produce the same run.
//
// Not safe for concurrent use.
type Host struct {
	world         world.WorldInfo
	agent         world.AgentInfo
	runMultiplier float64
	houses        []world.HouseInfo

	items   map[int]*groundItem
	enemies map[int]*enemy
	zones   map[int]*purgeZone

	slots  []world.ItemInfo
	held   map[int]world.ItemInfo
	charge map[int]float64

	time      float64
	bittenFor float64
	kills     int
}

// NewHost builds the starting world of sc.
func NewHost(sc *Scenario) *Host {
	h := &Host{
		world: world.WorldInfo{Center: sc.World.Center, Dimensions: sc.World.Size},
		agent: world.AgentInfo{
			Position:        sc.Agent.Position,
			Orientation:     sc.Agent.Orientation,
			MaxLinearSpeed:  sc.Agent.MaxLinearSpeed,
			MaxAngularSpeed: sc.Agent.MaxAngularSpeed,
			GrabRange:       sc.Agent.GrabRange,
			FOVRange:        sc.Agent.FOVRange,
			Health:          sc.Agent.Health,
			Energy:          sc.Agent.Energy,
			Stamina:         sc.Agent.Stamina,
		},
		runMultiplier: sc.Agent.RunMultiplier,
		items:         make(map[int]*groundItem),
		enemies:       make(map[int]*enemy),
		zones:         make(map[int]*purgeZone),
		slots:         make([]world.ItemInfo, sc.InventoryCapacity),
		held:          make(map[int]world.ItemInfo),
		charge:        make(map[int]float64),
	}
	for _, house := range sc.Houses {
		h.houses = append(h.houses, world.HouseInfo{Center: house.Center, Size: house.Size})
	}

	hash := 0
	for _, spec := range sc.Items {
		hash++
		t, _ := world.ParseItemType(spec.Type)
		h.items[hash] = &groundItem{info: world.ItemInfo{Type: t, Location: spec.Location, Hash: hash}}
		h.charge[hash] = spec.Charge
	}
	for _, spec := range sc.Enemies {
		hash++
		h.enemies[hash] = &enemy{
			info: world.EnemyInfo{
				Type:     spec.Type,
				Location: spec.Location,
				Size:     spec.Size,
				Health:   spec.Health,
				Hash:     hash,
			},
			speed:  spec.Speed,
			damage: spec.Damage,
		}
	}
	for _, spec := range sc.PurgeZones {
		hash++
		h.zones[hash] = &purgeZone{
			info:       world.PurgeZoneInfo{Center: spec.Center, Radius: spec.Radius, Hash: hash},
			activeFrom: spec.ActiveFrom,
			damage:     spec.Damage,
		}
	}
	h.agent.IsInHouse = h.inHouse(h.agent.Position)
	return h
}

func (h *Host) AgentInfo() world.AgentInfo { return h.agent }

func (h *Host) WorldInfo() world.WorldInfo { return h.world }

func (h *Host) InventoryCapacity() int { return len(h.slots) }

// EntitiesInFOV lists items, enemies and active purge zones within the FOV
// range, ordered by hash.
func (h *Host) EntitiesInFOV() []world.EntityInfo {
	pos, fov := h.agent.Position, h.agent.FOVRange
	var out []world.EntityInfo
	for _, hash := range slices.Sorted(maps.Keys(h.items)) {
		if it := h.items[hash]; geom.Within(pos, it.info.Location, fov) {
			out = append(out, world.EntityInfo{Type: world.EntityItem, Location: it.info.Location, Hash: hash})
		}
	}
	for _, hash := range slices.Sorted(maps.Keys(h.enemies)) {
		if e := h.enemies[hash]; geom.Within(pos, e.info.Location, fov) {
			out = append(out, world.EntityInfo{Type: world.EntityEnemy, Location: e.info.Location, Hash: hash})
		}
	}
	for _, hash := range slices.Sorted(maps.Keys(h.zones)) {
		z := h.zones[hash]
		if h.time >= z.activeFrom && geom.Within(pos, z.info.Center, fov+z.info.Radius) {
			out = append(out, world.EntityInfo{Type: world.EntityPurgeZone, Location: z.info.Center, Hash: hash})
		}
	}
	return out
}

// HousesInFOV lists houses whose footprint comes within the FOV range.
func (h *Host) HousesInFOV() []world.HouseInfo {
	var out []world.HouseInfo
	for _, house := range h.houses {
		if geom.Within(h.agent.Position, nearestOnRect(house, h.agent.Position), h.agent.FOVRange) {
			out = append(out, house)
		}
	}
	return out
}

func nearestOnRect(house world.HouseInfo, p geom.Vector2) geom.Vector2 {
	half := house.Size.Scale(0.5)
	return geom.Vec(
		geom.Clamp(p.X, house.Center.X-half.X, house.Center.X+half.X),
		geom.Clamp(p.Y, house.Center.Y-half.Y, house.Center.Y+half.Y),
	)
}

func (h *Host) inHouse(p geom.Vector2) bool {
	for _, house := range h.houses {
		if nearestOnRect(house, p) == p {
			return true
		}
	}
	return false
}

func (h *Host) EnemyInfo(e world.EntityInfo) (world.EnemyInfo, bool) {
	en, ok := h.enemies[e.Hash]
	if !ok || e.Type != world.EntityEnemy {
		return world.EnemyInfo{}, false
	}
	return en.info, true
}

func (h *Host) PurgeZoneInfo(e world.EntityInfo) (world.PurgeZoneInfo, bool) {
	z, ok := h.zones[e.Hash]
	if !ok || e.Type != world.EntityPurgeZone {
		return world.PurgeZoneInfo{}, false
	}
	return z.info, true
}

// ClosestNavigablePoint clamps p to the world bounds.
func (h *Host) ClosestNavigablePoint(p geom.Vector2) geom.Vector2 {
	return h.clampToWorld(p)
}

func (h *Host) clampToWorld(p geom.Vector2) geom.Vector2 {
	half := h.world.Dimensions.Scale(0.5)
	c := h.world.Center
	return geom.Vec(
		geom.Clamp(p.X, c.X-half.X, c.X+half.X),
		geom.Clamp(p.Y, c.Y-half.Y, c.Y+half.Y),
	)
}

func (h *Host) Inspect(e world.EntityInfo) (world.ItemInfo, bool) {
	it, ok := h.items[e.Hash]
	if !ok || e.Type != world.EntityItem {
		return world.ItemInfo{}, false
	}
	return it.info, true
}

// Grab lifts an item within grab range off the ground. It must then be
// placed with Store.
func (h *Host) Grab(e world.EntityInfo, _ world.ItemInfo) bool {
	it, ok := h.items[e.Hash]
	if !ok || !geom.Within(h.agent.Position, it.info.Location, h.agent.GrabRange) {
		return false
	}
	delete(h.items, e.Hash)
	h.held[e.Hash] = it.info
	return true
}

// Store places a grabbed item into an empty slot.
func (h *Host) Store(slot int, item world.ItemInfo) bool {
	if slot < 0 || slot >= len(h.slots) || !h.slots[slot].IsEmpty() {
		return false
	}
	held, ok := h.held[item.Hash]
	if !ok {
		return false
	}
	delete(h.held, item.Hash)
	h.slots[slot] = held
	return true
}

// Release puts a grabbed item back on the ground where it was found.
func (h *Host) Release(item world.ItemInfo) bool {
	held, ok := h.held[item.Hash]
	if !ok {
		return false
	}
	delete(h.held, item.Hash)
	h.items[item.Hash] = &groundItem{info: held}
	return true
}

// Remove discards the item in slot.
func (h *Host) Remove(slot int) bool {
	if slot < 0 || slot >= len(h.slots) || h.slots[slot].IsEmpty() {
		return false
	}
	delete(h.charge, h.slots[slot].Hash)
	h.slots[slot] = world.ItemInfo{}
	return true
}

// Destroy removes an item within grab range from the world.
func (h *Host) Destroy(e world.EntityInfo) bool {
	it, ok := h.items[e.Hash]
	if !ok || !geom.Within(h.agent.Position, it.info.Location, h.agent.GrabRange) {
		return false
	}
	delete(h.items, e.Hash)
	delete(h.charge, e.Hash)
	return true
}

// Use applies the item in slot. Guns fire at enemies in front of the agent,
// medkits and food restore health and energy up to the maximum.
func (h *Host) Use(slot int) bool {
	if slot < 0 || slot >= len(h.slots) || h.slots[slot].IsEmpty() {
		return false
	}
	item := h.slots[slot]
	if h.charge[item.Hash] <= 0 {
		return false
	}
	switch item.Type {
	case world.ItemPistol:
		h.charge[item.Hash]--
		if e := h.firstInCone(PistolRange, PistolCone); e != nil {
			h.hit(e)
		}
	case world.ItemShotgun:
		h.charge[item.Hash]--
		for _, e := range h.allInCone(ShotgunRange, ShotgunCone) {
			h.hit(e)
		}
	case world.ItemMedkit:
		h.charge[item.Hash] -= restore(&h.agent.Health, h.charge[item.Hash])
	case world.ItemFood:
		h.charge[item.Hash] -= restore(&h.agent.Energy, h.charge[item.Hash])
	default:
		return false
	}
	return true
}

func restore(stat *float64, charge float64) float64 {
	amount := math.Min(charge, MaxStat-*stat)
	if amount < 0 {
		amount = 0
	}
	*stat += amount
	return amount
}

func (h *Host) allInCone(rng, cone float64) []*enemy {
	var out []*enemy
	for _, hash := range slices.Sorted(maps.Keys(h.enemies)) {
		e := h.enemies[hash]
		to := e.info.Location.Sub(h.agent.Position)
		if to.LengthSquared() >= rng*rng {
			continue
		}
		if math.Abs(geom.WrapAngle(geom.Heading(to)-h.agent.Orientation)) <= cone {
			out = append(out, e)
		}
	}
	return out
}

func (h *Host) firstInCone(rng, cone float64) *enemy {
	var (
		best  *enemy
		bestD float64
	)
	for _, e := range h.allInCone(rng, cone) {
		if d := geom.DistanceSquared(h.agent.Position, e.info.Location); best == nil || d < bestD {
			best, bestD = e, d
		}
	}
	return best
}

func (h *Host) hit(e *enemy) {
	e.info.Health--
	if e.info.Health <= 0 {
		delete(h.enemies, e.info.Hash)
		h.kills++
	}
}

func (h *Host) RemainingCharge(item world.ItemInfo) float64 {
	return h.charge[item.Hash]
}

// Step advances the world by dt seconds, applying the agent's steering.
func (h *Host) Step(dt float64, s world.SteeringOutput) {
	if h.agent.Dead {
		return
	}
	a := &h.agent

	v := s.LinearVelocity
	limit := a.MaxLinearSpeed
	if s.RunMode && a.Stamina > 0 {
		v = v.Scale(h.runMultiplier)
		limit *= h.runMultiplier
		a.Stamina = math.Max(0, a.Stamina-StaminaDrain*dt)
	} else {
		a.Stamina = math.Min(MaxStat, a.Stamina+StaminaRegen*dt)
	}
	if l := v.Length(); l > limit {
		v = v.Scale(limit / l)
	}
	a.LinearVelocity = v
	a.Position = h.clampToWorld(a.Position.Add(v.Scale(dt)))

	// auto-orient turns towards the heading no faster than an explicit turn
	turn := geom.Clamp(s.AngularVelocity, -a.MaxAngularSpeed, a.MaxAngularSpeed) * dt
	if s.AutoOrient {
		turn = 0
		if !v.IsZero() {
			limit := a.MaxAngularSpeed * dt
			turn = geom.Clamp(geom.WrapAngle(geom.Heading(v)-a.Orientation), -limit, limit)
		}
	}
	a.Orientation = geom.WrapAngle(a.Orientation + turn)

	a.Energy -= EnergyDrain * dt
	if a.Energy <= 0 {
		a.Energy = 0
		a.Health -= StarveDamage * dt
	}

	bitten := false
	for _, hash := range slices.Sorted(maps.Keys(h.enemies)) {
		e := h.enemies[hash]
		e.cooldown = math.Max(0, e.cooldown-dt)
		to := a.Position.Sub(e.info.Location)
		reach := e.info.Size + 1
		if to.LengthSquared() > reach*reach {
			step := math.Min(e.speed*dt, to.Length()-reach)
			e.info.Location = e.info.Location.Add(to.Normalize().Scale(step))
			continue
		}
		if e.cooldown == 0 {
			a.Health -= e.damage
			e.cooldown = BiteCooldown
			bitten = true
		}
	}
	a.Bitten = bitten
	if bitten {
		h.bittenFor = WasBittenTime
	} else {
		h.bittenFor = math.Max(0, h.bittenFor-dt)
	}
	a.WasBitten = !bitten && h.bittenFor > 0

	for _, z := range h.zones {
		if h.time >= z.activeFrom && z.info.Contains(a.Position) {
			a.Health -= z.damage * dt
		}
	}

	a.IsInHouse = h.inHouse(a.Position)
	h.time += dt
	if a.Health <= 0 {
		a.Health = 0
		a.Dead = true
	}
}

// Time returns the simulated seconds elapsed.
func (h *Host) Time() float64 { return h.time }

// Kills returns the number of enemies killed.
func (h *Host) Kills() int { return h.kills }

// EnemiesLeft returns the number of living enemies.
func (h *Host) EnemiesLeft() int { return len(h.enemies) }

// ItemsLeft returns the number of items still on the ground.
func (h *Host) ItemsLeft() int { return len(h.items) }

// Slots returns a copy of the host-side inventory.
func (h *Host) Slots() []world.ItemInfo {
	return slices.Clone(h.slots)
}
