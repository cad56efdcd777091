// Package sim is a small deterministic world the agent can be run against
// without the game: a YAML scenario, a world.Host implementation, and a
// per-tick trace.
package sim

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

// Scenario is the YAML description of a starting world.
type Scenario struct {
	Name              string          `yaml:"name"`
	World             WorldSpec       `yaml:"world"`
	Agent             AgentSpec       `yaml:"agent"`
	InventoryCapacity int             `yaml:"inventory-capacity"`
	Houses            []HouseSpec     `yaml:"houses"`
	Items             []ItemSpec      `yaml:"items"`
	Enemies           []EnemySpec     `yaml:"enemies"`
	PurgeZones        []PurgeZoneSpec `yaml:"purge-zones"`
}

type WorldSpec struct {
	Center geom.Vector2 `yaml:"center"`
	Size   geom.Vector2 `yaml:"size"`
}

type AgentSpec struct {
	Position        geom.Vector2 `yaml:"position"`
	Orientation     float64      `yaml:"orientation"`
	MaxLinearSpeed  float64      `yaml:"max-linear-speed"`
	MaxAngularSpeed float64      `yaml:"max-angular-speed"`
	RunMultiplier   float64      `yaml:"run-multiplier"`
	GrabRange       float64      `yaml:"grab-range"`
	FOVRange        float64      `yaml:"fov-range"`
	Health          float64      `yaml:"health"`
	Energy          float64      `yaml:"energy"`
	Stamina         float64      `yaml:"stamina"`
}

type HouseSpec struct {
	Center geom.Vector2 `yaml:"center"`
	Size   geom.Vector2 `yaml:"size"`
}

// ItemSpec is an item lying in the world. Charge is ammo, medkit health or
// food energy depending on the type.
type ItemSpec struct {
	Type     string       `yaml:"type"`
	Location geom.Vector2 `yaml:"location"`
	Charge   float64      `yaml:"charge"`
}

type EnemySpec struct {
	Type     string       `yaml:"type"`
	Location geom.Vector2 `yaml:"location"`
	Size     float64      `yaml:"size"`
	Health   float64      `yaml:"health"`
	Speed    float64      `yaml:"speed"`
	Damage   float64      `yaml:"damage"`
}

// PurgeZoneSpec is a circular hazard that becomes active at ActiveFrom
// seconds into the run.
type PurgeZoneSpec struct {
	Center     geom.Vector2 `yaml:"center"`
	Radius     float64      `yaml:"radius"`
	ActiveFrom float64      `yaml:"active-from"`
	Damage     float64      `yaml:"damage"`
}

// Scenario defaults for fields left at zero.
const (
	DefaultInventoryCapacity = 5
	DefaultMaxLinearSpeed    = 5
	DefaultMaxAngularSpeed   = 1
	DefaultRunMultiplier     = 2
	DefaultGrabRange         = 3
	DefaultFOVRange          = 30
	DefaultStat              = 10
	DefaultEnemySize         = 1
	DefaultEnemyHealth       = 3
	DefaultEnemySpeed        = 2
	DefaultEnemyDamage       = 1
	DefaultPurgeDamage       = 5
)

// LoadScenario decodes and validates a scenario.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadScenarioFile reads a scenario from path.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()
	sc, err := LoadScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func (sc *Scenario) applyDefaults() {
	if sc.InventoryCapacity == 0 {
		sc.InventoryCapacity = DefaultInventoryCapacity
	}
	a := &sc.Agent
	defaultFloat(&a.MaxLinearSpeed, DefaultMaxLinearSpeed)
	defaultFloat(&a.MaxAngularSpeed, DefaultMaxAngularSpeed)
	defaultFloat(&a.RunMultiplier, DefaultRunMultiplier)
	defaultFloat(&a.GrabRange, DefaultGrabRange)
	defaultFloat(&a.FOVRange, DefaultFOVRange)
	defaultFloat(&a.Health, DefaultStat)
	defaultFloat(&a.Energy, DefaultStat)
	defaultFloat(&a.Stamina, DefaultStat)
	for i := range sc.Enemies {
		e := &sc.Enemies[i]
		if e.Type == "" {
			e.Type = "zombie"
		}
		defaultFloat(&e.Size, DefaultEnemySize)
		defaultFloat(&e.Health, DefaultEnemyHealth)
		defaultFloat(&e.Speed, DefaultEnemySpeed)
		defaultFloat(&e.Damage, DefaultEnemyDamage)
	}
	for i := range sc.PurgeZones {
		defaultFloat(&sc.PurgeZones[i].Damage, DefaultPurgeDamage)
	}
}

func defaultFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate checks the scenario for values the simulator cannot run.
func (sc *Scenario) Validate() error {
	var errs []error
	if sc.World.Size.X <= 0 || sc.World.Size.Y <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %v", sc.World.Size))
	}
	if sc.InventoryCapacity < 0 {
		errs = append(errs, fmt.Errorf("inventory-capacity must not be negative, got %d", sc.InventoryCapacity))
	}
	for i, h := range sc.Houses {
		if h.Size.X <= 0 || h.Size.Y <= 0 {
			errs = append(errs, fmt.Errorf("houses[%d]: size must be positive", i))
		}
	}
	for i, item := range sc.Items {
		if _, err := world.ParseItemType(item.Type); err != nil {
			errs = append(errs, fmt.Errorf("items[%d]: %w", i, err))
		}
	}
	for i, z := range sc.PurgeZones {
		if z.Radius <= 0 {
			errs = append(errs, fmt.Errorf("purge-zones[%d]: radius must be positive", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	return nil
}
