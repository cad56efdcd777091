package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/joeycumines/survivor/internal/agent"
	"github.com/joeycumines/survivor/internal/behavior"
	"github.com/joeycumines/survivor/internal/rule"
)

type tuningField struct {
	key string
	set func(t *agent.Tuning, value string) error
}

func intField(key string, field func(t *agent.Tuning) *int) tuningField {
	return tuningField{key: key, set: func(t *agent.Tuning, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("must not be negative, got %d", v)
		}
		*field(t) = v
		return nil
	}}
}

// countField parses an int into a float field; the item thresholds are
// whole units in the config file.
func countField(key string, field func(t *agent.Tuning) *float64) tuningField {
	return tuningField{key: key, set: func(t *agent.Tuning, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("must not be negative, got %d", v)
		}
		*field(t) = float64(v)
		return nil
	}}
}

func floatField(key string, allowZero bool, field func(t *agent.Tuning) *float64) tuningField {
	return tuningField{key: key, set: func(t *agent.Tuning, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		if v < 0 || (v == 0 && !allowZero) {
			return fmt.Errorf("must be positive, got %v", v)
		}
		*field(t) = v
		return nil
	}}
}

func stringField(key string, field func(t *agent.Tuning) *string) tuningField {
	return tuningField{key: key, set: func(t *agent.Tuning, value string) error {
		*field(t) = value
		return nil
	}}
}

var tuningFields = []tuningField{
	intField("max-guns", func(t *agent.Tuning) *int { return &t.Limits.MaxGuns }),
	intField("max-medkits", func(t *agent.Tuning) *int { return &t.Limits.MaxMedkits }),
	intField("max-food", func(t *agent.Tuning) *int { return &t.Limits.MaxFood }),
	countField("min-gun-ammo", func(t *agent.Tuning) *float64 { return &t.Limits.MinGunAmmo }),
	countField("min-medkit-charge", func(t *agent.Tuning) *float64 { return &t.Limits.MinMedkitCharge }),
	countField("min-food-energy", func(t *agent.Tuning) *float64 { return &t.Limits.MinFoodEnergy }),

	floatField("flee-radius", false, func(t *agent.Tuning) *float64 { return &t.Behavior.FleeRadius }),
	floatField("fight-radius", false, func(t *agent.Tuning) *float64 { return &t.Behavior.FightRadius }),
	floatField("seek-acceptance-radius", false, func(t *agent.Tuning) *float64 { return &t.Behavior.SeekAcceptanceRadius }),
	floatField("max-item-walk-range", false, func(t *agent.Tuning) *float64 { return &t.Behavior.MaxItemWalkRange }),
	floatField("facing-tolerance", false, func(t *agent.Tuning) *float64 { return &t.Behavior.FacingTolerance }),

	floatField("house-wall-thickness", true, func(t *agent.Tuning) *float64 { return &t.House.WallThickness }),
	floatField("house-acceptance-radius", false, func(t *agent.Tuning) *float64 { return &t.House.AcceptanceRadius }),
	floatField("house-recheck-after", true, func(t *agent.Tuning) *float64 { return &t.House.RecheckAfter }),
	floatField("world-search-spacing", false, func(t *agent.Tuning) *float64 { return &t.World.Spacing }),
	floatField("world-acceptance-radius", false, func(t *agent.Tuning) *float64 { return &t.World.AcceptanceRadius }),
	floatField("known-item-radius", false, func(t *agent.Tuning) *float64 { return &t.KnownItemRadius }),

	stringField("heal-when", func(t *agent.Tuning) *string { return &t.Rules.HealWhen }),
	stringField("eat-when", func(t *agent.Tuning) *string { return &t.Rules.EatWhen }),
	stringField("run-when", func(t *agent.Tuning) *string { return &t.Rules.RunWhen }),
	{key: "branch-order", set: func(t *agent.Tuning, value string) error {
		t.BranchOrder = behavior.ParseOrder(value)
		return nil
	}},
}

// Tuning builds the agent tuning from c, starting at agent.DefaultTuning and
// applying every option s resolves to a non-empty value. The rules and the
// branch order are compiled once here so that a bad config fails before any
// agent is built.
func Tuning(c *Config, s *Schema) (agent.Tuning, error) {
	t := agent.DefaultTuning()
	var errs []error
	for _, f := range tuningFields {
		value := s.Resolve(c, f.key)
		if value == "" {
			continue
		}
		if err := f.set(&t, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.key, err))
		}
	}
	if _, err := rule.CompileSources(t.Rules); err != nil {
		errs = append(errs, err)
	}
	if _, err := behavior.NewTree(t.BranchOrder); err != nil {
		errs = append(errs, fmt.Errorf("branch-order: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return agent.Tuning{}, fmt.Errorf("config: %w", err)
	}
	return t, nil
}
