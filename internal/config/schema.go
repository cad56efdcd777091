package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
)

// OptionType is the kind of value an option holds.
type OptionType string

const (
	TypeString OptionType = "string"
	// TypeBool accepts whatever ParseBool does.
	TypeBool  OptionType = "bool"
	TypeInt   OptionType = "int"
	TypeFloat OptionType = "float"
	// TypeList is a comma-separated list of names.
	TypeList OptionType = "list"
)

func (t OptionType) check(value string) error {
	var err error
	switch t {
	case TypeBool:
		_, err = ParseBool(value)
	case TypeInt:
		_, err = strconv.Atoi(value)
	case TypeFloat:
		_, err = strconv.ParseFloat(value, 64)
	}
	if err != nil {
		return fmt.Errorf("expected %s, got %q", t, value)
	}
	return nil
}

// Option describes one recognized key. Section is empty for global options.
type Option struct {
	Section     string
	Key         string
	Type        OptionType
	Default     string
	Description string
	// EnvVar, when set and present in the environment, beats the file.
	EnvVar string
}

type optionKey struct{ section, key string }

// Schema is the fixed set of options survivor understands, in the order
// they are documented.
type Schema struct {
	options []Option
	index   map[optionKey]int
}

func newSchema(options []Option) *Schema {
	s := &Schema{options: options, index: make(map[optionKey]int, len(options))}
	for i, o := range options {
		s.index[optionKey{o.Section, o.Key}] = i
	}
	return s
}

// Lookup returns the option declared for key in section, or nil.
func (s *Schema) Lookup(section, key string) *Option {
	if i, ok := s.index[optionKey{section, key}]; ok {
		return &s.options[i]
	}
	return nil
}

// lookupIn is Lookup with the global options visible from every section.
func (s *Schema) lookupIn(section, key string) *Option {
	if o := s.Lookup(section, key); o != nil || section == "" {
		return o
	}
	return s.Lookup("", key)
}

// Sections lists the global section ("") followed by every named section, in
// declaration order.
func (s *Schema) Sections() []string {
	out := []string{""}
	for _, o := range s.options {
		if !slices.Contains(out, o.Section) {
			out = append(out, o.Section)
		}
	}
	return out
}

// Options returns the options declared in section.
func (s *Schema) Options(section string) []Option {
	var out []Option
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, o)
		}
	}
	return out
}

// Resolve returns the effective global value of key.
func (s *Schema) Resolve(c *Config, key string) string {
	return s.ResolveIn(c, "", key)
}

// ResolveIn returns the effective value of key as seen from section: the
// option's env var, then the section's value, then the global value, then
// the default. Unknown keys without a value resolve to "".
func (s *Schema) ResolveIn(c *Config, section, key string) string {
	opt := s.lookupIn(section, key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if v, ok := c.GetCommandOption(section, key); ok {
		return v
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ValidateConfig reports unknown keys and values of the wrong type, sorted.
// Global options may also be set inside a section.
func ValidateConfig(c *Config, s *Schema) []string {
	var issues []string
	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
		} else if err := opt.Type.check(value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}
	for section, values := range c.Commands {
		for key, value := range values {
			opt := s.lookupIn(section, key)
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
			} else if err := opt.Type.check(value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}
	slices.Sort(issues)
	return issues
}

// FormatHelp renders the option reference printed by "config schema".
func (s *Schema) FormatHelp() string {
	var b strings.Builder
	for _, section := range s.Sections() {
		opts := s.Options(section)
		if len(opts) == 0 {
			continue
		}
		if section == "" {
			b.WriteString("Global Options:\n")
		} else {
			fmt.Fprintf(&b, "\n[%s] Options:\n", section)
		}
		w := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
		for _, o := range opts {
			fmt.Fprintf(w, "  %s\t%s%s\n", o.Key, o.Description, o.annotation())
		}
		_ = w.Flush()
	}
	return b.String()
}

func (o Option) annotation() string {
	var parts []string
	if o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// LogLevelEnvVar overrides log.level.
const LogLevelEnvVar = "SURVIVOR_LOG_LEVEL"

const runSection = "run"

// DefaultSchema returns every option survivor understands. Agent defaults
// mirror agent.DefaultTuning.
func DefaultSchema() *Schema {
	return newSchema([]Option{
		{Key: "max-guns", Type: TypeInt, Default: "2", Description: "Guns the inventory keeps"},
		{Key: "max-medkits", Type: TypeInt, Default: "2", Description: "Medkits the inventory keeps"},
		{Key: "max-food", Type: TypeInt, Default: "1", Description: "Food items the inventory keeps"},
		{Key: "min-gun-ammo", Type: TypeInt, Default: "2", Description: "Ammo below which a gun counts as almost empty"},
		{Key: "min-medkit-charge", Type: TypeInt, Default: "2", Description: "Charge below which a medkit counts as almost empty"},
		{Key: "min-food-energy", Type: TypeInt, Default: "2", Description: "Energy below which food counts as almost empty"},

		{Key: "flee-radius", Type: TypeFloat, Default: "50", Description: "Distance at which fleeing stops"},
		{Key: "fight-radius", Type: TypeFloat, Default: "20", Description: "Distance an armed agent keeps from its target"},
		{Key: "seek-acceptance-radius", Type: TypeFloat, Default: "2", Description: "Distance at which a seek target counts as reached"},
		{Key: "max-item-walk-range", Type: TypeFloat, Default: "60", Description: "Farthest the agent walks for an item"},
		{Key: "facing-tolerance", Type: TypeFloat, Default: "0.1", Description: "Angle, in radians, that counts as facing the target"},

		{Key: "house-wall-thickness", Type: TypeFloat, Default: "5", Description: "Inset of house waypoints from the walls"},
		{Key: "house-acceptance-radius", Type: TypeFloat, Default: "3", Description: "Distance at which a house waypoint counts as reached"},
		{Key: "house-recheck-after", Type: TypeFloat, Default: "100", Description: "Seconds before a searched house is searched again"},
		{Key: "world-search-spacing", Type: TypeFloat, Default: "40", Description: "Distance between world search rings"},
		{Key: "world-acceptance-radius", Type: TypeFloat, Default: "5", Description: "Distance at which a world waypoint counts as reached"},
		{Key: "known-item-radius", Type: TypeFloat, Default: "2", Description: "Items closer than this are the same remembered item"},

		{Key: "branch-order", Type: TypeList, Default: "purge,combat,bitten,survival,items,known-items,houses,world,wander", Description: "Tree branches in priority order"},
		{Key: "heal-when", Type: TypeString, Default: "Agent.Health < 7", Description: "Rule deciding when to use a medkit"},
		{Key: "eat-when", Type: TypeString, Default: "Agent.Energy < 7", Description: "Rule deciding when to eat"},
		{Key: "run-when", Type: TypeString, Default: "Agent.Stamina > 2", Description: "Rule deciding whether fleeing runs"},

		{Key: "log.level", Type: TypeString, Default: "info", Description: "Log level: debug, info, warn, error", EnvVar: LogLevelEnvVar},
		{Key: "log.format", Type: TypeString, Default: "text", Description: "Log format: text, json"},

		{Section: runSection, Key: "ticks", Type: TypeInt, Default: "600", Description: "Ticks to simulate"},
		{Section: runSection, Key: "dt", Type: TypeFloat, Default: "0.1", Description: "Seconds per tick"},
		{Section: runSection, Key: "every", Type: TypeInt, Default: "10", Description: "Trace every Nth tick, 0 for none"},
		{Section: runSection, Key: "color", Type: TypeString, Default: "auto", Description: "Color mode: auto, always, never"},
		{Section: runSection, Key: "summary-only", Type: TypeBool, Default: "false", Description: "Print only the final summary"},
	})
}
