// Package rule compiles the agent's threshold conditions, such as "when
// should I heal", from expr-lang expressions.
//
// Expressions are compiled once against [Env] and must yield a bool.
package rule

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/joeycumines/survivor/internal/world"
)

// Default expressions.
const (
	DefaultHealWhen = "Agent.Health < 7"
	DefaultEatWhen  = "Agent.Energy < 7"
	DefaultRunWhen  = "Agent.Stamina > 2"
)

// Env is the evaluation environment visible to expressions.
type Env struct {
	Agent   world.AgentInfo
	Enemies int
	Items   int
	Houses  int
}

// Rule is a single compiled expression.
type Rule struct {
	name    string
	source  string
	program *vm.Program
}

// Compile compiles source under name. Unknown identifiers and non-bool
// results are compile errors.
func Compile(name, source string) (*Rule, error) {
	if source == "" {
		return nil, fmt.Errorf("rule %s: empty expression", name)
	}
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", name, err)
	}
	return &Rule{name: name, source: source, program: program}, nil
}

// Name returns the rule's name.
func (r *Rule) Name() string { return r.name }

// Source returns the expression text.
func (r *Rule) Source() string { return r.source }

// Eval runs the rule against env.
func (r *Rule) Eval(env Env) (bool, error) {
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false, fmt.Errorf("rule %s: %w", r.name, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("rule %s: non-boolean result %T", r.name, out)
	}
	return b, nil
}

// Sources holds the expression text for every rule the agent uses.
type Sources struct {
	HealWhen string
	EatWhen  string
	RunWhen  string
}

// DefaultSources returns the built-in expressions.
func DefaultSources() Sources {
	return Sources{
		HealWhen: DefaultHealWhen,
		EatWhen:  DefaultEatWhen,
		RunWhen:  DefaultRunWhen,
	}
}

// Rules is the compiled set.
type Rules struct {
	Heal *Rule
	Eat  *Rule
	Run  *Rule
}

// CompileSources compiles every rule in src, failing on the first error.
func CompileSources(src Sources) (*Rules, error) {
	var (
		rs  Rules
		err error
	)
	if rs.Heal, err = Compile("heal-when", src.HealWhen); err != nil {
		return nil, err
	}
	if rs.Eat, err = Compile("eat-when", src.EatWhen); err != nil {
		return nil, err
	}
	if rs.Run, err = Compile("run-when", src.RunWhen); err != nil {
		return nil, err
	}
	return &rs, nil
}
