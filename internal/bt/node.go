package bt

import (
	"fmt"
	"strings"

	gobt "github.com/joeycumines/go-behaviortree"
)

// Status is the result of evaluating a node.
type Status = gobt.Status

const (
	Running = gobt.Running
	Success = gobt.Success
	Failure = gobt.Failure
)

// FromBool maps true to Success and false to Failure.
func FromBool(ok bool) Status {
	if ok {
		return Success
	}
	return Failure
}

// Kind is the closed set of node kinds.
type Kind int

const (
	KindSequence Kind = iota + 1
	KindSelector
	KindConditional
	KindInverted
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindSelector:
		return "selector"
	case KindConditional:
		return "condition"
	case KindInverted:
		return "inverted"
	case KindAction:
		return "action"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a tree definition node over context type C.
type Node[C any] struct {
	kind     Kind
	name     string
	children []*Node[C]
	cond     func(C) bool
	act      func(C) Status
}

// Sequence builds an AND node.
func Sequence[C any](name string, children ...*Node[C]) *Node[C] {
	return &Node[C]{kind: KindSequence, name: name, children: children}
}

// Selector builds an OR / priority fallback node.
func Selector[C any](name string, children ...*Node[C]) *Node[C] {
	return &Node[C]{kind: KindSelector, name: name, children: children}
}

// Conditional builds a predicate leaf.
func Conditional[C any](name string, pred func(C) bool) *Node[C] {
	if pred == nil {
		panic(fmt.Sprintf("bt.Conditional: nil predicate (node=%s)", name))
	}
	return &Node[C]{kind: KindConditional, name: name, cond: pred}
}

// Inverted wraps a conditional leaf, swapping Success and Failure.
// It panics if cond is not a conditional.
func Inverted[C any](cond *Node[C]) *Node[C] {
	if cond == nil || cond.kind != KindConditional {
		panic("bt.Inverted: argument must be a conditional node")
	}
	return &Node[C]{kind: KindInverted, name: "not " + cond.name, cond: cond.cond}
}

// Action builds an action leaf.
func Action[C any](name string, fn func(C) Status) *Node[C] {
	if fn == nil {
		panic(fmt.Sprintf("bt.Action: nil function (node=%s)", name))
	}
	return &Node[C]{kind: KindAction, name: name, act: fn}
}

func (n *Node[C]) Name() string { return n.name }

func (n *Node[C]) Kind() Kind { return n.kind }

// Children returns the node's children. Leaves have none.
func (n *Node[C]) Children() []*Node[C] { return n.children }

// Walk visits n and its descendants depth first, in child order.
func (n *Node[C]) Walk(fn func(depth int, node *Node[C])) {
	n.walk(0, fn)
}

func (n *Node[C]) walk(depth int, fn func(int, *Node[C])) {
	fn(depth, n)
	for _, c := range n.children {
		c.walk(depth+1, fn)
	}
}

// String renders the tree shape, one node per line.
func (n *Node[C]) String() string {
	var b strings.Builder
	n.Walk(func(depth int, node *Node[C]) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(node.kind.String())
		b.WriteString(" ")
		b.WriteString(node.name)
		b.WriteString("\n")
	})
	return b.String()
}

// bind compiles the definition into go-behaviortree nodes closed over ctx.
func (n *Node[C]) bind(ctx C, obs Observer) gobt.Node {
	var tick gobt.Tick
	switch n.kind {
	case KindSequence:
		tick = gobt.Sequence
	case KindSelector:
		tick = gobt.Selector
	case KindConditional:
		tick = conditionTick(ctx, n.cond)
	case KindInverted:
		tick = gobt.Not(conditionTick(ctx, n.cond))
	case KindAction:
		act := n.act
		tick = func([]gobt.Node) (gobt.Status, error) {
			return act(ctx), nil
		}
	default:
		panic(fmt.Sprintf("bt: unknown node kind %d", n.kind))
	}

	if obs != nil {
		tick = observed(n.name, n.kind, tick, obs)
	}

	children := make([]gobt.Node, len(n.children))
	for i, c := range n.children {
		children[i] = c.bind(ctx, obs)
	}
	return gobt.New(tick, children...)
}

func conditionTick[C any](ctx C, pred func(C) bool) gobt.Tick {
	return func([]gobt.Node) (gobt.Status, error) {
		return FromBool(pred(ctx)), nil
	}
}

func observed(name string, kind Kind, tick gobt.Tick, obs Observer) gobt.Tick {
	return func(children []gobt.Node) (gobt.Status, error) {
		status, err := tick(children)
		if err != nil {
			status = Failure
		}
		obs(name, kind, status)
		return status, err
	}
}
