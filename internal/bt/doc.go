/*
Package bt is the behavior tree engine used by the agent. It is a thin,
typed layer over github.com/joeycumines/go-behaviortree.

# Node kinds

Trees are described with a closed set of node kinds:

  - Sequence: ticks children in order until the first non-success result.
  - Selector: ticks children in order until the first non-failure result.
  - Conditional: a predicate over the agent context. Never returns Running.
  - Inverted: a conditional with Success and Failure swapped.
  - Action: a function over the agent context returning a Status.

A definition (*Node[C]) is built once, then bound to a per-agent context with
New. Binding compiles the definition into go-behaviortree nodes whose leaf
ticks close over that context; composites use bt.Sequence, bt.Selector and
bt.Not directly.

# Evaluation

Tree.Tick evaluates the whole tree from the root, synchronously. There is no
resumption of a Running node across ticks: continuity between ticks lives in
the context (timers, cursors on the blackboard), not in the engine.

Child order is fixed at construction. The first listed child has the highest
priority.

# Observation

An Observer, installed with WithObserver, is called after every node
evaluation with the node's name, kind and result. The agent uses it for
debug logging; tests use it to assert which nodes ran.
*/
package bt
