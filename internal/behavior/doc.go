// Package behavior holds the agent's decision logic: the actions and
// conditions that make up its behavior tree, and the tree itself.
//
// Every node receives a *Context. Conditions read the blackboard and report
// a bool, although a few of them cache derived data for the actions that
// follow (IsInPurgeZone writes CurrentPurgeZone, IsBitten and WasBitten
// raise InDanger). Actions read and write the blackboard and call into the
// inventory and navigation service. All nodes finish within the tick.
//
// Missing or mistyped blackboard data makes a node fail, which lets the
// enclosing selector fall through to the next branch.
package behavior
