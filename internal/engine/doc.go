// Package engine runs hierarchical state machines.
//
// Two engines implement ir.Machine over the same configuration:
//
// Composite executes the nested configuration directly. Each level is a
// Composite holding its states and, for composite states, a pointer to the
// sub-engine. An input is offered to the active sub-engine first and only
// bubbles up to the parent level when the sub-engine reports NoAction.
//
// Table executes a flat table produced by compiler.Compile. Every state is a
// leaf; inherited edges and hook sequences were resolved at compile time, so
// Fire is a single map lookup.
//
// ORDERING (Composite):
//
// On a matching edge at some level:
//  1. exit hooks, deepest active state first, ending with this level's state
//  2. the edge's transition hook, given full leaf paths
//  3. the departed sub-engine is reset to its declared start, recursively
//  4. the level switches to the target state
//  5. enter hooks, this level's target first, then its sub-engine's start chain
//
// A hook panic is not recovered. A panic in steps 1 or 2 leaves the machine
// in its source state; a panic in step 5 leaves it in the target state.
//
// Table runs the compiled exit and transition steps, switches, then runs
// the enter steps, so the same rule applies.
//
// SHARED SUB-MACHINES:
//
// A *ir.MachineConfig referenced from several states is built once. Every
// referencing state holds the same *Composite, so moving it through one
// parent is observable through the others.
//
// Neither engine is safe for concurrent use, and hooks must not call Fire on
// the machine that invoked them.
package engine
