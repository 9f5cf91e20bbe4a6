// Package layout computes 3D positions for canonical graphs using a
// force-directed physics simulation.
//
// The simulation applies three forces per iteration - Coulomb-like pairwise
// repulsion, a weak center gravity, and Hookean springs along edges - then
// integrates velocities with damping. It runs until the per-node average
// kinetic energy falls below a threshold or an iteration cap is reached;
// the cap is an unconditional upper bound, and non-convergence is reported
// as data, never as an error.
//
// # State
//
// Simulation state lives in a State arena: contiguous position, velocity,
// and force slices indexed by a stable integer, with an id → index side
// table. A State is built fresh from a graph snapshot per run, mutated in
// place across iterations, and discarded after the final positions are
// projected back onto the graph with Apply. States are never shared across
// concurrent runs.
//
// # Usage
//
//	state := layout.NewState(g)
//	sim, err := layout.NewSimulator(state, layout.DefaultConfig())
//	if err != nil { ... }
//	result, err := sim.Run(ctx)
//	positioned, bounds := layout.Apply(g, result.Positions)
package layout
