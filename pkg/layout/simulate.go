package layout

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/graphscape/graphscape/pkg/geometry"
	"github.com/graphscape/graphscape/pkg/graph"
)

// minEffectiveDistance floors the repulsion distance so that coincident or
// near-coincident nodes never produce a singular force.
const minEffectiveDistance = 1.0

// Result is the outcome of a simulation run. Non-convergence within the
// iteration cap is a normal, reportable outcome - Converged is data, not
// an error signal.
type Result struct {
	Positions   map[string]geometry.Vector3 `json:"positions"`
	Iterations  int                         `json:"iterations"`
	FinalEnergy float64                     `json:"final_energy"`
	Converged   bool                        `json:"converged"`
	Duration    time.Duration               `json:"duration_ms"`
	Bounds      geometry.BoundingBox        `json:"bounding_box"`
}

// Simulator advances a State through force iterations. It has two phases:
// running, and converged-or-exhausted once Run returns. A Simulator drives
// exactly one State and is not safe for concurrent use.
type Simulator struct {
	cfg   Config
	state *State
	rng   *rand.Rand
}

// NewSimulator validates the configuration and binds it to a state.
func NewSimulator(state *State, cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		cfg:   cfg,
		state: state,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Run iterates until the state stabilizes or the iteration cap is reached,
// whichever comes first. The context is checked once per iteration; the
// only error Run can return is the context's.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	for s.state.iteration < s.cfg.MaxIterations && !s.state.stabilized {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.Step()

		if s.cfg.OnProgress != nil && s.state.iteration%progressInterval == 0 {
			s.cfg.OnProgress(Progress{
				Iteration:     s.state.iteration,
				MaxIterations: s.cfg.MaxIterations,
				Energy:        s.state.kinetic,
				Percent:       100 * float64(s.state.iteration) / float64(s.cfg.MaxIterations),
			})
		}
	}

	s.state.recomputeBounds()

	return &Result{
		Positions:   s.state.Positions(),
		Iterations:  s.state.iteration,
		FinalEnergy: s.state.kinetic,
		Converged:   s.state.stabilized,
		Duration:    time.Since(start),
		Bounds:      s.state.bounds,
	}, nil
}

// Step advances the simulation by one iteration: reset forces, accumulate
// repulsion, gravity, and springs, integrate, then update the energy and
// convergence flag.
func (s *Simulator) Step() {
	st := s.state

	for i := range st.force {
		st.force[i] = geometry.Vector3{}
	}

	switch s.cfg.Algorithm {
	case AlgorithmBarnesHut:
		s.applyRepulsionBarnesHut()
	default:
		s.applyRepulsionExact()
	}
	s.applyCenterGravity()
	s.applySprings()
	s.integrate()

	st.iteration++
	st.stabilized = s.converged()
}

// applyRepulsionExact accumulates Coulomb-like repulsion over every
// unordered node pair. Fixed nodes exert force but never accumulate any.
func (s *Simulator) applyRepulsionExact() {
	st := s.state
	n := len(st.pos)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f := s.repulsionBetween(st.pos[i], st.pos[j], 1)
			if !st.fixed[i] {
				st.force[i] = st.force[i].Add(f)
			}
			if !st.fixed[j] {
				st.force[j] = st.force[j].Sub(f)
			}
		}
	}
}

// repulsionBetween returns the force pushing a node at p away from count
// bodies aggregated at q. The effective distance is floored so coincident
// nodes never divide by zero; an exactly coincident pair is separated
// along a seeded pseudo-random unit direction.
func (s *Simulator) repulsionBetween(p, q geometry.Vector3, count float64) geometry.Vector3 {
	delta := p.Sub(q)
	dist := delta.Length()

	effective := math.Max(dist, minEffectiveDistance)
	magnitude := count * s.cfg.RepulsionStrength / (effective * effective)

	var dir geometry.Vector3
	if dist == 0 {
		dir = geometry.RandomUnit(s.rng)
		if !s.cfg.Enable3D {
			dir.Z = 0
			dir = dir.Normalize()
			if dir == (geometry.Vector3{}) {
				dir = geometry.Vector3{X: 1}
			}
		}
	} else {
		dir = delta.Scale(1 / dist)
	}

	return dir.Scale(magnitude)
}

// applyCenterGravity pulls every non-fixed node toward the origin,
// preventing disconnected components from drifting unboundedly.
func (s *Simulator) applyCenterGravity() {
	st := s.state
	for i := range st.pos {
		if st.fixed[i] {
			continue
		}
		st.force[i] = st.force[i].Add(st.pos[i].Neg().Scale(s.cfg.CenterGravity))
	}
}

// applySprings accumulates Hookean attraction along every resolved edge:
// displacement from the ideal link distance, scaled by the attraction
// constant and the edge weight, applied symmetrically. Zero-length edges
// exert nothing.
func (s *Simulator) applySprings() {
	st := s.state
	for _, sp := range st.springs {
		delta := st.pos[sp.Target].Sub(st.pos[sp.Source])
		dist := delta.Length()
		if dist == 0 {
			continue
		}

		displacement := dist - s.cfg.LinkDistance
		magnitude := s.cfg.AttractionStrength * displacement * sp.Weight
		f := delta.Scale(magnitude / dist)

		// Positive displacement pulls the endpoints together.
		if !st.fixed[sp.Source] {
			st.force[sp.Source] = st.force[sp.Source].Add(f)
		}
		if !st.fixed[sp.Target] {
			st.force[sp.Target] = st.force[sp.Target].Sub(f)
		}
	}
}

// integrate applies damped Euler integration per non-fixed node and
// accumulates the kinetic energy. With Enable3D false the z components of
// velocity and position are never written, so z stays bit-for-bit at its
// pre-simulation value.
func (s *Simulator) integrate() {
	st := s.state
	dt := s.cfg.TimeStep
	damping := s.cfg.Damping

	energy := 0.0
	for i := range st.pos {
		if st.fixed[i] {
			continue
		}

		scale := dt / st.mass[i]
		if s.cfg.Enable3D {
			st.vel[i] = st.vel[i].Scale(damping).Add(st.force[i].Scale(scale))
			st.pos[i] = st.pos[i].Add(st.vel[i].Scale(dt))
		} else {
			st.vel[i].X = st.vel[i].X*damping + st.force[i].X*scale
			st.vel[i].Y = st.vel[i].Y*damping + st.force[i].Y*scale
			st.pos[i].X += st.vel[i].X * dt
			st.pos[i].Y += st.vel[i].Y * dt
		}
	}
	for i := range st.vel {
		energy += st.vel[i].LengthSquared()
	}
	st.kinetic = energy
}

// converged reports whether the average kinetic energy per node has
// dropped below the squared minimum velocity. An empty arena is
// trivially converged.
func (s *Simulator) converged() bool {
	n := s.state.Len()
	if n == 0 {
		return true
	}
	threshold := s.cfg.MinVelocity * s.cfg.MinVelocity
	return s.state.kinetic/float64(n) < threshold
}

// Run is a convenience wrapper: build a state from the graph, simulate it
// with the given configuration, and return the result.
func Run(ctx context.Context, g *graph.Graph, cfg Config) (*Result, error) {
	sim, err := NewSimulator(NewState(g), cfg)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}
