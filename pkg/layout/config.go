package layout

import (
	"github.com/graphscape/graphscape/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Pipeline
// =============================================================================

const (
	// DefaultRepulsionStrength is the Coulomb repulsion constant.
	DefaultRepulsionStrength = 1000.0

	// DefaultAttractionStrength is the Hookean spring constant for edges.
	DefaultAttractionStrength = 0.1

	// DefaultLinkDistance is the ideal edge length in layout units.
	DefaultLinkDistance = 100.0

	// DefaultDamping is the per-step velocity retention factor.
	DefaultDamping = 0.9

	// DefaultMinVelocity is the convergence threshold: the simulation
	// stabilizes when avg kinetic energy per node drops below its square.
	DefaultMinVelocity = 0.1

	// DefaultMaxIterations caps the simulation loop regardless of convergence.
	DefaultMaxIterations = 500

	// DefaultTimeStep is the integration step size.
	DefaultTimeStep = 0.1

	// DefaultCenterGravity pulls nodes toward the origin to prevent drift.
	DefaultCenterGravity = 0.01

	// DefaultSeed seeds the tie-break RNG for coincident nodes, making
	// repulsion deterministic across runs.
	DefaultSeed = int64(42)

	// DefaultTheta is the Barnes-Hut opening criterion: an octree cell is
	// treated as a single body when cellSize/distance < theta.
	DefaultTheta = 0.5

	// progressInterval is how often the progress callback fires, in iterations.
	progressInterval = 10
)

// Algorithm selects the repulsion strategy.
type Algorithm int

const (
	// AlgorithmExact computes all O(n²) pairwise repulsions.
	AlgorithmExact Algorithm = iota

	// AlgorithmBarnesHut approximates far-field repulsion through an octree,
	// reducing the pass to O(n log n). Accuracy is controlled by Theta.
	AlgorithmBarnesHut
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmExact:
		return "exact"
	case AlgorithmBarnesHut:
		return "barnes-hut"
	default:
		return "unknown"
	}
}

// Progress describes the simulation state passed to a progress callback.
type Progress struct {
	Iteration     int
	MaxIterations int
	Energy        float64
	Percent       float64
}

// ProgressFunc receives progress updates every 10 iterations. It executes
// synchronously on the calling goroutine between iterations and must not
// block - the simulation loop is suspended for its duration.
type ProgressFunc func(Progress)

// Config holds the tunable parameters of the force simulation.
type Config struct {
	RepulsionStrength  float64 `json:"repulsion_strength" toml:"repulsion_strength"`
	AttractionStrength float64 `json:"attraction_strength" toml:"attraction_strength"`
	LinkDistance       float64 `json:"link_distance" toml:"link_distance"`
	Damping            float64 `json:"damping" toml:"damping"`
	MinVelocity        float64 `json:"min_velocity" toml:"min_velocity"`
	MaxIterations      int     `json:"max_iterations" toml:"max_iterations"`
	TimeStep           float64 `json:"time_step" toml:"time_step"`
	CenterGravity      float64 `json:"center_gravity" toml:"center_gravity"`
	Enable3D           bool    `json:"enable_3d" toml:"enable_3d"`
	Seed               int64   `json:"seed" toml:"seed"`

	// Algorithm selects exact or Barnes-Hut repulsion; Theta is the
	// opening criterion used only by the Barnes-Hut variant.
	Algorithm Algorithm `json:"algorithm" toml:"algorithm"`
	Theta     float64   `json:"theta" toml:"theta"`

	// OnProgress, if non-nil, fires every 10 iterations. Not serialized.
	OnProgress ProgressFunc `json:"-" toml:"-"`
}

// DefaultConfig returns the standard simulation parameters.
func DefaultConfig() Config {
	return Config{
		RepulsionStrength:  DefaultRepulsionStrength,
		AttractionStrength: DefaultAttractionStrength,
		LinkDistance:       DefaultLinkDistance,
		Damping:            DefaultDamping,
		MinVelocity:        DefaultMinVelocity,
		MaxIterations:      DefaultMaxIterations,
		TimeStep:           DefaultTimeStep,
		CenterGravity:      DefaultCenterGravity,
		Enable3D:           true,
		Seed:               DefaultSeed,
		Algorithm:          AlgorithmExact,
		Theta:              DefaultTheta,
	}
}

// Validate checks that the configuration can drive a simulation.
func (c Config) Validate() error {
	if c.MaxIterations < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.TimeStep <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "time_step must be > 0, got %v", c.TimeStep)
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "damping must be in (0, 1], got %v", c.Damping)
	}
	if c.MinVelocity < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_velocity must be >= 0, got %v", c.MinVelocity)
	}
	if c.RepulsionStrength < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "repulsion_strength must be >= 0, got %v", c.RepulsionStrength)
	}
	if c.Algorithm != AlgorithmExact && c.Algorithm != AlgorithmBarnesHut {
		return errors.New(errors.ErrCodeUnsupported, "unsupported algorithm %q", c.Algorithm)
	}
	if c.Algorithm == AlgorithmBarnesHut && c.Theta <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "theta must be > 0 for barnes-hut, got %v", c.Theta)
	}
	return nil
}
