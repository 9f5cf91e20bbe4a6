package cli

import (
	"github.com/BurntSushi/toml"

	"github.com/graphscape/graphscape/pkg/pipeline"
)

// tuningFile is the TOML layout of a --config file. All keys are optional.
//
//	algorithm = "barnes-hut"
//	repulsion_strength = 1500.0
//	link_distance = 80.0
//	max_iterations = 1000
type tuningFile struct {
	Algorithm          string  `toml:"algorithm"`
	RepulsionStrength  float64 `toml:"repulsion_strength"`
	AttractionStrength float64 `toml:"attraction_strength"`
	LinkDistance       float64 `toml:"link_distance"`
	CenterGravity      float64 `toml:"center_gravity"`
	Damping            float64 `toml:"damping"`
	TimeStep           float64 `toml:"time_step"`
	MinVelocity        float64 `toml:"min_velocity"`
	MaxIterations      int     `toml:"max_iterations"`
	Theta              float64 `toml:"theta"`
	Seed               int64   `toml:"seed"`
	Disable3D          bool    `toml:"disable_3d"`
}

// applyConfigFile loads simulation tuning from a TOML file into opts.
// Values already set (by flags) win over the file; only zero fields are
// filled in.
func applyConfigFile(path string, opts *pipeline.Options) error {
	var tf tuningFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return err
	}

	if opts.Algorithm == "" {
		opts.Algorithm = tf.Algorithm
	}
	if opts.RepulsionStrength == 0 {
		opts.RepulsionStrength = tf.RepulsionStrength
	}
	if opts.AttractionStrength == 0 {
		opts.AttractionStrength = tf.AttractionStrength
	}
	if opts.LinkDistance == 0 {
		opts.LinkDistance = tf.LinkDistance
	}
	if opts.CenterGravity == 0 {
		opts.CenterGravity = tf.CenterGravity
	}
	if opts.Damping == 0 {
		opts.Damping = tf.Damping
	}
	if opts.TimeStep == 0 {
		opts.TimeStep = tf.TimeStep
	}
	if opts.MinVelocity == 0 {
		opts.MinVelocity = tf.MinVelocity
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = tf.MaxIterations
	}
	if opts.Theta == 0 {
		opts.Theta = tf.Theta
	}
	if opts.Seed == 0 {
		opts.Seed = tf.Seed
	}
	if !opts.Disable3D {
		opts.Disable3D = tf.Disable3D
	}

	return nil
}
