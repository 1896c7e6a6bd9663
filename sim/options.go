package sim

import (
	"math/rand"

	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/levels"
	"github.com/milk9111/pursuit/prefabs"
)

// DefaultLevel is loaded when no level option is given.
const DefaultLevel = "courtyard"

type config struct {
	levelName string
	level     *levels.Level
	tuning    *prefabs.Tuning
	seed      int64
	step      float64
	input     system.InputSource
	script    string
	restart   bool
}

// Option configures a Simulation at construction.
type Option func(*config)

func defaultConfig() config {
	return config{
		levelName: DefaultLevel,
		seed:      1,
		step:      system.DefaultPhysicsStep,
		restart:   true,
	}
}

// WithLevel loads a level by name from levels/.
func WithLevel(name string) Option {
	return func(c *config) {
		c.levelName = name
		c.level = nil
	}
}

// WithLevelData uses an already parsed level.
func WithLevelData(lvl *levels.Level) Option {
	return func(c *config) {
		c.level = lvl
	}
}

// WithTuning overrides the prefab tuning. Without it the prefabs are loaded
// and, if that fails, the built-in defaults are used.
func WithTuning(t prefabs.Tuning) Option {
	return func(c *config) {
		c.tuning = &t
	}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithPhysicsStep sets the fixed physics timestep in seconds.
func WithPhysicsStep(step float64) Option {
	return func(c *config) {
		if step > 0 {
			c.step = step
		}
	}
}

// WithInputSource drives the active character from src.
func WithInputSource(src system.InputSource) Option {
	return func(c *config) {
		c.input = src
		c.script = ""
	}
}

// WithScript drives the active character from prefabs/scripts/<name>.tengo.
func WithScript(name string) Option {
	return func(c *config) {
		c.script = name
		c.input = nil
	}
}

// WithRestartOnMainHit controls whether touching the main character
// rebuilds the level. It is on by default.
func WithRestartOnMainHit(restart bool) Option {
	return func(c *config) {
		c.restart = restart
	}
}

func (c config) newRand() *rand.Rand {
	return rand.New(rand.NewSource(c.seed)) // #nosec G404 -- gameplay randomness
}
