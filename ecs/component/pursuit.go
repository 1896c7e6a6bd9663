package component

import "github.com/jakecoffman/cp"

const (
	StatePatrol StateID = "patrol"
	StateChase  StateID = "chase"
	StateSearch StateID = "search"
)

// MaxRoamAttempts bounds roam-target reject sampling.
const MaxRoamAttempts = 20

// RoamClearance is the radius that must be free of obstacles around a roam
// target.
const RoamClearance = 0.5

// Pursuit stores per-agent patrol/chase/search data.
type Pursuit struct {
	Spawn             cp.Vector
	RoamRadius        float64
	MinPatrolDistance float64
	RoamInterval      float64
	SearchTime        float64

	RoamTarget  cp.Vector
	RoamTimer   float64
	SearchTimer float64
	// LastSeen is only meaningful while searching.
	LastSeen cp.Vector
	// Tracked is the ecs.Entity of the character being pursued, 0 for none.
	Tracked uint64
	// TrackedPos is where Tracked was last seen.
	TrackedPos cp.Vector
}

var PursuitComponent = NewComponent[Pursuit]()
