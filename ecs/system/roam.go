package system

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// PickRoamTarget samples a point around the spawn anchor at a distance in
// [MinPatrolDistance, RoamRadius]; a minimum above the radius is clamped to
// it so targets never leave the roam area. Candidates with an obstacle inside
// RoamClearance are rejected; after MaxRoamAttempts the last candidate is
// used anyway.
func PickRoamTarget(query ecs.ObstacleQuery, rng *rand.Rand, p *component.Pursuit, mask component.Layer) cp.Vector {
	if p == nil {
		return cp.Vector{}
	}
	if mask == 0 {
		mask = component.LayerObstacle
	}
	maxDist := math.Max(0, p.RoamRadius)
	minDist := math.Min(math.Max(0, p.MinPatrolDistance), maxDist)

	var candidate cp.Vector
	for attempt := 0; attempt < component.MaxRoamAttempts; attempt++ {
		angle := randFloat(rng) * 2 * math.Pi
		dist := minDist + randFloat(rng)*(maxDist-minDist)
		candidate = p.Spawn.Add(cp.ForAngle(angle).Mult(dist))
		if query == nil || !query.OverlapsPoint(candidate, component.RoamClearance, mask) {
			return candidate
		}
	}

	slog.Warn("roam sampling exhausted",
		"system", "pursuit",
		"attempts", component.MaxRoamAttempts,
		"spawn_x", p.Spawn.X, "spawn_y", p.Spawn.Y,
		"target_x", candidate.X, "target_y", candidate.Y,
	)
	return candidate
}

func randFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}
