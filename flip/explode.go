package flip

import (
	"math"
)

// Explode gives every particle within radius of (cx, cy) a kick directly away
// from the center. The kick is force at the center and falls off linearly to
// zero at radius. Particles within 0.001 of the center have no well defined
// direction and are skipped.
func (t *Tank) Explode(cx, cy, force, radius float64) {
	for i := 0; i < t.NumParticles; i++ {
		dx, dy := t.Pos[2*i]-cx, t.Pos[2*i+1]-cy
		dist := math.Sqrt(dx*dx + dy*dy)

		if dist < radius && dist > 0.001 {
			strength := force * (1 - dist/radius)
			t.Vel[2*i] += dx / dist * strength
			t.Vel[2*i+1] += dy / dist * strength
		}
	}
}
