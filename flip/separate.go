package flip

import (
	"math"
)

// Integrate applies a vertical gravitational acceleration to every particle
// and moves it forward by dt.
func (t *Tank) Integrate(dt, gravity float64) {
	for i := 0; i < t.NumParticles; i++ {
		t.Vel[2*i+1] += dt * gravity
		t.Pos[2*i] += t.Vel[2*i] * dt
		t.Pos[2*i+1] += t.Vel[2*i+1] * dt
	}
}

// SeparateParticles runs iters relaxation passes which push apart every pair
// of particles closer than two radii. Each particle in a pair moves half of
// the overlap along the line between them. Coincident particles have no
// direction to move in and are left alone.
func (t *Tank) SeparateParticles(iters int) {
	ph := &t.hash
	ph.rebuild(t.Pos, t.NumParticles)

	minDist := 2 * t.Radius
	minDist2 := minDist * minDist
	pos := t.Pos

	for iter := 0; iter < iters; iter++ {
		for i := 0; i < t.NumParticles; i++ {
			px, py := pos[2*i], pos[2*i+1]
			x0, x1, y0, y1 := ph.neighborhood(px, py)

			for xi := x0; xi <= x1; xi++ {
				for yi := y0; yi <= y1; yi++ {
					b := ph.Idx(xi, yi)
					for k := ph.first[b]; k < ph.first[b+1]; k++ {
						id := int(ph.ids[k])
						if id == i {
							continue
						}

						dx := pos[2*id] - px
						dy := pos[2*id+1] - py
						d2 := dx*dx + dy*dy
						if d2 > minDist2 || d2 == 0 {
							continue
						}

						d := math.Sqrt(d2)
						s := 0.5 * (minDist - d) / d
						dx *= s
						dy *= s
						pos[2*i] -= dx
						pos[2*i+1] -= dy
						pos[2*id] += dx
						pos[2*id+1] += dy
					}
				}
			}
		}
	}
}

// HandleCollisions resolves collisions with the circular obstacle and the
// tank walls. Particles inside the obstacle are projected onto its edge and
// stopped. Particles outside the walls are moved back inside and lose the
// velocity component normal to the wall.
func (t *Tank) HandleCollisions(obs Obstacle) {
	minX, maxX, minY, maxY := t.Bounds()

	for i := 0; i < t.NumParticles; i++ {
		x, y := t.Pos[2*i], t.Pos[2*i+1]

		dx, dy := x-obs.X, y-obs.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < obs.Radius {
			if dist == 0 {
				// No radial direction, so pick one.
				x, y = obs.X, obs.Y+obs.Radius
			} else {
				scale := obs.Radius / dist
				x, y = obs.X+dx*scale, obs.Y+dy*scale
			}
			t.Vel[2*i], t.Vel[2*i+1] = 0, 0
		}

		if x < minX {
			x = minX
			t.Vel[2*i] = 0
		}
		if x > maxX {
			x = maxX
			t.Vel[2*i] = 0
		}
		if y < minY {
			y = minY
			t.Vel[2*i+1] = 0
		}
		if y > maxY {
			y = maxY
			t.Vel[2*i+1] = 0
		}

		t.Pos[2*i], t.Pos[2*i+1] = x, y
	}
}
