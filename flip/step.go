package flip

// Params are the tuning parameters of a simulation step. Out of range values
// are not checked and may make the simulation unstable.
type Params struct {
	// Gravity is the vertical acceleration. There is no horizontal gravity.
	Gravity float64
	// FlipRatio blends the grid velocity update: 0 is pure PIC, 1 pure FLIP.
	FlipRatio      float64
	PressureIters  int
	ParticleIters  int
	OverRelaxation float64

	CompensateDrift   bool
	SeparateParticles bool
}

// DefaultParams returns the parameters the renderer is tuned for.
func DefaultParams() Params {
	return Params{
		Gravity:           -20,
		FlipRatio:         0.9,
		PressureIters:     15,
		ParticleIters:     1,
		OverRelaxation:    1.9,
		CompensateDrift:   true,
		SeparateParticles: true,
	}
}

// Obstacle is a solid circle which particles can't enter.
type Obstacle struct {
	X, Y, Radius float64
}

// Simulate advances the tank by a single step of length dt. dt should be the
// same on every call: the solver is tuned for a fixed step, not for the time
// that actually passed between frames.
func (t *Tank) Simulate(dt float64, p Params, obs Obstacle) {
	t.Integrate(dt, p.Gravity)
	if p.SeparateParticles {
		t.SeparateParticles(p.ParticleIters)
	}
	t.HandleCollisions(obs)
	t.TransferToGrid()
	t.UpdateDensity()

	if t.Record {
		t.Stats.DivergenceBefore = t.MeanDivergence()
	}
	t.SolveIncompressibility(
		p.PressureIters, dt, p.OverRelaxation, p.CompensateDrift,
	)
	if t.Record {
		t.Stats.DivergenceAfter = t.MeanDivergence()
	}

	t.TransferToParticles(p.FlipRatio)
	t.UpdateShading()
}
