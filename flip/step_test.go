package flip

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDt = 1.0 / 60.0 / 3

var offscreen = Obstacle{X: -1000, Y: -1000, Radius: 0.1}

func assertContained(t *testing.T, tank *Tank) {
	t.Helper()
	minX, maxX, minY, maxY := tank.Bounds()
	for i := 0; i < tank.NumParticles; i++ {
		x, y := tank.Pos[2*i], tank.Pos[2*i+1]
		if x < minX || x > maxX || y < minY || y > maxY {
			t.Fatalf("particle %d escaped the tank: (%g, %g) not in "+
				"[%g, %g] x [%g, %g]", i, x, y, minX, maxX, minY, maxY)
		}
	}
}

func TestSimulateKeepsParticles(t *testing.T) {
	tank, _ := smallTank()
	n := tank.NumParticles
	p := DefaultParams()

	for frame := 0; frame < 60; frame++ {
		obs := Obstacle{X: 0.5 + 0.03*float64(frame), Y: 0.4, Radius: 0.25}
		tank.Simulate(testDt, p, obs)
		require.Equal(t, n, tank.NumParticles, "frame %d", frame)
		assertContained(t, tank)
	}

	for i := 0; i < 2*n; i++ {
		require.False(t, math.IsNaN(tank.Pos[i]) || math.IsNaN(tank.Vel[i]))
	}
}

func TestHandleCollisionsWalls(t *testing.T) {
	tank := NewTank(1000, 1, 1, 0.1, 0.03, 4)
	tank.SetWalls()
	tank.AddParticle(-5, 0.5)
	tank.AddParticle(0.5, 7)
	tank.AddParticle(0.5, 0.5)
	for i := 0; i < 3; i++ {
		tank.Vel[2*i], tank.Vel[2*i+1] = 1, 1
	}

	tank.HandleCollisions(offscreen)
	assertContained(t, tank)

	minX, _, _, maxY := tank.Bounds()
	assert.Equal(t, minX, tank.Pos[0])
	assert.Equal(t, 0.0, tank.Vel[0], "normal velocity is removed")
	assert.Equal(t, 1.0, tank.Vel[1], "tangential velocity is kept")
	assert.Equal(t, maxY, tank.Pos[3])
	assert.Equal(t, 0.0, tank.Vel[3])
	assert.Equal(t, []float64{0.5, 0.5}, tank.Pos[4:6])
	assert.Equal(t, []float64{1, 1}, tank.Vel[4:6])
}

func TestHandleCollisionsObstacle(t *testing.T) {
	tank := NewTank(1000, 2, 2, 0.1, 0.03, 2)
	tank.SetWalls()
	tank.AddParticle(1.1, 1.0)
	tank.AddParticle(1.0, 1.0)
	tank.Vel[0], tank.Vel[1] = 3, 4

	obs := Obstacle{X: 1, Y: 1, Radius: 0.25}
	tank.HandleCollisions(obs)

	assert.InDelta(t, 1.25, tank.Pos[0], 1e-12)
	assert.InDelta(t, 1.0, tank.Pos[1], 1e-12)
	assert.Equal(t, []float64{0, 0}, tank.Vel[0:2])

	// a particle at the very center still ends up on the edge
	dist := math.Hypot(tank.Pos[2]-obs.X, tank.Pos[3]-obs.Y)
	assert.InDelta(t, obs.Radius, dist, 1e-12)
}

func TestSeparateParticlesReducesOverlap(t *testing.T) {
	tank := NewTank(1000, 2, 2, 0.1, 0.03, 150)
	gen := rand.New(rand.NewSource(1))
	for i := 0; i < tank.MaxParticles; i++ {
		tank.AddParticle(0.5+gen.Float64(), 0.5+gen.Float64())
	}

	before := tank.CloseFraction()
	require.True(t, before > 0)
	tank.SeparateParticles(1)
	after := tank.CloseFraction()

	assert.True(t, after < before,
		"close pair fraction went from %g to %g", before, after)
}

func TestSeparateParticlesSkipsCoincident(t *testing.T) {
	tank := NewTank(1000, 2, 2, 0.1, 0.03, 3)
	tank.AddParticle(1, 1)
	tank.AddParticle(1, 1)
	tank.AddParticle(1.05, 1)

	tank.SeparateParticles(1)

	for i := 0; i < 2*tank.NumParticles; i++ {
		assert.False(t, math.IsNaN(tank.Pos[i]))
	}
	d := math.Hypot(tank.Pos[4]-tank.Pos[0], tank.Pos[5]-tank.Pos[1])
	assert.True(t, d > 0.05, "the third particle was pushed away")
}

// stepToProjection runs the stages of a step which come before the pressure
// projection.
func stepToProjection(tank *Tank, p Params) {
	tank.Integrate(testDt, p.Gravity)
	tank.SeparateParticles(p.ParticleIters)
	tank.HandleCollisions(offscreen)
	tank.TransferToGrid()
	tank.UpdateDensity()
}

func TestSolveIncompressibilityReducesDivergence(t *testing.T) {
	tests := []struct {
		iters    int
		overRelx float64
	}{
		{1, 1.0},
		{5, 1.0},
		{15, 1.0},
		{15, 1.9},
	}

	p := DefaultParams()
	for _, test := range tests {
		tank, _ := smallTank()
		for frame := 0; frame < 10; frame++ {
			tank.Simulate(testDt, p, offscreen)
		}

		stepToProjection(tank, p)
		before := tank.MeanDivergence()
		require.True(t, before > 0)

		tank.SolveIncompressibility(test.iters, testDt, test.overRelx, false)
		after := tank.MeanDivergence()

		assert.True(t, after < before,
			"%d iterations with over-relaxation %g: divergence went from "+
				"%g to %g", test.iters, test.overRelx, before, after)
	}
}

func TestSolveIncompressibilitySkipsEnclosedCells(t *testing.T) {
	tank := NewTank(1000, 0.5, 0.5, 0.1, 0.03, 1)
	for i := range tank.S {
		tank.S[i] = 0
	}
	tank.AddParticle(0.25, 0.25)
	tank.TransferToGrid()
	center := tank.Idx(2, 2)
	tank.CellType[center] = Fluid
	tank.U[center+tank.NY] = 5

	tank.SolveIncompressibility(10, testDt, 1.9, true)
	for i := range tank.U {
		assert.False(t, math.IsNaN(tank.U[i]) || math.IsNaN(tank.V[i]))
	}
	assert.Equal(t, 5.0, tank.U[center+tank.NY])
	assert.Equal(t, 0.0, tank.P[center])
}

func TestSimulateDeterministic(t *testing.T) {
	run := func() *Tank {
		tank, _ := smallTank()
		p := DefaultParams()
		for frame := 0; frame < 40; frame++ {
			obs := Obstacle{
				X: 1.5 + 0.5*math.Sin(float64(frame)/5), Y: 0.5, Radius: 0.2,
			}
			tank.Simulate(testDt, p, obs)
			if frame == 20 {
				tank.Explode(1.5, 0.3, 4, 0.5)
			}
		}
		return tank
	}

	t1, t2 := run(), run()
	fields := []struct {
		name string
		a, b []float64
	}{
		{"Pos", t1.Pos, t2.Pos},
		{"Vel", t1.Vel, t2.Vel},
		{"U", t1.U, t2.U},
		{"V", t1.V, t2.V},
		{"P", t1.P, t2.P},
		{"ParticleDensity", t1.ParticleDensity, t2.ParticleDensity},
		{"CellColor", t1.CellColor, t2.CellColor},
	}
	for _, f := range fields {
		if diff := cmp.Diff(f.a, f.b); diff != "" {
			t.Errorf("%s differs between runs (-first +second):\n%s",
				f.name, diff)
		}
	}
	assert.Equal(t, t1.RestDensity, t2.RestDensity)
}

func TestRestDensityFrozen(t *testing.T) {
	tank, _ := smallTank()
	require.Equal(t, 0.0, tank.RestDensity)

	p := DefaultParams()
	tank.Simulate(testDt, p, offscreen)
	rest := tank.RestDensity
	require.True(t, rest > 0)

	for frame := 0; frame < 30; frame++ {
		tank.Simulate(testDt, p, Obstacle{X: 1.5, Y: 0.3, Radius: 0.25})
		assert.Equal(t, rest, tank.RestDensity, "frame %d", frame)
	}
}

func TestTransferToGridClassifiesCells(t *testing.T) {
	tank := NewTank(1000, 1, 1, 0.1, 0.03, 2)
	tank.SetWalls()
	tank.AddParticle(0.55, 0.35)
	tank.AddParticle(0.05, 0.05)

	tank.TransferToGrid()

	assert.Equal(t, Fluid, tank.CellType[tank.Idx(5, 3)])
	assert.Equal(t, Solid, tank.CellType[tank.Idx(0, 0)],
		"particles don't turn solid cells into fluid")
	assert.Equal(t, Air, tank.CellType[tank.Idx(5, 5)])
	assert.Equal(t, "Fluid", Fluid.String())
}

func TestTransferUniformVelocity(t *testing.T) {
	tank := NewTank(1000, 1, 1, 0.1, 0.03, 64)
	tank.SetWalls()
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			tank.AddParticle(0.3+0.05*float64(i), 0.3+0.05*float64(j))
		}
	}
	for i := 0; i < tank.NumParticles; i++ {
		tank.Vel[2*i], tank.Vel[2*i+1] = 0.5, -0.25
	}

	tank.TransferToGrid()
	copy(tank.PrevU, tank.U)
	copy(tank.PrevV, tank.V)
	tank.TransferToParticles(0)

	for i := 0; i < tank.NumParticles; i++ {
		assert.InDelta(t, 0.5, tank.Vel[2*i], 1e-9)
		assert.InDelta(t, -0.25, tank.Vel[2*i+1], 1e-9)
	}
}

func TestFlipRatio(t *testing.T) {
	tank := NewTank(1000, 1, 1, 0.1, 0.03, 1)
	tank.SetWalls()
	tank.AddParticle(0.5, 0.5)
	tank.Vel[0] = 1

	tank.TransferToGrid()
	// pretend the projection added 2 to every face
	copy(tank.PrevU, tank.U)
	for i := range tank.U {
		tank.U[i] += 2
	}

	tank.TransferToParticles(0.9)
	// PIC gives 3, FLIP gives 1 + 2 = 3
	assert.InDelta(t, 3.0, tank.Vel[0], 1e-9)

	tank.Vel[0] = 0
	tank.TransferToParticles(1)
	// FLIP only adds the change
	assert.InDelta(t, 2.0, tank.Vel[0], 1e-9)
}

func TestBandShade(t *testing.T) {
	tests := []struct {
		val, shade float64
	}{
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 0.5},
		{1, 0},
		{1.5, 1},
		{-3, 0},
	}
	for _, test := range tests {
		assert.InDelta(t, test.shade, BandShade(test.val, 0, 2), 1e-9,
			"BandShade(%g)", test.val)
	}

	// an empty range maps everything onto the middle of the scale
	assert.Equal(t, 0.0, BandShade(7, 1, 1))
	for v := -1.0; v <= 3; v += 0.01 {
		s := BandShade(v, 0, 2)
		assert.True(t, s >= 0 && s <= 1, "BandShade(%g) = %g", v, s)
	}
}

func TestUpdateShading(t *testing.T) {
	tank, _ := smallTank()
	tank.Simulate(testDt, DefaultParams(), offscreen)

	for i, ct := range tank.CellType {
		shade := tank.Shade(i)
		switch ct {
		case Solid:
			assert.Equal(t, solidShade, shade)
		case Air:
			assert.Equal(t, 0.0, shade)
		}
		assert.Equal(t, shade, tank.CellColor[3*i+1])
		assert.Equal(t, shade, tank.CellColor[3*i+2])
	}
}

func TestExplode(t *testing.T) {
	tank := NewTank(1000, 4, 4, 0.1, 0.03, 4)
	cx, cy, force, radius := 2.0, 2.0, 4.0, 0.5

	tank.AddParticle(2.3, 2.0) // d = 0.3
	tank.AddParticle(2.0, 1.6) // d = 0.4
	tank.AddParticle(2.0, 2.5) // d = radius
	tank.AddParticle(2.0, 2.0) // at the center

	tank.Explode(cx, cy, force, radius)

	assert.InDelta(t, force*(1-0.3/radius), tank.Vel[0], 1e-12)
	assert.InDelta(t, 0.0, tank.Vel[1], 1e-12)
	assert.InDelta(t, 0.0, tank.Vel[2], 1e-12)
	assert.InDelta(t, -force*(1-0.4/radius), tank.Vel[3], 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, tank.Vel[4:8])
}

func TestDiagnose(t *testing.T) {
	tank, _ := smallTank()
	tank.Record = true
	tank.Simulate(testDt, DefaultParams(), offscreen)

	diag := tank.Diagnose()
	assert.Equal(t, tank.NumParticles, diag.Particles)
	assert.True(t, diag.FluidCells > 0)
	assert.True(t, diag.MaxDivergence >= diag.MeanDivergence)
	assert.True(t, diag.MaxSpeed > 0)
	assert.True(t, diag.CloseFraction >= 0 && diag.CloseFraction <= 1)
	assert.Equal(t, tank.RestDensity, diag.RestDensity)
	assert.True(t, diag.ParticleDensity > 0)
	assert.True(t, tank.Stats.DivergenceBefore > 0)
}

func BenchmarkSimulate(b *testing.B) {
	tank := Setup(NewLayout(1280, 720), DefaultTankConfig())
	p := DefaultParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tank.Simulate(testDt, p, offscreen)
	}
}
