// Package io reads and writes the files flipascii works with: config files,
// pointer replays and particle density dumps.
package io

import (
	"fmt"
	"os"

	"github.com/charmbracelet/harmonica"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/flipascii/flip"
	"github.com/phil-mansfield/flipascii/pointer"
)

const ExampleFluidFile = `[Fluid]

# Every parameter in this file is optional. The values shown here are the
# defaults, which are what the renderer was tuned against.

##############
# Simulation #
##############

# Vertical acceleration in simulation units. The tank is two units tall.
Gravity = -20

# Frames drawn per second. Each frame advances the simulation by a fixed
# 1 / (FPS * SubSteps) seconds no matter how long the frame actually took, so
# the water moves at 1 / SubSteps of real time.
FPS = 60
SubSteps = 3

# Blend between FLIP (1) and PIC (0) velocity updates. Lower values give
# thicker, calmer water.
FlipRatio = 0.9

# Gauss-Seidel sweeps per step and the over-relaxation factor used by them.
PressureIters = 15
OverRelaxation = 1.9
CompensateDrift = true

# Passes of the particle separation step.
ParticleIters = 1
SeparateParticles = true

########
# Tank #
########

Density = 1000
# Fraction of the tank width and height which start filled with water.
RelWaterWidth = 1
RelWaterHeight = 0.618

###########
# Pointer #
###########

# Radius of the obstacle under the pointer while released and while pressed.
ObstacleRadius = 0.1
PressedRadius = 0.25
# Per-frame easing factors for the obstacle position and radius.
Smoothing = 0.3
RadiusEasing = 0.1

# Strength and reach of the explosion triggered by 'e' or a right click.
ExplosionForce = 4
ExplosionRadius = 0.5

#######################
# Optional Parameters #
#######################

# Output files which are useful for profiling and debugging.
# LogFile = log.out
# ProfileFile = prof.out

# Pointer events to play back in headless mode. Each line of the file is
# "frame x y pressed" with x and y in pixels.
# Replay = path/to/replay.txt`

// FluidConfig holds every tunable value of a session.
type FluidConfig struct {
	Gravity                      float64
	FPS, SubSteps                int
	FlipRatio                    float64
	PressureIters, ParticleIters int
	OverRelaxation               float64
	CompensateDrift              bool
	SeparateParticles            bool

	Density                       float64
	RelWaterWidth, RelWaterHeight float64

	ObstacleRadius, PressedRadius float64
	Smoothing, RadiusEasing       float64
	ExplosionForce                float64
	ExplosionRadius               float64

	// Optional
	LogFile, ProfileFile, Replay string
}

type FluidWrapper struct {
	Fluid FluidConfig
}

func DefaultFluidWrapper() *FluidWrapper {
	p, tc := flip.DefaultParams(), flip.DefaultTankConfig()
	con := FluidConfig{
		Gravity:           p.Gravity,
		FPS:               60,
		SubSteps:          3,
		FlipRatio:         p.FlipRatio,
		PressureIters:     p.PressureIters,
		ParticleIters:     p.ParticleIters,
		OverRelaxation:    p.OverRelaxation,
		CompensateDrift:   p.CompensateDrift,
		SeparateParticles: p.SeparateParticles,

		Density:        tc.Density,
		RelWaterWidth:  tc.RelWaterWidth,
		RelWaterHeight: tc.RelWaterHeight,

		ObstacleRadius:  pointer.DefaultRestRadius,
		PressedRadius:   pointer.DefaultPressedRadius,
		Smoothing:       pointer.DefaultSmoothing,
		RadiusEasing:    pointer.DefaultEasing,
		ExplosionForce:  4,
		ExplosionRadius: 0.5,
	}
	return &FluidWrapper{con}
}

func (con *FluidConfig) ValidFPS() bool {
	return con.FPS > 0
}
func (con *FluidConfig) ValidSubSteps() bool {
	return con.SubSteps > 0
}
func (con *FluidConfig) ValidFlipRatio() bool {
	return con.FlipRatio >= 0 && con.FlipRatio <= 1
}
func (con *FluidConfig) ValidPressureIters() bool {
	return con.PressureIters >= 0
}
func (con *FluidConfig) ValidParticleIters() bool {
	return con.ParticleIters >= 0
}
func (con *FluidConfig) ValidOverRelaxation() bool {
	return con.OverRelaxation > 0 && con.OverRelaxation < 2
}
func (con *FluidConfig) ValidDensity() bool {
	return con.Density > 0
}
func (con *FluidConfig) ValidRelWaterWidth() bool {
	return con.RelWaterWidth >= 0 && con.RelWaterWidth <= 1
}
func (con *FluidConfig) ValidRelWaterHeight() bool {
	return con.RelWaterHeight >= 0 && con.RelWaterHeight <= 1
}
func (con *FluidConfig) ValidObstacleRadius() bool {
	return con.ObstacleRadius >= 0
}
func (con *FluidConfig) ValidPressedRadius() bool {
	return con.PressedRadius >= 0
}
func (con *FluidConfig) ValidSmoothing() bool {
	return con.Smoothing > 0 && con.Smoothing <= 1
}
func (con *FluidConfig) ValidRadiusEasing() bool {
	return con.RadiusEasing > 0 && con.RadiusEasing <= 1
}
func (con *FluidConfig) ValidExplosionRadius() bool {
	return con.ExplosionRadius > 0
}
func (con *FluidConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *FluidConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}
func (con *FluidConfig) ValidReplay() bool {
	return con.Replay != ""
}

// CheckInit returns an error describing the first invalid field of con.
func (con *FluidConfig) CheckInit() error {
	switch {
	case !con.ValidFPS():
		return fmt.Errorf("FPS must be positive, but is %d.", con.FPS)
	case !con.ValidSubSteps():
		return fmt.Errorf("SubSteps must be positive, but is %d.",
			con.SubSteps)
	case !con.ValidFlipRatio():
		return fmt.Errorf("FlipRatio must be in range [0, 1], but is %g.",
			con.FlipRatio)
	case !con.ValidPressureIters():
		return fmt.Errorf("PressureIters must be non-negative, but is %d.",
			con.PressureIters)
	case !con.ValidParticleIters():
		return fmt.Errorf("ParticleIters must be non-negative, but is %d.",
			con.ParticleIters)
	case !con.ValidOverRelaxation():
		return fmt.Errorf(
			"OverRelaxation must be in range (0, 2), but is %g.",
			con.OverRelaxation,
		)
	case !con.ValidDensity():
		return fmt.Errorf("Density must be positive, but is %g.",
			con.Density)
	case !con.ValidRelWaterWidth():
		return fmt.Errorf("RelWaterWidth must be in range [0, 1], but is %g.",
			con.RelWaterWidth)
	case !con.ValidRelWaterHeight():
		return fmt.Errorf(
			"RelWaterHeight must be in range [0, 1], but is %g.",
			con.RelWaterHeight,
		)
	case !con.ValidObstacleRadius():
		return fmt.Errorf("ObstacleRadius must be non-negative, but is %g.",
			con.ObstacleRadius)
	case !con.ValidPressedRadius():
		return fmt.Errorf("PressedRadius must be non-negative, but is %g.",
			con.PressedRadius)
	case !con.ValidSmoothing():
		return fmt.Errorf("Smoothing must be in range (0, 1], but is %g.",
			con.Smoothing)
	case !con.ValidRadiusEasing():
		return fmt.Errorf("RadiusEasing must be in range (0, 1], but is %g.",
			con.RadiusEasing)
	case !con.ValidExplosionRadius():
		return fmt.Errorf("ExplosionRadius must be positive, but is %g.",
			con.ExplosionRadius)
	}
	return nil
}

// ReadFluidConfig reads and checks the config file fname. An empty fname
// gives the defaults.
func ReadFluidConfig(fname string) (*FluidConfig, error) {
	if fname == "" {
		return ParseFluidConfig("")
	}
	text, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", fname, err)
	}
	con, err := ParseFluidConfig(string(text))
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", fname, err)
	}
	return con, nil
}

// ParseFluidConfig is ReadFluidConfig for the text of a config file.
func ParseFluidConfig(text string) (*FluidConfig, error) {
	wrap := DefaultFluidWrapper()
	if err := gcfg.ReadStringInto(wrap, text); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := wrap.Fluid.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Fluid, nil
}

// Dt returns the length of a single simulation step in seconds.
func (con *FluidConfig) Dt() float64 {
	return harmonica.FPS(con.FPS) / float64(con.SubSteps)
}

// Params returns the step parameters of con.
func (con *FluidConfig) Params() flip.Params {
	return flip.Params{
		Gravity:           con.Gravity,
		FlipRatio:         con.FlipRatio,
		PressureIters:     con.PressureIters,
		ParticleIters:     con.ParticleIters,
		OverRelaxation:    con.OverRelaxation,
		CompensateDrift:   con.CompensateDrift,
		SeparateParticles: con.SeparateParticles,
	}
}

// TankConfig returns the initial water block of con.
func (con *FluidConfig) TankConfig() flip.TankConfig {
	return flip.TankConfig{
		Density:        con.Density,
		RelWaterWidth:  con.RelWaterWidth,
		RelWaterHeight: con.RelWaterHeight,
	}
}
