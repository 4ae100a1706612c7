/*package scene ties a tank to its pointer, its renderer and the frame loop.
It plays the part of the page which hosts the simulation: it owns the layout,
feeds pointer input to the obstacle and keeps the latest frame of text.

A Scene is driven by a single goroutine, the one running its frames. Only the
pointer methods Move, MoveWithin, PointAt, Leave, Press and Release may be
called from other goroutines.
*/
package scene

import (
	"time"

	"github.com/phil-mansfield/flipascii/flip"
	"github.com/phil-mansfield/flipascii/io"
	"github.com/phil-mansfield/flipascii/loop"
	"github.com/phil-mansfield/flipascii/pointer"
	"github.com/phil-mansfield/flipascii/render"
)

// FrameID is the id a Scene's frame callback is registered under.
const FrameID = "fluid"

type Scene struct {
	Width, Height float64
	Layout        flip.Layout
	Tank          *flip.Tank

	Params flip.Params
	Dt     float64
	Paused bool

	Tracker *pointer.Tracker
	Easer   *pointer.RadiusEaser
	Palette *render.Palette

	con    io.FluidConfig
	frame  string
	frames int
}

// New builds a scene for a view of width x height pixels. The obstacle
// radius is eased on sched.
func New(
	width, height float64, con *io.FluidConfig, sched pointer.Registrar,
) *Scene {
	s := &Scene{
		Tracker: pointer.NewTracker(con.Smoothing),
		Easer: pointer.NewRadiusEaser(
			sched, con.ObstacleRadius, con.PressedRadius, con.RadiusEasing,
		),
		Palette: render.DefaultPalette(),
	}
	s.SetConfig(con)
	s.Resize(width, height)
	return s
}

// Resize throws away the current tank and starts again with a fresh one
// sized for the new view.
func (s *Scene) Resize(width, height float64) {
	s.Width, s.Height = width, height
	s.Layout = flip.NewLayout(width, height)
	record := s.Tank != nil && s.Tank.Record
	s.Tank = flip.Setup(s.Layout, s.con.TankConfig())
	s.Tank.Record = record
	s.frames = 0
	s.frame = render.Frame(s.Tank, s.Palette)
}

// SetConfig swaps in new tuning values. Changes to the initial block of water
// show up after the next Resize.
func (s *Scene) SetConfig(con *io.FluidConfig) {
	s.con = *con
	s.Params = con.Params()
	s.Dt = con.Dt()
	s.Tracker.Smoothing = con.Smoothing
	s.Easer.Rest, s.Easer.Pressed = con.ObstacleRadius, con.PressedRadius
	s.Easer.Rate = con.RadiusEasing
}

// Config returns the values the scene is running with.
func (s *Scene) Config() io.FluidConfig {
	return s.con
}

// Attach registers the scene's frame callback on sched.
func (s *Scene) Attach(sched *loop.Scheduler) {
	sched.Register(FrameID, s.Update)
}

// Update runs one frame: the obstacle follows the pointer, and unless the
// scene is paused the tank takes a single fixed step and the frame text is
// redrawn. The time arguments are ignored.
func (s *Scene) Update(time.Time, float64) {
	x, y := s.Tracker.Follow(s.Layout)
	if s.Paused {
		return
	}

	obs := flip.Obstacle{X: x, Y: y, Radius: s.Easer.Radius()}
	s.Tank.Simulate(s.Dt, s.Params, obs)
	s.frames++
	s.frame = render.Frame(s.Tank, s.Palette)
}

// Frame returns the most recently drawn frame.
func (s *Scene) Frame() string { return s.frame }

// Frames returns the number of steps taken since the last Resize.
func (s *Scene) Frames() int { return s.frames }

// Obstacle returns the obstacle as it was used in the last step.
func (s *Scene) Obstacle() flip.Obstacle {
	return flip.Obstacle{X: s.Tracker.X, Y: s.Tracker.Y, Radius: s.Easer.Radius()}
}

// TogglePause pauses or resumes the simulation.
func (s *Scene) TogglePause() { s.Paused = !s.Paused }

// Move points at the pixel (px, py) of the view. Points outside the view
// send the pointer off screen.
func (s *Scene) Move(px, py float64) {
	s.Tracker.MoveWithin(px, py, s.Width, s.Height)
}

// PointAt points at the center of the character in column col and row row
// of the frame text.
func (s *Scene) PointAt(col, row int) {
	cb := s.Tank.Crop(flip.CropX, flip.CropY)
	i, j := cb.Origin[0]+col, cb.Origin[1]+cb.Width[1]-1-row
	if !cb.Contains(i, j) {
		s.Tracker.Leave()
		return
	}
	s.Tracker.Move(s.Layout.CellToPixel(i, j))
}

// Leave sends the pointer off screen.
func (s *Scene) Leave() { s.Tracker.Leave() }

// Press grows the obstacle.
func (s *Scene) Press() { s.Easer.Press() }

// Release shrinks the obstacle.
func (s *Scene) Release() { s.Easer.Release() }

// Explode pushes the water away from the obstacle.
func (s *Scene) Explode() {
	s.Tank.Explode(
		s.Tracker.X, s.Tracker.Y, s.con.ExplosionForce, s.con.ExplosionRadius,
	)
}

// Play applies recorded pointer events in order.
func (s *Scene) Play(events []io.PointerEvent) {
	pressed := s.Easer.Target() == s.Easer.Pressed
	for _, ev := range events {
		s.Move(ev.X, ev.Y)
		if ev.Pressed && !pressed {
			s.Press()
		} else if !ev.Pressed && pressed {
			s.Release()
		}
		pressed = ev.Pressed
	}
}
