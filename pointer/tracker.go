/*package pointer turns pointer input into the obstacle which stirs the
fluid. Input handlers write targets, and the frame loop eases the obstacle
towards them once per frame.
*/
package pointer

import (
	"math"
	"sync/atomic"
)

// OffScreen is the pixel coordinate of a pointer which has left the window.
const OffScreen = -1000.0

// DefaultSmoothing is the fraction of the distance to its target that the
// obstacle covers each frame.
const DefaultSmoothing = 0.3

// Projector converts pixel coordinates into simulation coordinates.
// flip.Layout is a Projector.
type Projector interface {
	ToSim(px, py float64) (x, y float64)
}

// Tracker follows the pointer. Move and Leave may be called from any
// goroutine; Follow and the X, Y fields belong to the frame loop.
type Tracker struct {
	px, py atomicFloat

	// X and Y are the smoothed obstacle center in simulation units.
	X, Y      float64
	Smoothing float64
}

// NewTracker returns a tracker whose pointer and obstacle both start off
// screen.
func NewTracker(smoothing float64) *Tracker {
	t := &Tracker{X: OffScreen, Y: OffScreen, Smoothing: smoothing}
	t.Leave()
	return t
}

// Move sets the pointer target in pixels.
func (t *Tracker) Move(px, py float64) {
	t.px.Store(px)
	t.py.Store(py)
}

// MoveWithin is Move for a window of the given size. Points outside the
// window send the pointer off screen.
func (t *Tracker) MoveWithin(px, py, width, height float64) {
	if px >= 0 && px <= width && py >= 0 && py <= height {
		t.Move(px, py)
	} else {
		t.Leave()
	}
}

// Leave moves the pointer off screen.
func (t *Tracker) Leave() {
	t.Move(OffScreen, OffScreen)
}

// Target returns the most recent pointer position in pixels.
func (t *Tracker) Target() (px, py float64) {
	return t.px.Load(), t.py.Load()
}

// Follow moves the obstacle a step towards the pointer and returns its new
// center. The target is read once, so a Move during the call affects only
// the next frame.
func (t *Tracker) Follow(proj Projector) (x, y float64) {
	tx, ty := proj.ToSim(t.Target())
	t.X += (tx - t.X) * t.Smoothing
	t.Y += (ty - t.Y) * t.Smoothing
	return t.X, t.Y
}

type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(x float64) {
	f.bits.Store(math.Float64bits(x))
}
