package pointer

import (
	"math"
	"sync"
	"time"

	"github.com/phil-mansfield/flipascii/loop"
)

// EaserID is the id the radius easer registers itself under.
const EaserID = "obstacle-radius"

const (
	DefaultRestRadius    = 0.1
	DefaultPressedRadius = 0.25
	DefaultEasing        = 0.1
	settleDistance       = 0.001
)

// Registrar is the part of loop.Scheduler used by RadiusEaser.
type Registrar interface {
	Register(id string, cb loop.Callback)
	Unregister(id string)
	Has(id string) bool
}

// RadiusEaser grows the obstacle while the pointer is pressed and shrinks it
// once it is released. It only occupies the frame loop while the radius is
// changing. Press and Release may be called while another goroutine runs the
// frame loop.
type RadiusEaser struct {
	Rest, Pressed, Rate float64

	target, radius atomicFloat
	sched          Registrar

	// mu pairs each settle decision with its Unregister and each new target
	// with its Register.
	mu sync.Mutex
}

// NewRadiusEaser returns an easer at rest which runs its frames on sched.
func NewRadiusEaser(sched Registrar, rest, pressed, rate float64) *RadiusEaser {
	e := &RadiusEaser{Rest: rest, Pressed: pressed, Rate: rate, sched: sched}
	e.target.Store(rest)
	e.radius.Store(rest)
	return e
}

// Press starts growing the obstacle.
func (e *RadiusEaser) Press() { e.setTarget(e.Pressed) }

// Release starts shrinking the obstacle.
func (e *RadiusEaser) Release() { e.setTarget(e.Rest) }

func (e *RadiusEaser) setTarget(r float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.target.Store(r)
	if !e.sched.Has(EaserID) {
		e.sched.Register(EaserID, e.Step)
	}
}

// Radius returns the current obstacle radius.
func (e *RadiusEaser) Radius() float64 { return e.radius.Load() }

// Target returns the radius the easer is heading towards.
func (e *RadiusEaser) Target() float64 { return e.target.Load() }

// Step moves the radius one frame towards its target. When it is close
// enough it snaps onto the target and unregisters itself.
func (e *RadiusEaser) Step(time.Time, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	target, r := e.target.Load(), e.radius.Load()
	diff := target - r
	if math.Abs(diff) > settleDistance {
		e.radius.Store(r + diff*e.Rate)
		return
	}
	e.radius.Store(target)
	e.sched.Unregister(EaserID)
}
