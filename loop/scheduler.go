/*package loop runs per-frame callbacks from a single clock, so every
animation in a program shares one frame loop.
*/
package loop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Callback is called once per frame. delta is the time since the previous
// frame in seconds, and is zero on the first frame after the scheduler starts.
type Callback func(now time.Time, delta float64)

// Scheduler holds a set of named callbacks and calls all of them on every
// Tick. It is safe for concurrent use, and callbacks may register or
// unregister callbacks (including themselves) while they run.
type Scheduler struct {
	mu        sync.Mutex
	callbacks map[string]Callback
	order     []string
	last      time.Time

	log *zap.Logger
}

// NewScheduler returns an empty scheduler. A nil logger discards messages.
func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{callbacks: map[string]Callback{}, log: log}
}

// Register adds a callback under id, replacing any callback already using
// that id.
func (s *Scheduler) Register(id string, cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.callbacks[id]; !ok {
		s.order = append(s.order, id)
	}
	s.callbacks[id] = cb
}

// Unregister removes the callback with the given id, if there is one. The
// clock stops once the last callback is gone.
func (s *Scheduler) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.callbacks[id]; !ok {
		return
	}
	delete(s.callbacks, id)
	for i := range s.order {
		if s.order[i] == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if len(s.callbacks) == 0 {
		s.last = time.Time{}
	}
}

// Has returns true if a callback is registered under id.
func (s *Scheduler) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.callbacks[id]
	return ok
}

// Len returns the number of registered callbacks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.callbacks)
}

// Tick runs one frame. Callbacks run in the order they were registered. A
// callback which panics is logged and skipped; the rest of the frame still
// runs. Callbacks unregistered earlier in the same frame are not called.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	if len(s.callbacks) == 0 {
		s.mu.Unlock()
		return
	}
	delta := 0.0
	if !s.last.IsZero() {
		delta = now.Sub(s.last).Seconds()
	}
	s.last = now
	ids := append([]string{}, s.order...)
	s.mu.Unlock()

	for _, id := range ids {
		s.mu.Lock()
		cb, ok := s.callbacks[id]
		s.mu.Unlock()
		if !ok {
			continue
		}
		s.call(id, cb, now, delta)
	}
}

func (s *Scheduler) call(id string, cb Callback, now time.Time, delta float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Frame callback panicked.",
				zap.String("id", id), zap.String("panic", fmt.Sprint(r)))
		}
	}()
	cb(now, delta)
}

// Run calls Tick every interval until ctx is cancelled. It returns nil on
// cancellation.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("Frame interval must be positive, but it is %s.",
			interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Dispose unregisters every callback.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = map[string]Callback{}
	s.order = nil
	s.last = time.Time{}
}
