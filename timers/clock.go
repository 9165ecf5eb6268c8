package timers

import "time"

// Clock is the time source of a TimerList. Only differences between
// readings matter, so implementations should be monotonic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now includes Go's monotonic reading, so deadlines are unaffected by
// wall clock changes.
func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the default Clock.
var SystemClock Clock = systemClock{}

// ManualClock only moves when told to. Tests use it to drive timers
// deterministically.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *ManualClock) Set(t time.Time) {
	c.now = t
}
