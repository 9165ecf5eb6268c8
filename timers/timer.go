package timers

import (
	"time"

	"github.com/fixkme/uicore/ds/arena"
)

// Timer is a handle on one timer of a TimerList. It takes a slot on the
// first Start and keeps it across Stop and Restart, until Close.
type Timer struct {
	list *TimerList
	id   arena.ID
	has  bool
}

func (l *TimerList) NewTimer() *Timer {
	return &Timer{list: l}
}

// Start arms the timer to call cb after d, and every d after that in
// Repeated mode. A timer that is already running is re-armed with the new
// settings.
func (t *Timer) Start(mode Mode, d time.Duration, cb Callback) {
	t.id = t.list.startOrRestart(t.id, t.has, mode, d, cb)
	t.has = true
}

// Stop disarms the timer. Does nothing if it is not running.
func (t *Timer) Stop() {
	if t.has {
		t.list.stop(t.id)
	}
}

// Restart re-arms the timer with its last duration, counting from now.
// Does nothing if the timer was never started.
func (t *Timer) Restart() {
	if t.has {
		t.list.restart(t.id)
	}
}

func (t *Timer) Running() bool {
	return t.has && t.list.running(t.id)
}

// Interval is the duration given to the last Start.
func (t *Timer) Interval() time.Duration {
	if !t.has {
		return 0
	}
	if data, ok := t.list.timers.Get(t.id); ok {
		return data.duration
	}
	return 0
}

// Close stops the timer and frees its slot. The handle goes back to its
// never-started state and may be started again.
func (t *Timer) Close() {
	if t.has {
		t.list.remove(t.id)
		t.has = false
		t.id = arena.ID{}
	}
}
