// Package timers multiplexes many timers onto a host event loop.
//
// A TimerList owns the timers of one loop goroutine. The loop asks
// NextTimeout how long it may sleep and calls MaybeActivateTimers once per
// wake-up; due callbacks run from inside that call and may start, stop or
// restart any timer of the same list, their own included.
//
// Nothing in this package is safe for concurrent use.
package timers

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/rs/xid"

	"github.com/fixkme/uicore/ds/arena"
	"github.com/fixkme/uicore/mlog"
)

// Mode says what happens to a timer after it fired.
type Mode int

const (
	// SingleShot fires once and stops.
	SingleShot Mode = iota
	// Repeated fires every interval until stopped.
	Repeated
)

func (m Mode) String() string {
	switch m {
	case SingleShot:
		return "single-shot"
	case Repeated:
		return "repeated"
	default:
		return "unknown"
	}
}

type Callback func()

type timerData struct {
	duration time.Duration
	mode     Mode
	running  bool
	callback Callback // nil while the callback runs
	epoch    uint64   // bumped when Start overwrites the record
	armed    uint64   // activation the live active entry belongs to
	detached bool     // no handle; free the slot once it stops
}

type activeTimer struct {
	id      arena.ID
	timeout time.Time
	armed   uint64
}

// TimerList is the registry of timers plus their deadline-ordered queue.
type TimerList struct {
	name   string
	clock  Clock
	timers *arena.Arena[*timerData]
	active []activeTimer
	seq    uint64
}

type Option func(*TimerList)

func WithClock(c Clock) Option {
	return func(l *TimerList) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithName sets the name used in log lines. Defaults to a fresh xid.
func WithName(name string) Option {
	return func(l *TimerList) {
		l.name = name
	}
}

func NewTimerList(opts ...Option) *TimerList {
	l := &TimerList{
		clock:  SystemClock,
		timers: arena.New[*timerData](16),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.name == "" {
		l.name = xid.New().String()
	}
	return l
}

func (l *TimerList) Name() string {
	return l.name
}

func (l *TimerList) Clock() Clock {
	return l.clock
}

// Len is the number of timers holding a slot, running or not.
func (l *TimerList) Len() int {
	return l.timers.Len()
}

// ActiveLen is the number of running timers.
func (l *TimerList) ActiveLen() int {
	return len(l.active)
}

// NextTimeout returns the deadline of the timer due first. ok is false
// when no timer is running and the loop may wait indefinitely.
func (l *TimerList) NextTimeout() (deadline time.Time, ok bool) {
	if len(l.active) == 0 {
		return
	}
	return l.active[0].timeout, true
}

// MaybeActivateTimers runs the callbacks of every timer due now and
// reports whether any fired.
//
// The active queue is taken out of the list before the first callback
// runs; callbacks see an empty or rebuilt queue and never the one being
// walked. An entry of the taken queue fires only while its timer is still
// running on that same activation: a timer stopped, restarted or closed by
// an earlier callback of the pass does not fire from its old entry.
// Timers armed during the pass are due on a later call at the earliest.
func (l *TimerList) MaybeActivateTimers() bool {
	now := l.clock.Now()
	if len(l.active) == 0 || l.active[0].timeout.After(now) {
		return false
	}

	pending := l.active
	l.active = nil
	fired, next := 0, 0
	defer func() {
		// only left over when a callback panicked
		for _, at := range pending[next:] {
			if data, ok := l.live(at); ok {
				l.register(at, data)
			}
		}
	}()

	for next < len(pending) {
		at := pending[next]
		next++
		data, ok := l.live(at)
		if !ok {
			continue
		}
		if at.timeout.After(now) {
			l.register(at, data)
			continue
		}
		fired++
		l.fire(at.id, data)
	}

	mlog.Tracef("timerlist %s fired %d of %d, %d active", l.name, fired, len(pending), len(l.active))
	return fired > 0
}

// live resolves the record behind an entry taken out of the queue, if
// the entry still belongs to the timer's current activation.
func (l *TimerList) live(at activeTimer) (*timerData, bool) {
	data, ok := l.timers.Get(at.id)
	if !ok || !data.running || data.armed != at.armed {
		return nil, false
	}
	return data, true
}

func (l *TimerList) fire(id arena.ID, data *timerData) {
	cb := data.callback
	data.callback = nil
	epoch, armed := data.epoch, data.armed
	defer func() {
		if cur, ok := l.timers.Get(id); !ok || cur != data {
			return // closed by its callback
		}
		if data.epoch == epoch {
			data.callback = cb
		}
		if data.armed != armed || !data.running {
			return // restarted or stopped by its callback
		}
		if data.mode == Repeated {
			l.activate(id, data)
			return
		}
		data.running = false
		if data.detached {
			l.timers.Remove(id)
		}
	}()
	if cb != nil {
		cb()
	}
}

func (l *TimerList) startOrRestart(id arena.ID, has bool, mode Mode, d time.Duration, cb Callback) arena.ID {
	if has {
		if data, ok := l.timers.Get(id); ok {
			l.deactivate(id, data)
			data.duration = d
			data.mode = mode
			data.callback = cb
			data.epoch++
			l.activate(id, data)
			return id
		}
	}
	data := &timerData{duration: d, mode: mode, callback: cb}
	id = l.timers.Insert(data)
	l.activate(id, data)
	return id
}

func (l *TimerList) deactivate(id arena.ID, data *timerData) {
	data.running = false
	for i := range l.active {
		if l.active[i].id == id {
			l.active = slices.Delete(l.active, i, i+1)
			return
		}
	}
}

func (l *TimerList) activate(id arena.ID, data *timerData) {
	l.seq++
	data.armed = l.seq
	l.register(activeTimer{
		id:      id,
		timeout: l.clock.Now().Add(data.duration),
		armed:   data.armed,
	}, data)
}

// register keeps the queue ordered by deadline, then by activation, so
// timers sharing a deadline fire in the order they were armed even when
// an older entry is put back after a newer one.
func (l *TimerList) register(at activeTimer, data *timerData) {
	i := sort.Search(len(l.active), func(i int) bool {
		cur := l.active[i]
		return cur.timeout.After(at.timeout) ||
			(cur.timeout.Equal(at.timeout) && cur.armed > at.armed)
	})
	l.active = slices.Insert(l.active, i, at)
	data.running = true
}

func (l *TimerList) stop(id arena.ID) {
	if data, ok := l.timers.Get(id); ok {
		l.deactivate(id, data)
	}
}

func (l *TimerList) restart(id arena.ID) {
	if data, ok := l.timers.Get(id); ok {
		l.deactivate(id, data)
		l.activate(id, data)
	}
}

func (l *TimerList) remove(id arena.ID) {
	if data, ok := l.timers.Get(id); ok {
		l.deactivate(id, data)
		l.timers.Remove(id)
	}
}

func (l *TimerList) running(id arena.ID) bool {
	data, ok := l.timers.Get(id)
	return ok && data.running
}

// SingleShot calls cb once after d. There is no handle; the timer's slot
// is given back after it fired.
func (l *TimerList) SingleShot(d time.Duration, cb Callback) {
	id := l.startOrRestart(arena.ID{}, false, SingleShot, d, cb)
	if data, ok := l.timers.Get(id); ok {
		data.detached = true
	}
}

type listKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *TimerList) context.Context {
	return context.WithValue(ctx, listKey{}, l)
}

func FromContext(ctx context.Context) (*TimerList, bool) {
	l, ok := ctx.Value(listKey{}).(*TimerList)
	return l, ok
}
