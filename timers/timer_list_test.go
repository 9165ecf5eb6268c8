package timers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fixkme/uicore/mlog"
)

func newTestList() (*TimerList, *ManualClock) {
	clk := NewManualClock(time.Unix(1000, 0))
	return NewTimerList(WithClock(clk), WithName("test")), clk
}

func TestSingleShotFiresOnce(t *testing.T) {
	l, clk := newTestList()
	count := 0
	tm := l.NewTimer()
	tm.Start(SingleShot, 100*time.Millisecond, func() { count++ })
	if !tm.Running() {
		t.Fatal("not running after Start")
	}

	clk.Advance(99 * time.Millisecond)
	if l.MaybeActivateTimers() {
		t.Fatal("fired early")
	}
	clk.Advance(time.Millisecond)
	if !l.MaybeActivateTimers() {
		t.Fatal("did not fire at deadline")
	}
	if count != 1 || tm.Running() {
		t.Fatalf("count %d running %v", count, tm.Running())
	}
	clk.Advance(time.Second)
	if l.MaybeActivateTimers() || count != 1 {
		t.Fatal("single shot fired twice")
	}
	if _, ok := l.NextTimeout(); ok {
		t.Fatal("stopped timer left a deadline")
	}
}

func TestRepeatedFiresEveryInterval(t *testing.T) {
	l, clk := newTestList()
	count := 0
	tm := l.NewTimer()
	tm.Start(Repeated, 50*time.Millisecond, func() { count++ })
	for i := 1; i <= 3; i++ {
		clk.Advance(50 * time.Millisecond)
		if !l.MaybeActivateTimers() {
			t.Fatalf("round %d did not fire", i)
		}
		if count != i || !tm.Running() {
			t.Fatalf("round %d: count %d running %v", i, count, tm.Running())
		}
	}
	if l.ActiveLen() != 1 {
		t.Fatalf("active entries %d", l.ActiveLen())
	}
}

func TestTiedDeadlinesFireInArmOrder(t *testing.T) {
	l, clk := newTestList()
	var order []string
	a, b, c := l.NewTimer(), l.NewTimer(), l.NewTimer()
	a.Start(SingleShot, 10*time.Millisecond, func() { order = append(order, "a") })
	b.Start(SingleShot, 10*time.Millisecond, func() { order = append(order, "b") })
	c.Start(SingleShot, 10*time.Millisecond, func() { order = append(order, "c") })
	// re-arming a moves it behind b and c
	a.Restart()

	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if got := strings.Join(order, ","); got != "b,c,a" {
		t.Fatalf("order %s", got)
	}
}

func TestTieOrderSurvivesRequeue(t *testing.T) {
	l, clk := newTestList()
	var order []string
	a, b, c := l.NewTimer(), l.NewTimer(), l.NewTimer()
	b.Start(SingleShot, 20*time.Millisecond, func() { order = append(order, "b") })
	a.Start(SingleShot, 10*time.Millisecond, func() {
		// c lands on b's deadline but is armed after it
		c.Start(SingleShot, 10*time.Millisecond, func() { order = append(order, "c") })
	})

	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if got := strings.Join(order, ","); got != "b,c" {
		t.Fatalf("order %s", got)
	}
}

func TestNextTimeout(t *testing.T) {
	l, clk := newTestList()
	if _, ok := l.NextTimeout(); ok {
		t.Fatal("empty list has a deadline")
	}
	start := clk.Now()
	slow, fast := l.NewTimer(), l.NewTimer()
	slow.Start(SingleShot, 300*time.Millisecond, func() {})
	fast.Start(SingleShot, 100*time.Millisecond, func() {})

	d, ok := l.NextTimeout()
	if !ok || !d.Equal(start.Add(100*time.Millisecond)) {
		t.Fatalf("next %v %v", d, ok)
	}
	clk.Advance(100 * time.Millisecond)
	l.MaybeActivateTimers()
	d, ok = l.NextTimeout()
	if !ok || !d.Equal(start.Add(300*time.Millisecond)) {
		t.Fatalf("after fire next %v %v", d, ok)
	}
}

func TestStopIsIdempotentAndRestartNeedsStart(t *testing.T) {
	l, clk := newTestList()
	tm := l.NewTimer()
	tm.Stop()
	tm.Restart()
	if tm.Running() || l.Len() != 0 {
		t.Fatal("never-started timer became active")
	}

	count := 0
	tm.Start(SingleShot, time.Second, func() { count++ })
	tm.Stop()
	tm.Stop()
	if tm.Running() || l.ActiveLen() != 0 {
		t.Fatal("stop left timer active")
	}
	if l.Len() != 1 {
		t.Fatal("stop released the slot")
	}

	// the slot keeps duration and callback for Restart
	tm.Restart()
	if !tm.Running() || tm.Interval() != time.Second {
		t.Fatal("restart after stop failed")
	}
	clk.Advance(time.Second)
	l.MaybeActivateTimers()
	if count != 1 {
		t.Fatalf("count %d", count)
	}
}

func TestStopFromAnotherCallbackInSamePass(t *testing.T) {
	l, clk := newTestList()
	var order []string
	a, b := l.NewTimer(), l.NewTimer()
	a.Start(SingleShot, 10*time.Millisecond, func() {
		order = append(order, "a")
		b.Stop()
	})
	b.Start(SingleShot, 20*time.Millisecond, func() { order = append(order, "b") })

	// both are due when the pass starts; b is stopped before its turn
	clk.Advance(30 * time.Millisecond)
	l.MaybeActivateTimers()
	if got := strings.Join(order, ","); got != "a" {
		t.Fatalf("order %s", got)
	}
	if b.Running() || l.ActiveLen() != 0 {
		t.Fatal("stopped timer still active")
	}
}

func TestRestartFromAnotherCallbackKeepsOneEntry(t *testing.T) {
	l, clk := newTestList()
	bCount := 0
	a, b := l.NewTimer(), l.NewTimer()
	b.Start(Repeated, 10*time.Millisecond, func() { bCount++ })
	a.Start(SingleShot, 10*time.Millisecond, func() { b.Restart() })
	a.Restart() // a now fires after b on the tie

	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if bCount != 1 || l.ActiveLen() != 1 {
		t.Fatalf("b fired %d, %d active", bCount, l.ActiveLen())
	}

	b2 := l.NewTimer()
	b2Count := 0
	a.Start(SingleShot, 10*time.Millisecond, func() { b2.Restart() })
	b2.Start(Repeated, 10*time.Millisecond, func() { b2Count++ })
	// a before b2: b2's queued entry is stale once a restarted it
	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if b2Count != 0 {
		t.Fatalf("restarted timer fired from its old entry %d times", b2Count)
	}
	entries := 0
	for _, at := range l.active {
		if at.id == b2.id {
			entries++
		}
	}
	if entries != 1 {
		t.Fatalf("b2 has %d active entries", entries)
	}
	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if b2Count != 1 {
		t.Fatalf("b2 fired %d times", b2Count)
	}
}

func TestCallbackReplacesItself(t *testing.T) {
	l, clk := newTestList()
	var order []string
	tm := l.NewTimer()
	tm.Start(Repeated, 10*time.Millisecond, func() {
		order = append(order, "first")
		tm.Start(SingleShot, 20*time.Millisecond, func() { order = append(order, "second") })
	})

	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if !tm.Running() || l.ActiveLen() != 1 {
		t.Fatal("self start lost")
	}
	clk.Advance(20 * time.Millisecond)
	l.MaybeActivateTimers()
	clk.Advance(20 * time.Millisecond)
	l.MaybeActivateTimers()
	if got := strings.Join(order, ","); got != "first,second" {
		t.Fatalf("order %s", got)
	}
	if tm.Running() {
		t.Fatal("single shot still running")
	}
}

func TestRepeatedStoppedByItself(t *testing.T) {
	l, clk := newTestList()
	count := 0
	tm := l.NewTimer()
	tm.Start(Repeated, 10*time.Millisecond, func() {
		count++
		tm.Stop()
	})
	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if tm.Running() || l.ActiveLen() != 0 {
		t.Fatal("repeated timer re-armed after stopping itself")
	}

	// the callback went back into the record
	tm.Restart()
	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if count != 2 {
		t.Fatalf("count %d", count)
	}
}

func TestCallbackRestartsItself(t *testing.T) {
	l, clk := newTestList()
	count := 0
	tm := l.NewTimer()
	tm.Start(SingleShot, 10*time.Millisecond, func() {
		count++
		if count < 3 {
			tm.Restart()
		}
	})
	for i := 0; i < 5; i++ {
		clk.Advance(10 * time.Millisecond)
		l.MaybeActivateTimers()
	}
	if count != 3 || tm.Running() {
		t.Fatalf("count %d running %v", count, tm.Running())
	}
}

func TestCloseReleasesSlot(t *testing.T) {
	l, clk := newTestList()
	a, b := l.NewTimer(), l.NewTimer()
	a.Start(Repeated, 10*time.Millisecond, func() {})
	fired := 0
	b.Start(Repeated, 10*time.Millisecond, func() {
		fired++
		b.Close()
	})
	a.Close()
	if a.Running() || l.Len() != 1 {
		t.Fatalf("close: running %v len %d", a.Running(), l.Len())
	}
	a.Stop()
	a.Restart()
	if a.Running() {
		t.Fatal("closed handle came back")
	}

	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	clk.Advance(10 * time.Millisecond)
	l.MaybeActivateTimers()
	if fired != 1 || l.Len() != 0 || l.ActiveLen() != 0 {
		t.Fatalf("fired %d len %d active %d", fired, l.Len(), l.ActiveLen())
	}

	// a closed handle starts over with a fresh slot
	a.Start(SingleShot, time.Millisecond, func() {})
	if !a.Running() || l.Len() != 1 {
		t.Fatal("restart of closed handle failed")
	}
}

func TestTimersArmedDuringPassWaitForNextPass(t *testing.T) {
	l, clk := newTestList()
	inner := 0
	late := l.NewTimer()
	tm := l.NewTimer()
	tm.Start(SingleShot, time.Millisecond, func() {
		late.Start(SingleShot, 0, func() { inner++ })
	})
	clk.Advance(time.Millisecond)
	l.MaybeActivateTimers()
	if inner != 0 {
		t.Fatal("timer armed in callback fired in the same pass")
	}
	l.MaybeActivateTimers()
	if inner != 1 {
		t.Fatalf("inner %d", inner)
	}
}

func TestDetachedSingleShot(t *testing.T) {
	l, clk := newTestList()
	done := false
	l.SingleShot(5*time.Millisecond, func() { done = true })
	if l.Len() != 1 {
		t.Fatal("single shot not registered")
	}
	clk.Advance(5 * time.Millisecond)
	l.MaybeActivateTimers()
	if !done || l.Len() != 0 {
		t.Fatalf("done %v len %d", done, l.Len())
	}
}

func TestPanicKeepsRemainingTimers(t *testing.T) {
	l, clk := newTestList()
	bFired := false
	a, b := l.NewTimer(), l.NewTimer()
	a.Start(SingleShot, time.Millisecond, func() { panic("boom") })
	b.Start(SingleShot, time.Millisecond, func() { bFired = true })
	clk.Advance(time.Millisecond)

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Fatalf("recovered %v", r)
			}
		}()
		l.MaybeActivateTimers()
	}()
	if bFired || !b.Running() || a.Running() {
		t.Fatalf("after panic: b fired %v, b running %v, a running %v", bFired, b.Running(), a.Running())
	}
	l.MaybeActivateTimers()
	if !bFired {
		t.Fatal("b lost after panic")
	}
}

func TestDispatchLogsAtTrace(t *testing.T) {
	m := mlog.NewMemoryLogger(mlog.TraceLevel)
	prev := mlog.GetLogger()
	mlog.SetLogger(m)
	defer mlog.SetLogger(prev)

	l, clk := newTestList()
	l.NewTimer().Start(SingleShot, time.Millisecond, func() {})
	clk.Advance(time.Millisecond)
	l.MaybeActivateTimers()
	if len(m.Lines) != 1 || m.Lines[0] != "[trace] timerlist test fired 1 of 1, 0 active" {
		t.Fatalf("lines %v", m.Lines)
	}
}

func TestContextCarriesList(t *testing.T) {
	l := NewTimerList()
	if l.Name() == "" {
		t.Fatal("list without a name")
	}
	ctx := NewContext(context.Background(), l)
	got, ok := FromContext(ctx)
	if !ok || got != l {
		t.Fatal("list not found in context")
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context yielded a list")
	}
}
