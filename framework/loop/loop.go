// Package loop is a host event loop for a TimerList. One goroutine owns
// the list: it sleeps until the next timer is due or a task arrives, then
// dispatches due timers and runs queued tasks. Other goroutines reach
// loop-owned state only by submitting tasks.
package loop

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixkme/uicore/errs"
	"github.com/fixkme/uicore/framework/config"
	"github.com/fixkme/uicore/mlog"
	"github.com/fixkme/uicore/timers"
)

type Loop struct {
	list         *timers.TimerList
	tasks        chan func()
	maxWait      time.Duration
	panicHandler func(r any)

	mutex    sync.RWMutex
	isClosed bool
	closeSig chan struct{}
	started  atomic.Bool
	owner    atomic.Int64 // id of the goroutine running the loop, 0 when none
	exited   chan struct{}
}

func New(list *timers.TimerList, conf *config.LoopConfig) *Loop {
	l := &Loop{
		list:     list,
		tasks:    make(chan func(), conf.QueueSize()),
		maxWait:  conf.MaxWait(),
		closeSig: make(chan struct{}),
		exited:   make(chan struct{}),
	}
	l.panicHandler = func(r any) {
		mlog.Errorf("loop %s task panic: %v\n%s", l.Name(), r, debug.Stack())
	}
	return l
}

// Timers is the list owned by the loop. Use it only from loop tasks and
// timer callbacks.
func (l *Loop) Timers() *timers.TimerList {
	return l.list
}

func (l *Loop) SetPanicHandler(f func(r any)) {
	if f != nil {
		l.panicHandler = f
	}
}

// TrySubmit queues f to run on the loop goroutine without waiting.
func (l *Loop) TrySubmit(f func()) error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	if l.isClosed {
		return errs.LoopClosed
	}
	select {
	case l.tasks <- f:
		return nil
	default:
		return errs.LoopFull
	}
}

// SyncRun runs f on the loop goroutine and waits for it to finish. Called
// from the loop goroutine itself (a task or timer callback) it returns
// errs.LoopReentered, since the loop could never reach f while waiting.
func (l *Loop) SyncRun(ctx context.Context, f func()) error {
	if id := l.owner.Load(); id != 0 && id == goroutineID() {
		return errs.LoopReentered
	}
	done := make(chan struct{})
	if err := l.TrySubmit(func() {
		defer close(done)
		f()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.exited:
		// pending tasks are drained before exited closes
		select {
		case <-done:
			return nil
		default:
			return errs.LoopClosed
		}
	}
}

// RunContext drives the loop until ctx is done or Close is called. Tasks
// still queued at that point are run before it returns.
func (l *Loop) RunContext(ctx context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		mlog.Warnf("loop %s already running", l.Name())
		return
	}
	l.owner.Store(goroutineID())
	defer l.onClose()

	wake := time.NewTimer(l.maxWait)
	defer wake.Stop()
	for {
		l.exec(l.dispatch)
		resetTimer(wake, l.nextWait())
		select {
		case <-ctx.Done():
			return
		case <-l.closeSig:
			return
		case f := <-l.tasks:
			l.exec(f)
		case <-wake.C:
		}
	}
}

func (l *Loop) dispatch() {
	l.list.MaybeActivateTimers()
}

// nextWait bounds the sleep by the nearest timer deadline.
func (l *Loop) nextWait() time.Duration {
	deadline, ok := l.list.NextTimeout()
	if !ok {
		return l.maxWait
	}
	wait := deadline.Sub(l.list.Clock().Now())
	if wait < 0 {
		wait = 0
	}
	return min(wait, l.maxWait)
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func (l *Loop) exec(f func()) {
	defer func() {
		if r := recover(); r != nil {
			l.panicHandler(r)
		}
	}()
	f()
}

func (l *Loop) onClose() {
	l.Close()
	for {
		select {
		case f := <-l.tasks:
			l.exec(f)
		default:
			l.owner.Store(0)
			close(l.exited)
			return
		}
	}
}

// Close asks the loop to stop. It does not wait; see Destroy.
func (l *Loop) Close() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.isClosed {
		return
	}
	l.isClosed = true
	close(l.closeSig)
}

// Done is closed once the loop has stopped and drained its queue.
func (l *Loop) Done() <-chan struct{} {
	return l.exited
}

func (l *Loop) Name() string {
	return "loop-" + l.list.Name()
}

func (l *Loop) OnInit() error {
	mlog.Infof("%s init, queue %d, max wait %v", l.Name(), cap(l.tasks), l.maxWait)
	return nil
}

func (l *Loop) Run() {
	l.RunContext(context.Background())
}

func (l *Loop) Destroy() {
	l.Close()
	if l.started.Load() {
		<-l.exited
	}
}
