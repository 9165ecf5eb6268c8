package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/fixkme/uicore/mlog"
)

const (
	AppStateNone = iota // not started, or stopped
	AppStateInit
	AppStateRun
	AppStateStop
)

var defaultApp = new(App)

// Module is one long-running part of the host. Run blocks until Destroy
// is called.
type Module interface {
	OnInit() error
	Destroy()
	Run()
	Name() string
}

func DefaultApp() *App {
	return defaultApp
}

// App runs a fixed set of modules: init in order, run concurrently,
// destroy in reverse order.
type App struct {
	mods  []Module
	state atomic.Int32
	wg    sync.WaitGroup
}

func (app *App) GetState() int32 {
	return app.state.Load()
}

func (app *App) start(mods ...Module) error {
	if !app.state.CompareAndSwap(AppStateNone, AppStateInit) {
		return fmt.Errorf("app already started")
	}
	mlog.Info("app starting up")
	app.mods = append(app.mods[:0], mods...)
	for i, m := range app.mods {
		if err := m.OnInit(); err != nil {
			// undo what was initialised so far
			for j := i - 1; j >= 0; j-- {
				destroy(app.mods[j])
			}
			app.state.Store(AppStateNone)
			return fmt.Errorf("module %s init: %w", m.Name(), err)
		}
	}
	for _, m := range app.mods {
		app.wg.Add(1)
		go run(m, &app.wg)
	}
	app.state.Store(AppStateRun)
	mlog.Info("app started")
	return nil
}

func (app *App) stop() {
	if !app.state.CompareAndSwap(AppStateRun, AppStateStop) {
		return
	}
	mlog.Info("app stop begin")
	for i := len(app.mods) - 1; i >= 0; i-- {
		m := app.mods[i]
		mlog.Infof("app stop module %s", m.Name())
		destroy(m)
	}
	app.wg.Wait()
	app.state.Store(AppStateNone)
	mlog.Info("app stopped")
}

func run(m Module, wg *sync.WaitGroup) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("%s module run panic: %v\n%s", m.Name(), r, debug.Stack())
		}
	}()
	m.Run()
}

func destroy(m Module) {
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("%s module destroy panic: %v\n%s", m.Name(), r, debug.Stack())
		}
	}()
	m.Destroy()
}

// Run starts mods and blocks until ctx is done or the process gets
// SIGINT or SIGTERM, then stops them. SIGHUP is ignored.
func (app *App) Run(ctx context.Context, mods ...Module) error {
	if err := app.start(mods...); err != nil {
		return err
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sig)
wait:
	for {
		select {
		case <-ctx.Done():
			mlog.Infof("app closing down (%v)", context.Cause(ctx))
			break wait
		case s := <-sig:
			mlog.Infof("app closing down (signal: %v)", s)
			if s != syscall.SIGHUP {
				break wait
			}
		}
	}
	app.stop()
	return nil
}
