package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fixkme/uicore/framework/app"
	"github.com/fixkme/uicore/framework/config"
	"github.com/fixkme/uicore/framework/loop"
	"github.com/fixkme/uicore/intern"
	"github.com/fixkme/uicore/mlog"
	"github.com/fixkme/uicore/timers"
)

func main() {
	configFile := flag.String("config", "", "yaml or json config file")
	flag.Parse()

	conf, err := config.Load(*configFile, loadEnv)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	level := mlog.ParseLevel(conf.LogLevel)
	if conf.LogPath != "" {
		err = mlog.UseDefaultLogger(ctx, wg, conf.LogPath, conf.LogName, level, conf.LogStdOut)
	} else {
		err = mlog.UseStdLogger(level)
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if conf.IsDebug {
		mlog.Debugf("config %s", conf.JsonFormat())
	}

	l := loop.New(timers.NewTimerList(), &conf.LoopConfig)
	pool := intern.NewPool()
	if err := l.TrySubmit(func() { setup(l, pool) }); err != nil {
		log.Fatalf("submit setup: %v", err)
	}

	appCtx, stop := context.WithCancel(ctx)
	go func() {
		<-l.Done()
		stop()
	}()
	if err := app.DefaultApp().Run(appCtx, l); err != nil {
		mlog.Errorf("app: %v", err)
	}
	stop()
	pool.Close()
	cancel()
	wg.Wait()
}

func loadEnv(conf *config.AppConfig) error {
	if lv := os.Getenv("UICORE_LOG_LEVEL"); lv != "" {
		conf.LogLevel = lv
	}
	return nil
}

// setup runs on the loop goroutine: a blinking label driven by a repeated
// timer, and an idle notice that every blink pushes back.
func setup(l *loop.Loop, pool *intern.Pool) {
	list := l.Timers()
	on, _ := pool.Intern("● recording")
	off, _ := pool.Intern("○ recording")
	label := on.Clone()

	idle := list.NewTimer()
	idle.Start(timers.SingleShot, 3*time.Second, func() {
		mlog.Info("no blink for 3s")
	})

	blink := list.NewTimer()
	blink.Start(timers.Repeated, 500*time.Millisecond, func() {
		next := on
		if label.Equal(on) {
			next = off
		}
		label.Release()
		label = next.Clone()
		mlog.Infof("label %q (shared by %d)", label, label.RefCount())
		idle.Restart()
	})

	list.SingleShot(10*time.Second, func() {
		blink.Close()
		idle.Close()
		label.Release()
		on.Release()
		off.Release()
		mlog.Infof("demo done, pruned %d texts, %d timers left", pool.Prune(), list.Len())
		l.Close()
	})
}
