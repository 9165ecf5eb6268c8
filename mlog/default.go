package mlog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	rotateSize     = int64(100 * 1024 * 1024)
	rotateInterval = 30 * time.Second
)

// fileLogger queues lines on a channel and writes them from one goroutine,
// rotating the file once it grows past rotateSize.
type fileLogger struct {
	sink
	file   *os.File
	ll     *log.Logger
	buff   chan string
	stdOut bool
}

func newDefaultLogger(logpath, logName string, level Level, stdOut bool) (*fileLogger, error) {
	if len(logpath) == 0 {
		logpath = "."
	}
	logfile, err := openFile(filepath.Join(logpath, genLogName(logName)))
	if err != nil {
		return nil, err
	}
	if stdOut {
		log.SetFlags(log.Ldate | log.Lmicroseconds)
	}
	l := &fileLogger{
		file:   logfile,
		ll:     log.New(logfile, "", log.Ldate|log.Lmicroseconds),
		buff:   make(chan string, 0x10000),
		stdOut: stdOut,
	}
	l.sink = sink{
		level: level,
		emit:  func(line string) { l.buff <- line },
		exit: func() {
			time.Sleep(time.Second)
			os.Exit(1)
		},
	}
	return l, nil
}

func (l *fileLogger) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("mlog recover error %v\n", r)
			}
			l.file.Close()
			wg.Done()
		}()

		timer := time.NewTimer(rotateInterval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				l.drain()
				return
			case line := <-l.buff:
				l.write(line)
			case <-timer.C:
				l.maybeRotate()
				timer.Reset(rotateInterval)
			}
		}
	}()
}

func (l *fileLogger) write(line string) {
	if l.stdOut {
		log.Println(line)
	}
	l.ll.Println(line)
}

func (l *fileLogger) drain() {
	for {
		select {
		case line := <-l.buff:
			l.write(line)
		default:
			return
		}
	}
}

func (l *fileLogger) maybeRotate() {
	info, err := os.Stat(l.file.Name())
	if err != nil {
		log.Println("mlog stat error", err)
		return
	}
	if info.Size() <= rotateSize {
		return
	}
	file, err := rotateLogFile(l.file.Name())
	if err != nil {
		log.Println("mlog rotateLogFile error", err)
		return
	}
	l.ll.SetOutput(file)
	l.file.Close()
	l.file = file
}

func genLogName(logName string) string {
	if logName == "" {
		logName = "mlog"
	}
	return logName + ".log"
}

const (
	defaultDirMode  os.FileMode = 0755
	defaultFileMode os.FileMode = 0644
	defaultFileFlag int         = os.O_APPEND | os.O_CREATE | os.O_WRONLY
)

func openFile(fullpath string) (*os.File, error) {
	fullpath = strings.ReplaceAll(fullpath, "\\", "/")
	if err := os.MkdirAll(filepath.Dir(fullpath), defaultDirMode); err != nil {
		return nil, err
	}
	return os.OpenFile(fullpath, defaultFileFlag, defaultFileMode)
}

func rotateLogFile(filePath string) (*os.File, error) {
	newFilePath := fmt.Sprintf("%s.%s", filePath, time.Now().Format("20060102_150405"))
	if err := os.Rename(filePath, newFilePath); err != nil {
		return nil, err
	}
	return os.Create(filePath)
}
