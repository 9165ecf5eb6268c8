package mlog

import (
	"context"
	"strings"
	"sync"
)

type Logger interface {
	Trace(v ...any)
	Debug(v ...any)
	Info(v ...any)
	Notice(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Fatal(v ...any)

	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Noticef(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Fatalf(format string, v ...any)
}

var logger Logger

func SetLogger(l Logger) {
	logger = l
}

func GetLogger() Logger {
	return logger
}

// UseDefaultLogger installs the asynchronous file logger. It stops and
// flushes when ctx is cancelled; wg is released once the file is closed.
func UseDefaultLogger(ctx context.Context, wg *sync.WaitGroup, path string, logName string, level Level, stdOut bool) error {
	l, err := newDefaultLogger(path, logName, level, stdOut)
	if err != nil {
		return err
	}
	l.Start(ctx, wg)
	SetLogger(l)
	return nil
}

func UseStdLogger(level Level) error {
	SetLogger(newStdoutLogger(level))
	return nil
}

type Level uint32

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	NoticeLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

var levelNames = [...]string{"fatal", "error", "warn", "notice", "info", "debug", "trace"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel maps a config name such as "debug" to its Level. Unknown
// names fall back to InfoLevel.
func ParseLevel(name string) Level {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range levelNames {
		if n == name {
			return Level(i)
		}
	}
	return InfoLevel
}

func levelTag(level Level) string {
	if int(level) < len(levelNames) {
		return "[" + levelNames[level] + "] "
	}
	return ""
}

func Trace(a ...any) {
	if logger != nil {
		logger.Trace(a...)
	}
}

func Tracef(format string, a ...any) {
	if logger != nil {
		logger.Tracef(format, a...)
	}
}

func Debug(a ...any) {
	if logger != nil {
		logger.Debug(a...)
	}
}

func Debugf(format string, a ...any) {
	if logger != nil {
		logger.Debugf(format, a...)
	}
}

func Info(a ...any) {
	if logger != nil {
		logger.Info(a...)
	}
}

func Infof(format string, a ...any) {
	if logger != nil {
		logger.Infof(format, a...)
	}
}

func Notice(a ...any) {
	if logger != nil {
		logger.Notice(a...)
	}
}

func Noticef(format string, a ...any) {
	if logger != nil {
		logger.Noticef(format, a...)
	}
}

func Warn(a ...any) {
	if logger != nil {
		logger.Warn(a...)
	}
}

func Warnf(format string, a ...any) {
	if logger != nil {
		logger.Warnf(format, a...)
	}
}

func Error(a ...any) {
	if logger != nil {
		logger.Error(a...)
	}
}

func Errorf(format string, a ...any) {
	if logger != nil {
		logger.Errorf(format, a...)
	}
}

func Fatal(a ...any) {
	if logger != nil {
		logger.Fatal(a...)
	}
}

func Fatalf(format string, a ...any) {
	if logger != nil {
		logger.Fatalf(format, a...)
	}
}
