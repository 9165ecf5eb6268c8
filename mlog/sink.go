package mlog

import (
	"fmt"
	"os"
)

// sink turns the Logger method set into calls on a single emit function.
// Concrete loggers embed it and only decide where a formatted line goes.
type sink struct {
	level Level
	emit  func(line string)
	exit  func()
}

func (s *sink) IsLevelEnabled(level Level) bool {
	return s.level >= level
}

func (s *sink) log(level Level, args ...any) {
	if s.IsLevelEnabled(level) {
		s.emit(levelTag(level) + fmt.Sprint(args...))
	}
	if level == FatalLevel {
		s.die()
	}
}

func (s *sink) logf(level Level, format string, args ...any) {
	if s.IsLevelEnabled(level) {
		s.emit(levelTag(level) + fmt.Sprintf(format, args...))
	}
	if level == FatalLevel {
		s.die()
	}
}

func (s *sink) die() {
	if s.exit != nil {
		s.exit()
		return
	}
	os.Exit(1)
}

func (s *sink) Trace(v ...any) { s.log(TraceLevel, v...) }
func (s *sink) Tracef(format string, v ...any) { s.logf(TraceLevel, format, v...) }
func (s *sink) Debug(v ...any) { s.log(DebugLevel, v...) }
func (s *sink) Debugf(format string, v ...any) { s.logf(DebugLevel, format, v...) }
func (s *sink) Info(v ...any) { s.log(InfoLevel, v...) }
func (s *sink) Infof(format string, v ...any) { s.logf(InfoLevel, format, v...) }
func (s *sink) Notice(v ...any) { s.log(NoticeLevel, v...) }
func (s *sink) Noticef(format string, v ...any) { s.logf(NoticeLevel, format, v...) }
func (s *sink) Warn(v ...any) { s.log(WarnLevel, v...) }
func (s *sink) Warnf(format string, v ...any) { s.logf(WarnLevel, format, v...) }
func (s *sink) Error(v ...any) { s.log(ErrorLevel, v...) }
func (s *sink) Errorf(format string, v ...any) { s.logf(ErrorLevel, format, v...) }
func (s *sink) Fatal(v ...any) { s.log(FatalLevel, v...) }
func (s *sink) Fatalf(format string, v ...any) { s.logf(FatalLevel, format, v...) }
