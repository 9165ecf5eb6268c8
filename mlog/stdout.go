package mlog

import (
	"log"
)

type stdoutLogger struct {
	sink
}

func newStdoutLogger(level Level) *stdoutLogger {
	log.SetFlags(log.Ldate | log.Lmicroseconds)
	return &stdoutLogger{sink: sink{level: level, emit: func(line string) { log.Println(line) }}}
}

// MemoryLogger keeps every line in memory. Tests install it to assert on
// what a package logged.
type MemoryLogger struct {
	sink
	Lines []string
}

func NewMemoryLogger(level Level) *MemoryLogger {
	m := &MemoryLogger{}
	m.sink = sink{
		level: level,
		emit:  func(line string) { m.Lines = append(m.Lines, line) },
		exit:  func() {},
	}
	return m
}
