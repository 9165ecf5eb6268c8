package mlog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   TraceLevel,
		" DEBUG ": DebugLevel,
		"warn":    WarnLevel,
		"fatal":   FatalLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMemoryLoggerFiltersByLevel(t *testing.T) {
	m := NewMemoryLogger(InfoLevel)
	prev := GetLogger()
	SetLogger(m)
	defer SetLogger(prev)

	Debugf("hidden %d", 1)
	Infof("shown %d", 2)
	Error("boom")
	if len(m.Lines) != 2 {
		t.Fatalf("lines: %v", m.Lines)
	}
	if m.Lines[0] != "[info] shown 2" || m.Lines[1] != "[error] boom" {
		t.Fatalf("lines: %v", m.Lines)
	}
}

func TestDefaultLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	prev := GetLogger()
	defer SetLogger(prev)

	if err := UseDefaultLogger(ctx, wg, dir, "unit", DebugLevel, false); err != nil {
		t.Fatal(err)
	}
	Infof("hello %s", "file")
	Tracef("not written")
	cancel()
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "unit.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[info] hello file") {
		t.Fatalf("log content %q", data)
	}
	if strings.Contains(string(data), "not written") {
		t.Fatalf("trace line leaked: %q", data)
	}
}
