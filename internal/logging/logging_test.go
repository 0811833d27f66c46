package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "hltext"})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains messages below level: %q", out)
	}
	if !strings.Contains(out, "[WARN] hltext: shown 1") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] hltext: shown 2") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelDebug, Output: &buf})
	l := root.WithComponent("reconciler").WithField("doc", "/a.vue")

	l.Info("kept %d", 3)

	line := buf.String()
	if !strings.Contains(line, "kept 3 {component=reconciler, doc=/a.vue}") {
		t.Errorf("unexpected line: %q", line)
	}

	// Derived loggers share the level of their parent.
	buf.Reset()
	root.SetLevel(LevelError)
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("derived logger ignored parent level: %q", buf.String())
	}
}

func TestNull(t *testing.T) {
	l := Null()
	l.Error("nothing")
	l.WithComponent("x").Warn("nothing")

	var nilLogger *Logger
	nilLogger.Info("nil-safe")
}
