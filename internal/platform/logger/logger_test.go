package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestWritersSplitByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters(&out, &errOut)

	l.Info("engine started")
	l.Warn("feed ignored")
	l.Errorf("config for %s failed", "kitty")

	if !strings.Contains(out.String(), "[PET-INFO] ") || !strings.Contains(out.String(), "engine started") {
		t.Errorf("info line missing: %q", out.String())
	}
	if !strings.Contains(out.String(), "[PET-WARN] ") {
		t.Errorf("warn line missing: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "config for kitty failed") || strings.Contains(out.String(), "failed") {
		t.Errorf("errors must go to errOut only: out=%q err=%q", out.String(), errOut.String())
	}
}

func TestEventFormat(t *testing.T) {
	var out bytes.Buffer
	l := NewWithWriters(&out, &out)

	l.Event("FEED", "P1", "hunger=100")

	if !strings.Contains(out.String(), "[EVENT:FEED] Actor:P1 | hunger=100") {
		t.Errorf("unexpected event line: %q", out.String())
	}
}
