package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel("info")
	})

	SetLevel("warn")
	Infof("[search] hidden %d", 1)
	Warnf("[history] persist failed: %s", "disk full")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "WARN [history] persist failed: disk full") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestPlainMessageKeepsPercent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })
	SetLevel("debug")
	t.Cleanup(func() { SetLevel("info") })

	Debugf("[viz] 100% rendered")
	if !strings.Contains(buf.String(), "100% rendered") {
		t.Fatalf("plain message mangled: %q", buf.String())
	}
}

func TestUnknownLevelIgnored(t *testing.T) {
	SetLevel("error")
	t.Cleanup(func() { SetLevel("info") })
	SetLevel("loud")
	if CurrentLevel() != LevelError {
		t.Fatalf("unknown level changed state, got %v", CurrentLevel())
	}
}
