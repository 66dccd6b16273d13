package diag

import (
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerWritesOneLinePerRecord(t *testing.T) {
	var buf strings.Builder
	debug := false
	h := NewHandler(&buf, nil, &debug)
	logger := slog.New(h)

	logger.Info("routine emitted", "name", "r1")

	out := buf.String()
	if !strings.Contains(out, "routine emitted") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "name=r1") {
		t.Errorf("output missing attribute: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected exactly one line, got %q", out)
	}
}

func TestHandlerSetDebugIsMutable(t *testing.T) {
	var buf strings.Builder
	debug := false
	h := NewHandler(&buf, nil, &debug)
	if h.debug {
		t.Fatal("handler should start with debug off")
	}
	h.SetDebug(true)
	if !h.debug {
		t.Error("SetDebug(true) should flip the debug flag")
	}
}

func TestNewHandlerNilDebugPointerDefaultsFalse(t *testing.T) {
	var buf strings.Builder
	h := NewHandler(&buf, nil, nil)
	if h.debug {
		t.Error("a nil debug pointer should default to debug off")
	}
}
