package tlog

import (
	"bytes"
	"strings"
	"testing"

	"traintastic/errs"
)

func TestMessageRendersIdAndArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.Message(LogMessage{ID: "interface.online", Args: []any{"xpressnet-1"}})

	out := buf.String()
	if !strings.Contains(out, "interface.online") {
		t.Fatalf("expected log line to contain message id, got %q", out)
	}
	if !strings.Contains(out, "xpressnet-1") {
		t.Fatalf("expected log line to contain the argument, got %q", out)
	}
}

func TestErrorAttachesCode(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.Error("Interface.goOnline", errs.New(errs.TransportError, "Interface.goOnline", "dial failed"))

	out := buf.String()
	if !strings.Contains(out, string(errs.TransportError)) {
		t.Fatalf("expected log line to contain the error code, got %q", out)
	}
}

func TestSetLevelRejectsUnknownLevel(t *testing.T) {
	l := New()
	if err := l.SetLevel("not-a-level"); err == nil {
		t.Fatal("expected an error for an invalid level name")
	}
}

func TestSetLevelAcceptsKnownLevel(t *testing.T) {
	l := New()
	if err := l.SetLevel("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
