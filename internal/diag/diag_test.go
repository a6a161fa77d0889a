package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("NewID returned the same id twice")
	}
	if a.String() == "" {
		t.Fatal("ID.String() is empty")
	}
}

func TestCapErrorFormatsThousands(t *testing.T) {
	err := CapError("values: operand stack overflow", 4096)
	if !strings.Contains(err.Error(), "4,096") {
		t.Fatalf("CapError message %q missing thousands separator", err.Error())
	}
	if !strings.Contains(err.Error(), "values: operand stack overflow") {
		t.Fatalf("CapError message %q missing what", err.Error())
	}
}

func TestTracerWordWritesLine(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer(&buf, NewID())
	tr.Word("dup")
	if !strings.Contains(buf.String(), "dup") {
		t.Fatalf("trace output %q missing word name", buf.String())
	}
}

func TestTracerNilSinkDoesNotPanic(t *testing.T) {
	var tr *Tracer
	tr.Word("whatever")
}
