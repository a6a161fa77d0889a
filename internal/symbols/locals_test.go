package symbols

import (
	"testing"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/config"
)

func TestLocalsInternStable(t *testing.T) {
	l := NewLocals(config.DefaultLimits())
	id1, err := l.Intern([]byte("x"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	id2, err := l.Intern([]byte("x"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("re-interning %q gave %d, want %d", "x", id2, id1)
	}
	if l.Name(id1) != "x" {
		t.Fatalf("Name(%d) = %q, want %q", id1, l.Name(id1), "x")
	}
}

func TestLocalsTableFullErrors(t *testing.T) {
	limits := config.DefaultLimits()
	limits.LocalCount = 1
	l := NewLocals(limits)
	if _, err := l.Intern([]byte("a")); err != nil {
		t.Fatalf("Intern a: %v", err)
	}
	if _, err := l.Intern([]byte("b")); err == nil {
		t.Fatal("expected local table full error at cap")
	}
}

func TestParseLocalSet(t *testing.T) {
	l := NewLocals(config.DefaultLimits())
	ids, err := l.ParseLocalSet([]byte("x y"))
	if err != nil {
		t.Fatalf("ParseLocalSet: %v", err)
	}
	xID, _ := l.Intern([]byte("x"))
	yID, _ := l.Intern([]byte("y"))
	if ids[0] != xID || ids[1] != yID {
		t.Fatalf("ids = %v, want [%d %d ...]", ids, xID, yID)
	}
	if ids[2] != chunk.InvalidLocal || ids[3] != chunk.InvalidLocal {
		t.Fatalf("unused slots = %v, want InvalidLocal padding", ids[2:])
	}
}

func TestParseLocalSetRejectsEmpty(t *testing.T) {
	l := NewLocals(config.DefaultLimits())
	if _, err := l.ParseLocalSet([]byte("  ")); err == nil {
		t.Fatal("expected an error for an empty local set")
	}
}

func TestParseLocalSetRejectsTooManyNames(t *testing.T) {
	l := NewLocals(config.DefaultLimits())
	if _, err := l.ParseLocalSet([]byte("a b c d e")); err == nil {
		t.Fatal("expected an error for more than config.LocalSetArity names")
	}
}
