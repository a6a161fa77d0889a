package symbols

import (
	"testing"

	"github.com/aura-lang/aura/internal/config"
)

func TestWordsInternAssignsStableIDs(t *testing.T) {
	w := NewWords(config.DefaultLimits())
	id1, err := w.Intern([]byte("dup"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	id2, err := w.Intern([]byte("swap"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if id1 == id2 {
		t.Fatal("distinct names got the same id")
	}
	again, err := w.Intern([]byte("dup"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if again != id1 {
		t.Fatalf("re-interning %q returned %d, want %d", "dup", again, id1)
	}
	if w.Name(id1) != "dup" {
		t.Fatalf("Name(%d) = %q, want %q", id1, w.Name(id1), "dup")
	}
	if w.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", w.Len())
	}
}

func TestWordsRegisterRejectsDuplicate(t *testing.T) {
	w := NewWords(config.DefaultLimits())
	if _, err := w.Register("dup", "impl-a"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := w.Register("dup", "impl-b"); err == nil {
		t.Fatal("expected an error re-registering an already-bound name")
	}
}

func TestWordsBindAllowsRedefinition(t *testing.T) {
	w := NewWords(config.DefaultLimits())
	id, err := w.Intern([]byte("square"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	w.Bind(id, "first")
	w.Bind(id, "second")
	if got := w.Lookup(id); got != "second" {
		t.Fatalf("Lookup(%d) = %v, want %q", id, got, "second")
	}
}

func TestWordsLookupUnregisteredIsNil(t *testing.T) {
	w := NewWords(config.DefaultLimits())
	id, err := w.Intern([]byte("undefined"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if w.Lookup(id) != nil {
		t.Fatal("Lookup of a never-registered id should be nil")
	}
}

func TestWordsTableFullErrors(t *testing.T) {
	limits := config.DefaultLimits()
	limits.WordCount = 2
	w := NewWords(limits)
	if _, err := w.Intern([]byte("a")); err != nil {
		t.Fatalf("Intern a: %v", err)
	}
	if _, err := w.Intern([]byte("b")); err != nil {
		t.Fatalf("Intern b: %v", err)
	}
	if _, err := w.Intern([]byte("c")); err == nil {
		t.Fatal("expected word table full error at cap")
	}
}

func TestWordsNameTruncation(t *testing.T) {
	w := NewWords(config.DefaultLimits())
	long := "this_name_is_way_longer_than_the_cap_allows"
	id, err := w.Intern([]byte(long))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if len(w.Name(id)) != nameCap {
		t.Fatalf("stored name length = %d, want %d", len(w.Name(id)), nameCap)
	}
	// A second, distinct name sharing the same truncated prefix collides
	// onto the same id.
	id2, err := w.Intern([]byte(long + "_but_different_tail"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if id2 != id {
		t.Fatalf("truncated-alias name got a distinct id %d, want %d", id2, id)
	}
}
