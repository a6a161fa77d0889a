package parser

import (
	"strings"
	"testing"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/config"
)

func atomText(src []byte, c chunk.Cell) string {
	return string(src[c.AtomOffset : c.AtomOffset+c.AtomLen])
}

func TestParseSimpleList(t *testing.T) {
	// Root input is implicitly the outer list (spec §4.1): no enclosing
	// brackets here, or these six atoms would parse as one nested LIST
	// child instead of six root children.
	src := []byte("1 2.5 foo 'bar $baz (a b)")
	c, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := c.Root()
	if root.Tag != chunk.TagList {
		t.Fatalf("root tag = %v, want TagList", root.Tag)
	}
	children := c.Children(root)
	if len(children) != 6 {
		t.Fatalf("got %d children, want 6", len(children))
	}
	for _, child := range children {
		if child.Tag != chunk.TagAtom {
			t.Errorf("child tag = %v, want TagAtom (resolution runs later)", child.Tag)
		}
	}
	if got := atomText(src, children[0]); got != "1" {
		t.Errorf("children[0] atom text = %q, want %q", got, "1")
	}
	if got := atomText(src, children[5]); got != "(a b)" {
		t.Errorf("children[5] atom text = %q, want %q", got, "(a b)")
	}
}

func TestParseNestedList(t *testing.T) {
	c, err := Parse([]byte("a [b c] d"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := c.Root()
	children := c.Children(root)
	if len(children) != 3 {
		t.Fatalf("got %d top-level children, want 3", len(children))
	}
	inner := children[1]
	if inner.Tag != chunk.TagList {
		t.Fatalf("children[1].Tag = %v, want TagList", inner.Tag)
	}
	if inner.N != 2 {
		t.Fatalf("inner list has %d children, want 2", inner.N)
	}
}

func TestParseEmptyList(t *testing.T) {
	c, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Root().N != 0 {
		t.Fatalf("root.N = %d, want 0", c.Root().N)
	}
}

func TestParseUnterminatedTupleErrors(t *testing.T) {
	if _, err := Parse([]byte("(unterminated")); err == nil {
		t.Fatal("expected an error for an unterminated tuple")
	}
}

func TestParseUnterminatedListErrors(t *testing.T) {
	if _, err := Parse([]byte("[1 2 +")); err == nil {
		t.Fatal("expected an error for a top-level list missing its closing ]")
	}
	if _, err := Parse([]byte("[1 [2 3]")); err == nil {
		t.Fatal("expected an error for a nested list missing its closing ]")
	}
}

func TestParseRejectsOversizedSource(t *testing.T) {
	src := make([]byte, config.SourceBytes+1)
	for i := range src {
		src[i] = 'a'
	}
	if _, err := Parse(src); err == nil {
		t.Fatal("expected an error for source exceeding config.SourceBytes")
	}
}

func TestParseErrorReportsOffset(t *testing.T) {
	_, err := Parse([]byte("[(nope"))
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error %v is not *parser.Error", err)
	}
	if perr.Offset != 1 {
		t.Errorf("Offset = %d, want 1", perr.Offset)
	}
	if !strings.Contains(perr.Error(), "at byte 1") {
		t.Errorf("Error() = %q, missing byte offset", perr.Error())
	}
}

func TestClassifyAtom(t *testing.T) {
	tests := []struct {
		text      string
		wantKind  AtomKind
		wantInt   int32
		wantFloat float32
	}{
		{"", AtomWord, 0, 0},
		{"foo", AtomWord, 0, 0},
		{"0", AtomInt, 0, 0},
		{"42", AtomInt, 42, 0},
		{"-42", AtomInt, -42, 0},
		{"+42", AtomInt, 42, 0},
		{"1.5", AtomFloat, 0, 1.5},
		{"-1.5", AtomFloat, 0, -1.5},
		{"1.", AtomFloat, 0, 1.0},
		{"1.2.3", AtomWord, 0, 0},
		{"-", AtomWord, 0, 0},
		{"+", AtomWord, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ClassifyAtom([]byte(tt.text))
			if got.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			switch tt.wantKind {
			case AtomInt:
				if got.Int != tt.wantInt {
					t.Errorf("Int = %d, want %d", got.Int, tt.wantInt)
				}
			case AtomFloat:
				if got.Float != tt.wantFloat {
					t.Errorf("Float = %v, want %v", got.Float, tt.wantFloat)
				}
			}
		})
	}
}
