package chunk

import (
	"fmt"
	"strings"
	"testing"
)

// debugString renders c as an indented s-expression, grounded on
// aparser.c's dump_node/auraP_dump (the printf-based dump the
// distillation explicitly excludes from the public surface). Used only
// from tests, to make parser/resolver assertions readable at a glance.
func (c *Chunk) debugString() string {
	var b strings.Builder
	c.dumpNode(&b, c.Root(), 0)
	return b.String()
}

func (c *Chunk) dumpNode(b *strings.Builder, cell Cell, indent int) {
	fmt.Fprint(b, strings.Repeat("  ", indent))
	switch cell.Tag {
	case TagList:
		fmt.Fprintf(b, "LIST (%d):\n", cell.N)
		for _, child := range c.Children(cell) {
			c.dumpNode(b, child, indent+1)
		}
	case TagWord:
		fmt.Fprintf(b, "WORD [%d]\n", cell.Word)
	case TagWordRef:
		fmt.Fprintf(b, "WORDREF [%d]\n", cell.Word)
	case TagLocal:
		fmt.Fprintf(b, "LOCAL [%d]\n", cell.Word)
	case TagLocalSet:
		fmt.Fprint(b, "LOCALSET [")
		for _, id := range cell.Locals {
			if id == InvalidLocal {
				break
			}
			fmt.Fprintf(b, "%d ", id)
		}
		fmt.Fprint(b, "]\n")
	case TagInt:
		fmt.Fprintf(b, "INT [%d]\n", cell.Int)
	case TagFloat:
		fmt.Fprintf(b, "FLOAT [%g]\n", cell.Float)
	case TagTrue:
		fmt.Fprint(b, "TRUE\n")
	case TagFalse:
		fmt.Fprint(b, "FALSE\n")
	default:
		fmt.Fprintf(b, "UNKNOWN %s\n", cell.Tag)
	}
}

func TestDebugStringRendersNestedList(t *testing.T) {
	c := &Chunk{Cells: []Cell{
		{Tag: TagList, N: 2, Offset: 1},
		{Tag: TagInt, Int: 1},
		{Tag: TagList, N: 1, Offset: 3},
		{Tag: TagWord, Word: 7},
	}}
	got := c.debugString()
	want := "LIST (2):\n  INT [1]\n  LIST (1):\n    WORD [7]\n"
	if got != want {
		t.Fatalf("debugString() =\n%s\nwant:\n%s", got, want)
	}
}

func TestDebugStringLocalSetStopsAtSentinel(t *testing.T) {
	c := &Chunk{Cells: []Cell{
		{Tag: TagLocalSet, Locals: [4]uint8{2, 5, InvalidLocal, InvalidLocal}},
	}}
	got := c.debugString()
	if got != "LOCALSET [2 5 ]\n" {
		t.Fatalf("debugString() = %q, want %q", got, "LOCALSET [2 5 ]\n")
	}
}
