package symbols

import (
	"fmt"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/parser"
)

// Error is a word-resolution failure, carrying the cell index it was
// detected at.
type Error struct {
	CellIndex int
	Msg       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("symbols: %s (cell %d)", e.Msg, e.CellIndex)
}

// Resolve walks c recursively and rewrites every chunk.TagAtom cell into
// WORD, WORDREF, LOCAL, or LOCALSET — or, for atom text classified as
// numeric by parser.ClassifyAtom, into INT or FLOAT directly (spec §4.2
// classification happens lazily here, against the original source
// buffer, rather than inside internal/parser, so that a single pass owns
// both jobs in the order spec §4.3 describes them).
//
// source must be the exact byte slice Parse(source) was called with: atom
// cells only record offset/length into it.
//
// Grounded on spec §4.3's prefix-dispatch table and original_source/
// aword.c's auraW_index/auraW_local for the interning calls it drives.
func Resolve(c *chunk.Chunk, source []byte, words *Words, locals *Locals) error {
	return resolveNode(c, 0, source, words, locals)
}

func resolveNode(c *chunk.Chunk, idx int, source []byte, words *Words, locals *Locals) error {
	cell := c.Cells[idx]
	switch cell.Tag {
	case chunk.TagList:
		for i := 0; i < int(cell.N); i++ {
			if err := resolveNode(c, int(cell.Offset)+i, source, words, locals); err != nil {
				return err
			}
		}
		return nil
	case chunk.TagAtom:
		resolved, err := resolveAtom(cell, source, words, locals)
		if err != nil {
			return &Error{CellIndex: idx, Msg: err.Error()}
		}
		c.Cells[idx] = resolved
		return nil
	default:
		// Already resolved, or a literal tag the parser never emits
		// directly (defensive: Resolve is only ever run once per chunk).
		return nil
	}
}

func resolveAtom(cell chunk.Cell, source []byte, words *Words, locals *Locals) (chunk.Cell, error) {
	text := source[cell.AtomOffset : cell.AtomOffset+cell.AtomLen]

	switch {
	case len(text) >= 2 && text[0] == '\'':
		id, err := words.Intern(text[1:])
		if err != nil {
			return chunk.Cell{}, err
		}
		return chunk.Cell{Tag: chunk.TagWordRef, Word: id}, nil

	case len(text) >= 2 && text[0] == '$':
		id, err := locals.Intern(text[1:])
		if err != nil {
			return chunk.Cell{}, err
		}
		return chunk.Cell{Tag: chunk.TagLocal, Word: int32(id)}, nil

	case len(text) >= 2 && text[0] == '(' && text[len(text)-1] == ')':
		ids, err := locals.ParseLocalSet(text[1 : len(text)-1])
		if err != nil {
			return chunk.Cell{}, err
		}
		return chunk.Cell{Tag: chunk.TagLocalSet, Locals: ids}, nil
	}

	switch cls := parser.ClassifyAtom(text); cls.Kind {
	case parser.AtomInt:
		return chunk.Cell{Tag: chunk.TagInt, Int: cls.Int}, nil
	case parser.AtomFloat:
		return chunk.Cell{Tag: chunk.TagFloat, Float: cls.Float}, nil
	default:
		// `true`/`false` are ordinary built-in words (spec §4.7), not a
		// special atom syntax: original_source/aparser.c never special-
		// cases them, and they resolve here the same as any other WORD
		// atom. The engine's registered "true"/"false" handlers are what
		// actually push a TRUE/FALSE runtime value.
		id, err := words.Intern(text)
		if err != nil {
			return chunk.Cell{}, err
		}
		return chunk.Cell{Tag: chunk.TagWord, Word: id}, nil
	}
}
