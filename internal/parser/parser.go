// Package parser turns aura source text into a chunk.Chunk (spec §4.1,
// component C1) and classifies each atom's leaf kind (§4.2, component
// C2). The output still carries unresolved chunk.TagAtom cells; rewriting
// those into WORD/WORDREF/LOCAL/LOCALSET is internal/symbols's job
// (§4.3), since that step needs the interning tables this package has no
// business owning.
//
// Grounded on original_source/aparser.c's parse_list/parse_token, adapted
// from the teacher's internal/lexer.Lexer cursor style (a byte position
// cursor; no line/column tracking) rather than the C original's raw
// pointer arithmetic.
package parser

import (
	"fmt"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/config"
)

// Error is a parse-time failure, carrying the byte offset it was detected
// at for caller diagnostics.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser: %s (at byte %d)", e.Msg, e.Offset)
}

// astNode is the recursive-descent intermediate form; flatten lowers it
// into a chunk.Chunk's contiguous Cells slice.
type astNode struct {
	isList   bool
	children []astNode

	atomOffset uint16
	atomLen    uint16
}

type parser struct {
	src       []byte
	pos       int
	atomCount int
	nodeCount int
}

// Parse compiles source into a chunk with every leaf still tagged
// chunk.TagAtom. Caps mirror spec §4.1/§5: source ≤ config.SourceBytes,
// ≤ 2048 list nodes, ≤ 8192 atoms (the latter two counts are the parser's
// own working caps from the C original, not exposed as config constants
// since no host ever needs to tune them independently of ChunkCells).
func Parse(source []byte) (*chunk.Chunk, error) {
	if len(source) > config.SourceBytes {
		return nil, &Error{Offset: len(source), Msg: "source exceeds maximum size"}
	}
	p := &parser{src: source}
	root, err := p.parseList()
	if err != nil {
		return nil, err
	}

	// Reserve Cells[0] for the root up front, matching chunk.Chunk's
	// invariant that cell 0 is always the root list cell; flatten then
	// computes every Offset against an array that already accounts for
	// that reserved slot, so no offsets need patching afterward.
	cells := []chunk.Cell{{}}
	rootCell := flatten(root, &cells)
	if len(cells) > config.ChunkCells {
		return nil, &Error{Offset: len(source), Msg: "chunk exceeds maximum cell count"}
	}
	cells[0] = rootCell
	return &chunk.Chunk{Cells: cells}, nil
}

const (
	maxParserNodes = 2048
	maxParserAtoms = 8192
)

// parseList parses the implicit root list: reaching EOF closes it
// (spec §4.1, "the root input is implicitly the body of an outer
// list"). Every `[` encountered along the way opens an explicit child
// list via parseNestedList, which — unlike the root — requires a
// matching `]` before EOF.
func (p *parser) parseList() (astNode, error) {
	return p.parseListBody(false)
}

// parseNestedList parses the body of an explicit `[...]`: reaching EOF
// without a closing `]` is a parse error (spec §7 "unterminated list";
// original_source/aparser.c's parse_list returns PARSER_ERR_LIST when
// input is exhausted inside a list).
func (p *parser) parseNestedList() (astNode, error) {
	return p.parseListBody(true)
}

func (p *parser) parseListBody(requireClose bool) (astNode, error) {
	p.nodeCount++
	if p.nodeCount > maxParserNodes {
		return astNode{}, &Error{Offset: p.pos, Msg: "too many list nodes"}
	}
	node := astNode{isList: true}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.src) {
			if requireClose {
				return astNode{}, &Error{Offset: p.pos, Msg: "unterminated list"}
			}
			return node, nil
		}
		switch p.src[p.pos] {
		case ']':
			p.pos++
			return node, nil
		case '[':
			p.pos++
			child, err := p.parseNestedList()
			if err != nil {
				return astNode{}, err
			}
			node.children = append(node.children, child)
		case '(':
			atom, err := p.parseTuple()
			if err != nil {
				return astNode{}, err
			}
			node.children = append(node.children, atom)
		default:
			atom, err := p.parseAtom()
			if err != nil {
				return astNode{}, err
			}
			node.children = append(node.children, atom)
		}
	}
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', 0:
			p.pos++
		default:
			return
		}
	}
}

// parseTuple consumes a `(...)` span as one atom, including the
// parentheses (spec §4.1: "The whole `(...)` substring, parentheses
// included, is the atom's textual extent"). Nested parentheses are not
// recognised: the first `)` closes the span.
func (p *parser) parseTuple() (astNode, error) {
	start := p.pos
	end := -1
	for i := p.pos + 1; i < len(p.src); i++ {
		if p.src[i] == ')' {
			end = i
			break
		}
	}
	if end < 0 {
		return astNode{}, &Error{Offset: start, Msg: "unterminated tuple"}
	}
	p.pos = end + 1
	return p.newAtom(start, p.pos)
}

// parseAtom consumes a run of non-whitespace, non-bracket bytes.
func (p *parser) parseAtom() (astNode, error) {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', 0, '[', ']':
			return p.newAtom(start, p.pos)
		}
		p.pos++
	}
	return p.newAtom(start, p.pos)
}

func (p *parser) newAtom(start, end int) (astNode, error) {
	p.atomCount++
	if p.atomCount > maxParserAtoms {
		return astNode{}, &Error{Offset: start, Msg: "too many atoms"}
	}
	return astNode{atomOffset: uint16(start), atomLen: uint16(end - start)}, nil
}

// flatten lowers the recursive-descent AST into chunk.Cells. It returns
// the cell for this node and, for lists, appends that list's children
// contiguously to *cells so chunk.Chunk.Children can slice them directly.
//
// Children must be fully flattened (which may itself append grandchild
// blocks to *cells) before this list's own block is appended: the append
// position — and therefore the Offset recorded in the returned cell — is
// only known once every nested append that happens first has landed.
// Capturing start before recursing (instead of after, as done here) would
// record a stale position and corrupt every enclosing list's Offset.
func flatten(n astNode, cells *[]chunk.Cell) chunk.Cell {
	if !n.isList {
		return chunk.Cell{Tag: chunk.TagAtom, AtomOffset: n.atomOffset, AtomLen: n.atomLen}
	}
	built := make([]chunk.Cell, len(n.children))
	for i, child := range n.children {
		built[i] = flatten(child, cells)
	}
	start := len(*cells)
	*cells = append(*cells, built...)
	return chunk.Cell{Tag: chunk.TagList, N: uint16(len(n.children)), Offset: uint16(start)}
}
