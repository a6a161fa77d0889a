package chunk

import (
	"fmt"
	"math"

	"github.com/funvibe/funbit/pkg/funbit"
)

// MaxCells is the hard cap on cells in a compiled chunk (spec §3.2: "total
// cell count ≤ a chunk cap (16 KiB of cells)"; spec §5 lists the same cap
// as "chunk cells 16384"). Each wire cell is 4 bytes (cellWireBytes).
const MaxCells = 16384

const cellWireBytes = 4

// wireCell is one raw 4-byte slot of the Load/Run ABI buffer, holding
// either an index cell {tag, offset} or a data cell whose fields are
// reinterpreted according to the tag named by the index cell pointing at
// it. Exactly one of the two interpretations is used for any given slot,
// decided structurally during the tree walk — never by position parity,
// since a LIST's child data cells may themselves expand into whole
// subtrees (spec §3.2: "children of a list are contiguous and each child
// holds a forward offset to its data cell").
type wireCell struct {
	isIndex bool

	// index-cell fields
	tag    Tag
	offset uint16

	// dataTag names which of the fields below is meaningful for a data
	// cell; set explicitly by the encoder rather than inferred from zero
	// values, since 0 is a valid N, word id, or int payload.
	dataTag Tag
	n       uint16
	word    int32
	intv    int32
	floatv  float32
	locals  [4]uint8
}

// Bytes encodes the chunk into the flat two-cell-per-node wire layout of
// spec §3.2: cell 0 is an index cell {LIST, 1}, cell 1 is the root's data
// cell {n, offset-to-first-child-index-cell}, and every other node
// contributes an index cell (reserved contiguously in its parent's child
// block) plus a data cell appended depth-first. This is the Load/Run ABI
// (spec §9): a host may copy this buffer into its own storage and pass it
// back to Run unmodified.
//
// Each 4-byte cell is packed with github.com/funvibe/funbit's bit builder
// rather than hand-rolled binary.Write calls, so the exact field widths
// (8/16/32 bits) live in one declarative place.
func (c *Chunk) Bytes() ([]byte, error) {
	if len(c.Cells) == 0 {
		return nil, fmt.Errorf("chunk: empty")
	}
	e := &encoder{}
	e.alloc(1) // slot 0: root's index cell, filled in below
	dataPos, err := e.emitData(c, c.Root())
	if err != nil {
		return nil, err
	}
	e.cells[0] = wireCell{isIndex: true, tag: TagList, offset: uint16(dataPos)}
	if len(e.cells) > MaxCells {
		return nil, fmt.Errorf("chunk: %d wire cells exceeds cap of %d", len(e.cells), MaxCells)
	}

	out := make([]byte, 0, len(e.cells)*cellWireBytes)
	for i, wc := range e.cells {
		raw, err := packCell(wc)
		if err != nil {
			return nil, fmt.Errorf("chunk: wire cell %d: %w", i, err)
		}
		out = append(out, raw...)
	}
	return out, nil
}

type encoder struct {
	cells []wireCell
}

func (e *encoder) alloc(n int) int {
	start := len(e.cells)
	e.cells = append(e.cells, make([]wireCell, n)...)
	return start
}

// emitData lays out node's data cell (and, for LIST nodes, its children's
// index-cell block and their own data, recursively) and returns the wire
// position of node's data cell.
func (e *encoder) emitData(c *Chunk, node Cell) (int, error) {
	pos := e.alloc(1)
	switch node.Tag {
	case TagList:
		children := c.Children(node)
		childIndexBase := e.alloc(len(children))
		e.cells[pos] = wireCell{dataTag: TagList, n: uint16(len(children)), offset: uint16(childIndexBase)}
		for i, child := range children {
			childDataPos, err := e.emitData(c, child)
			if err != nil {
				return 0, err
			}
			e.cells[childIndexBase+i] = wireCell{isIndex: true, tag: child.Tag, offset: uint16(childDataPos)}
		}
	case TagWord, TagWordRef, TagLocal:
		e.cells[pos] = wireCell{dataTag: node.Tag, word: node.Word}
	case TagLocalSet:
		e.cells[pos] = wireCell{dataTag: TagLocalSet, locals: node.Locals}
	case TagInt:
		e.cells[pos] = wireCell{dataTag: TagInt, intv: node.Int}
	case TagFloat:
		e.cells[pos] = wireCell{dataTag: TagFloat, floatv: node.Float}
	case TagTrue, TagFalse:
		e.cells[pos] = wireCell{dataTag: node.Tag}
	default:
		return 0, fmt.Errorf("unencodable tag %s", node.Tag)
	}
	return pos, nil
}

// packCell serializes one wireCell into its 4-byte wire form.
func packCell(wc wireCell) ([]byte, error) {
	b := funbit.NewBuilder()
	if wc.isIndex {
		funbit.AddInteger(b, uint(wc.tag), funbit.WithSize(8))
		funbit.AddInteger(b, uint(wc.offset), funbit.WithSize(16))
		funbit.AddInteger(b, uint(0), funbit.WithSize(8)) // pad to 4 bytes
		bs, err := funbit.Build(b)
		if err != nil {
			return nil, err
		}
		return bs.ToBytes(), nil
	}

	var bits uint32
	switch wc.dataTag {
	case TagList:
		bits = uint32(wc.n)<<16 | uint32(wc.offset)
	case TagWord, TagWordRef, TagLocal:
		bits = uint32(wc.word)
	case TagLocalSet:
		bits = uint32(wc.locals[0])<<24 | uint32(wc.locals[1])<<16 | uint32(wc.locals[2])<<8 | uint32(wc.locals[3])
	case TagInt:
		bits = uint32(wc.intv)
	case TagFloat:
		bits = math.Float32bits(wc.floatv)
	case TagTrue, TagFalse:
		bits = 0
	default:
		return nil, fmt.Errorf("unencodable data tag %s", wc.dataTag)
	}
	funbit.AddInteger(b, bits, funbit.WithSize(32))
	bs, err := funbit.Build(b)
	if err != nil {
		return nil, err
	}
	return bs.ToBytes(), nil
}

// FromBytes decodes a buffer produced by Bytes back into a Chunk. The wire
// position numbering is not preserved: the decoder reassigns each node a
// fresh slot in the returned Chunk's Cells slice, so round-tripping through
// Bytes/FromBytes is semantics-preserving but not byte-identical at the
// in-memory layer — only the wire layer is byte-stable (spec §9, Load/Run
// ABI).
func FromBytes(data []byte) (*Chunk, error) {
	if len(data)%cellWireBytes != 0 || len(data) == 0 {
		return nil, fmt.Errorf("chunk: malformed wire buffer of %d bytes", len(data))
	}
	n := len(data) / cellWireBytes
	raw := make([][cellWireBytes]byte, n)
	for i := range raw {
		copy(raw[i][:], data[i*cellWireBytes:(i+1)*cellWireBytes])
	}

	rootTag, rootOffset, err := unpackIndex(raw[0])
	if err != nil {
		return nil, err
	}
	if rootTag != TagList {
		return nil, fmt.Errorf("chunk: root index cell names tag %s, want LIST", rootTag)
	}

	d := &decoder{raw: raw}
	d.allocOut(1) // reserve Cells[0] for the root, decoded below
	root, err := d.decodeData(int(rootOffset), TagList)
	if err != nil {
		return nil, err
	}
	d.out[0] = root
	return &Chunk{Cells: d.out}, nil
}

type decoder struct {
	raw [][cellWireBytes]byte
	out []Cell
}

func (d *decoder) allocOut(n int) int {
	start := len(d.out)
	d.out = append(d.out, make([]Cell, n)...)
	return start
}

// decodeData reinterprets the data cell at wire position pos according to
// tag (named by the index cell that pointed at it) and, for LIST, walks
// its contiguous child index-cell block to recursively decode children.
func (d *decoder) decodeData(pos int, tag Tag) (Cell, error) {
	if pos < 0 || pos >= len(d.raw) {
		return Cell{}, fmt.Errorf("chunk: dangling offset %d", pos)
	}
	raw := d.raw[pos]
	switch tag {
	case TagList:
		count, childIndexBase := unpackListData(raw)
		outBase := d.allocOut(int(count))
		for i := 0; i < int(count); i++ {
			idxPos := int(childIndexBase) + i
			if idxPos >= len(d.raw) {
				return Cell{}, fmt.Errorf("chunk: dangling child index at %d", idxPos)
			}
			childTag, childOffset, err := unpackIndex(d.raw[idxPos])
			if err != nil {
				return Cell{}, err
			}
			child, err := d.decodeData(int(childOffset), childTag)
			if err != nil {
				return Cell{}, err
			}
			d.out[outBase+i] = child
		}
		return Cell{Tag: TagList, N: count, Offset: uint16(outBase)}, nil
	case TagWord, TagWordRef, TagLocal:
		return Cell{Tag: tag, Word: int32(unpackUint32(raw))}, nil
	case TagLocalSet:
		return Cell{Tag: TagLocalSet, Locals: [4]uint8{raw[0], raw[1], raw[2], raw[3]}}, nil
	case TagInt:
		return Cell{Tag: TagInt, Int: int32(unpackUint32(raw))}, nil
	case TagFloat:
		return Cell{Tag: TagFloat, Float: math.Float32frombits(unpackUint32(raw))}, nil
	case TagTrue, TagFalse:
		return Cell{Tag: tag}, nil
	default:
		return Cell{}, fmt.Errorf("chunk: undecodable tag %s", tag)
	}
}

func unpackIndex(raw [cellWireBytes]byte) (Tag, uint16, error) {
	var tagBits, offset uint
	m := funbit.NewMatcher()
	funbit.Integer(m, &tagBits, funbit.WithSize(8))
	funbit.Integer(m, &offset, funbit.WithSize(16))
	if _, err := funbit.Match(m, funbit.NewBitStringFromBytes(raw[:])); err != nil {
		return 0, 0, fmt.Errorf("chunk: index cell: %w", err)
	}
	return Tag(tagBits), uint16(offset), nil
}

func unpackListData(raw [cellWireBytes]byte) (n uint16, offset uint16) {
	bits := unpackUint32(raw)
	return uint16(bits >> 16), uint16(bits)
}

func unpackUint32(raw [cellWireBytes]byte) uint32 {
	var bits uint
	m := funbit.NewMatcher()
	funbit.Integer(m, &bits, funbit.WithSize(32))
	_, _ = funbit.Match(m, funbit.NewBitStringFromBytes(raw[:]))
	return uint32(bits)
}
