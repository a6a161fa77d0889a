// Package values implements the runtime value model, operand stack, and
// list arena (spec §3.1, §4.4 — component C5).
//
// Grounded on original_source/astack.h/astack.c's struct aura_stack,
// which bundles the operand stack and the list arena into one object
// (the arena is addressed by DLIST descriptors popped off or pushed onto
// the same stack); Stack here keeps that combined shape rather than
// splitting it into two independently-capped types, since every arena
// operation (create_list, persist, set_n, get_n) reads or writes the
// stack in the same call.
package values

// Kind is a runtime value's tag — distinct from chunk.Tag, which tags
// compiled instruction cells rather than live values, even though spec
// §3.1 describes both with the same tag names.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindTrue
	KindFalse
	KindWordRef
	KindSList
	KindDList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindTrue:
		return "TRUE"
	case KindFalse:
		return "FALSE"
	case KindWordRef:
		return "WORDREF"
	case KindSList:
		return "SLIST"
	case KindDList:
		return "DLIST"
	default:
		return "UNKNOWN"
	}
}

// Value is one operand-stack or list-arena cell. Only the fields that
// apply to Kind are meaningful, mirroring union aura_var's reuse of the
// same storage for every variant.
type Value struct {
	Kind Kind

	Int   int32
	Float float32
	Word  int32 // WORDREF: word id

	// SLIST: a chunk-relative instruction span — Prog identifies which
	// loaded chunk owns it (astack.h's slist.prog), Offset/Size locate
	// the span of cells within that chunk.
	Prog   int32
	Offset uint32
	Size   uint32
	// DLIST reuses Offset/Size, but as indices into the Stack's own list
	// arena rather than into a chunk's cells.
}

// Bool returns a TRUE/FALSE value for b.
func Bool(b bool) Value {
	if b {
		return Value{Kind: KindTrue}
	}
	return Value{Kind: KindFalse}
}

// IsFalse reports whether v is the FALSE value — the only value the
// engine treats as falsy (spec §4.7: `if`/`ifelse`/`while` branch on
// "result != FALSE", not on a general truthiness rule).
func (v Value) IsFalse() bool {
	return v.Kind == KindFalse
}

// Equal implements spec §3.1's structural equality: reflexive on INT,
// FLOAT, WORDREF, SLIST, DLIST, structural (not deep) on SLIST/DLIST —
// comparing their descriptors, not the values they denote.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Float == other.Float
	case KindTrue, KindFalse:
		return true
	case KindWordRef:
		return v.Word == other.Word
	case KindSList:
		return v.Prog == other.Prog && v.Offset == other.Offset && v.Size == other.Size
	case KindDList:
		return v.Offset == other.Offset && v.Size == other.Size
	default:
		return false
	}
}
