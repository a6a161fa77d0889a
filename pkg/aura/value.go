package aura

import "github.com/aura-lang/aura/internal/values"

// Kind is a Value's runtime type (spec §3.1).
type Kind int

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
	return values.Kind(k).String()
}

// Value is the public mirror of internal/values.Value: everything a
// native Func needs to read or construct when it manipulates the operand
// stack through the methods on *Interpreter, without reaching into
// internal/values directly.
type Value struct {
	Kind  Kind
	Int   int32
	Float float32
}

// Bool returns the TRUE or FALSE value for b (spec §3.1).
func Bool(b bool) Value {
	if b {
		return Value{Kind: KindTrue}
	}
	return Value{Kind: KindFalse}
}

// Int returns an INT value.
func Int(n int32) Value {
	return Value{Kind: KindInt, Int: n}
}

// Float returns a FLOAT value.
func Float(f float32) Value {
	return Value{Kind: KindFloat, Float: f}
}

// IsFalse reports whether v is the FALSE value — the only value aura
// treats as logically false (spec §3.1/§4.7).
func (v Value) IsFalse() bool {
	return v.Kind == KindFalse
}

func toInternal(v Value) values.Value {
	return values.Value{Kind: values.Kind(v.Kind), Int: v.Int, Float: v.Float}
}

func fromInternal(v values.Value) Value {
	switch v.Kind {
	case values.KindInt, values.KindFloat:
		return Value{Kind: Kind(v.Kind), Int: v.Int, Float: v.Float}
	case values.KindTrue, values.KindFalse:
		return Value{Kind: Kind(v.Kind)}
	default:
		// WORDREF/SLIST/DLIST carry interpreter-internal offsets a host has
		// no business touching directly; only Kind survives the crossing.
		return Value{Kind: Kind(v.Kind)}
	}
}
