package parser

// AtomKind is what ClassifyAtom decided an atom's text represents.
type AtomKind int

const (
	AtomWord AtomKind = iota
	AtomInt
	AtomFloat
)

// Classified is the result of classifying one atom (component C2, spec
// §4.2). Int and Float are only meaningful for the matching Kind.
type Classified struct {
	Kind  AtomKind
	Int   int32
	Float float32
}

// ClassifyAtom implements the anchored numeric grammar of spec §4.2: the
// first byte decides whether a numeric parse is attempted at all, and the
// whole atom must match or the result falls back to AtomWord. Exported so
// internal/symbols's word-resolution pass (§4.3, which runs this only for
// atoms that aren't rewritten by a `'`, `$`, or `(` prefix first) can
// invoke it without this package needing to know about word/local
// interning.
func ClassifyAtom(text []byte) Classified {
	if len(text) == 0 {
		return Classified{Kind: AtomWord}
	}
	switch text[0] {
	case '+', '-', '.':
	default:
		if text[0] < '0' || text[0] > '9' {
			return Classified{Kind: AtomWord}
		}
	}

	i := 0
	neg := false
	switch text[0] {
	case '-':
		neg = true
		i++
	case '+':
		i++
	}

	intStart := i
	var n int32
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		n = n*10 + int32(text[i]-'0')
		i++
	}
	sawIntDigits := i > intStart

	if i == len(text) {
		if !sawIntDigits {
			return Classified{Kind: AtomWord}
		}
		if neg {
			n = -n
		}
		return Classified{Kind: AtomInt, Int: n}
	}

	if text[i] != '.' {
		return Classified{Kind: AtomWord}
	}
	i++

	fracDigits := 0
	var frac int32
	for j := i; j < len(text); j++ {
		if text[j] < '0' || text[j] > '9' {
			return Classified{Kind: AtomWord}
		}
		if fracDigits < 8 {
			frac = frac*10 + int32(text[j]-'0')
			fracDigits++
		}
	}
	for fracDigits < 8 {
		frac *= 10
		fracDigits++
	}
	f := float32(n) + float32(frac)/100000000.0
	if neg {
		f = -f
	}
	return Classified{Kind: AtomFloat, Float: f}
}
