package symbols

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/config"
	"github.com/aura-lang/aura/internal/diag"
)

// Locals interns local-variable names to stable ids, the same sorted-
// hash-lookup-over-stable-insertion-order design as Words, capped at
// config.LocalCount rather than config.WordCount. One Locals table is
// shared across every load call an interpreter instance makes, the same
// way Words is; it is a separate table from a running frame's id→slot
// assignment (component C6), which is scoped to one call. Local names
// share the same truncation and hashing rules as word names
// (original_source/aword.c uses the same AURA_WORDMAXLEN cap and hash
// routine for both tables, just sized differently).
type Locals struct {
	hash    []uint32
	order   []int32
	entries []string
	max     int32
}

// NewLocals returns an empty local table honoring limits.LocalCount (spec
// §4.9 EXPANSION: a host may tighten, never loosen, config.LocalCount).
func NewLocals(limits config.Limits) *Locals {
	max := limits.LocalCount
	if max <= 0 || max > config.LocalCount {
		max = config.LocalCount
	}
	return &Locals{max: int32(max)}
}

func (l *Locals) locate(name []byte) (sortedPos int, id int32, found bool) {
	key := truncateName(name)
	h := hashName(key)
	i, _ := slices.BinarySearchFunc(l.hash, h, cmpHash)
	for i < len(l.hash) && l.hash[i] == h {
		candidate := l.order[i]
		if sameName(l.entries[candidate], key) {
			return i, candidate, true
		}
		i++
	}
	return i, -1, false
}

// Intern returns name's stable local id, assigning a fresh one (up to
// config.LocalCount) the first time name is seen by any load call made
// against this interpreter instance. This id is distinct from a frame's
// own id→slot mapping (component C6): the same interned local id can
// occupy a different slot in each active frame.
func (l *Locals) Intern(name []byte) (uint8, error) {
	pos, id, found := l.locate(name)
	if found {
		return uint8(id), nil
	}
	max := l.max
	if max <= 0 {
		max = config.LocalCount
	}
	if int32(len(l.entries)) >= max {
		return 0, diag.CapError("symbols: local table full", int(max))
	}
	newID := int32(len(l.entries))
	key := truncateName(name)
	l.entries = append(l.entries, string(key))
	l.hash = slices.Insert(l.hash, pos, hashName(key))
	l.order = slices.Insert(l.order, pos, newID)
	return uint8(newID), nil
}

// Name returns the interned name for id.
func (l *Locals) Name(id uint8) string {
	return l.entries[id]
}

// Len reports the number of interned locals.
func (l *Locals) Len() int {
	return len(l.entries)
}

// ParseLocalSet splits a LOCALSET atom's tuple interior (the text between
// the parentheses, parentheses already stripped by the caller) into up to
// config.LocalSetArity whitespace-separated local names, interning each
// and returning the fixed-size id array padded with chunk.InvalidLocal.
//
// Grounded on original_source/aword.c's auraW_localdef: an empty interior
// or more than 4 names is an error; fewer than 4 pads the remaining slots
// with the invalid-local sentinel rather than erroring.
func (l *Locals) ParseLocalSet(interior []byte) ([4]uint8, error) {
	var ids [4]uint8
	for i := range ids {
		ids[i] = chunk.InvalidLocal
	}
	fields := bytes.Fields(interior)
	if len(fields) == 0 {
		return ids, fmt.Errorf("symbols: empty local set")
	}
	if len(fields) > config.LocalSetArity {
		return ids, fmt.Errorf("symbols: local set names %d locals, max %d", len(fields), config.LocalSetArity)
	}
	for i, name := range fields {
		id, err := l.Intern(name)
		if err != nil {
			return ids, err
		}
		ids[i] = id
	}
	return ids, nil
}
