// Package symbols implements the interned word table (component C3) and
// local-name table (C4) used by word resolution and the execution engine.
// Both tables are sorted-by-hash parallel arrays searched with a binary
// search to the insertion point followed by a linear probe over hash
// collisions (spec §4.3), exactly as original_source/aword.c's
// auraW_index/auraW_local do — but with the hash itself delegated to
// github.com/dchest/siphash (truncated to 32 bits) instead of aword.c's
// hand-rolled rolling hash, and the sorted-insertion-point search done
// with golang.org/x/exp/slices.BinarySearchFunc instead of a hand-written
// bsearch loop. Both libraries are the ones the sibling pack example
// SnellerInc-sneller reaches for in exactly this position.
package symbols

import (
	"fmt"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"

	"github.com/aura-lang/aura/internal/config"
	"github.com/aura-lang/aura/internal/diag"
)

// nameCap mirrors aword.h's AURA_WORDMAXLEN-1: a name longer than this is
// truncated for both storage and comparison, so two names differing only
// beyond this many bytes alias to the same table entry.
const nameCap = config.WordNameBytes - 1

// siphash key: fixed, since this table is a lookup structure, not a
// security boundary — any key gives a fine avalanche for table sizes in
// the hundreds to low thousands of entries.
const sipK0, sipK1 = 0x61757261_6c616e67, 0x756167655f776f72

func truncateName(name []byte) []byte {
	if len(name) > nameCap {
		return name[:nameCap]
	}
	return name
}

func hashName(name []byte) uint32 {
	return uint32(siphash.Hash(sipK0, sipK1, name))
}

func cmpHash(a, target uint32) int {
	switch {
	case a < target:
		return -1
	case a > target:
		return 1
	default:
		return 0
	}
}

func sameName(stored string, name []byte) bool {
	return stored == string(name)
}

// Words interns native/compiled word names to stable integer ids. Ids are
// assigned in insertion order and never change once assigned — the
// sorted hash/order arrays are a pure lookup index over those stable ids,
// exactly as aword.c separates `w[]` (insertion-order storage) from
// `hash[]`/`index[]` (the sorted search structure).
type Words struct {
	hash    []uint32
	order   []int32 // order[i] is the stable id of the i-th sorted-by-hash entry
	entries []wordEntry
	max     int32
}

type wordEntry struct {
	name string
	impl any // set by Register; nil until a native/compiled implementation is bound
}

// NewWords returns an empty word table honoring limits.WordCount (spec
// §4.9 EXPANSION: a host may tighten, never loosen, config.WordCount).
func NewWords(limits config.Limits) *Words {
	max := limits.WordCount
	if max <= 0 || max > config.WordCount {
		max = config.WordCount
	}
	return &Words{max: int32(max)}
}

func (w *Words) locate(name []byte) (sortedPos int, id int32, found bool) {
	key := truncateName(name)
	h := hashName(key)
	i, _ := slices.BinarySearchFunc(w.hash, h, cmpHash)
	for i < len(w.hash) && w.hash[i] == h {
		candidate := w.order[i]
		if sameName(w.entries[candidate].name, key) {
			return i, candidate, true
		}
		i++
	}
	return i, -1, false
}

// Intern returns name's stable id, assigning a fresh one if this is the
// first time name has been seen.
func (w *Words) Intern(name []byte) (int32, error) {
	pos, id, found := w.locate(name)
	if found {
		return id, nil
	}
	max := w.max
	if max <= 0 {
		max = config.WordCount
	}
	if int32(len(w.entries)) >= max {
		return 0, diag.CapError("symbols: word table full", int(max))
	}
	newID := int32(len(w.entries))
	w.entries = append(w.entries, wordEntry{name: string(truncateName(name))})
	w.hash = slices.Insert(w.hash, pos, hashName(truncateName(name)))
	w.order = slices.Insert(w.order, pos, newID)
	return newID, nil
}

// Name returns the interned name for id.
func (w *Words) Name(id int32) string {
	return w.entries[id].name
}

// Len reports the number of interned words.
func (w *Words) Len() int {
	return len(w.entries)
}

// Lookup returns id's bound implementation, or nil if none is registered
// (a WORD cell naming an id with no implementation is an undefined-word
// error at execution time, not at intern time — spec §4.3 interns every
// WORD atom regardless of whether it is ever registered or defined).
func (w *Words) Lookup(id int32) any {
	return w.entries[id].impl
}

// Register binds name to impl, interning the name if new. Re-registering
// a name that already has an implementation is an error (spec §6:
// "binds a name to a native handler; duplicate → error").
func (w *Words) Register(name string, impl any) (int32, error) {
	id, err := w.Intern([]byte(name))
	if err != nil {
		return 0, err
	}
	if w.entries[id].impl != nil {
		return 0, fmt.Errorf("symbols: word %q already registered", name)
	}
	w.entries[id].impl = impl
	return id, nil
}

// Bind attaches impl to an already-interned id produced by `def` (a
// chunk-compiled word closure), as opposed to Register's host-native
// path. Unlike Register, Bind itself does no duplicate check and simply
// replaces any existing implementation; the `def` built-in
// (internal/vm.builtinDef) rejects an already-bound word before it ever
// calls Bind.
func (w *Words) Bind(id int32, impl any) {
	w.entries[id].impl = impl
}
