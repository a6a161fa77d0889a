package values

import (
	"fmt"

	"github.com/aura-lang/aura/internal/config"
	"github.com/aura-lang/aura/internal/diag"
)

// Stack is the operand stack plus the list arena it shares indices with
// (spec §4.4, component C5). Grounded on original_source/astack.h's
// struct aura_stack: one object owns both, since every arena operation
// (create_list, persist, set_n, get_n) also touches the operand stack.
//
// The arena is split into a transient region growing up from index 0
// (listN is the bump pointer) and a persistent region growing down from
// the top (listHeap counts how many slots at the high end are used);
// heapSize reports the current boundary between them, mirroring the C
// HEAPSIZE macro.
type Stack struct {
	top      int
	values   []Value
	arena    []Value
	listN    int
	listHeap int
}

// NewStack allocates a stack and list arena sized per limits (spec §4.9
// EXPANSION: a host-supplied config.Limits may tighten, never loosen,
// config.StackSize/config.ListArenaSize).
func NewStack(limits config.Limits) *Stack {
	stackSize := limits.StackSize
	if stackSize <= 0 || stackSize > config.StackSize {
		stackSize = config.StackSize
	}
	arenaSize := limits.ListArenaSize
	if arenaSize <= 0 || arenaSize > config.ListArenaSize {
		arenaSize = config.ListArenaSize
	}
	return &Stack{
		values: make([]Value, stackSize),
		arena:  make([]Value, arenaSize),
	}
}

func (s *Stack) absIndex(idx int) int {
	if idx > 0 {
		return idx
	}
	return s.top + idx + 1
}

func (s *Stack) checkStack(inc int) bool {
	n := s.top + inc
	return n >= 0 && n < len(s.values)
}

func (s *Stack) checkStackID(id int) bool {
	return id > 0 && id <= s.top
}

func (s *Stack) heapSize() int {
	return len(s.arena) - s.listHeap
}

// Top reports the number of live operand-stack entries.
func (s *Stack) Top() int { return s.top }

// Has reports whether at least n values are currently on the stack
// (auraS_checkstack called with a negative increment, e.g.
// auraS_checkstack(s, -2) to mean "are there 2 operands?").
func (s *Stack) Has(n int) bool {
	return s.top >= n
}

// ResetTransient zeroes the transient arena bump pointer (spec §4.6:
// run() resets list_n to 0 on every call, leaving the persistent region
// — and anything def has already persisted into it — untouched).
func (s *Stack) ResetTransient() {
	s.listN = 0
}

// ArenaSlice returns the size values starting at offset in the list
// arena, bounds-checked, for iterating a DLIST's contents.
func (s *Stack) ArenaSlice(offset, size uint32) ([]Value, error) {
	end := uint64(offset) + uint64(size)
	if end > uint64(len(s.arena)) {
		return nil, fmt.Errorf("values: list arena slice [%d:%d] out of range (cap %d)", offset, end, len(s.arena))
	}
	return s.arena[offset:end], nil
}

// Push appends v to the stack, failing if the stack is full.
func (s *Stack) Push(v Value) error {
	if !s.checkStack(1) {
		return diag.CapError("values: operand stack overflow", len(s.values))
	}
	s.values[s.top] = v
	s.top++
	return nil
}

// Pop discards the top n entries.
func (s *Stack) Pop(n int) {
	s.top -= n
}

// PeekAt returns the value at a 1-based (positive) or from-top (negative,
// via absIndex, -1 being the top) stack index without removing it. Index
// zero is out of range.
func (s *Stack) PeekAt(idx int) (Value, error) {
	i := s.absIndex(idx)
	if !s.checkStackID(i) {
		return Value{}, fmt.Errorf("values: stack index %d out of range (top %d)", idx, s.top)
	}
	return s.values[i-1], nil
}

// PopValue removes and returns the top value.
func (s *Stack) PopValue() (Value, error) {
	v, err := s.PeekAt(-1)
	if err != nil {
		return Value{}, err
	}
	s.Pop(1)
	return v, nil
}

// PushValue duplicates the value at idx onto the top of the stack
// (auraS_pushvalue).
func (s *Stack) PushValue(idx int) error {
	v, err := s.PeekAt(idx)
	if err != nil {
		return err
	}
	return s.Push(v)
}

// Copy overwrites the value at toidx with the value at fromidx
// (auraS_copy).
func (s *Stack) Copy(fromidx, toidx int) error {
	v, err := s.PeekAt(fromidx)
	if err != nil {
		return err
	}
	to := s.absIndex(toidx)
	if !s.checkStackID(to) {
		return fmt.Errorf("values: stack index %d out of range (top %d)", toidx, s.top)
	}
	s.values[to-1] = v
	return nil
}

func (s *Stack) reverse(from, to int) {
	for from < to {
		s.values[from], s.values[to] = s.values[to], s.values[from]
		from++
		to--
	}
}

// Rotate rotates the slice [idx, top] by n positions using the
// three-reverse trick (auraS_rotate / the Lua lua_rotate algorithm it is
// grounded on): positive n moves the top n items down, negative moves
// them up.
func (s *Stack) Rotate(idx, n int) error {
	t := s.top - 1
	p := s.absIndex(idx) - 1
	if !s.checkStackID(p + 1) {
		return fmt.Errorf("values: rotate index %d out of range (top %d)", idx, s.top)
	}
	absN := n
	if absN < 0 {
		absN = -absN
	}
	if absN > t-p+1 {
		return fmt.Errorf("values: rotate count %d exceeds span %d", n, t-p+1)
	}
	var m int
	if n >= 0 {
		m = t - n
	} else {
		m = p - n - 1
	}
	s.reverse(p, m)
	s.reverse(m+1, t)
	s.reverse(p, t)
	return nil
}

// Swap exchanges the top two values.
func (s *Stack) Swap() error {
	if s.top < 2 {
		return fmt.Errorf("values: swap needs 2 values, have %d", s.top)
	}
	s.values[s.top-1], s.values[s.top-2] = s.values[s.top-2], s.values[s.top-1]
	return nil
}

// CreateList bump-allocates sz cells in the transient arena region,
// initialises each to FALSE, and pushes a DLIST describing them
// (auraS_createlist).
func (s *Stack) CreateList(sz int) error {
	if s.listN+sz > s.heapSize() {
		return diag.CapError("values: list arena exhausted", len(s.arena))
	}
	if !s.checkStack(1) {
		return diag.CapError("values: operand stack overflow", len(s.values))
	}
	base := s.listN
	for i := 0; i < sz; i++ {
		s.arena[base+i] = Value{Kind: KindFalse}
	}
	s.listN += sz
	s.values[s.top] = Value{Kind: KindDList, Offset: uint32(base), Size: uint32(sz)}
	s.top++
	return nil
}

// Persist walks the DLIST on top of the stack and deep-copies every
// transient sub-list it transitively references into the persistent
// region, rewriting descriptors in place (auraS_persistence /
// deepcopy_list). A value already in the persistent region is a no-op
// success; allocation failure anywhere in the walk rolls back listHeap
// to its pre-call value, leaving the arena unchanged.
func (s *Stack) Persist() error {
	if s.top <= 0 || s.values[s.top-1].Kind != KindDList {
		return fmt.Errorf("values: persist needs a DLIST on top of stack")
	}
	v := s.values[s.top-1]
	if int(v.Offset) >= s.heapSize() {
		return nil
	}
	savedHeap := s.listHeap
	boundary := s.heapSize()
	mapping := make([]int, len(s.arena))
	for i := 0; i < boundary; i++ {
		mapping[i] = -1
	}
	for i := boundary; i < len(s.arena); i++ {
		mapping[i] = i
	}
	if s.deepCopyList(&v, mapping) {
		s.values[s.top-1] = v
		return nil
	}
	s.listHeap = savedHeap
	return fmt.Errorf("values: persist failed: list arena exhausted")
}

// deepCopyList's capacity check faithfully reproduces
// original_source/astack.c's deepcopy_list, which bounds the new
// allocation against the current operand-stack depth (s->top) rather
// than against the transient region's own remaining size — an odd check
// inherited as-is rather than replaced with a guess at the intended one,
// per this project's policy of reproducing rather than silently
// correcting undocumented original behavior.
func (s *Stack) deepCopyList(v *Value, mapping []int) bool {
	if s.top+int(v.Size) > s.heapSize() {
		return false
	}
	s.listHeap += int(v.Size)
	heap := s.heapSize()
	mapping[v.Offset] = heap
	for i := 0; i < int(v.Size); i++ {
		src := s.arena[int(v.Offset)+i]
		if src.Kind == KindDList && mapping[src.Offset] < 0 {
			if !s.deepCopyList(&src, mapping) {
				return false
			}
		} else if src.Kind == KindDList {
			src.Offset = uint32(mapping[src.Offset])
		}
		s.arena[heap+i] = src
	}
	v.Offset = uint32(heap)
	return true
}

// SetN pops the top of stack and writes it into slot n of the DLIST at
// index (auraS_setn).
func (s *Stack) SetN(index, n int) error {
	i := s.absIndex(index)
	if !s.checkStackID(i) {
		return fmt.Errorf("values: stack index %d out of range (top %d)", index, s.top)
	}
	v := s.values[i-1]
	if v.Kind != KindDList {
		return fmt.Errorf("values: set_n target is not a DLIST")
	}
	if n < 0 || n >= int(v.Size) {
		return fmt.Errorf("values: set_n index %d out of range (size %d)", n, v.Size)
	}
	if s.top == 0 {
		return fmt.Errorf("values: set_n needs a value on top of stack")
	}
	s.top--
	s.arena[int(v.Offset)+n] = s.values[s.top]
	return nil
}

// GetN pushes slot n of the DLIST at index (auraS_getn).
func (s *Stack) GetN(index, n int) error {
	if !s.checkStack(1) {
		return diag.CapError("values: operand stack overflow", len(s.values))
	}
	i := s.absIndex(index)
	if !s.checkStackID(i) {
		return fmt.Errorf("values: stack index %d out of range (top %d)", index, s.top)
	}
	v := s.values[i-1]
	if v.Kind != KindDList {
		return fmt.Errorf("values: get_n target is not a DLIST")
	}
	if n < 0 || n >= int(v.Size) {
		return fmt.Errorf("values: get_n index %d out of range (size %d)", n, v.Size)
	}
	s.values[s.top] = s.arena[int(v.Offset)+n]
	s.top++
	return nil
}
