// Package frame implements the stackframe/locals engine (spec §4.5,
// component C6): a LIFO stack of call frames, each mapping a chunk-wide
// interned local id to a small per-frame storage slot on first use.
//
// Grounded on original_source/aura.c's struct aura_stackframe and its
// newframe/endframe/setlocal_index/getlocal_index/set_locals/get_local
// functions (lines 17-90, 183-209), adapted from raw array/pointer
// manipulation into Go value-receiver-free methods over a fixed-size
// frame stack.
package frame

import (
	"fmt"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/config"
	"github.com/aura-lang/aura/internal/diag"
	"github.com/aura-lang/aura/internal/values"
)

// unmapped marks a local id that has grown the frame's maxID watermark
// but has not yet been assigned a physical slot (aura.c uses
// AURA_LOCALFRAMESIZE, the slot-count cap itself, as this sentinel,
// since a valid slot index never reaches that value).
const unmapped = config.FrameLocals

// Frame is one call frame's local-variable bindings. n is the number of
// slots actually assigned so far; maxID is the high-water mark of local
// ids seen, which getLocalIndex uses to reject ids this frame never bound.
type Frame struct {
	n      uint8
	maxID  uint8
	slotOf [config.LocalCount]uint8
	locals [config.FrameLocals]values.Value
}

// Stack is the interpreter's LIFO call-frame stack, scoped to one Run
// (spec §4.6: frames are tied to eval calls, reset on each run). The
// backing array is always sized to the hard cap; max lets a host's
// tightened config.Limits.FrameCount shrink the usable depth without
// a second array allocation.
type Stack struct {
	frames [config.FrameCount]Frame
	depth  int
	max    int
}

// New returns an empty frame stack honoring limits.FrameCount (spec §4.9
// EXPANSION: a host may tighten, never loosen, the hard caps).
func New(limits config.Limits) *Stack {
	max := limits.FrameCount
	if max <= 0 || max > config.FrameCount {
		max = config.FrameCount
	}
	return &Stack{max: max}
}

// Push opens a fresh frame, failing if frame depth is already at cap.
func (s *Stack) Push() error {
	if s.depth >= s.max {
		return diag.CapError("frame: stackframe overflow", s.max)
	}
	s.frames[s.depth] = Frame{}
	s.depth++
	return nil
}

// Pop closes the current frame.
func (s *Stack) Pop() {
	s.depth--
}

// Reset empties the frame stack (spec §4.6: run() resets frame depth to
// zero before allocating a fresh top-level frame).
func (s *Stack) Reset() {
	s.depth = 0
}

func (s *Stack) current() *Frame {
	return &s.frames[s.depth-1]
}

func (f *Frame) setLocalIndex(localID uint8) (uint8, error) {
	if localID >= f.maxID {
		for i := f.maxID; i <= localID; i++ {
			f.slotOf[i] = unmapped
		}
		f.maxID = localID + 1
	}
	if f.slotOf[localID] != unmapped {
		return f.slotOf[localID], nil
	}
	if int(f.n) >= config.FrameLocals {
		return 0, diag.CapError("frame: too many locals", config.FrameLocals)
	}
	idx := f.n
	f.n++
	f.slotOf[localID] = idx
	return idx, nil
}

func (f *Frame) getLocalIndex(localID uint8) (uint8, error) {
	if localID >= f.maxID {
		return 0, fmt.Errorf("frame: no local %d bound", localID)
	}
	idx := f.slotOf[localID]
	if idx == unmapped {
		return 0, fmt.Errorf("frame: no local %d bound", localID)
	}
	return idx, nil
}

// SetLocals is the LOCALSET runtime action (spec §4.5/§4.7): it treats
// the top k stack values (k = count of non-sentinel ids in localIDs,
// scanning left to right and stopping at the first chunk.InvalidLocal)
// as the new bindings, popping them so the leftmost id binds the
// deepest of those k cells. For each id, it allocates a fresh frame slot
// on first use and overwrites the existing slot otherwise.
func (s *Stack) SetLocals(stack *values.Stack, localIDs [4]uint8) error {
	n := 0
	for n < 4 && localIDs[n] != chunk.InvalidLocal {
		n++
	}
	if stack.Top() < n {
		return fmt.Errorf("frame: set_locals needs %d values, have %d", n, stack.Top())
	}
	f := s.current()
	bound := make([]values.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := stack.PopValue()
		if err != nil {
			return err
		}
		bound[i] = v
	}
	for i := 0; i < n; i++ {
		idx, err := f.setLocalIndex(localIDs[i])
		if err != nil {
			return err
		}
		f.locals[idx] = bound[i]
	}
	return nil
}

// GetLocal pushes the current frame's bound value for localID.
func (s *Stack) GetLocal(stack *values.Stack, localID int32) error {
	f := s.current()
	idx, err := f.getLocalIndex(uint8(localID))
	if err != nil {
		return err
	}
	return stack.Push(f.locals[idx])
}
