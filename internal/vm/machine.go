// Package vm implements the execution engine (spec §4.6, component C7)
// and its built-in words (§4.7, component C8): a Machine owns the
// operand stack/list arena (internal/values), the frame stack (internal/
// frame), and the word/local tables (internal/symbols), and interprets
// compiled chunks (internal/chunk) against them.
//
// Grounded on original_source/aura.c's struct aura_context and its
// execute_listword/execute_dlistword/execute_slist/execute_dlist/
// aura_run/eval/cfunc_eval/cfunc_upeval functions (lines 174-375), with
// raise_error's setjmp/longjmp-based non-local abort translated into
// ordinary Go error returns propagated up the call chain instead —
// idiomatic Go error handling, not a faithfulness gap: the externally
// observable effect (operand stack and frame stack both reset, run
// aborts) is preserved by Run resetting both before returning any error
// from the body it executed.
package vm

import (
	"fmt"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/config"
	"github.com/aura-lang/aura/internal/diag"
	"github.com/aura-lang/aura/internal/frame"
	"github.com/aura-lang/aura/internal/symbols"
	"github.com/aura-lang/aura/internal/values"
)

// Machine is one running interpreter instance.
type Machine struct {
	Stack  *values.Stack
	Frames *frame.Stack
	Words  *symbols.Words
	Locals *symbols.Locals

	progs    map[int32]*chunk.Chunk
	progsCap int32
	tracer   *diag.Tracer
}

// SetTracer attaches a trace sink invoked once per WORD dispatch
// (internal/diag), or detaches one with nil. This is an opt-in
// diagnostics hook (spec §4.10 EXPANSION) wired nowhere in language
// semantics.
func (m *Machine) SetTracer(t *diag.Tracer) {
	m.tracer = t
}

// New builds a Machine with its own operand stack, frame stack, and
// word/local tables sized per limits, then registers the built-in words
// (spec §4.7), mirroring aura_newstate's registration block (aura.c lines
// 633-661). limits tightens, never loosens, the hard caps in
// internal/config (spec §4.9 EXPANSION); pass config.DefaultLimits() for
// the hard caps themselves.
func New(limits config.Limits) *Machine {
	progsCap := int32(limits.ProgramCount)
	if progsCap <= 0 || progsCap > config.ProgramCount {
		progsCap = config.ProgramCount
	}
	m := &Machine{
		Stack:    values.NewStack(limits),
		Frames:   frame.New(limits),
		Words:    symbols.NewWords(limits),
		Locals:   symbols.NewLocals(limits),
		progs:    make(map[int32]*chunk.Chunk),
		progsCap: progsCap,
	}
	registerBuiltins(m)
	return m
}

// Register binds name to a host-supplied native implementation,
// erroring if name is already bound (spec §6; see DESIGN.md's "Open
// Questions resolved" for why this differs from aura_register's literal
// behavior).
func (m *Machine) Register(name string, fn Native) error {
	_, err := m.Words.Register(name, &Binding{Kind: BindNative, Native: fn})
	return err
}

// Run binds chunk c to progID if no chunk is bound yet, or verifies c is
// the same chunk already bound; rebinding a different chunk to a live
// slot is a fatal error (spec §3.6, original_source/aura.c:320-322
// "Duplicate prog"). It then resets the transient list arena and frame
// stack, opens a fresh top-level frame, and executes the chunk's
// top-level list as an SLIST. If that execution fails, the operand stack
// and frame stack are both emptied before the error is returned.
func (m *Machine) Run(progID int32, c *chunk.Chunk) error {
	if progID < 0 || progID >= m.progsCap {
		return fmt.Errorf("vm: program id %d out of range (cap %d)", progID, m.progsCap)
	}
	if existing, ok := m.progs[progID]; ok {
		if existing != c {
			return fmt.Errorf("vm: duplicate prog %d", progID)
		}
	} else {
		m.progs[progID] = c
	}

	m.Stack.ResetTransient()
	m.Frames.Reset()
	if err := m.Frames.Push(); err != nil {
		return err
	}

	root := c.Root()
	if root.Tag != chunk.TagList {
		m.Frames.Pop()
		return fmt.Errorf("vm: invalid code: root is not a LIST")
	}
	err := m.execSList(c, c.Children(root), progID)
	m.Frames.Pop()
	if err != nil {
		m.Stack.Pop(m.Stack.Top())
		m.Frames.Reset()
	}
	return err
}

// execSList runs a contiguous span of a chunk's cells as instructions
// (execute_slist), dispatching each to execCell.
func (m *Machine) execSList(c *chunk.Chunk, cells []chunk.Cell, progID int32) error {
	for _, cell := range cells {
		if err := m.execCell(c, cell, progID); err != nil {
			return err
		}
	}
	return nil
}

// execCell runs one compiled instruction cell (execute_listword).
func (m *Machine) execCell(c *chunk.Chunk, cell chunk.Cell, progID int32) error {
	switch cell.Tag {
	case chunk.TagWord:
		return m.execute(cell.Word)
	case chunk.TagLocalSet:
		return m.Frames.SetLocals(m.Stack, cell.Locals)
	case chunk.TagList:
		return m.Stack.Push(values.Value{Kind: values.KindSList, Prog: progID, Offset: uint32(cell.Offset), Size: uint32(cell.N)})
	case chunk.TagInt:
		return m.Stack.Push(values.Value{Kind: values.KindInt, Int: cell.Int})
	case chunk.TagFloat:
		return m.Stack.Push(values.Value{Kind: values.KindFloat, Float: cell.Float})
	case chunk.TagTrue:
		return m.Stack.Push(values.Bool(true))
	case chunk.TagFalse:
		return m.Stack.Push(values.Bool(false))
	case chunk.TagWordRef:
		return m.Stack.Push(values.Value{Kind: values.KindWordRef, Word: cell.Word})
	case chunk.TagLocal:
		return m.Frames.GetLocal(m.Stack, cell.Word)
	default:
		return fmt.Errorf("vm: unknown instruction tag %v", cell.Tag)
	}
}

// execDList runs a span of the list arena as instructions
// (execute_dlist/execute_dlistword): every Kind pushes a copy of itself
// except WORDREF, which is a documented quirk (spec §9) pushing FALSE
// instead of the wordref value — execute_dlistword reproduces the
// static-list path's behavior for every other tag but special-cases
// AURA_TWORDREF to auraS_pushboolean(0) rather than auraS_pushword.
//
// original_source/aura.c's execute_dlistword also has an AURA_TWORD
// branch dispatching a word id read from the arena slot; no code path
// ever writes a TWORD-tagged arena slot (auraS_push* never produces one,
// and persist() only ever copies already-live arena values), so it is
// omitted here as dead code rather than given a home in values.Kind.
func (m *Machine) execDList(v values.Value) error {
	items, err := m.Stack.ArenaSlice(v.Offset, v.Size)
	if err != nil {
		return err
	}
	for _, item := range items {
		push := item
		if item.Kind == values.KindWordRef {
			push = values.Bool(false)
		}
		if err := m.Stack.Push(push); err != nil {
			return err
		}
	}
	return nil
}

// execute dispatches a WORD cell by id (execute()/"Undefined Word").
func (m *Machine) execute(wordID int32) error {
	impl := m.Words.Lookup(wordID)
	if impl == nil {
		return fmt.Errorf("vm: undefined word %q", m.Words.Name(wordID))
	}
	if m.tracer != nil {
		m.tracer.Word(m.Words.Name(wordID))
	}
	b := impl.(*Binding)
	switch b.Kind {
	case BindNative:
		return b.Native(m)
	case BindSList:
		c := m.progs[b.Prog]
		return m.execSList(c, c.Cells[b.Offset:b.Offset+b.Size], b.Prog)
	case BindDList:
		return m.execDList(values.Value{Kind: values.KindDList, Offset: b.Offset, Size: b.Size})
	default:
		return fmt.Errorf("vm: word %q has no implementation kind", m.Words.Name(wordID))
	}
}

// evalValue runs a list value in whatever frame is current; Eval opens a
// fresh frame around it and Upeval does not, per spec §4.6's
// run/eval/upeval entry points.
func (m *Machine) evalValue(v values.Value) error {
	switch v.Kind {
	case values.KindSList:
		c := m.progs[v.Prog]
		if c == nil {
			return fmt.Errorf("vm: eval references unknown prog %d", v.Prog)
		}
		return m.execSList(c, c.Cells[v.Offset:v.Offset+v.Size], v.Prog)
	case values.KindDList:
		return m.execDList(v)
	default:
		return fmt.Errorf("vm: eval need a list")
	}
}

// Eval pops the top of stack (must be a list) and executes it in a fresh
// frame (cfunc_eval).
func (m *Machine) Eval() error {
	v, err := m.Stack.PopValue()
	if err != nil {
		return err
	}
	if err := m.Frames.Push(); err != nil {
		return err
	}
	err = m.evalValue(v)
	m.Frames.Pop()
	return err
}

// Upeval pops the top of stack (must be a list) and executes it in the
// caller's current frame (cfunc_upeval).
func (m *Machine) Upeval() error {
	v, err := m.Stack.PopValue()
	if err != nil {
		return err
	}
	return m.evalValue(v)
}
