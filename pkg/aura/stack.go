package aura

// Stack operations exposed to a registered Func (spec §6 EXPANSION: "Func
// is func(*Interpreter) error, operating on the interpreter's exposed
// stack methods"). These wrap internal/values.Stack the same way every
// other native word in internal/vm/builtins.go does, just behind the
// public Value type instead of values.Value.

// Push pushes v onto the operand stack.
func (in *Interpreter) Push(v Value) error {
	if err := in.machine.Stack.Push(toInternal(v)); err != nil {
		return classify(err)
	}
	return nil
}

// Pop removes and returns the top of the operand stack.
func (in *Interpreter) Pop() (Value, error) {
	v, err := in.machine.Stack.PopValue()
	if err != nil {
		return Value{}, classify(err)
	}
	return fromInternal(v), nil
}

// Peek returns the value at idx (spec §4.4's stack-index convention:
// positive is 1-based from the bottom, negative counts back from the top
// with -1 the top; zero is out of range) without removing it.
func (in *Interpreter) Peek(idx int) (Value, error) {
	v, err := in.machine.Stack.PeekAt(idx)
	if err != nil {
		return Value{}, classify(err)
	}
	return fromInternal(v), nil
}

// Depth reports the number of live operand-stack entries.
func (in *Interpreter) Depth() int {
	return in.machine.Stack.Top()
}

// Eval pops the top of stack (must be a list) and runs it in a fresh
// stackframe (spec §4.7's `eval`).
func (in *Interpreter) Eval() error {
	if err := in.machine.Eval(); err != nil {
		return classify(err)
	}
	return nil
}

// Upeval pops the top of stack (must be a list) and runs it in the
// caller's current stackframe (spec §4.7's `upeval`).
func (in *Interpreter) Upeval() error {
	if err := in.machine.Upeval(); err != nil {
		return classify(err)
	}
	return nil
}

// CreateList bump-allocates sz slots in the transient list arena, each
// starting FALSE, and pushes a DLIST describing them (auraS_createlist).
// This is how a registered Func builds a dynamic list to hand back to
// the running program, mirroring the original's host-facing stack API.
func (in *Interpreter) CreateList(sz int) error {
	if err := in.machine.Stack.CreateList(sz); err != nil {
		return classify(err)
	}
	return nil
}

// SetN pops the top of stack and writes it into slot n of the DLIST at
// idx (auraS_setn).
func (in *Interpreter) SetN(idx, n int) error {
	if err := in.machine.Stack.SetN(idx, n); err != nil {
		return classify(err)
	}
	return nil
}

// GetN pushes slot n of the DLIST at idx (auraS_getn).
func (in *Interpreter) GetN(idx, n int) error {
	if err := in.machine.Stack.GetN(idx, n); err != nil {
		return classify(err)
	}
	return nil
}

// Persist deep-copies the DLIST on top of the stack, and everything it
// transitively references, out of the transient arena and into the
// persistent region, rewriting its descriptor in place (auraS_persistence).
// `def` persists a DLIST itself; a Func calls this when a list it built
// with CreateList has to outlive the current Run, since the next Run
// resets the transient arena.
func (in *Interpreter) Persist() error {
	if err := in.machine.Stack.Persist(); err != nil {
		return classify(err)
	}
	return nil
}
