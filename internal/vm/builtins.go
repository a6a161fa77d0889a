package vm

import (
	"fmt"

	"github.com/aura-lang/aura/internal/values"
)

// registerBuiltins installs the built-in words (spec §4.7, component
// C8), mirroring aura_newstate's registration block (original_source/
// aura.c lines 642-659). These names are only ever registered once, into
// a fresh Words table, so they never collide; errors are discarded with _,
// which means a host-tightened WordCount smaller than the number of
// built-ins leaves the later built-ins silently unregistered.
func registerBuiltins(m *Machine) {
	_ = m.Register("true", func(m *Machine) error { return m.Stack.Push(values.Bool(true)) })
	_ = m.Register("false", func(m *Machine) error { return m.Stack.Push(values.Bool(false)) })
	_ = m.Register("eval", func(m *Machine) error { return m.Eval() })
	_ = m.Register("upeval", func(m *Machine) error { return m.Upeval() })
	_ = m.Register("def", builtinDef)
	_ = m.Register("if", builtinIf)
	_ = m.Register("ifelse", builtinIfElse)
	_ = m.Register("while", builtinWhile)
	_ = m.Register("+", basicMath('+'))
	_ = m.Register("-", basicMath('-'))
	_ = m.Register("*", basicMath('*'))
	_ = m.Register("/", basicMath('/'))
	_ = m.Register(">", basicMath('>'))
	_ = m.Register("<", basicMath('<'))
	_ = m.Register(">=", basicMath('}')) // C-level sentinel, see spec §4.7 note
	_ = m.Register("<=", basicMath('{'))
	_ = m.Register("==", cfuncCompare(false))
	_ = m.Register("!=", cfuncCompare(true))
}

// builtinDef implements `def` (spec §4.7): pop wordref (TOS) and list
// (NOS). Target word must not already be bound. For an SLIST, bind
// directly; for a DLIST, persist() it first and bind the persisted
// descriptor.
//
// original_source/aura.c's cfunc_def calls auraS_persistence while the
// wordref is still the physical top of stack (it has not been popped
// yet), so persistence operates on the wrong slot, and separately binds
// the word to the pre-persistence (transient) offset it captured before
// that call rather than the rewritten post-persistence one — both read
// as bugs against spec §4.7's plain description ("first persist() it...
// then store... in the word"), not a deliberate quirk spec.md documents
// anywhere the way it does the DLIST/WORDREF execution quirk. This
// implementation follows spec §4.7's stated semantics instead: pop the
// wordref, persist the list actually being defined, and bind its
// resulting (persisted) offset.
func builtinDef(m *Machine) error {
	if !m.Stack.Has(2) {
		return fmt.Errorf("vm: def: stack empty")
	}
	word, err := m.Stack.PopValue()
	if err != nil {
		return err
	}
	if word.Kind != values.KindWordRef {
		return fmt.Errorf("vm: def needs a wordref")
	}
	if m.Words.Lookup(word.Word) != nil {
		return fmt.Errorf("vm: word %q already defined", m.Words.Name(word.Word))
	}
	list, err := m.Stack.PeekAt(-1)
	if err != nil {
		return err
	}
	switch list.Kind {
	case values.KindSList:
		m.Stack.Pop(1)
		m.Words.Bind(word.Word, &Binding{Kind: BindSList, Prog: list.Prog, Offset: list.Offset, Size: list.Size})
	case values.KindDList:
		if err := m.Stack.Persist(); err != nil {
			return fmt.Errorf("vm: def can't persist list: %w", err)
		}
		persisted, err := m.Stack.PeekAt(-1)
		if err != nil {
			return err
		}
		m.Stack.Pop(1)
		m.Words.Bind(word.Word, &Binding{Kind: BindDList, Offset: persisted.Offset, Size: persisted.Size})
	default:
		return fmt.Errorf("vm: def needs a list")
	}
	return nil
}

// builtinIf implements `if` (spec §4.7): stack `cond prog`; evaluate
// cond with upeval, and if the result isn't FALSE, upeval prog too;
// otherwise discard it (cfunc_if).
func builtinIf(m *Machine) error {
	if !m.Stack.Has(2) {
		return fmt.Errorf("vm: if: stack empty")
	}
	if err := m.Stack.Swap(); err != nil {
		return err
	}
	if err := m.Upeval(); err != nil {
		return err
	}
	result, err := m.Stack.PeekAt(-1)
	if err != nil {
		return err
	}
	if !result.IsFalse() {
		m.Stack.Pop(1)
		return m.Upeval()
	}
	m.Stack.Pop(2)
	return nil
}

// builtinIfElse implements `ifelse` (spec §4.7): stack `cond then else`;
// evaluate cond, pick and upeval the matching branch (cfunc_ifelse).
func builtinIfElse(m *Machine) error {
	if !m.Stack.Has(3) {
		return fmt.Errorf("vm: ifelse: stack empty")
	}
	if err := m.Stack.Rotate(-3, -1); err != nil {
		return err
	}
	if err := m.Upeval(); err != nil {
		return err
	}
	result, err := m.Stack.PeekAt(-1)
	if err != nil {
		return err
	}
	if !result.IsFalse() {
		m.Stack.Pop(2)
	} else {
		if err := m.Stack.Copy(-2, -3); err != nil {
			return err
		}
		m.Stack.Pop(2)
	}
	return m.Upeval()
}

// builtinWhile implements `while` (spec §4.7): stack `cond body`;
// repeatedly upeval cond, and on non-FALSE upeval body; on FALSE pop
// both and return (cfunc_while).
func builtinWhile(m *Machine) error {
	if !m.Stack.Has(2) {
		return fmt.Errorf("vm: while: stack empty")
	}
	for {
		if err := m.Stack.PushValue(-2); err != nil {
			return err
		}
		if err := m.Upeval(); err != nil {
			return err
		}
		result, err := m.Stack.PeekAt(-1)
		if err != nil {
			return err
		}
		if !result.IsFalse() {
			m.Stack.Pop(1)
			if err := m.Stack.PushValue(-1); err != nil {
				return err
			}
			if err := m.Upeval(); err != nil {
				return err
			}
			continue
		}
		m.Stack.Pop(3)
		return nil
	}
}

func toFloat(v values.Value) (float32, error) {
	switch v.Kind {
	case values.KindFloat:
		return v.Float, nil
	case values.KindInt:
		return float32(v.Int), nil
	default:
		return 0, fmt.Errorf("vm: need a number, got %s", v.Kind)
	}
}

// basicMath implements `+ - * / > < >= <=` (cfunc_basicmath): pop two,
// do integer arithmetic if both operands are INT, else coerce both to
// FLOAT. op uses the same byte sentinels as the original — `{`/`}` for
// `<=`/`>=` — an internal implementation detail, never user syntax
// (spec §4.7 note).
func basicMath(op byte) Native {
	return func(m *Machine) error {
		if !m.Stack.Has(2) {
			return fmt.Errorf("vm: %c: stack empty", op)
		}
		left, err := m.Stack.PeekAt(-2)
		if err != nil {
			return err
		}
		right, err := m.Stack.PeekAt(-1)
		if err != nil {
			return err
		}
		m.Stack.Pop(2)

		if left.Kind == values.KindInt && right.Kind == values.KindInt {
			lv, rv := left.Int, right.Int
			switch op {
			case '+':
				return m.Stack.Push(values.Value{Kind: values.KindInt, Int: lv + rv})
			case '-':
				return m.Stack.Push(values.Value{Kind: values.KindInt, Int: lv - rv})
			case '*':
				return m.Stack.Push(values.Value{Kind: values.KindInt, Int: lv * rv})
			case '/':
				if rv == 0 {
					return fmt.Errorf("vm: divide by zero")
				}
				return m.Stack.Push(values.Value{Kind: values.KindInt, Int: lv / rv})
			case '>':
				return m.Stack.Push(values.Bool(lv > rv))
			case '<':
				return m.Stack.Push(values.Bool(lv < rv))
			case '}':
				return m.Stack.Push(values.Bool(lv >= rv))
			case '{':
				return m.Stack.Push(values.Bool(lv <= rv))
			}
			return fmt.Errorf("vm: unknown math op %c", op)
		}

		lv, err := toFloat(left)
		if err != nil {
			return err
		}
		rv, err := toFloat(right)
		if err != nil {
			return err
		}
		switch op {
		case '+':
			return m.Stack.Push(values.Value{Kind: values.KindFloat, Float: lv + rv})
		case '-':
			return m.Stack.Push(values.Value{Kind: values.KindFloat, Float: lv - rv})
		case '*':
			return m.Stack.Push(values.Value{Kind: values.KindFloat, Float: lv * rv})
		case '/':
			if rv == 0 {
				return fmt.Errorf("vm: divide by zero")
			}
			return m.Stack.Push(values.Value{Kind: values.KindFloat, Float: lv / rv})
		case '>':
			return m.Stack.Push(values.Bool(lv > rv))
		case '<':
			return m.Stack.Push(values.Bool(lv < rv))
		case '}':
			return m.Stack.Push(values.Bool(lv >= rv))
		case '{':
			return m.Stack.Push(values.Bool(lv <= rv))
		}
		return fmt.Errorf("vm: unknown math op %c", op)
	}
}

// compareValues implements structural equality (spec §3.1/compare()):
// reflexive on INT, FLOAT, WORDREF, SLIST, DLIST; mixed INT/FLOAT
// compares after promoting INT to FLOAT; any other type mismatch is
// unequal.
func compareValues(left, right values.Value) bool {
	if left.Kind == right.Kind {
		return left.Equal(right)
	}
	if left.Kind == values.KindInt && right.Kind == values.KindFloat {
		return float32(left.Int) == right.Float
	}
	if left.Kind == values.KindFloat && right.Kind == values.KindInt {
		return left.Float == float32(right.Int)
	}
	return false
}

// cfuncCompare implements `==`/`!=`: invert selects `!=`'s logical
// negation of compareValues's result (cfunc_compare).
func cfuncCompare(invert bool) Native {
	return func(m *Machine) error {
		if !m.Stack.Has(2) {
			return fmt.Errorf("vm: compare: stack empty")
		}
		left, err := m.Stack.PeekAt(-2)
		if err != nil {
			return err
		}
		right, err := m.Stack.PeekAt(-1)
		if err != nil {
			return err
		}
		m.Stack.Pop(2)
		eq := compareValues(left, right)
		return m.Stack.Push(values.Bool(eq != invert))
	}
}
