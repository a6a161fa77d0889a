package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-lang/aura/internal/config"
	"github.com/aura-lang/aura/internal/parser"
	"github.com/aura-lang/aura/internal/symbols"
	"github.com/aura-lang/aura/internal/values"
)

// load parses and resolves src against a fresh Machine, runs it once as
// progID 0, and returns the Machine so a test can inspect its stack.
func load(t *testing.T, src string) *Machine {
	t.Helper()
	m := New(config.DefaultLimits())
	c, err := parser.Parse([]byte(src))
	require.NoError(t, err, "Parse(%q)", src)
	require.NoError(t, symbols.Resolve(c, []byte(src), m.Words, m.Locals), "Resolve(%q)", src)
	require.NoError(t, m.Run(0, c), "Run(%q)", src)
	return m
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want int32
	}{
		{"1 2 +", 3},
		{"5 2 -", 3},
		{"3 4 *", 12},
		{"10 2 /", 5},
		{"1 2 + 3 *", 9},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			m := load(t, tt.src)
			v, err := m.Stack.PopValue()
			require.NoError(t, err)
			assert.Equal(t, values.KindInt, v.Kind)
			assert.Equal(t, tt.want, v.Int)
		})
	}
}

func TestFloatArithmeticCoercion(t *testing.T) {
	m := load(t, "1 2.5 +")
	v, err := m.Stack.PopValue()
	require.NoError(t, err)
	assert.Equal(t, values.KindFloat, v.Kind)
	assert.Equal(t, float32(3.5), v.Float)
}

func TestDivideByZero(t *testing.T) {
	m := New(config.DefaultLimits())
	c, err := parser.Parse([]byte("1 0 /"))
	require.NoError(t, err)
	require.NoError(t, symbols.Resolve(c, []byte("1 0 /"), m.Words, m.Locals))
	assert.Error(t, m.Run(0, c), "expected a divide-by-zero error")
}

func TestComparisonAndBooleans(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"1 2 <", true},
		{"2 1 <", false},
		{"1 1 ==", true},
		{"1 2 ==", false},
		{"1 2 !=", true},
		{"true", true},
		{"false", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			m := load(t, tt.src)
			v, err := m.Stack.PopValue()
			require.NoError(t, err)
			assert.Equal(t, tt.want, !v.IsFalse())
		})
	}
}

func TestIfElse(t *testing.T) {
	// cond is itself a list (spec's `if`/`ifelse` both upeval it), so a
	// bare boolean literal won't do — it has to be wrapped.
	m := load(t, "[true] [1] [2] ifelse")
	v, err := m.Stack.PopValue()
	require.NoError(t, err)
	assert.Equal(t, values.KindInt, v.Kind)
	assert.Equal(t, int32(1), v.Int, "then branch")

	m2 := load(t, "[false] [1] [2] ifelse")
	v2, err := m2.Stack.PopValue()
	require.NoError(t, err)
	assert.Equal(t, values.KindInt, v2.Kind)
	assert.Equal(t, int32(2), v2.Int, "else branch")
}

func TestIfSkipsWhenFalse(t *testing.T) {
	m := load(t, "[false] [99] if")
	assert.Equal(t, 0, m.Stack.Top(), "if body never ran")
}

func TestWhileLoop(t *testing.T) {
	// $n starts at 0; loop while $n < 3, incrementing each pass, and
	// leave the final value of $n on the stack.
	src := "0 (n) [$n 3 <] [$n 1 + (n)] while $n"
	m := load(t, src)
	v, err := m.Stack.PopValue()
	require.NoError(t, err)
	assert.Equal(t, values.KindInt, v.Kind)
	assert.Equal(t, int32(3), v.Int)
}

func TestDefAndCallSList(t *testing.T) {
	// def takes (list wordref) from the preceding bracketed program; run
	// it first, then invoke the newly bound word against an operand.
	m := New(config.DefaultLimits())
	defSrc := "[(x) $x $x *] 'square def"
	c, err := parser.Parse([]byte(defSrc))
	require.NoError(t, err, "Parse def")
	require.NoError(t, symbols.Resolve(c, []byte(defSrc), m.Words, m.Locals), "Resolve def")
	require.NoError(t, m.Run(0, c), "Run def")

	callSrc := "5 square"
	c2, err := parser.Parse([]byte(callSrc))
	require.NoError(t, err, "Parse call")
	require.NoError(t, symbols.Resolve(c2, []byte(callSrc), m.Words, m.Locals), "Resolve call")
	require.NoError(t, m.Run(1, c2), "Run call")

	v, err := m.Stack.PopValue()
	require.NoError(t, err)
	assert.Equal(t, values.KindInt, v.Kind)
	assert.Equal(t, int32(25), v.Int)
}

func TestUndefinedWordErrors(t *testing.T) {
	m := New(config.DefaultLimits())
	c, err := parser.Parse([]byte("nonexistent"))
	require.NoError(t, err)
	require.NoError(t, symbols.Resolve(c, []byte("nonexistent"), m.Words, m.Locals))
	assert.Error(t, m.Run(0, c), "expected an undefined-word error")
}

func TestDuplicateProgErrors(t *testing.T) {
	m := New(config.DefaultLimits())
	src := "1"
	c, _ := parser.Parse([]byte(src))
	_ = symbols.Resolve(c, []byte(src), m.Words, m.Locals)
	require.NoError(t, m.Run(0, c), "first Run")

	other := "2"
	c2, _ := parser.Parse([]byte(other))
	_ = symbols.Resolve(c2, []byte(other), m.Words, m.Locals)
	assert.Error(t, m.Run(0, c2), "expected a duplicate-prog error rebinding progID 0 to a different chunk")
}

func TestRunRejectsProgIDOutOfRange(t *testing.T) {
	m := New(config.DefaultLimits())
	src := "1"
	c, _ := parser.Parse([]byte(src))
	_ = symbols.Resolve(c, []byte(src), m.Words, m.Locals)
	assert.Error(t, m.Run(int32(config.ProgramCount), c), "expected an error for a progID at or beyond the cap")
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	m := New(config.DefaultLimits())
	noop := func(m *Machine) error { return nil }
	require.NoError(t, m.Register("myword", noop), "first Register")
	assert.Error(t, m.Register("myword", noop), "expected an error re-registering an already-bound name")
}
