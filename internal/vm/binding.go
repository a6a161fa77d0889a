package vm

// BindingKind distinguishes a word's implementation: a host-supplied
// native function, or a program-defined closure over a chunk-resident
// static list or a persisted dynamic list (both created by `def`, spec
// §4.7).
type BindingKind uint8

const (
	BindNative BindingKind = iota
	BindSList
	BindDList
)

// Native is a host-registered word implementation (aura_cfunction):
// given the running Machine, read/write its operand stack and return an
// error to abort the run (mirrors raise_error's "abort to top level").
type Native func(m *Machine) error

// Binding is what internal/symbols.Words.Lookup returns for a word id
// with an implementation bound — the Go equivalent of aura.c's union
// aura_word.u (cfunction pointer, or a packed slist/dlist descriptor
// used by cfunc_evalslist/cfunc_evaldlist).
type Binding struct {
	Kind BindingKind

	Native Native

	// BindSList: Prog/Offset/Size locate the defining chunk's cell span.
	Prog   int32
	Offset uint32
	Size   uint32
}
