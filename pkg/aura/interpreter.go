// Package aura is the host-facing embedding API for the aura interpreter
// (spec §6 EXPANSION): create an Interpreter, Register native words,
// Load source into a Chunk, and Run it. It plays the same role in this
// module that pkg/embed (renamed pkg/aura here) plays for the teacher's
// own embeddable VM — a thin façade over the internal packages that do
// the real work (internal/parser, internal/symbols, internal/vm).
package aura

import (
	"io"

	"github.com/aura-lang/aura/internal/chunk"
	"github.com/aura-lang/aura/internal/config"
	"github.com/aura-lang/aura/internal/diag"
	"github.com/aura-lang/aura/internal/parser"
	"github.com/aura-lang/aura/internal/symbols"
	"github.com/aura-lang/aura/internal/vm"
)

// Func is a native word implementation a host registers (spec §6's
// `register`): it reads/writes the Interpreter's operand stack and
// returns an error to abort the running program.
type Func func(*Interpreter) error

// ErrorHandler replaces the original C API's error_callback (spec §6).
// The default Interpreter has none set: Run and Load simply return the
// error instead, which is the recommended path (spec §6 EXPANSION).
type ErrorHandler func(*Interpreter, error)

// Interpreter is one running instance (spec §6's `interpreter`, returned
// by `new_state`). The zero value is not usable; construct with New.
type Interpreter struct {
	id      diag.ID
	machine *vm.Machine
	limits  config.Limits
	onError ErrorHandler

	// bound remembers the last chunk Run as each progID, so a later
	// Run(progID, nil) can re-run it (spec §6's NULL re-run rule) without
	// the host having to keep its own *Chunk around.
	bound map[int32]*chunk.Chunk

	traceWriter io.Writer
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithLimits tightens the resource caps an Interpreter enforces (spec
// §4.9 EXPANSION). Any field above the corresponding hard cap in
// internal/config is clamped down to it — limits never loosen the caps.
func WithLimits(l Limits) Option {
	return func(in *Interpreter) {
		in.limits = l.toConfig()
	}
}

// WithErrorHandler installs a callback invoked (in addition to the
// normal error return) whenever Run or Load fails, for hosts that want
// to integrate aura with an existing supervisor/callback-shaped error
// path (spec §6 EXPANSION's "ErrorHandler option exists for hosts that
// want the old callback shape").
func WithErrorHandler(h ErrorHandler) Option {
	return func(in *Interpreter) { in.onError = h }
}

// WithTrace attaches a trace sink that logs one line per executed word,
// color-highlighted when w is a terminal (internal/diag.Tracer). This is
// purely a debugging aid; spec §4.10 EXPANSION is explicit that it
// changes no testable property.
func WithTrace(w io.Writer) Option {
	return func(in *Interpreter) { in.traceWriter = w }
}

// New creates an interpreter instance (spec §6's `new_state`). There is
// no interpreter-wide userdata slot the way the C API has one: a Func's
// closure captures whatever state it needs, which is the idiomatic Go
// replacement.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		id:     diag.NewID(),
		limits: config.DefaultLimits(),
		bound:  make(map[int32]*chunk.Chunk),
	}
	// Every option runs once to collect limits/handler/trace-writer
	// choices; the machine itself (sized from in.limits) is built only
	// after WithLimits has had a chance to run.
	for _, opt := range opts {
		opt(in)
	}
	in.machine = vm.New(in.limits)
	if in.traceWriter != nil {
		in.machine.SetTracer(diag.NewTracer(in.traceWriter, in.id))
	}
	return in
}

// Register binds name to a native implementation (spec §6's `register`),
// erroring if name already has one.
func (in *Interpreter) Register(name string, fn Func) error {
	err := in.machine.Register(name, func(m *vm.Machine) error {
		return fn(in)
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// Load parses and word-resolves source into a runnable Chunk (spec §6's
// `load`, minus the C API's caller-supplied 65536-byte out_buffer — Load
// returns a Go *Chunk instead of writing into borrowed memory; Chunk.
// Bytes() still exposes the identical wire encoding for a host that
// wants to cache or ship it).
func (in *Interpreter) Load(source []byte) (*Chunk, error) {
	c, err := parser.Parse(source)
	if err != nil {
		return nil, in.fail(err)
	}
	if err := symbols.Resolve(c, source, in.machine.Words, in.machine.Locals); err != nil {
		return nil, in.fail(err)
	}
	return &Chunk{inner: c}, nil
}

// Run executes chunk as progID (spec §6's `run`). Passing a nil chunk
// re-runs whatever chunk is already bound to progID, matching the C
// API's NULL re-run rule; rebinding a different chunk to a progID that
// already has one bound is a duplicate-prog error.
func (in *Interpreter) Run(progID int, c *Chunk) error {
	id := int32(progID)
	var inner *chunk.Chunk
	if c != nil {
		inner = c.inner
	} else {
		inner = in.bound[id]
		if inner == nil {
			return in.fail(errorf(ErrInvalidProgram, "aura: no chunk bound to prog %d", progID))
		}
	}
	if err := in.machine.Run(id, inner); err != nil {
		return in.fail(err)
	}
	in.bound[id] = inner
	return nil
}

// Close invalidates the interpreter (spec §6's `close`). There is
// nothing to release that Go's GC wouldn't reclaim anyway; Close exists
// for symmetry and to make "this instance is done" explicit in host code.
func (in *Interpreter) Close() {
	in.machine = nil
}

// Error reports msg through the interpreter's error handler if one is
// set (spec §6's `error`), without otherwise aborting anything — use
// this from a Func to surface a diagnostic without returning an error
// that would abort the running program.
func (in *Interpreter) Error(msg string) {
	if in.onError != nil {
		in.onError(in, &Error{Kind: ErrUnknown, Message: msg})
	}
}

func (in *Interpreter) fail(err error) *Error {
	ae := classify(err)
	if in.onError != nil {
		in.onError(in, ae)
	}
	return ae
}

// Limits reports the limits this interpreter was configured with. A field
// that is zero or above its hard cap is reported as given, while the
// hard cap is what is enforced for it.
func (in *Interpreter) Limits() Limits {
	return fromConfig(in.limits)
}

// ID returns the interpreter's correlation id, the same one trace output
// (WithTrace) tags every line with.
func (in *Interpreter) ID() string {
	return in.id.String()
}
