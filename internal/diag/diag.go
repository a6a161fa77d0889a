// Package diag is aura's ambient diagnostics surface (spec §4.10
// EXPANSION): a per-interpreter correlation id, resource-cap error
// formatting, and optional ANSI-aware trace output. None of it is
// reachable from language semantics — it only touches the error-callback
// path (spec §6/§7) and an opt-in trace hook, grounded on the per-instance
// bookkeeping the teacher's pkg/embed.New sets up for each VM it creates.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// ID identifies one interpreter instance in error-callback messages and
// trace output. It carries no language meaning; two interpreters loaded
// from identical source still get distinct ids.
type ID = uuid.UUID

// NewID returns a fresh correlation id for a new interpreter instance.
func NewID() ID {
	return uuid.New()
}

// CapError formats a resource-cap violation with a human-readable
// thousands-separated count, e.g. CapError("list arena exhausted", 16384)
// → "list arena exhausted: 16,384 cells".
func CapError(what string, n int) error {
	return fmt.Errorf("%s: %s cells", what, humanize.Comma(int64(n)))
}

// Tracer writes one line per executed word when a host attaches one via
// pkg/aura's WithTrace option (which calls vm.Machine.SetTracer). Color decides whether lines are
// highlighted; NewTracer derives it from the target writer when it's an
// *os.File, matching the teacher's detectColorLevel (internal/evaluator/
// builtins_term.go), simplified to the on/off decision aura actually
// needs rather than the teacher's full truecolor ladder.
type Tracer struct {
	out   io.Writer
	id    ID
	color bool
}

// NewTracer wraps out for trace output tagged with id. Color is enabled
// only when out is a terminal (isatty) and NO_COLOR is unset, the same
// two checks the teacher's detectColorLevel starts from.
func NewTracer(out io.Writer, id ID) *Tracer {
	color := false
	if f, ok := out.(*os.File); ok {
		if _, noColor := os.LookupEnv("NO_COLOR"); !noColor {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Tracer{out: out, id: id, color: color}
}

// Word emits one trace line for a word about to execute.
func (t *Tracer) Word(name string) {
	if t == nil || t.out == nil {
		return
	}
	if t.color {
		fmt.Fprintf(t.out, "[%s] \033[36m%s\033[39m\n", t.id, name)
		return
	}
	fmt.Fprintf(t.out, "[%s] %s\n", t.id, name)
}
