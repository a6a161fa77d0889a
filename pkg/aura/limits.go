package aura

import "github.com/aura-lang/aura/internal/config"

// Limits is a read-only view of the resource caps an Interpreter enforces
// (spec §9 EXPANSION 9.2: the original C has no way to ask a running
// state what its compile-time caps were, since they are preprocessor
// constants; Go has no preprocessor, so aura exposes them instead of
// requiring a host to grep internal/config).
type Limits struct {
	StackSize     int
	FrameCount    int
	ListArenaSize int
	WordCount     int
	LocalCount    int
	ProgramCount  int
}

// DefaultLimits returns the hard resource caps (spec §5), unmodified.
func DefaultLimits() Limits {
	return fromConfig(config.DefaultLimits())
}

func fromConfig(l config.Limits) Limits {
	return Limits{
		StackSize:     l.StackSize,
		FrameCount:    l.FrameCount,
		ListArenaSize: l.ListArenaSize,
		WordCount:     l.WordCount,
		LocalCount:    l.LocalCount,
		ProgramCount:  l.ProgramCount,
	}
}

func (l Limits) toConfig() config.Limits {
	return config.Limits{
		StackSize:     l.StackSize,
		FrameCount:    l.FrameCount,
		ListArenaSize: l.ListArenaSize,
		WordCount:     l.WordCount,
		LocalCount:    l.LocalCount,
		ProgramCount:  l.ProgramCount,
	}
}

// LoadLimitsYAML parses a YAML document into a tightened Limits,
// rejecting any field that would loosen a hard cap (internal/config's
// LoadLimitsYAML does the validation; this just re-exports it typed in
// terms of the public Limits).
func LoadLimitsYAML(data []byte) (Limits, error) {
	l, err := config.LoadLimitsYAML(data)
	if err != nil {
		return Limits{}, classify(err)
	}
	return fromConfig(l), nil
}
