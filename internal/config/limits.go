// Package config holds aura's resource caps (spec §5) as named constants
// and the optional host-supplied Limits that may tighten them.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Version is the current aura module version.
var Version = "0.1.0"

// Hard resource caps. These are compile-time constants, never loosened by
// a host: a Limits value may only request a smaller number for any field.
const (
	StackSize     = 4096
	FrameCount    = 32
	FrameLocals   = 32
	ListArenaSize = 16384
	WordCount     = 4096
	LocalCount    = 255
	ProgramCount  = 4096
	SourceBytes   = 65536
	ChunkCells    = 16384
	WordNameBytes = 16
	LocalSetArity = 4
)

// Limits is a host-tunable view over the hard caps above. A zero field
// means "use the hard cap"; a nonzero field below the hard cap tightens
// it. LoadLimitsYAML starts every field at its hard cap and rejects any
// field the document sets above its cap or to zero or below.
type Limits struct {
	StackSize     int `yaml:"stack_size"`
	FrameCount    int `yaml:"frame_count"`
	ListArenaSize int `yaml:"list_arena_size"`
	WordCount     int `yaml:"word_count"`
	LocalCount    int `yaml:"local_count"`
	ProgramCount  int `yaml:"program_count"`
}

// DefaultLimits returns the hard caps with no tightening applied.
func DefaultLimits() Limits {
	return Limits{
		StackSize:     StackSize,
		FrameCount:    FrameCount,
		ListArenaSize: ListArenaSize,
		WordCount:     WordCount,
		LocalCount:    LocalCount,
		ProgramCount:  ProgramCount,
	}
}

// LoadLimitsYAML parses a YAML document describing a tightened Limits and
// validates that every field is within the corresponding hard cap. A host
// embedding aura in a constrained sandbox uses this to shrink resource
// usage; it can never raise a cap above the values in this package.
func LoadLimitsYAML(data []byte) (Limits, error) {
	limits := DefaultLimits()
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return Limits{}, fmt.Errorf("config: parsing limits: %w", err)
	}
	if err := validateLimits(limits); err != nil {
		return Limits{}, err
	}
	return limits, nil
}

func validateLimits(l Limits) error {
	checks := []struct {
		name string
		got  int
		hard int
	}{
		{"stack_size", l.StackSize, StackSize},
		{"frame_count", l.FrameCount, FrameCount},
		{"list_arena_size", l.ListArenaSize, ListArenaSize},
		{"word_count", l.WordCount, WordCount},
		{"local_count", l.LocalCount, LocalCount},
		{"program_count", l.ProgramCount, ProgramCount},
	}
	for _, c := range checks {
		if c.got <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", c.name, c.got)
		}
		if c.got > c.hard {
			return fmt.Errorf("config: %s (%d) exceeds hard cap (%d)", c.name, c.got, c.hard)
		}
	}
	return nil
}
