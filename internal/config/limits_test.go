package config

import "testing"

func TestDefaultLimitsMatchHardCaps(t *testing.T) {
	l := DefaultLimits()
	if l.StackSize != StackSize || l.FrameCount != FrameCount ||
		l.ListArenaSize != ListArenaSize || l.WordCount != WordCount ||
		l.LocalCount != LocalCount || l.ProgramCount != ProgramCount {
		t.Fatalf("DefaultLimits() = %+v, want hard caps", l)
	}
}

func TestLoadLimitsYAMLTightens(t *testing.T) {
	yaml := []byte(`
stack_size: 256
frame_count: 8
list_arena_size: 512
word_count: 64
local_count: 16
program_count: 4
`)
	l, err := LoadLimitsYAML(yaml)
	if err != nil {
		t.Fatalf("LoadLimitsYAML: %v", err)
	}
	if l.StackSize != 256 || l.FrameCount != 8 || l.ListArenaSize != 512 ||
		l.WordCount != 64 || l.LocalCount != 16 || l.ProgramCount != 4 {
		t.Fatalf("unexpected tightened limits: %+v", l)
	}
}

func TestLoadLimitsYAMLRejectsLoosening(t *testing.T) {
	yaml := []byte(`stack_size: 999999`)
	if _, err := LoadLimitsYAML(yaml); err == nil {
		t.Fatal("expected error for stack_size above hard cap")
	}
}

func TestLoadLimitsYAMLRejectsNonPositive(t *testing.T) {
	yaml := []byte(`word_count: 0`)
	if _, err := LoadLimitsYAML(yaml); err == nil {
		t.Fatal("expected error for non-positive word_count")
	}
}

func TestLoadLimitsYAMLRejectsGarbage(t *testing.T) {
	if _, err := LoadLimitsYAML([]byte(`[this is not a mapping`)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
