package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("clock:\n  tick_rate: 30\naudio:\n  enabled: false\n  volume: 0.2\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Clock.TickRate != 30 {
		t.Errorf("TickRate = %d, want 30", cfg.Clock.TickRate)
	}
	if cfg.Audio.Enabled || cfg.Audio.Volume != 0.2 {
		t.Errorf("Audio = %+v", cfg.Audio)
	}
}

func TestLoadCustomPathMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing explicit path should fail")
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	// Loading with no files present falls through to the embedded YAML,
	// which must agree with the hardcoded fallback.
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults = %+v, hardcoded = %+v", cfg, Default())
	}
}
