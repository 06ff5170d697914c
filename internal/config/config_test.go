package config

import (
	"os"
	"path/filepath"
	"testing"

	"kratos/internal/passes"
)

func TestLoad_DefaultsWhenSectionOmitted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kratos.toml")
	if err := os.WriteFile(path, []byte("[emit]\ndebug = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Emit.Debug {
		t.Errorf("expected emit.debug = true")
	}
	if !cfg.Passes.RemovePassThrough || !cfg.Passes.IfToCase || !cfg.Passes.FanoutOneWireElim {
		t.Errorf("expected optional passes to default enabled, got %+v", cfg.Passes)
	}
}

func TestLoad_ParsesHashStrategy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kratos.toml")
	body := "[passes]\nhash_strategy = \"parallel\"\nif_to_case = false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Passes.IfToCase {
		t.Errorf("expected if_to_case = false to be honored")
	}
	opts := cfg.PassOptions(passes.NopSink{})
	if opts.HashStrategy != passes.HashParallel {
		t.Errorf("expected HashParallel, got %v", opts.HashStrategy)
	}
	if opts.RunIfToCase {
		t.Errorf("expected RunIfToCase to be false")
	}
}
