package main

import (
	"os"
	"path/filepath"
	"testing"

	"kratos/internal/diag"
)

func TestLoadConfig_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.Passes.RemovePassThrough {
		t.Errorf("expected default config when no file is present")
	}
}

func TestLoadConfig_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kratos.toml")
	if err := os.WriteFile(path, []byte("[passes]\nif_to_case = false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Passes.IfToCase {
		t.Errorf("expected if_to_case = false to be honored")
	}
}

func TestBuildExample_UnknownNameErrors(t *testing.T) {
	bag := diag.NewBag(10)
	if _, _, err := buildExample("nonexistent", bag); err == nil {
		t.Errorf("expected an error for an unregistered design name")
	}
}

func TestBuildExample_KnownNameSucceeds(t *testing.T) {
	bag := diag.NewBag(10)
	_, root, err := buildExample("adder", bag)
	if err != nil {
		t.Fatalf("buildExample: %v", err)
	}
	if root.Name != "adder" {
		t.Errorf("got root name %q, want %q", root.Name, "adder")
	}
}
