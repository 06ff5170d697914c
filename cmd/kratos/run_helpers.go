package main

import (
	"fmt"
	"os"

	"kratos/internal/config"
	"kratos/internal/diag"
	"kratos/internal/examples"
	"kratos/internal/ir"
)

// loadConfig resolves the --config flag, falling back to ./kratos.toml
// when present and to config.Default() otherwise.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = "kratos.toml"
	}
	if _, err := os.Stat(path); err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildExample constructs the named example's root Generator inside a
// fresh Context, wired to report construction-time diagnostics into bag.
func buildExample(name string, bag *diag.Bag) (*ir.Context, *ir.Generator, error) {
	builder, ok := examples.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown design %q (available: %v)", name, examples.Names())
	}
	ctx := ir.NewContext()
	ctx.SetReporter(diag.BagReporter{Bag: bag})
	root, err := builder(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("building %q: %w", name, err)
	}
	return ctx, root, nil
}
