// Package config loads the pass-manager and emission settings a kratos
// build reads from a project's kratos.toml, grounded on the same
// BurntSushi/toml decode-into-struct pattern used for module manifests.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"kratos/internal/passes"
)

// PassesConfig mirrors passes.Options as TOML-decodable fields; the three
// optional passes default to enabled and the hash strategy defaults to
// sequential unless the file says otherwise.
type PassesConfig struct {
	RemovePassThrough bool   `toml:"remove_pass_through"`
	IfToCase          bool   `toml:"if_to_case"`
	FanoutOneWireElim bool   `toml:"fanout_one_wire_elim"`
	HashStrategy      string `toml:"hash_strategy"` // "sequential" or "parallel"
}

// EmitConfig controls code generation.
type EmitConfig struct {
	Debug bool `toml:"debug"`
}

// Config is the root of kratos.toml.
type Config struct {
	Passes PassesConfig `toml:"passes"`
	Emit   EmitConfig   `toml:"emit"`
}

// Default returns the configuration a build uses when no kratos.toml is
// present: every optional pass enabled, sequential hashing, no debug
// line stamping.
func Default() Config {
	return Config{
		Passes: PassesConfig{
			RemovePassThrough: true,
			IfToCase:          true,
			FanoutOneWireElim: true,
			HashStrategy:      "sequential",
		},
	}
}

// Load parses path into a Config, filling in Default()'s values for any
// section the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// PassOptions converts the parsed config into passes.Options, wiring in
// sink separately since it isn't a TOML-representable value.
func (c Config) PassOptions(sink passes.Sink) passes.Options {
	strategy := passes.HashSequential
	if strings.EqualFold(c.Passes.HashStrategy, "parallel") {
		strategy = passes.HashParallel
	}
	return passes.Options{
		RunPassThroughElimination: c.Passes.RemovePassThrough,
		RunIfToCase:               c.Passes.IfToCase,
		RunFanoutOneWireElim:      c.Passes.FanoutOneWireElim,
		HashStrategy:              strategy,
		Sink:                      sink,
	}
}
