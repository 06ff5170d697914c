package examples

import (
	"testing"

	"kratos/internal/codegen"
	"kratos/internal/ir"
)

func TestRegistry_AllNamesBuildAndEmit(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			builder, ok := Lookup(name)
			if !ok {
				t.Fatalf("Lookup(%q): not registered", name)
			}
			ctx := ir.NewContext()
			root, err := builder(ctx)
			if err != nil {
				t.Fatalf("builder: %v", err)
			}
			if _, err := codegen.EmitDesign(root); err != nil {
				t.Fatalf("EmitDesign: %v", err)
			}
		})
	}
}

func TestLookup_UnknownNameMissing(t *testing.T) {
	if _, ok := Lookup("does-not-exist"); ok {
		t.Errorf("expected an unregistered name to be missing")
	}
}
