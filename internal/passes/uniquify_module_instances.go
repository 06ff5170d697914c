package passes

import (
	"fmt"

	"kratos/internal/ir"
)

// uniquifyModuleInstances assigns every surviving ModuleInstantiationStmt
// a distinct instance_name within its parent Generator, appending a
// counter to the base name wherever more than one instantiation would
// otherwise collide (§4.4 pass 14).
func uniquifyModuleInstances(ctx *ir.Context) error {
	for _, g := range ctx.Generators() {
		var insts []*ir.Stmt
		collectModInsts(g.Stmts(), &insts)

		bases := make([]string, len(insts))
		counts := make(map[string]int, len(insts))
		for i, s := range insts {
			d := s.AsModInst()
			base := d.InstanceName
			if base == "" {
				base = d.Target.Name
			}
			bases[i] = base
			counts[base]++
		}

		counters := make(map[string]int, len(insts))
		for i, s := range insts {
			d := s.AsModInst()
			base := bases[i]
			if counts[base] <= 1 {
				d.InstanceName = base
				continue
			}
			idx := counters[base]
			counters[base]++
			d.InstanceName = fmt.Sprintf("%s_%d", base, idx)
		}
	}
	return nil
}
