package passes

import (
	"fmt"

	"kratos/internal/diag"
	"kratos/internal/ir"
)

// createModuleInstantiation is the final structural check before
// emission (§4.4 pass 15): every ModuleInstantiationStmt's recorded
// port connectivity must cover every port the target Generator declares,
// now that decouple_generator_ports, uniquify_generators, and
// uniquify_module_instances have all had a chance to rewrite it.
func createModuleInstantiation(ctx *ir.Context) error {
	var firstErr error
	for _, g := range ctx.Generators() {
		var insts []*ir.Stmt
		collectModInsts(g.Stmts(), &insts)
		for _, s := range insts {
			d := s.AsModInst()
			for _, port := range d.Target.Ports() {
				if _, ok := d.PortMap[port]; !ok {
					err := fmt.Errorf("generator %q: instance %q of %q leaves port %q unconnected", g.Name, d.InstanceName, d.Target.Name, port.Name)
					ctx.Report(diag.StructuralError, diag.SevError, s.Span, err.Error())
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}
	return firstErr
}
