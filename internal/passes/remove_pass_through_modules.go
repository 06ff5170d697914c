package passes

import "kratos/internal/ir"

// removePassThroughModules collapses a child Generator whose every
// output is a direct Assign of one of its inputs: every instantiation
// site is rewired to connect the outer Var at the output position
// straight to the outer Var at the matching input position, and the
// ModuleInstantiationStmt is dropped (§4.4 pass 1, optional).
//
// A Generator that loses every instantiation this way simply becomes
// unreachable from the emission root; internal/codegen only walks
// Generators reachable from the root it's handed, so no separate
// "delete from the registry" step is needed.
func removePassThroughModules(ctx *ir.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	for _, g := range ctx.Generators() {
		inputFor := passThroughInputs(g)
		if inputFor == nil {
			continue
		}
		for _, parent := range ctx.Generators() {
			var kept, added []*ir.Stmt
			for _, s := range parent.Stmts() {
				if s.Kind == ir.StmtModInst && s.AsModInst().Target == g {
					data := s.AsModInst()
					for output, input := range inputFor {
						outerOut := data.PortMap[output]
						outerIn := data.PortMap[input]
						if outerOut == nil || outerIn == nil || outerOut == outerIn {
							continue
						}
						assign, err := outerOut.Assign(outerIn, ir.Blocking)
						if err != nil {
							return err
						}
						added = append(added, assign)
					}
					parent.RemoveChild(g)
					continue
				}
				kept = append(kept, s)
			}
			parent.SetStmts(kept)
			for _, a := range added {
				parent.AddStmt(a)
			}
		}
	}
	return nil
}

// passThroughInputs reports, for a candidate Generator, the output port
// -> matching input port map if every output is driven by exactly one
// direct Assign whose right-hand side is one of the Generator's own
// input Ports; nil if the Generator isn't a pure pass-through (or has no
// outputs at all).
func passThroughInputs(g *ir.Generator) map[*ir.Var]*ir.Var {
	outputs := 0
	result := make(map[*ir.Var]*ir.Var)
	for _, port := range g.Ports() {
		if port.PortDirection() != ir.DirOut {
			continue
		}
		outputs++
		if port.SinkCount() != 1 {
			return nil
		}
		driver := port.Sinks()[0]
		if driver.Kind != ir.StmtAssign {
			return nil
		}
		right := driver.AsAssign().Right
		if right.Kind != ir.KindPort || right.Generator != g || right.PortDirection() != ir.DirIn {
			return nil
		}
		result[port] = right
	}
	if outputs == 0 {
		return nil
	}
	return result
}
