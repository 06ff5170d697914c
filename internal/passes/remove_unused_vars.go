package passes

import "kratos/internal/ir"

// removeUnusedVars deletes declared Base Vars with empty sinks and
// sources sets and no consumers (no derived Var or Assign built from
// them); Ports and Parameters are never removed even when idle,
// since they are part of the module's public interface (§4.4 pass 7).
func removeUnusedVars(ctx *ir.Context) error {
	for _, g := range ctx.Generators() {
		for _, v := range append([]*ir.Var{}, g.BaseVars()...) {
			if !v.HasSinks() && !v.HasSources() && v.ConsumerCount() == 0 {
				g.RemoveVar(v)
			}
		}
	}
	return nil
}
