package passes

import "kratos/internal/ir"

// removeFanoutOneWires short-circuits an intermediate Base wire that has
// exactly one driver and one reader, both pure AssignStmts: the reader's
// right-hand side is repointed at the driver's right-hand side, every
// consumer of the wire is repointed the same way, and the wire and its
// driving AssignStmt are removed (§4.4 pass 5, optional).
func removeFanoutOneWires(ctx *ir.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	for _, g := range ctx.Generators() {
		removed := make(map[*ir.Stmt]bool)
		for _, v := range append([]*ir.Var{}, g.BaseVars()...) {
			if v.SinkCount() != 1 || v.SourceCount() != 1 {
				continue
			}
			driverStmt := v.Sinks()[0]
			consumerStmt := v.Sources()[0]
			if driverStmt.Kind != ir.StmtAssign || consumerStmt.Kind != ir.StmtAssign {
				continue
			}
			driver := driverStmt.AsAssign()
			consumer := consumerStmt.AsAssign()

			replacement := driver.Right
			v.RemoveSource(consumerStmt.ID)
			replacement.AddSource(consumerStmt.ID)
			consumer.Right = replacement
			for _, c := range v.Consumers() {
				c.ReplaceOperand(v, replacement)
			}

			g.RemoveStmt(driverStmt)
			g.RemoveVar(v)
			removed[driverStmt] = true
		}
		if len(removed) == 0 {
			continue
		}
		g.SetStmts(rewriteStmts(g.Stmts(), func(list []*ir.Stmt) []*ir.Stmt {
			out := make([]*ir.Stmt, 0, len(list))
			for _, s := range list {
				if !removed[s] {
					out = append(out, s)
				}
			}
			return out
		}))
	}
	return nil
}
