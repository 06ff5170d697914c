package passes

import "kratos/internal/ir"

// fixAssignmentType reclassifies every Undefined AssignStmt based on its
// enclosing context (§4.4 pass 3): top-level and Combinational blocks
// resolve to Blocking, Sequential blocks to NonBlocking.
func fixAssignmentType(ctx *ir.Context) error {
	for _, g := range ctx.Generators() {
		walkStmts(g.Stmts(), ctxTopLevel, func(s *ir.Stmt, bc blockContext) {
			if s.Kind != ir.StmtAssign {
				return
			}
			d := s.AsAssign()
			if d.Type == ir.Undefined {
				d.Type = bc.requiredAssignType()
			}
		})
	}
	return nil
}
