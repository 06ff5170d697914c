package passes

import (
	"fmt"

	"kratos/internal/diag"
	"kratos/internal/ir"
)

// checkMixedAssignment re-verifies, after every rewrite pass has had a
// chance to move or merge statements, that no Var is driven by both
// Blocking and NonBlocking assignments (§4.4 pass 10).
func checkMixedAssignment(ctx *ir.Context) error {
	var firstErr error
	for _, g := range ctx.Generators() {
		seen := make(map[*ir.Var]ir.AssignType)
		walkStmts(g.Stmts(), ctxTopLevel, func(s *ir.Stmt, _ blockContext) {
			if s.Kind != ir.StmtAssign {
				return
			}
			d := s.AsAssign()
			if d.Type == ir.Undefined {
				return
			}
			prev, ok := seen[d.Left]
			if !ok {
				seen[d.Left] = d.Type
				return
			}
			if prev != d.Type {
				err := fmt.Errorf("generator %q: %s is driven by both %s and %s assignments", g.Name, d.Left.Name, prev, d.Type)
				ctx.Report(diag.MixedAssignment, diag.SevError, s.Span, err.Error())
				if firstErr == nil {
					firstErr = err
				}
			}
		})
	}
	return firstErr
}
