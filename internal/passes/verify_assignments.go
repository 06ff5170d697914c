package passes

import (
	"fmt"

	"kratos/internal/diag"
	"kratos/internal/ir"
)

// verifyAssignments re-checks every AssignStmt after the rewriting
// passes that precede it (§4.4 pass 8): widths, signedness, the
// Blocking/NonBlocking discipline for the enclosing block, and that no
// Var is driven by more than one AssignStmt referencing it directly
// (slices of a shared base Var are distinct Vars and don't collide
// here; merge_wire_assignments reconciles those later).
func verifyAssignments(ctx *ir.Context) error {
	var firstErr error

	for _, g := range ctx.Generators() {
		walkStmts(g.Stmts(), ctxTopLevel, func(s *ir.Stmt, bc blockContext) {
			if s.Kind != ir.StmtAssign {
				return
			}
			d := s.AsAssign()

			if d.Left.Width != d.Right.Width {
				err := fmt.Errorf("generator %q: %s = %s: width mismatch (%d != %d)", g.Name, d.Left.Name, d.Right.Name, d.Left.Width, d.Right.Width)
				ctx.Report(diag.WidthMismatch, diag.SevError, s.Span, err.Error())
				if firstErr == nil {
					firstErr = err
				}
			}
			if d.Left.IsSigned != d.Right.IsSigned && d.Right.Kind != ir.KindConst {
				err := fmt.Errorf("generator %q: %s = %s: signedness mismatch", g.Name, d.Left.Name, d.Right.Name)
				ctx.Report(diag.SignednessMismatch, diag.SevError, s.Span, err.Error())
				if firstErr == nil {
					firstErr = err
				}
			}
			if d.Type != bc.requiredAssignType() {
				err := fmt.Errorf("generator %q: %s assignment to %s in %s must be %s, got %s", g.Name, d.Type, d.Left.Name, bc, bc.requiredAssignType(), d.Type)
				ctx.Report(diag.InvalidAssignmentType, diag.SevError, s.Span, err.Error())
				if firstErr == nil {
					firstErr = err
				}
			}
			if d.Left.SinkCount() > 1 {
				err := fmt.Errorf("generator %q: %s has %d direct drivers", g.Name, d.Left.Name, d.Left.SinkCount())
				ctx.Report(diag.StructuralError, diag.SevError, s.Span, err.Error())
				if firstErr == nil {
					firstErr = err
				}
			}
		})
	}
	return firstErr
}
