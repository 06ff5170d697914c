package passes

import "kratos/internal/ir"

// transformIfToCase rewrites an If/ElseIf chain that compares the same
// target Var against Const predicates into a SwitchStmt; a chain that
// contains a non-constant or non-equality predicate, or that compares
// more than one target, is left untouched (§4.4 pass 2, optional).
func transformIfToCase(ctx *ir.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	for _, g := range ctx.Generators() {
		g.SetStmts(convertIfChains(g, g.Stmts()))
	}
	return nil
}

func convertIfChains(g *ir.Generator, list []*ir.Stmt) []*ir.Stmt {
	out := make([]*ir.Stmt, 0, len(list))
	for _, s := range list {
		out = append(out, convertIfChainStmt(g, s))
	}
	return out
}

func convertIfChainStmt(g *ir.Generator, s *ir.Stmt) *ir.Stmt {
	switch s.Kind {
	case ir.StmtIf:
		d := s.AsIf()
		d.Then = convertIfChains(g, d.Then)
		d.Else = convertIfChains(g, d.Else)
		if sw := tryConvertChain(g, s); sw != nil {
			return sw
		}
		return s
	case ir.StmtSwitch:
		d := s.AsSwitch()
		for i := range d.Cases {
			d.Cases[i].Body = convertIfChains(g, d.Cases[i].Body)
		}
		return s
	case ir.StmtSequential, ir.StmtCombinational:
		d := s.AsBlock()
		d.Body = convertIfChains(g, d.Body)
		return s
	default:
		return s
	}
}

// detectEqTarget extracts (target, constant) from an `target == const`
// (in either operand order) predicate; ok is false for anything else.
func detectEqTarget(pred *ir.Var) (target, constant *ir.Var, ok bool) {
	if pred == nil || pred.Kind != ir.KindExpr || pred.ExprOp() != ir.OpEq {
		return nil, nil, false
	}
	left, right := pred.ExprLeft(), pred.ExprRight()
	switch {
	case right.Kind == ir.KindConst && left.Kind != ir.KindConst:
		return left, right, true
	case left.Kind == ir.KindConst && right.Kind != ir.KindConst:
		return right, left, true
	default:
		return nil, nil, false
	}
}

// tryConvertChain walks the If/ElseIf chain rooted at s and builds an
// equivalent SwitchStmt, or returns nil if any link isn't a same-target
// equality-against-constant predicate.
func tryConvertChain(g *ir.Generator, s *ir.Stmt) *ir.Stmt {
	target, _, ok := detectEqTarget(s.AsIf().Pred)
	if !ok {
		return nil
	}

	var cases []ir.SwitchCase
	cur := s
	for {
		d := cur.AsIf()
		t, v, ok2 := detectEqTarget(d.Pred)
		if !ok2 || t != target {
			return nil
		}
		cases = append(cases, ir.SwitchCase{Value: v, Body: d.Then})
		if len(d.Else) == 0 {
			break
		}
		if len(d.Else) == 1 && d.Else[0].Kind == ir.StmtIf {
			cur = d.Else[0]
			continue
		}
		cases = append(cases, ir.SwitchCase{IsDefault: true, Body: d.Else})
		break
	}

	sw, err := g.Switch(target, cases)
	if err != nil {
		return nil
	}
	return sw
}
