package codegen

import (
	"fmt"
	"sort"

	"kratos/internal/ir"
)

// emitStmt dispatches on s.Kind per the §4.5 rules, prefixing every
// emitted line with depth's indentation. When g.Debug is set the
// statement's EmittedLine is stamped with the output line its own
// rendering starts on, before any nested statements are emitted.
func (e *Emitter) emitStmt(g *ir.Generator, s *ir.Stmt, depth int) error {
	if g.Debug {
		s.EmittedLine = e.line + 1
	}
	switch s.Kind {
	case ir.StmtAssign:
		return e.emitAssign(s, depth)
	case ir.StmtIf:
		return e.emitIf(g, s, depth)
	case ir.StmtSwitch:
		return e.emitSwitch(g, s, depth)
	case ir.StmtSequential, ir.StmtCombinational:
		return e.emitBlock(g, s, depth)
	case ir.StmtModInst:
		e.emitModInst(s, depth)
		return nil
	default:
		return fmt.Errorf("unhandled statement kind %v", s.Kind)
	}
}

func (e *Emitter) emitAssign(s *ir.Stmt, depth int) error {
	d := s.AsAssign()
	if depth == 0 {
		if d.Type != ir.Blocking {
			return fmt.Errorf("top-level assign to %q must be Blocking, got %s", d.Left.Name, d.Type)
		}
		e.writeLine("%sassign %s = %s;", indent(depth), d.Left.Name, renderExpr(d.Right))
		return nil
	}
	op := "="
	if d.Type == ir.NonBlocking {
		op = "<="
	}
	e.writeLine("%s%s %s %s;", indent(depth), d.Left.Name, op, renderExpr(d.Right))
	return nil
}

func (e *Emitter) emitIf(g *ir.Generator, s *ir.Stmt, depth int) error {
	d := s.AsIf()
	e.writeLine("%sif (%s) begin", indent(depth), renderExpr(d.Pred))
	for _, c := range d.Then {
		if err := e.emitStmt(g, c, depth+1); err != nil {
			return err
		}
	}
	e.writeLine("%send", indent(depth))
	return e.emitElse(g, d.Else, depth)
}

// emitElse handles the else-chain collapsing rule: an Else body
// consisting of exactly one If statement prints as "else if (...)"
// instead of wrapping a nested begin/end.
func (e *Emitter) emitElse(g *ir.Generator, elseBody []*ir.Stmt, depth int) error {
	if len(elseBody) == 0 {
		return nil
	}
	if len(elseBody) == 1 && elseBody[0].Kind == ir.StmtIf {
		chained := elseBody[0]
		d := chained.AsIf()
		if g.Debug {
			chained.EmittedLine = e.line + 1
		}
		e.writeLine("%selse if (%s) begin", indent(depth), renderExpr(d.Pred))
		for _, c := range d.Then {
			if err := e.emitStmt(g, c, depth+1); err != nil {
				return err
			}
		}
		e.writeLine("%send", indent(depth))
		return e.emitElse(g, d.Else, depth)
	}
	e.writeLine("%selse begin", indent(depth))
	for _, c := range elseBody {
		if err := e.emitStmt(g, c, depth+1); err != nil {
			return err
		}
	}
	e.writeLine("%send", indent(depth))
	return nil
}

func (e *Emitter) emitSwitch(g *ir.Generator, s *ir.Stmt, depth int) error {
	d := s.AsSwitch()
	e.writeLine("%scase (%s)", indent(depth), d.Target.Name)
	for _, c := range d.Cases {
		if len(c.Body) == 0 {
			label := "default"
			if !c.IsDefault {
				label = c.Value.Name
			}
			return fmt.Errorf("switch on %q: case %s has an empty body", d.Target.Name, label)
		}
		label := "default"
		if !c.IsDefault {
			label = renderExpr(c.Value)
		}
		e.writeLine("%s%s: begin", indent(depth+1), label)
		for _, cs := range c.Body {
			if err := e.emitStmt(g, cs, depth+2); err != nil {
				return err
			}
		}
		e.writeLine("%send", indent(depth+1))
	}
	e.writeLine("%sendcase", indent(depth))
	return nil
}

func (e *Emitter) emitBlock(g *ir.Generator, s *ir.Stmt, depth int) error {
	d := s.AsBlock()
	if s.Kind == ir.StmtCombinational {
		e.writeLine("%salways_comb begin", indent(depth))
	} else {
		sens := make([]string, len(d.Sensitivity))
		for i, item := range d.Sensitivity {
			sens[i] = fmt.Sprintf("%s %s", edgeKeyword(item.Edge), item.Clock.Name)
		}
		e.writeLine("%salways @(%s) begin", indent(depth), joinSens(sens))
	}
	for _, c := range d.Body {
		if err := e.emitStmt(g, c, depth+1); err != nil {
			return err
		}
	}
	e.writeLine("%send", indent(depth))
	return nil
}

func joinSens(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

func edgeKeyword(e ir.Edge) string {
	switch e {
	case ir.Posedge:
		return "posedge"
	case ir.Negedge:
		return "negedge"
	default:
		return "edge"
	}
}

func (e *Emitter) emitModInst(s *ir.Stmt, depth int) {
	d := s.AsModInst()

	paramClause := ""
	if len(d.Params) > 0 {
		names := make([]string, 0, len(d.Params))
		for name := range d.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		pieces := make([]string, len(names))
		for i, name := range names {
			pieces[i] = fmt.Sprintf(".%s(%d)", name, d.Params[name])
		}
		paramClause = " #(" + joinSens(pieces) + ")"
	}

	ports := d.Target.Ports()
	conns := make([]string, 0, len(ports))
	for _, p := range ports {
		if ext, ok := d.PortMap[p]; ok {
			conns = append(conns, fmt.Sprintf(".%s(%s)", p.Name, renderExpr(ext)))
		}
	}

	e.writeLine("%s%s%s %s (%s);", indent(depth), d.Target.Name, paramClause, d.InstanceName, joinSens(conns))
}
