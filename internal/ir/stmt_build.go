package ir

import (
	"fmt"

	"kratos/internal/diag"
)

// Assign constructs (or returns the cached) AssignStmt for left = right
// with the given discipline. Construction rejects a width mismatch
// outright; signedness must either match or the right side must be a
// constant, which is implicitly widened (§4.2). Identical (left, right,
// type) triples resolve to the same reference (idempotence, §4.2/§9).
func (left *Var) Assign(right *Var, typ AssignType) (*Stmt, error) {
	g := left.Generator
	if left.Width != right.Width {
		err := fmt.Errorf("width mismatch: %s (%d bits) = %s (%d bits)", left.Name, left.Width, right.Name, right.Width)
		g.ctx.report(diag.SevError, diag.WidthMismatch, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	if left.IsSigned != right.IsSigned && right.Kind != KindConst {
		err := fmt.Errorf("signedness mismatch: %s (signed=%v) = %s (signed=%v)", left.Name, left.IsSigned, right.Name, right.IsSigned)
		g.ctx.report(diag.SevError, diag.SignednessMismatch, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}

	key := assignKey{left: left, right: right, typ: typ}
	if s, ok := g.assignTable[key]; ok {
		return s, nil
	}

	s := &Stmt{
		Kind:      StmtAssign,
		Generator: g,
		Span:      g.ctx.captureSpan(2),
		Data:      &AssignData{Left: left, Right: right, Type: typ},
	}
	g.assignTable[key] = s
	right.addConsumer(left) // right feeds left through this driver edge
	return s, nil
}

// checkNoMixedAssignment walks body (and everything nested beneath it via
// Stmt.Children) looking for AssignStmts whose non-Undefined types
// disagree, enforcing the construction-time half of the mixed-assignment
// rule (check_mixed_assignment re-verifies it after all rewriting passes).
func checkNoMixedAssignment(body []*Stmt) (AssignType, error) {
	seen := Undefined
	var walk func([]*Stmt) error
	walk = func(stmts []*Stmt) error {
		for _, s := range stmts {
			if s.Kind == StmtAssign {
				t := s.AsAssign().Type
				if t == Undefined {
					continue
				}
				if seen == Undefined {
					seen = t
				} else if seen != t {
					return fmt.Errorf("mixed %s and %s assignments in the same block", seen, t)
				}
			}
			for _, child := range s.Children() {
				if err := walk(child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(body); err != nil {
		return seen, err
	}
	return seen, nil
}

// If builds an IfStmt; pred must be non-nil (§4.2 "empty predicate").
func (g *Generator) If(pred *Var, then, els []*Stmt) (*Stmt, error) {
	if pred == nil {
		err := fmt.Errorf("generator %q: if statement requires a non-nil predicate", g.Name)
		g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	s := &Stmt{
		Kind:      StmtIf,
		Generator: g,
		Span:      g.ctx.captureSpan(2),
		Data:      &IfData{Pred: pred, Then: then, Else: els},
	}
	for _, child := range then {
		g.registerStmt(child)
	}
	for _, child := range els {
		g.registerStmt(child)
	}
	return s, nil
}

// Switch builds a SwitchStmt; every case must carry a non-empty body
// (§4.2 "empty body in a Switch case").
func (g *Generator) Switch(target *Var, cases []SwitchCase) (*Stmt, error) {
	for i, c := range cases {
		if len(c.Body) == 0 {
			err := fmt.Errorf("generator %q: switch case %d has an empty body", g.Name, i)
			g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
			return nil, err
		}
	}
	s := &Stmt{
		Kind:      StmtSwitch,
		Generator: g,
		Span:      g.ctx.captureSpan(2),
		Data:      &SwitchData{Target: target, Cases: cases},
	}
	for _, c := range cases {
		for _, child := range c.Body {
			g.registerStmt(child)
		}
	}
	return s, nil
}

// Sequential builds a clocked always block; every sensitivity var must
// be exactly 1 bit wide (§4.2), and its body may not mix Blocking and
// NonBlocking assignments.
func (g *Generator) Sequential(sens []SensItem, body []*Stmt) (*Stmt, error) {
	for _, item := range sens {
		if item.Clock.Width != 1 {
			err := fmt.Errorf("generator %q: sensitivity var %q must be 1 bit wide, got %d", g.Name, item.Clock.Name, item.Clock.Width)
			g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
			return nil, err
		}
	}
	if _, err := checkNoMixedAssignment(body); err != nil {
		g.ctx.report(diag.SevError, diag.MixedAssignment, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	s := &Stmt{
		Kind:      StmtSequential,
		Generator: g,
		Span:      g.ctx.captureSpan(2),
		Data:      &BlockData{Sensitivity: sens, Body: body},
	}
	for _, child := range body {
		g.registerStmt(child)
	}
	return s, nil
}

// Combinational builds an always_comb-equivalent block with the same
// mixed-assignment restriction as Sequential.
func (g *Generator) Combinational(body []*Stmt) (*Stmt, error) {
	if _, err := checkNoMixedAssignment(body); err != nil {
		g.ctx.report(diag.SevError, diag.MixedAssignment, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	s := &Stmt{
		Kind:      StmtCombinational,
		Generator: g,
		Span:      g.ctx.captureSpan(2),
		Data:      &BlockData{Body: body},
	}
	for _, child := range body {
		g.registerStmt(child)
	}
	return s, nil
}

// Instantiate attaches target as a child module, registering it in g's
// child set so create_module_instantiation and hash_generators can reach
// it, and binding target's ports to external Vars via portMap.
func (g *Generator) Instantiate(target *Generator, instanceName string, portMap map[*Var]*Var, params map[string]int64) (*Stmt, error) {
	for port, ext := range portMap {
		if port.Generator != target {
			err := fmt.Errorf("generator %q: port %q in instantiation of %q does not belong to that module", g.Name, port.Name, target.Name)
			g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
			return nil, err
		}
		if port.Width != ext.Width {
			err := fmt.Errorf("generator %q: port %q width %d does not match connected var %q width %d", g.Name, port.Name, port.Width, ext.Name, ext.Width)
			g.ctx.report(diag.SevError, diag.WidthMismatch, g.ctx.captureSpan(2), err.Error())
			return nil, err
		}
	}
	s := &Stmt{
		Kind:      StmtModInst,
		Generator: g,
		Span:      g.ctx.captureSpan(2),
		Data:      &ModInstData{Target: target, PortMap: portMap, Params: params, InstanceName: instanceName},
	}
	g.addChild(target)
	return s, nil
}
