package passes

import (
	"testing"

	"kratos/internal/ir"
)

func buildCombinationalAdder(t *testing.T) *ir.Context {
	t.Helper()
	ctx := ir.NewContext()
	g := ctx.Generator("adder")

	a, err := g.Port(ir.DirIn, "a", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port(a): %v", err)
	}
	b, err := g.Port(ir.DirIn, "b", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port(b): %v", err)
	}
	o, err := g.Port(ir.DirOut, "o", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port(o): %v", err)
	}
	sum, err := g.BinaryOp(ir.OpAdd, a, b)
	if err != nil {
		t.Fatalf("BinaryOp: %v", err)
	}
	assign, err := o.Assign(sum, ir.Undefined)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	g.AddStmt(assign)
	return ctx
}

func TestFixAssignmentType_TopLevelResolvesToBlocking(t *testing.T) {
	ctx := buildCombinationalAdder(t)
	if err := fixAssignmentType(ctx); err != nil {
		t.Fatalf("fixAssignmentType: %v", err)
	}
	g, _ := ctx.LookupGenerator("adder")
	stmt := g.Stmts()[0]
	if got := stmt.AsAssign().Type; got != ir.Blocking {
		t.Errorf("assign type = %v, want Blocking", got)
	}
}

func TestVerifyGeneratorConnectivity_FlagsUnconnectedOutput(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("leaf")
	if _, err := g.Port(ir.DirOut, "o", 1, ir.PortNone, false); err != nil {
		t.Fatalf("Port: %v", err)
	}
	if err := verifyGeneratorConnectivity(ctx); err == nil {
		t.Errorf("expected an UnconnectedSignal error for an undriven output port")
	}
}

func TestCheckMixedAssignment_Flags(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	x, _ := g.Var("x", 4, false)
	a, _ := g.Var("a", 4, false)
	b, _ := g.Var("b", 4, false)

	s1, _ := x.Assign(a, ir.Blocking)
	s2, _ := x.Assign(b, ir.NonBlocking)
	g.AddStmt(s1)
	g.AddStmt(s2)

	if err := checkMixedAssignment(ctx); err == nil {
		t.Errorf("expected MixedAssignment error driving x with both Blocking and NonBlocking")
	}
}

func TestUniquifyModuleInstances_DeduplicatesNames(t *testing.T) {
	ctx := ir.NewContext()
	leaf := ctx.Generator("leaf")
	if _, err := leaf.Port(ir.DirIn, "d", 1, ir.PortNone, false); err != nil {
		t.Fatalf("Port: %v", err)
	}
	top := ctx.Generator("top")
	w1, _ := top.Var("w1", 1, false)
	w2, _ := top.Var("w2", 1, false)

	leafPort, _ := leaf.Lookup("d")
	i1, err := top.Instantiate(leaf, "leaf", map[*ir.Var]*ir.Var{leafPort: w1}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	i2, err := top.Instantiate(leaf, "leaf", map[*ir.Var]*ir.Var{leafPort: w2}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	top.AddStmt(i1)
	top.AddStmt(i2)

	if err := uniquifyModuleInstances(ctx); err != nil {
		t.Fatalf("uniquifyModuleInstances: %v", err)
	}
	n1 := i1.AsModInst().InstanceName
	n2 := i2.AsModInst().InstanceName
	if n1 == n2 {
		t.Errorf("expected distinct instance names, got %q twice", n1)
	}
}

func TestRun_AbortsOnFirstFailure(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("leaf")
	if _, err := g.Port(ir.DirOut, "o", 1, ir.PortNone, false); err != nil {
		t.Fatalf("Port: %v", err)
	}

	opts := DefaultOptions()
	if err := Run(ctx, opts); err == nil {
		t.Errorf("expected Run to fail on the undriven output port")
	}
}

func TestRemoveFanoutOneWires_SplicesIntermediateWire(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	src, _ := g.Var("src", 4, false)
	wire, _ := g.Var("wire", 4, false)
	dst, _ := g.Var("dst", 4, false)

	a1, _ := wire.Assign(src, ir.Blocking)
	a2, _ := dst.Assign(wire, ir.Blocking)
	g.AddStmt(a1)
	g.AddStmt(a2)

	if err := removeFanoutOneWires(ctx, true); err != nil {
		t.Fatalf("removeFanoutOneWires: %v", err)
	}
	if len(g.Stmts()) != 1 {
		t.Fatalf("expected exactly one surviving statement, got %d", len(g.Stmts()))
	}
	remaining := g.Stmts()[0].AsAssign()
	if remaining.Left != dst || remaining.Right != src {
		t.Errorf("expected dst = src directly, got %s = %s", remaining.Left.Name, remaining.Right.Name)
	}
	if _, ok := g.Lookup("wire"); ok {
		t.Errorf("wire should have been removed from the declared-var index")
	}
}
