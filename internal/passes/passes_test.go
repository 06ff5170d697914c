package passes

import (
	"testing"

	"kratos/internal/ir"
)

func TestRemovePassThroughModules_RewritesInstantiationSite(t *testing.T) {
	ctx := ir.NewContext()
	child := ctx.Generator("buf")
	cin, err := child.Port(ir.DirIn, "in", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port(in): %v", err)
	}
	cout, err := child.Port(ir.DirOut, "out", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port(out): %v", err)
	}
	passThrough, err := cout.Assign(cin, ir.Blocking)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	child.AddStmt(passThrough)

	top := ctx.Generator("top")
	src, _ := top.Var("src", 4, false)
	dst, _ := top.Var("dst", 4, false)
	inst, err := top.Instantiate(child, "u_buf", map[*ir.Var]*ir.Var{cin: src, cout: dst}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	top.AddStmt(inst)

	if err := removePassThroughModules(ctx, true); err != nil {
		t.Fatalf("removePassThroughModules: %v", err)
	}

	for _, s := range top.Stmts() {
		if s.Kind == ir.StmtModInst {
			t.Fatalf("expected the pass-through instantiation to be removed")
		}
	}
	found := false
	for _, s := range top.Stmts() {
		if s.Kind == ir.StmtAssign && s.AsAssign().Left == dst && s.AsAssign().Right == src {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dst = src to replace the pass-through instance")
	}
}

func TestRemovePassThroughModules_DisabledIsNoop(t *testing.T) {
	ctx := ir.NewContext()
	child := ctx.Generator("buf")
	cin, _ := child.Port(ir.DirIn, "in", 4, ir.PortNone, false)
	cout, _ := child.Port(ir.DirOut, "out", 4, ir.PortNone, false)
	passThrough, _ := cout.Assign(cin, ir.Blocking)
	child.AddStmt(passThrough)

	top := ctx.Generator("top")
	src, _ := top.Var("src", 4, false)
	dst, _ := top.Var("dst", 4, false)
	inst, _ := top.Instantiate(child, "u_buf", map[*ir.Var]*ir.Var{cin: src, cout: dst}, nil)
	top.AddStmt(inst)

	if err := removePassThroughModules(ctx, false); err != nil {
		t.Fatalf("removePassThroughModules: %v", err)
	}
	if len(top.Stmts()) != 1 || top.Stmts()[0].Kind != ir.StmtModInst {
		t.Errorf("expected the instantiation to survive when disabled")
	}
}

func TestTransformIfToCase_ConvertsEqualityChain(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	sel, _ := g.Var("sel", 2, false)
	out, _ := g.Var("out", 4, false)
	c0, _ := g.Constant(0, 2, false)
	c1, _ := g.Constant(1, 2, false)
	v0, _ := g.Constant(0, 4, false)
	v1, _ := g.Constant(1, 4, false)

	pred0, _ := g.BinaryOp(ir.OpEq, sel, c0)
	pred1, _ := g.BinaryOp(ir.OpEq, sel, c1)
	a0, _ := out.Assign(v0, ir.Blocking)
	a1, _ := out.Assign(v1, ir.Blocking)

	inner, err := g.If(pred1, []*ir.Stmt{a1}, nil)
	if err != nil {
		t.Fatalf("If(inner): %v", err)
	}
	outer, err := g.If(pred0, []*ir.Stmt{a0}, []*ir.Stmt{inner})
	if err != nil {
		t.Fatalf("If(outer): %v", err)
	}
	g.AddStmt(outer)

	if err := transformIfToCase(ctx, true); err != nil {
		t.Fatalf("transformIfToCase: %v", err)
	}
	if len(g.Stmts()) != 1 || g.Stmts()[0].Kind != ir.StmtSwitch {
		t.Fatalf("expected the If chain to collapse into a single Switch, got %#v", g.Stmts())
	}
	if got := len(g.Stmts()[0].AsSwitch().Cases); got != 2 {
		t.Errorf("expected 2 cases, got %d", got)
	}
}

func TestTransformIfToCase_DisabledLeavesIfAlone(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	sel, _ := g.Var("sel", 2, false)
	out, _ := g.Var("out", 4, false)
	c0, _ := g.Constant(0, 2, false)
	v0, _ := g.Constant(0, 4, false)
	pred0, _ := g.BinaryOp(ir.OpEq, sel, c0)
	a0, _ := out.Assign(v0, ir.Blocking)
	outer, _ := g.If(pred0, []*ir.Stmt{a0}, nil)
	g.AddStmt(outer)

	if err := transformIfToCase(ctx, false); err != nil {
		t.Fatalf("transformIfToCase: %v", err)
	}
	if g.Stmts()[0].Kind != ir.StmtIf {
		t.Errorf("expected the If to survive when the pass is disabled")
	}
}

func TestZeroOutStubs_DrivesUndrivenExternalOutput(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("ext")
	g.External = true
	out, err := g.Port(ir.DirOut, "q", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}

	if err := zeroOutStubs(ctx); err != nil {
		t.Fatalf("zeroOutStubs: %v", err)
	}
	if !out.HasSinks() {
		t.Errorf("expected the stub output to be driven by a zero constant")
	}
}

func TestZeroOutStubs_IgnoresNonExternalGenerators(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	out, _ := g.Port(ir.DirOut, "q", 4, ir.PortNone, false)

	if err := zeroOutStubs(ctx); err != nil {
		t.Fatalf("zeroOutStubs: %v", err)
	}
	if out.HasSinks() {
		t.Errorf("zeroOutStubs should not touch non-External generators")
	}
}

func TestDecoupleGeneratorPorts_InsertsIntermediateWire(t *testing.T) {
	ctx := ir.NewContext()
	child := ctx.Generator("leaf")
	cin, err := child.Port(ir.DirIn, "d", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}

	top := ctx.Generator("top")
	outer, err := top.Port(ir.DirIn, "outer", 4, ir.PortNone, false)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}
	inst, err := top.Instantiate(child, "u_leaf", map[*ir.Var]*ir.Var{cin: outer}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	top.AddStmt(inst)

	if err := decoupleGeneratorPorts(ctx); err != nil {
		t.Fatalf("decoupleGeneratorPorts: %v", err)
	}
	if inst.AsModInst().PortMap[cin] == outer {
		t.Errorf("expected the direct port connection to be replaced with an intermediate wire")
	}
	foundAssign := false
	for _, s := range top.Stmts() {
		if s.Kind == ir.StmtAssign && s.AsAssign().Right == outer {
			foundAssign = true
		}
	}
	if !foundAssign {
		t.Errorf("expected a wire = outer assignment to feed the new intermediate wire")
	}
}

func TestRemoveUnusedVars_DeletesDeadBaseVar(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	if _, err := g.Var("dead", 4, false); err != nil {
		t.Fatalf("Var: %v", err)
	}

	if err := removeUnusedVars(ctx); err != nil {
		t.Fatalf("removeUnusedVars: %v", err)
	}
	if _, ok := g.Lookup("dead"); ok {
		t.Errorf("expected the unused var to be removed")
	}
}

func TestRemoveUnusedVars_KeepsConnectedVar(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	src, _ := g.Var("src", 4, false)
	dst, _ := g.Var("dst", 4, false)
	assign, _ := dst.Assign(src, ir.Blocking)
	g.AddStmt(assign)

	if err := removeUnusedVars(ctx); err != nil {
		t.Fatalf("removeUnusedVars: %v", err)
	}
	if _, ok := g.Lookup("src"); !ok {
		t.Errorf("expected a var with sinks/sources to survive")
	}
}

func TestVerifyAssignments_FlagsWrongDisciplineInSequentialBlock(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	clk, _ := g.Port(ir.DirIn, "clk", 1, ir.PortClock, false)
	q, _ := g.Var("q", 4, false)
	d, _ := g.Var("d", 4, false)
	assign, err := q.Assign(d, ir.Blocking)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	seq, err := g.Sequential([]ir.SensItem{{Edge: ir.Posedge, Clock: clk}}, []*ir.Stmt{assign})
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	g.AddStmt(seq)

	if err := verifyAssignments(ctx); err == nil {
		t.Errorf("expected a Blocking assign inside a Sequential block to be flagged")
	}
}

func TestVerifyAssignments_AcceptsWellFormedTree(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	a, _ := g.Var("a", 4, false)
	b, _ := g.Var("b", 4, false)
	assign, _ := b.Assign(a, ir.Blocking)
	g.AddStmt(assign)

	if err := verifyAssignments(ctx); err != nil {
		t.Errorf("verifyAssignments: unexpected error %v", err)
	}
}

func TestMergeWireAssignments_CoalescesFullPartition(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	src, _ := g.Var("src", 8, false)
	dst, _ := g.Var("dst", 8, false)

	srcLo, err := src.Slice(3, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	srcHi, err := src.Slice(7, 4)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	dstLo, err := dst.Slice(3, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	dstHi, err := dst.Slice(7, 4)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	a1, _ := dstLo.Assign(srcLo, ir.Blocking)
	a2, _ := dstHi.Assign(srcHi, ir.Blocking)
	g.AddStmt(a1)
	g.AddStmt(a2)

	if err := mergeWireAssignments(ctx); err != nil {
		t.Fatalf("mergeWireAssignments: %v", err)
	}
	if len(g.Stmts()) != 1 {
		t.Fatalf("expected the two slice assigns to merge into one, got %d stmts", len(g.Stmts()))
	}
	merged := g.Stmts()[0].AsAssign()
	if merged.Left != dst || merged.Right != src {
		t.Errorf("expected dst = src as the merged assignment, got %s = %s", merged.Left.Name, merged.Right.Name)
	}
}

func TestMergeWireAssignments_LeavesPartialPartitionAlone(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.Generator("m")
	src, _ := g.Var("src", 8, false)
	dst, _ := g.Var("dst", 8, false)
	srcLo, _ := src.Slice(3, 0)
	dstLo, _ := dst.Slice(3, 0)
	a1, _ := dstLo.Assign(srcLo, ir.Blocking)
	g.AddStmt(a1)

	if err := mergeWireAssignments(ctx); err != nil {
		t.Fatalf("mergeWireAssignments: %v", err)
	}
	if len(g.Stmts()) != 1 || g.Stmts()[0].Kind != ir.StmtAssign || g.Stmts()[0].AsAssign().Left != dstLo {
		t.Errorf("expected the lone partial slice assign to be left untouched")
	}
}

func TestHashGenerators_SequentialAndParallelAgree(t *testing.T) {
	build := func() *ir.Context {
		ctx := ir.NewContext()
		g := ctx.Generator("m")
		a, _ := g.Var("a", 4, false)
		b, _ := g.Var("b", 4, false)
		assign, _ := b.Assign(a, ir.Blocking)
		g.AddStmt(assign)
		return ctx
	}

	seqCtx := build()
	if err := hashGenerators(seqCtx, HashSequential); err != nil {
		t.Fatalf("hashGenerators(Sequential): %v", err)
	}
	seqGen, _ := seqCtx.LookupGenerator("m")

	parCtx := build()
	if err := hashGenerators(parCtx, HashParallel); err != nil {
		t.Fatalf("hashGenerators(Parallel): %v", err)
	}
	parGen, _ := parCtx.LookupGenerator("m")

	if !seqGen.HashValid || !parGen.HashValid {
		t.Fatalf("expected both strategies to leave HashValid set")
	}
	if seqGen.Hash != parGen.Hash {
		t.Errorf("expected identical structural hashes from both strategies, got %d vs %d", seqGen.Hash, parGen.Hash)
	}
}

func TestUniquifyGenerators_CollapsesStructurallyIdenticalGenerators(t *testing.T) {
	ctx := ir.NewContext()
	buildLeaf := func(name string) *ir.Generator {
		g := ctx.Generator(name)
		in, _ := g.Port(ir.DirIn, "d", 4, ir.PortNone, false)
		out, _ := g.Port(ir.DirOut, "q", 4, ir.PortNone, false)
		assign, _ := out.Assign(in, ir.Blocking)
		g.AddStmt(assign)
		return g
	}
	leafA := buildLeaf("leafA")
	leafB := buildLeaf("leafB")

	top := ctx.Generator("top")
	w1, _ := top.Var("w1", 4, false)
	w2, _ := top.Var("w2", 4, false)
	w3, _ := top.Var("w3", 4, false)
	w4, _ := top.Var("w4", 4, false)

	instA, err := top.Instantiate(leafA, "u_a", map[*ir.Var]*ir.Var{leafA.Ports()[0]: w1, leafA.Ports()[1]: w2}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	instB, err := top.Instantiate(leafB, "u_b", map[*ir.Var]*ir.Var{leafB.Ports()[0]: w3, leafB.Ports()[1]: w4}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	top.AddStmt(instA)
	top.AddStmt(instB)

	if err := uniquifyGenerators(ctx); err != nil {
		t.Fatalf("uniquifyGenerators: %v", err)
	}
	if instA.AsModInst().Target != instB.AsModInst().Target {
		t.Errorf("expected both instances to target the same canonical Generator")
	}
}

func TestCreateModuleInstantiation_FlagsUnconnectedPort(t *testing.T) {
	ctx := ir.NewContext()
	leaf := ctx.Generator("leaf")
	inPort, _ := leaf.Port(ir.DirIn, "d", 1, ir.PortNone, false)
	leaf.Port(ir.DirOut, "q", 1, ir.PortNone, false)

	top := ctx.Generator("top")
	w, _ := top.Var("w", 1, false)
	inst, err := top.Instantiate(leaf, "u_leaf", map[*ir.Var]*ir.Var{inPort: w}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	top.AddStmt(inst)

	if err := createModuleInstantiation(ctx); err == nil {
		t.Errorf("expected an error for the unconnected output port")
	}
}

func TestCreateModuleInstantiation_AcceptsFullyConnectedInstance(t *testing.T) {
	ctx := ir.NewContext()
	leaf := ctx.Generator("leaf")
	inPort, _ := leaf.Port(ir.DirIn, "d", 1, ir.PortNone, false)
	outPort, _ := leaf.Port(ir.DirOut, "q", 1, ir.PortNone, false)

	top := ctx.Generator("top")
	w1, _ := top.Var("w1", 1, false)
	w2, _ := top.Var("w2", 1, false)
	inst, err := top.Instantiate(leaf, "u_leaf", map[*ir.Var]*ir.Var{inPort: w1, outPort: w2}, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	top.AddStmt(inst)

	if err := createModuleInstantiation(ctx); err != nil {
		t.Errorf("createModuleInstantiation: unexpected error %v", err)
	}
}
