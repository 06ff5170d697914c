// Package examples holds a small registry of built-in circuits that
// cmd/kratos operates on, standing in for the host-language embedding
// layer (out of scope for this framework) that would otherwise build
// the IR before handing it to the pass manager and code generator.
package examples

import "kratos/internal/ir"

// Builder constructs a root Generator inside ctx.
type Builder func(ctx *ir.Context) (*ir.Generator, error)

var registry = map[string]Builder{
	"adder":   buildAdder,
	"counter": buildCounter,
	"mux":     buildMux,
}

// Names returns the registered example names in a fixed, stable order.
func Names() []string {
	return []string{"adder", "counter", "mux"}
}

// Lookup returns the Builder registered under name.
func Lookup(name string) (Builder, bool) {
	b, ok := registry[name]
	return b, ok
}

// buildAdder is a purely combinational module: sum = a + b.
func buildAdder(ctx *ir.Context) (*ir.Generator, error) {
	g := ctx.Generator("adder")
	a, err := g.Port(ir.DirIn, "a", 8, ir.PortNone, false)
	if err != nil {
		return nil, err
	}
	b, err := g.Port(ir.DirIn, "b", 8, ir.PortNone, false)
	if err != nil {
		return nil, err
	}
	sum, err := g.Port(ir.DirOut, "sum", 8, ir.PortNone, false)
	if err != nil {
		return nil, err
	}
	addExpr, err := g.BinaryOp(ir.OpAdd, a, b)
	if err != nil {
		return nil, err
	}
	assign, err := sum.Assign(addExpr, ir.Blocking)
	if err != nil {
		return nil, err
	}
	g.AddStmt(assign)
	return g, nil
}

// buildCounter is a sequential module: an 8-bit free-running counter
// that clears on rst_n.
func buildCounter(ctx *ir.Context) (*ir.Generator, error) {
	g := ctx.Generator("counter")
	clk, err := g.Port(ir.DirIn, "clk", 1, ir.PortClock, false)
	if err != nil {
		return nil, err
	}
	rstN, err := g.Port(ir.DirIn, "rst_n", 1, ir.PortAsyncReset, false)
	if err != nil {
		return nil, err
	}
	count, err := g.Port(ir.DirOut, "count", 8, ir.PortNone, false)
	if err != nil {
		return nil, err
	}

	one, err := g.Constant(1, 8, false)
	if err != nil {
		return nil, err
	}
	zero, err := g.Constant(0, 8, false)
	if err != nil {
		return nil, err
	}
	next, err := g.BinaryOp(ir.OpAdd, count, one)
	if err != nil {
		return nil, err
	}

	incr, err := count.Assign(next, ir.NonBlocking)
	if err != nil {
		return nil, err
	}
	clear, err := count.Assign(zero, ir.NonBlocking)
	if err != nil {
		return nil, err
	}
	notRstN, err := g.UnaryOp(ir.OpInvert, rstN)
	if err != nil {
		return nil, err
	}
	ifStmt, err := g.If(notRstN, []*ir.Stmt{clear}, []*ir.Stmt{incr})
	if err != nil {
		return nil, err
	}

	sens := []ir.SensItem{{Edge: ir.Posedge, Clock: clk}}
	seq, err := g.Sequential(sens, []*ir.Stmt{ifStmt})
	if err != nil {
		return nil, err
	}
	g.AddStmt(seq)
	return g, nil
}

// buildMux is a 2-way combinational select, exercised through a
// case/switch statement so every codegen path gets coverage.
func buildMux(ctx *ir.Context) (*ir.Generator, error) {
	g := ctx.Generator("mux")
	sel, err := g.Port(ir.DirIn, "sel", 1, ir.PortNone, false)
	if err != nil {
		return nil, err
	}
	a, err := g.Port(ir.DirIn, "a", 4, ir.PortNone, false)
	if err != nil {
		return nil, err
	}
	b, err := g.Port(ir.DirIn, "b", 4, ir.PortNone, false)
	if err != nil {
		return nil, err
	}
	out, err := g.Port(ir.DirOut, "out", 4, ir.PortNone, false)
	if err != nil {
		return nil, err
	}

	zero, err := g.Constant(0, 1, false)
	if err != nil {
		return nil, err
	}
	assignA, err := out.Assign(a, ir.Blocking)
	if err != nil {
		return nil, err
	}
	assignB, err := out.Assign(b, ir.Blocking)
	if err != nil {
		return nil, err
	}

	sw, err := g.Switch(sel, []ir.SwitchCase{
		{Value: zero, Body: []*ir.Stmt{assignA}},
		{IsDefault: true, Body: []*ir.Stmt{assignB}},
	})
	if err != nil {
		return nil, err
	}
	comb, err := g.Combinational([]*ir.Stmt{sw})
	if err != nil {
		return nil, err
	}
	g.AddStmt(comb)
	return g, nil
}
