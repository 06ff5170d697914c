package ir

import "testing"

func newTestGenerator(t *testing.T) (*Context, *Generator) {
	t.Helper()
	ctx := NewContext()
	g := ctx.Generator("adder")
	return ctx, g
}

func TestBinaryOp_WidthAndSign(t *testing.T) {
	tests := []struct {
		name       string
		op         ExprOp
		leftWidth  uint32
		rightWidth uint32
		leftSigned bool
		wantWidth  uint32
		wantSigned bool
	}{
		{"add takes max width", OpAdd, 4, 8, false, 8, false},
		{"lt yields one bit", OpLt, 8, 8, true, 1, true},
		{"shift keeps left width", OpShiftLeft, 16, 4, false, 16, false},
		{"signed shift right forces signed", OpSignedShiftRight, 16, 4, false, 16, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, g := newTestGenerator(t)
			a, err := g.Var("a", tt.leftWidth, tt.leftSigned)
			if err != nil {
				t.Fatalf("Var(a): %v", err)
			}
			b, err := g.Var("b", tt.rightWidth, false)
			if err != nil {
				t.Fatalf("Var(b): %v", err)
			}
			e, err := g.BinaryOp(tt.op, a, b)
			if err != nil {
				t.Fatalf("BinaryOp: %v", err)
			}
			if e.Width != tt.wantWidth {
				t.Errorf("width = %d, want %d", e.Width, tt.wantWidth)
			}
			if e.IsSigned != tt.wantSigned {
				t.Errorf("signed = %v, want %v", e.IsSigned, tt.wantSigned)
			}
		})
	}
}

func TestBinaryOp_Interning(t *testing.T) {
	_, g := newTestGenerator(t)
	a, _ := g.Var("a", 8, false)
	b, _ := g.Var("b", 8, false)

	e1, err := g.BinaryOp(OpAdd, a, b)
	if err != nil {
		t.Fatalf("BinaryOp: %v", err)
	}
	e2, err := g.BinaryOp(OpAdd, a, b)
	if err != nil {
		t.Fatalf("BinaryOp: %v", err)
	}
	if e1 != e2 {
		t.Errorf("BinaryOp(Add, a, b) did not dedup: %p != %p", e1, e2)
	}

	e3, err := g.BinaryOp(OpAdd, b, a)
	if err != nil {
		t.Fatalf("BinaryOp: %v", err)
	}
	if e3 == e1 {
		t.Errorf("BinaryOp(Add, b, a) should not alias BinaryOp(Add, a, b)")
	}
}

func TestBinaryOp_CrossGeneratorRejected(t *testing.T) {
	_, g1 := newTestGenerator(t)
	ctx2 := NewContext()
	g2 := ctx2.Generator("other")

	a, _ := g1.Var("a", 8, false)
	b, _ := g2.Var("b", 8, false)

	if _, err := g1.BinaryOp(OpAdd, a, b); err == nil {
		t.Errorf("expected error combining operands from different Generators")
	}
}

func TestSlice_Caching(t *testing.T) {
	_, g := newTestGenerator(t)
	v, _ := g.Var("v", 32, false)

	s1, err := v.Slice(7, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	s2, err := v.Slice(7, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if s1 != s2 {
		t.Errorf("Slice(7,0) did not return the cached Var")
	}
	if s1.Width != 8 {
		t.Errorf("width = %d, want 8", s1.Width)
	}
}

func TestSlice_RewrapNarrowsRelativeToBase(t *testing.T) {
	_, g := newTestGenerator(t)
	v, _ := g.Var("v", 32, false)

	outer, err := v.Slice(23, 8)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	inner, err := outer.Slice(7, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if inner.SliceParent() != v {
		t.Errorf("rewrapped slice should be rooted at the base Var, got parent %q", inner.SliceParent().Name)
	}
	if inner.SliceHigh() != 15 || inner.SliceLow() != 8 {
		t.Errorf("rewrapped slice = [%d:%d], want [15:8]", inner.SliceHigh(), inner.SliceLow())
	}
}

func TestSlice_OutOfRangeRejected(t *testing.T) {
	_, g := newTestGenerator(t)
	v, _ := g.Var("v", 8, false)
	if _, err := v.Slice(8, 0); err == nil {
		t.Errorf("expected out-of-range error for [8:0] on an 8-bit var")
	}
	if _, err := v.Slice(2, 5); err == nil {
		t.Errorf("expected error when low > high")
	}
}

func TestConcat_WidthAndAppend(t *testing.T) {
	_, g := newTestGenerator(t)
	a, _ := g.Var("a", 4, false)
	b, _ := g.Var("b", 4, false)
	c, _ := g.Var("c", 8, false)

	cat, err := g.Concat(a, b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if cat.Width != 8 {
		t.Errorf("width = %d, want 8", cat.Width)
	}

	if err := cat.AppendConcat(c); err != nil {
		t.Fatalf("AppendConcat: %v", err)
	}
	if cat.Width != 16 {
		t.Errorf("width after append = %d, want 16", cat.Width)
	}
	if len(cat.ConcatVars()) != 3 {
		t.Errorf("ConcatVars() has %d entries, want 3", len(cat.ConcatVars()))
	}
}

func TestCast_CachedPerKind(t *testing.T) {
	_, g := newTestGenerator(t)
	v, _ := g.Var("v", 1, false)

	c1 := v.Cast(CastClock)
	c2 := v.Cast(CastClock)
	if c1 != c2 {
		t.Errorf("Cast(CastClock) did not return the cached view")
	}
	c3 := v.Cast(CastSigned)
	if c3 == c1 {
		t.Errorf("Cast(CastSigned) should not alias Cast(CastClock)")
	}
	if !c3.IsSigned {
		t.Errorf("Cast(CastSigned) should mark the result signed")
	}
}

func TestConstant_FitsCheckAndInterning(t *testing.T) {
	_, g := newTestGenerator(t)

	c1, err := g.Constant(3, 4, false)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	c2, err := g.Constant(3, 4, false)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	if c1 != c2 {
		t.Errorf("Constant(3,4,false) did not intern")
	}

	if _, err := g.Constant(16, 4, false); err == nil {
		t.Errorf("expected WidthMismatch for 16 in an unsigned 4-bit constant")
	}
	if _, err := g.Constant(-1, 4, false); err == nil {
		t.Errorf("expected error for a negative unsigned constant")
	}
}

func TestPackedPort_ReportsStructName(t *testing.T) {
	_, g := newTestGenerator(t)

	p, err := g.PackedPort(DirIn, "cmd", 32, "cmd_t", PortNone, false)
	if err != nil {
		t.Fatalf("PackedPort: %v", err)
	}
	if !p.IsPacked() {
		t.Errorf("expected IsPacked() to be true")
	}
	if p.StructName() != "cmd_t" {
		t.Errorf("StructName() = %q, want %q", p.StructName(), "cmd_t")
	}

	plain, err := g.Port(DirOut, "out", 8, PortNone, false)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}
	if plain.IsPacked() {
		t.Errorf("expected an ordinary Port to report IsPacked() == false")
	}
}

func TestConstant_NameIsHexLiteral(t *testing.T) {
	_, g := newTestGenerator(t)

	c0, err := g.Constant(0, 2, false)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	if c0.Name != "2'h0" {
		t.Errorf("Name = %q, want %q", c0.Name, "2'h0")
	}

	c1, err := g.Constant(1, 2, false)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	if c1.Name != "2'h1" {
		t.Errorf("Name = %q, want %q", c1.Name, "2'h1")
	}

	signed, err := g.Constant(127, 8, true)
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	if signed.Name != "8'sh7f" {
		t.Errorf("Name = %q, want %q", signed.Name, "8'sh7f")
	}
}
