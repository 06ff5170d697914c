package ir

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"kratos/internal/diag"
)

// checkConstFits reports whether value fits in a width-bit integer under
// the given signedness, mirroring the range checks the generated
// SystemVerilog literal must itself respect.
func checkConstFits(value int64, width uint32, signed bool) error {
	if width == 0 {
		return fmt.Errorf("width must be >= 1, got 0")
	}
	if width >= 64 {
		return nil
	}
	if signed {
		lo := -(int64(1) << (width - 1))
		hi := int64(1)<<(width-1) - 1
		if value < lo || value > hi {
			return fmt.Errorf("value %d does not fit in signed %d-bit range [%d, %d]", value, width, lo, hi)
		}
		return nil
	}
	if value < 0 {
		return fmt.Errorf("value %d does not fit in unsigned %d-bit width", value, width)
	}
	hi := int64(1)<<width - 1
	if value > hi {
		return fmt.Errorf("value %d does not fit in unsigned %d-bit range [0, %d]", value, width, hi)
	}
	return nil
}

// maxBitWidth is the largest width a Var's uint32 Width can hold;
// widthAsInt converts a width to int through safecast.Convert rather
// than a raw uint32->int conversion.
const maxBitWidth = math.MaxUint32

func widthAsInt(w uint32) (int, error) {
	return safecast.Convert[int](w)
}

func max(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// BinaryOp resolves a op b to a shared Expr Var: constants on either side
// are coerced into g's constant pool first, then the (op, left, right)
// triple is looked up in g's expression table before allocating (§4.1).
func (g *Generator) BinaryOp(op ExprOp, left, right *Var) (*Var, error) {
	coerce := func(x *Var) (*Var, error) {
		if x.Kind != KindConst || x.Generator == g {
			return x, nil
		}
		return g.Constant(x.ConstValue(), x.Width, x.IsSigned)
	}
	var err error
	if left, err = coerce(left); err != nil {
		return nil, err
	}
	if right, err = coerce(right); err != nil {
		return nil, err
	}
	if left.Generator != g || right.Generator != g {
		err := fmt.Errorf("generator %q: operands of %s must share the enclosing Generator", g.Name, op.sv())
		g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	key := exprKey{op: op, left: left.ID, right: right.ID}
	if v, ok := g.exprTable[key]; ok {
		return v, nil
	}
	width := op.resultWidth(left.Width, right.Width)
	signed := op.resultSigned(left.IsSigned)
	v := g.newVar(displayBinary(op, left, right), width, signed, KindExpr, ExprData{Op: op, Left: left, Right: right})
	left.addConsumer(v)
	right.addConsumer(v)
	g.exprTable[key] = v
	return v, nil
}

// UnaryOp is BinaryOp's single-operand counterpart; the table key's right
// field is left at its zero VarID, which cannot collide with a real
// operand ID because IDs are allocated from 1.
func (g *Generator) UnaryOp(op ExprOp, operand *Var) (*Var, error) {
	if operand.Generator != g {
		err := fmt.Errorf("generator %q: operand of %s must belong to the enclosing Generator", g.Name, op.sv())
		g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	key := exprKey{op: op, left: operand.ID}
	if v, ok := g.exprTable[key]; ok {
		return v, nil
	}
	width := op.resultWidth(operand.Width, 0)
	signed := op.resultSigned(operand.IsSigned)
	v := g.newVar(displayUnary(op, operand), width, signed, KindExpr, ExprData{Op: op, Left: operand})
	operand.addConsumer(v)
	g.exprTable[key] = v
	return v, nil
}

// Slice returns a cached bit-range view of v, rewrapping an existing
// Slice relative to its underlying base Var rather than nesting views
// (§4.1: "rewrapping an existing Slice narrows the window").
func (v *Var) Slice(high, low uint32) (*Var, error) {
	base, baseHigh, baseLow := v, high, low
	if v.Kind == KindSlice {
		parent := v.SliceParent()
		base = parent
		baseHigh = v.SliceLow() + high
		baseLow = v.SliceLow() + low
	}
	if low > high || high >= v.Width {
		err := fmt.Errorf("slice [%d:%d] out of range for %q (width %d)", high, low, v.Name, v.Width)
		base.Generator.ctx.report(diag.SevError, diag.StructuralError, base.Generator.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	key := sliceKey{High: baseHigh, Low: baseLow}
	if base.sliceCache == nil {
		base.sliceCache = make(map[sliceKey]*Var)
	}
	if s, ok := base.sliceCache[key]; ok {
		return s, nil
	}
	width := baseHigh - baseLow + 1
	s := base.Generator.newVar(displaySlice(base, baseHigh, baseLow), width, base.IsSigned, KindSlice, SliceData{Parent: base, High: baseHigh, Low: baseLow})
	base.sliceCache[key] = s
	base.addConsumer(s)
	return s, nil
}

// Bit is a convenience single-bit Slice.
func (v *Var) Bit(index uint32) (*Var, error) { return v.Slice(index, index) }

// Concat builds a new MSB-first concatenation node on every call; a
// Concat passed as an operand is nested as one element, not flattened.
// AppendConcat is the operation that extends an existing Concat in place.
func (g *Generator) Concat(vars ...*Var) (*Var, error) {
	if len(vars) == 0 {
		err := fmt.Errorf("generator %q: concat requires at least one operand", g.Name)
		g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
		return nil, err
	}
	width := uint32(0)
	for _, v := range vars {
		if v.Generator != g {
			err := fmt.Errorf("generator %q: concat operand %q belongs to a different Generator", g.Name, v.Name)
			g.ctx.report(diag.SevError, diag.StructuralError, g.ctx.captureSpan(2), err.Error())
			return nil, err
		}
		width += v.Width
	}
	v := g.newVar("", width, false, KindConcat, ConcatData{Vars: append([]*Var{}, vars...)})
	v.Name = displayConcat(v.ConcatVars())
	for _, operand := range vars {
		operand.addConsumer(v)
	}
	return v, nil
}

// AppendConcat extends an existing Concat in place, per §4.1.
func (v *Var) AppendConcat(more ...*Var) error {
	if v.Kind != KindConcat {
		return fmt.Errorf("%q is not a Concat", v.Name)
	}
	d := v.Data.(ConcatData)
	for _, m := range more {
		d.Vars = append(d.Vars, m)
		v.Width += m.Width
		m.addConsumer(v)
	}
	v.Data = d
	v.Name = displayConcat(d.Vars)
	return nil
}

// Cast returns v's cached Casted view for kind, allocating on first use.
// A Var carries at most one Casted per CastKind (§4.1).
func (v *Var) Cast(kind CastKind) *Var {
	if v.castCache == nil {
		v.castCache = make(map[CastKind]*Var)
	}
	if c, ok := v.castCache[kind]; ok {
		return c
	}
	signed := v.IsSigned
	if kind == CastSigned {
		signed = true
	}
	c := v.Generator.newVar(displayCast(v, kind), v.Width, signed, KindCast, CastData{Parent: v, Kind: kind})
	v.castCache[kind] = c
	v.addConsumer(c)
	return c
}
