package codegen

import (
	"fmt"
	"strings"

	"kratos/internal/ir"
)

// renderExpr renders v's value-graph structure as a standalone
// SystemVerilog expression, independent of the cosmetic Name the IR
// stamped on v at construction time. It must diverge from that Name for
// CastClock and CastAsyncReset: those are semantic tags with no SV
// operator, so the underlying operand is rendered unwrapped rather than
// through a fabricated "$clock(...)"/"$async_reset(...)" call.
func renderExpr(v *ir.Var) string {
	switch v.Kind {
	case ir.KindExpr:
		return renderExprOp(v)
	case ir.KindSlice:
		return renderSlice(v)
	case ir.KindConcat:
		return renderConcat(v)
	case ir.KindCast:
		return renderCast(v)
	case ir.KindConst:
		return renderConst(v)
	default: // KindBase, KindPort, KindParam
		return v.Name
	}
}

func renderExprOp(v *ir.Var) string {
	op := v.ExprOp()
	if op.IsUnary() {
		return fmt.Sprintf("(%s%s)", op.Symbol(), renderExpr(v.ExprLeft()))
	}
	return fmt.Sprintf("(%s %s %s)", renderExpr(v.ExprLeft()), op.Symbol(), renderExpr(v.ExprRight()))
}

func renderSlice(v *ir.Var) string {
	parent := renderExpr(v.SliceParent())
	high, low := v.SliceHigh(), v.SliceLow()
	if high == low {
		return fmt.Sprintf("%s[%d]", parent, high)
	}
	return fmt.Sprintf("%s[%d:%d]", parent, high, low)
}

func renderConcat(v *ir.Var) string {
	parts := v.ConcatVars()
	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = renderExpr(p)
	}
	return "{" + strings.Join(rendered, ", ") + "}"
}

func renderCast(v *ir.Var) string {
	parent := v.CastParent()
	switch v.CastKindOf() {
	case ir.CastSigned:
		return fmt.Sprintf("$signed(%s)", renderExpr(parent))
	default: // CastClock, CastAsyncReset: semantic-only, no SV wrapper
		return renderExpr(parent)
	}
}

func renderConst(v *ir.Var) string {
	return ir.ConstLiteral(v.ConstValue(), v.Width, v.IsSigned)
}
