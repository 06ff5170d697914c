package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// displayConst renders a constant's canonical Verilog-flavored literal,
// used both as the Var's Name and, indirectly, as a human-readable label
// in diagnostics.
func displayConst(value int64, width uint32, signed bool) string {
	return ConstLiteral(value, width, signed)
}

// ConstLiteral renders value as a sized hex literal (e.g. "2'h0",
// "8'sh7f"), the format §4.5/§8 specify for every emitted constant,
// including switch-case labels produced by transform_if_to_case. The
// value is masked to width bits first so a negative signed constant
// prints its two's-complement bit pattern rather than a "-" sign SV
// literals don't support.
func ConstLiteral(value int64, width uint32, signed bool) string {
	var mask uint64
	if width >= 64 {
		mask = ^uint64(0)
	} else {
		mask = uint64(1)<<width - 1
	}
	bits := uint64(value) & mask
	hexDigits := (width + 3) / 4
	if signed {
		return fmt.Sprintf("%d'sh%0*x", width, hexDigits, bits)
	}
	return fmt.Sprintf("%d'h%0*x", width, hexDigits, bits)
}

// displayBinary and displayUnary render an Expr's canonical infix/prefix
// form (§4.1 Display); this is purely cosmetic since Expr interning keys
// on (op, left.ID, right.ID), not on this string.
func displayBinary(op ExprOp, left, right *Var) string {
	return fmt.Sprintf("(%s %s %s)", left.Name, op.sv(), right.Name)
}

func displayUnary(op ExprOp, operand *Var) string {
	return fmt.Sprintf("(%s%s)", op.sv(), operand.Name)
}

// displaySlice renders parent[high:low], collapsing to parent[bit] when
// the slice is a single bit.
func displaySlice(parent *Var, high, low uint32) string {
	if high == low {
		return fmt.Sprintf("%s[%d]", parent.Name, high)
	}
	return fmt.Sprintf("%s[%d:%d]", parent.Name, high, low)
}

// displayConcat renders {v1, v2, ...} in MSB-first order.
func displayConcat(vars []*Var) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// displayCast renders the $signed(...)-style wrapper used when a Casted
// view is printed directly (e.g. in a diagnostic); codegen has its own
// dispatch for cast kinds when emitting into a module body.
func displayCast(parent *Var, kind CastKind) string {
	switch kind {
	case CastSigned:
		return fmt.Sprintf("$signed(%s)", parent.Name)
	case CastClock:
		return fmt.Sprintf("$clock(%s)", parent.Name)
	case CastAsyncReset:
		return fmt.Sprintf("$async_reset(%s)", parent.Name)
	default:
		return parent.Name
	}
}

// quoteIdent escapes an identifier for inclusion in a diagnostic message;
// kept separate from the SV emission path in internal/codegen, which
// never needs to escape since it controls identifier generation itself.
func quoteIdent(s string) string {
	return strconv.Quote(s)
}
