package diag

import "fmt"

// Code identifies the kind of a diagnostic. Values are grouped by the
// subsystem that raises them, leaving gaps between groups for growth.
type Code uint16

const (
	UnknownCode Code = 0

	// IR construction (C2/C3), raised by the ir package.
	WidthMismatch         Code = 1000
	SignednessMismatch    Code = 1001
	NameCollision         Code = 1002
	InvalidAssignmentType Code = 1003
	StructuralError       Code = 1004

	// Pass manager (C5), raised while rewriting or verifying the IR.
	MixedAssignment   Code = 2000
	UnconnectedSignal Code = 2001

	// External collaborators (§6).
	LookupFailure Code = 3000
)

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "unknown"
	case WidthMismatch:
		return "width-mismatch"
	case SignednessMismatch:
		return "signedness-mismatch"
	case NameCollision:
		return "name-collision"
	case InvalidAssignmentType:
		return "invalid-assignment-type"
	case StructuralError:
		return "structural-error"
	case MixedAssignment:
		return "mixed-assignment"
	case UnconnectedSignal:
		return "unconnected-signal"
	case LookupFailure:
		return "lookup-failure"
	default:
		return fmt.Sprintf("code(%d)", uint16(c))
	}
}
