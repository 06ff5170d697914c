package passes

import (
	"fmt"

	"kratos/internal/diag"
	"kratos/internal/ir"
)

// verifyGeneratorConnectivity checks that every non-Input Port and every
// declared Var has at least one source, and warns about Input Ports with
// no sink anywhere in the body (§4.4 pass 9).
//
// InOut ports are not explicitly addressed by the port-direction rules
// (§9 Open Question): this resolves them to require BOTH a source (they
// can drive the instance) and a sink somewhere (they can be read), since
// an InOut that is never driven or never read is dead in either role.
func verifyGeneratorConnectivity(ctx *ir.Context) error {
	var firstErr error

	for _, g := range ctx.Generators() {
		for _, port := range g.Ports() {
			switch port.PortDirection() {
			case ir.DirOut:
				if !port.HasSources() {
					err := fmt.Errorf("generator %q: output port %q has no source", g.Name, port.Name)
					ctx.Report(diag.UnconnectedSignal, diag.SevError, port.Span, err.Error())
					if firstErr == nil {
						firstErr = err
					}
				}
			case ir.DirIn:
				if !port.HasSinks() {
					ctx.Report(diag.UnconnectedSignal, diag.SevWarning, port.Span, fmt.Sprintf("generator %q: input port %q is never read (dead)", g.Name, port.Name))
				}
			case ir.DirInOut:
				if !port.HasSources() {
					err := fmt.Errorf("generator %q: inout port %q has no source", g.Name, port.Name)
					ctx.Report(diag.UnconnectedSignal, diag.SevError, port.Span, err.Error())
					if firstErr == nil {
						firstErr = err
					}
				}
				if !port.HasSinks() {
					ctx.Report(diag.UnconnectedSignal, diag.SevWarning, port.Span, fmt.Sprintf("generator %q: inout port %q is never read (dead)", g.Name, port.Name))
				}
			}
		}
		for _, v := range g.BaseVars() {
			if !v.HasSources() {
				err := fmt.Errorf("generator %q: var %q has no source", g.Name, v.Name)
				ctx.Report(diag.UnconnectedSignal, diag.SevError, v.Span, err.Error())
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}
