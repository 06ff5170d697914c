package passes

import "kratos/internal/ir"

// zeroOutStubs inserts a Const-0 source on every output Port of an
// External Generator that is declared but not driven, so downstream
// connectivity checks see a fully connected instance even though the
// External module's own body is opaque to this IR (§4.4 pass 4).
func zeroOutStubs(ctx *ir.Context) error {
	for _, g := range ctx.Generators() {
		if !g.External {
			continue
		}
		for _, port := range g.Ports() {
			if port.PortDirection() != ir.DirOut || port.HasSources() {
				continue
			}
			zero, err := g.Constant(0, port.Width, port.IsSigned)
			if err != nil {
				return err
			}
			assign, err := port.Assign(zero, ir.Blocking)
			if err != nil {
				return err
			}
			g.AddStmt(assign)
		}
	}
	return nil
}
