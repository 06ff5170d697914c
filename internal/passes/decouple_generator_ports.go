package passes

import (
	"fmt"

	"kratos/internal/ir"
)

// decoupleGeneratorPorts materializes an intermediate wire on the parent
// side for every direct Port-to-Port connection at a ModuleInstantiationStmt
// (§4.4 pass 6), so codegen can always print a single identifier per port
// connection instead of special-casing a port-to-port passthrough.
//
// InOut ports are left connected directly: splitting them into a driven
// wire and a read wire would require two separate nets feeding the same
// bidirectional pin, which this IR has no way to reconcile (§9 Open
// Question), so decoupling here is restricted to DirIn/DirOut.
func decoupleGeneratorPorts(ctx *ir.Context) error {
	for _, g := range ctx.Generators() {
		var modInsts []*ir.Stmt
		collectModInsts(g.Stmts(), &modInsts)

		for _, s := range modInsts {
			data := s.AsModInst()
			for childPort, ext := range data.PortMap {
				if ext.Kind != ir.KindPort || ext.Generator != g {
					continue
				}
				if childPort.PortDirection() == ir.DirInOut {
					continue
				}

				wireName := fmt.Sprintf("_%s_%s", data.InstanceName, childPort.Name)
				wire, err := g.Var(wireName, childPort.Width, childPort.IsSigned)
				if err != nil {
					return err
				}

				var assign *ir.Stmt
				switch childPort.PortDirection() {
				case ir.DirIn:
					assign, err = wire.Assign(ext, ir.Blocking)
				case ir.DirOut:
					assign, err = ext.Assign(wire, ir.Blocking)
				}
				if err != nil {
					return err
				}
				g.AddStmt(assign)
				data.PortMap[childPort] = wire
			}
		}
	}
	return nil
}

func collectModInsts(stmts []*ir.Stmt, out *[]*ir.Stmt) {
	for _, s := range stmts {
		if s.Kind == ir.StmtModInst {
			*out = append(*out, s)
		}
		for _, body := range s.Children() {
			collectModInsts(body, out)
		}
	}
}
