package passes

import "kratos/internal/ir"

// uniquifyGenerators groups Generators sharing a hash_generators result
// and, for any group with more than one member, verifies full structural
// equality (never trusting the hash alone, per §4.4 pass 13) before
// collapsing the group onto its first-registered member. Every
// ModuleInstantiationStmt referencing a collapsed Generator is repointed
// at the canonical one, remapping its port connections positionally
// since structural equality guarantees the port lists correspond 1:1 in
// declaration order.
func uniquifyGenerators(ctx *ir.Context) error {
	gens := ctx.Generators()
	memo := make(map[*ir.Generator]uint64)
	for _, g := range gens {
		computeHashSequential(g, memo)
	}

	byHash := make(map[uint64][]*ir.Generator)
	var order []uint64
	for _, g := range gens {
		h := memo[g]
		if _, ok := byHash[h]; !ok {
			order = append(order, h)
		}
		byHash[h] = append(byHash[h], g)
	}

	canonicalOf := make(map[*ir.Generator]*ir.Generator)
	for _, h := range order {
		group := byHash[h]
		if len(group) < 2 {
			continue
		}
		canonical := group[0]
		canonicalEnc := encodeString(canonical, memo)
		for _, dup := range group[1:] {
			if encodeString(dup, memo) != canonicalEnc {
				continue // hash collision without structural equality: leave both
			}
			if !samePortShape(canonical, dup) {
				continue
			}
			canonicalOf[dup] = canonical
		}
	}
	if len(canonicalOf) == 0 {
		return nil
	}

	for _, g := range gens {
		var insts []*ir.Stmt
		collectModInsts(g.Stmts(), &insts)
		for _, s := range insts {
			d := s.AsModInst()
			canonical, ok := canonicalOf[d.Target]
			if !ok {
				continue
			}
			remapInstance(g, d, canonical)
		}
	}
	return nil
}

// samePortShape reports whether a and b declare the same number of
// ports with matching direction, width and signedness in order; it is a
// cheap guard on top of the full structural-equality check above.
func samePortShape(a, b *ir.Generator) bool {
	ap, bp := a.Ports(), b.Ports()
	if len(ap) != len(bp) {
		return false
	}
	for i := range ap {
		if ap[i].PortDirection() != bp[i].PortDirection() || ap[i].Width != bp[i].Width || ap[i].IsSigned != bp[i].IsSigned {
			return false
		}
	}
	return true
}

func remapInstance(parent *ir.Generator, d *ir.ModInstData, canonical *ir.Generator) {
	dupPorts := d.Target.Ports()
	canonicalPorts := canonical.Ports()
	index := make(map[*ir.Var]int, len(dupPorts))
	for i, p := range dupPorts {
		index[p] = i
	}
	remapped := make(map[*ir.Var]*ir.Var, len(d.PortMap))
	for p, ext := range d.PortMap {
		if i, ok := index[p]; ok && i < len(canonicalPorts) {
			remapped[canonicalPorts[i]] = ext
		}
	}
	parent.RemoveChild(d.Target)
	d.Target = canonical
	d.PortMap = remapped
	parent.AddChild(canonical)
}
