package passes

import (
	"sort"

	"kratos/internal/ir"
)

// mergeWireAssignments coalesces a set of AssignStmts that together drive
// every bit of one Var from contiguous slices of a single source Var
// into one full-width assignment (§4.4 pass 11). Only Slice-to-Slice
// assignments sharing a base on both sides, identical AssignType, and a
// partition that exactly covers both bases are merged; anything short of
// a full, gapless partition is left alone.
func mergeWireAssignments(ctx *ir.Context) error {
	for _, g := range ctx.Generators() {
		groups := make(map[basePair][]*ir.Stmt)
		var order []basePair

		for _, s := range g.Stmts() {
			if s.Kind != ir.StmtAssign {
				continue
			}
			d := s.AsAssign()
			if d.Left.Kind != ir.KindSlice || d.Right.Kind != ir.KindSlice {
				continue
			}
			key := basePair{left: d.Left.SliceParent(), right: d.Right.SliceParent(), typ: d.Type}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], s)
		}

		merged := make(map[*ir.Stmt]bool)
		var additions []*ir.Stmt
		for _, key := range order {
			stmts := groups[key]
			if len(stmts) < 2 {
				continue
			}
			if !partitionsFully(stmts, key.left, key.right) {
				continue
			}
			full, err := key.left.Assign(key.right, key.typ)
			if err != nil {
				return err
			}
			additions = append(additions, full)
			for _, s := range stmts {
				merged[s] = true
				g.RemoveStmt(s)
			}
		}
		if len(merged) == 0 {
			continue
		}
		kept := make([]*ir.Stmt, 0, len(g.Stmts()))
		for _, s := range g.Stmts() {
			if !merged[s] {
				kept = append(kept, s)
			}
		}
		g.SetStmts(kept)
		for _, s := range additions {
			g.AddStmt(s)
		}
	}
	return nil
}

type basePair struct {
	left, right *ir.Var
	typ         ir.AssignType
}

// partitionsFully reports whether the Left slices of stmts, sorted by
// low bit, gaplessly cover left's full width, and the Right slices do
// the same for right in the same relative order.
func partitionsFully(stmts []*ir.Stmt, left, right *ir.Var) bool {
	type pair struct{ l, r *ir.Stmt }
	sorted := append([]*ir.Stmt{}, stmts...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AsAssign().Left.SliceLow() < sorted[j].AsAssign().Left.SliceLow()
	})

	wantLow := uint32(0)
	for _, s := range sorted {
		l := s.AsAssign().Left
		if l.SliceLow() != wantLow {
			return false
		}
		wantLow = l.SliceHigh() + 1
	}
	if wantLow != left.Width {
		return false
	}

	wantLow = 0
	for _, s := range sorted {
		r := s.AsAssign().Right
		if r.SliceLow() != wantLow {
			return false
		}
		wantLow = r.SliceHigh() + 1
	}
	return wantLow == right.Width
}
