package passes

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"kratos/internal/ir"
)

// HashStrategy selects how hashGenerators walks the instantiation graph.
type HashStrategy int

const (
	HashSequential HashStrategy = iota
	HashParallel
)

// hashGenerators computes a structural hash of every Generator's ports,
// statements, and expressions in canonical declaration order (§4.4 pass
// 12). A child's hash is folded into its instantiation site's encoding
// rather than the child Generator's identity, so two Generators built
// under different names but with identical structure hash identically.
// Both strategies must (and do) produce the same hash for the same IR;
// Parallel only changes how child subtrees are scheduled.
func hashGenerators(ctx *ir.Context, strategy HashStrategy) error {
	gens := ctx.Generators()
	switch strategy {
	case HashParallel:
		memo := make(map[*ir.Generator]uint64)
		var mu sync.Mutex
		group := new(errgroup.Group)
		for _, g := range gens {
			g := g
			group.Go(func() error {
				_, err := computeHashParallel(g, memo, &mu)
				return err
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}
		for g, h := range memo {
			g.Rehash(h)
		}
		return nil
	default:
		memo := make(map[*ir.Generator]uint64)
		for _, g := range gens {
			computeHashSequential(g, memo)
		}
		for g, h := range memo {
			g.Rehash(h)
		}
		return nil
	}
}

func computeHashSequential(g *ir.Generator, memo map[*ir.Generator]uint64) uint64 {
	if h, ok := memo[g]; ok {
		return h
	}
	for _, c := range g.Children() {
		computeHashSequential(c, memo)
	}
	h := encodeAndHash(g, memo)
	memo[g] = h
	return h
}

func computeHashParallel(g *ir.Generator, memo map[*ir.Generator]uint64, mu *sync.Mutex) (uint64, error) {
	mu.Lock()
	if h, ok := memo[g]; ok {
		mu.Unlock()
		return h, nil
	}
	mu.Unlock()

	children := g.Children()
	group := new(errgroup.Group)
	for _, c := range children {
		c := c
		group.Go(func() error {
			_, err := computeHashParallel(c, memo, mu)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	mu.Lock()
	defer mu.Unlock()
	if h, ok := memo[g]; ok {
		return h, nil
	}
	h := encodeAndHash(g, memo)
	memo[g] = h
	return h, nil
}

func encodeAndHash(g *ir.Generator, memo map[*ir.Generator]uint64) uint64 {
	sum := sha256.Sum256([]byte(encodeString(g, memo)))
	return binary.BigEndian.Uint64(sum[:8])
}

// encodeString is the full canonical encoding encodeAndHash digests;
// uniquify_generators compares it directly rather than trusting the
// hash alone, since a 64-bit digest can in principle collide.
func encodeString(g *ir.Generator, memo map[*ir.Generator]uint64) string {
	var sb strings.Builder
	for _, p := range g.Ports() {
		fmt.Fprintf(&sb, "port:%s:%d:%d:%t\n", p.Name, p.PortDirection(), p.Width, p.IsSigned)
	}
	for _, v := range g.BaseVars() {
		fmt.Fprintf(&sb, "var:%s:%d:%t\n", v.Name, v.Width, v.IsSigned)
	}
	for _, pm := range g.Params() {
		fmt.Fprintf(&sb, "param:%s:%d:%t:%d\n", pm.Name, pm.Width, pm.IsSigned, pm.ParamValue())
	}
	for _, s := range g.Stmts() {
		encodeStmt(&sb, s, memo)
	}
	return sb.String()
}

func encodeStmt(sb *strings.Builder, s *ir.Stmt, memo map[*ir.Generator]uint64) {
	switch s.Kind {
	case ir.StmtAssign:
		d := s.AsAssign()
		fmt.Fprintf(sb, "assign:%s:%s:%d\n", d.Left.Name, d.Right.Name, d.Type)
	case ir.StmtIf:
		d := s.AsIf()
		fmt.Fprintf(sb, "if:%s{\n", d.Pred.Name)
		for _, c := range d.Then {
			encodeStmt(sb, c, memo)
		}
		sb.WriteString("}else{\n")
		for _, c := range d.Else {
			encodeStmt(sb, c, memo)
		}
		sb.WriteString("}\n")
	case ir.StmtSwitch:
		d := s.AsSwitch()
		fmt.Fprintf(sb, "switch:%s{\n", d.Target.Name)
		for _, c := range d.Cases {
			label := "default"
			if !c.IsDefault {
				label = c.Value.Name
			}
			fmt.Fprintf(sb, "case %s:\n", label)
			for _, cs := range c.Body {
				encodeStmt(sb, cs, memo)
			}
		}
		sb.WriteString("}\n")
	case ir.StmtSequential, ir.StmtCombinational:
		d := s.AsBlock()
		fmt.Fprintf(sb, "block:%d:", s.Kind)
		for _, item := range d.Sensitivity {
			fmt.Fprintf(sb, "%d:%s,", item.Edge, item.Clock.Name)
		}
		sb.WriteString("{\n")
		for _, c := range d.Body {
			encodeStmt(sb, c, memo)
		}
		sb.WriteString("}\n")
	case ir.StmtModInst:
		d := s.AsModInst()
		fmt.Fprintf(sb, "inst:%d:", memo[d.Target])
		keys := make([]*ir.Var, 0, len(d.PortMap))
		for k := range d.PortMap {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
		for _, k := range keys {
			fmt.Fprintf(sb, "%s=%s;", k.Name, d.PortMap[k].Name)
		}
		sb.WriteString("\n")
	}
}
