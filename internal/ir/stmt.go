package ir

import "kratos/internal/source"

// StmtKind tags which statement-tree variant of §3.1/§4.2 a Stmt is.
type StmtKind uint8

const (
	StmtAssign StmtKind = iota
	StmtIf
	StmtSwitch
	StmtSequential
	StmtCombinational
	StmtModInst
)

// AssignType is the blocking discipline of an AssignStmt (§3.1).
type AssignType uint8

const (
	Undefined AssignType = iota
	Blocking
	NonBlocking
)

func (t AssignType) String() string {
	switch t {
	case Blocking:
		return "blocking"
	case NonBlocking:
		return "non-blocking"
	default:
		return "undefined"
	}
}

// Edge is a sensitivity-list trigger edge.
type Edge uint8

const (
	Posedge Edge = iota
	Negedge
	BothEdges
)

func (e Edge) sv() string {
	switch e {
	case Posedge:
		return "posedge"
	case Negedge:
		return "negedge"
	default:
		return "edge"
	}
}

// Stmt is the single tagged-union node type for the statement tree:
// AssignStmt, IfStmt, SwitchStmt, StmtBlock (Sequential/Combinational),
// and ModuleInstantiationStmt, distinguished by Kind and carrying a
// Kind-specific Data payload, mirroring Var's tagged-union shape.
type Stmt struct {
	ID        StmtID
	Kind      StmtKind
	Generator *Generator
	Span      source.Span

	// EmittedLine is stamped by the code generator when Generator.Debug
	// is set (§4.5 dispatch rules, debug-mode parenthetical); zero until
	// an emission pass has run.
	EmittedLine int

	Data any
}

type (
	// AssignData is the Kind==StmtAssign payload.
	AssignData struct {
		Left, Right *Var
		Type        AssignType
	}
	// IfData is the Kind==StmtIf payload.
	IfData struct {
		Pred       *Var
		Then, Else []*Stmt
	}
	// SwitchCase is one arm of a SwitchData.
	SwitchCase struct {
		Value     *Var // nil when IsDefault
		IsDefault bool
		Body      []*Stmt
	}
	// SwitchData is the Kind==StmtSwitch payload.
	SwitchData struct {
		Target *Var
		Cases  []SwitchCase
	}
	// SensItem is one (edge, clock-like var) pair in a sensitivity list.
	SensItem struct {
		Edge  Edge
		Clock *Var
	}
	// BlockData is the Kind==StmtSequential/StmtCombinational payload;
	// Sensitivity is empty (and ignored) for a Combinational block.
	BlockData struct {
		Sensitivity []SensItem
		Body        []*Stmt
	}
	// ModInstData is the Kind==StmtModInst payload.
	ModInstData struct {
		Target       *Generator
		PortMap      map[*Var]*Var // internal port -> external var
		Params       map[string]int64
		InstanceName string
	}
)

func (s *Stmt) AsAssign() *AssignData { return s.Data.(*AssignData) }
func (s *Stmt) AsIf() *IfData         { return s.Data.(*IfData) }
func (s *Stmt) AsSwitch() *SwitchData { return s.Data.(*SwitchData) }
func (s *Stmt) AsBlock() *BlockData   { return s.Data.(*BlockData) }
func (s *Stmt) AsModInst() *ModInstData { return s.Data.(*ModInstData) }

// Children returns every direct child statement list, used by the
// generic tree walks in internal/passes (fix_assignment_type,
// hash_generators, codegen) so they don't re-derive Kind-specific
// traversal at every call site.
func (s *Stmt) Children() [][]*Stmt {
	switch s.Kind {
	case StmtIf:
		d := s.AsIf()
		return [][]*Stmt{d.Then, d.Else}
	case StmtSwitch:
		d := s.AsSwitch()
		out := make([][]*Stmt, len(d.Cases))
		for i, c := range d.Cases {
			out[i] = c.Body
		}
		return out
	case StmtSequential, StmtCombinational:
		return [][]*Stmt{s.AsBlock().Body}
	default:
		return nil
	}
}
