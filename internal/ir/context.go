package ir

import (
	"sync"

	"kratos/internal/diag"
	"kratos/internal/source"
)

// Context is the process-wide root of an IR build: it owns every
// Generator and a pool of interned constants keyed by
// (generator, value, width, signedness). Construction is single-threaded
// (§5); the constant pool additionally tolerates concurrent reads during
// the Parallel hashing strategy (hash_generators), since no insertion
// happens once pass execution begins.
type Context struct {
	mu         sync.Mutex
	generators map[string]*Generator
	order      []string

	constMu  sync.RWMutex
	constant map[constKey]*Var

	fs   *source.FileSet
	fsMu sync.Mutex

	reporter diag.Reporter
}

type constKey struct {
	gen    *Generator
	value  int64
	width  uint32
	signed bool
}

// NewContext creates an empty root.
func NewContext() *Context {
	return &Context{
		generators: make(map[string]*Generator),
		constant:   make(map[constKey]*Var),
		fs:         source.NewFileSet(),
	}
}

// FileSet returns the FileSet call-site spans are resolved against,
// letting a host format diagnostics through internal/diagfmt.
func (c *Context) FileSet() *source.FileSet {
	return c.fs
}

// SetReporter installs the Reporter used for construction-time diagnostics
// raised by Generator/Var/statement factories. A nil reporter discards
// diagnostics (appropriate for a host that only cares about fatal panics).
func (c *Context) SetReporter(r diag.Reporter) {
	c.reporter = r
}

// Report lets passes outside this package raise diagnostics through the
// same Reporter construction-time checks use.
func (c *Context) Report(code diag.Code, sev diag.Severity, span source.Span, msg string) {
	c.report(sev, code, span, msg)
}

func (c *Context) report(sev diag.Severity, code diag.Code, span source.Span, msg string) {
	if c.reporter == nil {
		return
	}
	c.reporter.Report(code, sev, span, msg, nil)
}

// Generator returns the named module, creating it on first reference.
// Repeated calls with the same name return the same instance: this is
// what lets multiple instantiation sites share one child definition
// (§3.2) before uniquify_generators ever runs.
func (c *Context) Generator(name string) *Generator {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.generators[name]; ok {
		return g
	}
	g := newGenerator(c, name)
	c.generators[name] = g
	c.order = append(c.order, name)
	return g
}

// LookupGenerator returns an already-created Generator without creating
// one, reporting whether it exists.
func (c *Context) LookupGenerator(name string) (*Generator, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.generators[name]
	return g, ok
}

// Generators returns every registered Generator in registration order.
func (c *Context) Generators() []*Generator {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Generator, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.generators[name])
	}
	return out
}

// RenameGenerator reindexes g under newName, used by uniquify_generators
// when two distinct Generators were created with colliding names.
func (c *Context) RenameGenerator(g *Generator, newName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, name := range c.order {
		if c.generators[name] == g {
			c.order = append(c.order[:i], c.order[i+1:]...)
			delete(c.generators, name)
			break
		}
	}
	g.Name = newName
	c.generators[newName] = g
	c.order = append(c.order, newName)
}

// Constant interns a literal for gen, returning the same *Var for repeated
// calls with an equal (value, width, signed) triple on the same Generator.
func (c *Context) Constant(gen *Generator, value int64, width uint32, signed bool) (*Var, error) {
	if err := checkConstFits(value, width, signed); err != nil {
		span := c.captureSpan(2)
		c.report(diag.SevError, diag.WidthMismatch, span, err.Error())
		return nil, err
	}

	key := constKey{gen: gen, value: value, width: width, signed: signed}

	c.constMu.RLock()
	if v, ok := c.constant[key]; ok {
		c.constMu.RUnlock()
		return v, nil
	}
	c.constMu.RUnlock()

	c.constMu.Lock()
	defer c.constMu.Unlock()
	if v, ok := c.constant[key]; ok {
		return v, nil
	}
	v := gen.newVar(displayConst(value, width, signed), width, signed, KindConst, ConstData{Value: value})
	c.constant[key] = v
	return v, nil
}
