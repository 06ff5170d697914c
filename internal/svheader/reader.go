// Package svheader loads an external SystemVerilog module's port list
// from a header file, so a Generator marked External can be populated
// from a real declaration instead of only built up programmatically
// (§6 "External module reader").
package svheader

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"kratos/internal/diag"
	"kratos/internal/ir"
	"kratos/internal/source"
)

// Port describes one declared port of an external module.
type Port struct {
	Name      string
	Direction ir.Direction
	Width     uint32
	Signed    bool
	Type      ir.PortType
}

// Module is the read-only external declaration ReadModule returns.
type Module struct {
	Name  string
	Ports map[string]Port
}

// moduleRE matches the opening line of a module declaration; the port
// list itself is scanned line by line rather than parsed as a single
// balanced expression, since header files in the wild wrap ports across
// many lines with arbitrary comments interspersed.
var moduleRE = regexp.MustCompile(`^\s*module\s+(\w+)\b`)

// portRE matches one port declaration: direction, optional signed,
// optional [hi:lo] range, and the identifier. Clock/reset roles are not
// spelled in the file; ReadModule always tags a port PortNone and lets
// the caller reclassify it once it knows the design's convention.
var portRE = regexp.MustCompile(`^\s*(input|output|inout)\s+(?:wire\s+|logic\s+|reg\s+)?(signed\s+)?(?:\[\s*(\d+)\s*:\s*(\d+)\s*\]\s*)?(\w+)\s*[,;)]?\s*$`)

var endModuleRE = regexp.MustCompile(`^\s*endmodule\b`)

// ReadModule scans path for a "module name (...)" declaration and
// returns its port list.
//
// requiredPorts names ports that must be present in the declaration;
// a missing one fails the read instead of silently producing a Module
// the caller would have to re-validate by hand. portTypeOverrides
// reclassifies already-declared ports (e.g. marking a plain input
// "clk" as ir.PortClock), since a header file has no syntax of its own
// for clock/reset roles; overriding a port that was not declared also
// fails. Both maps may be nil or empty for a plain read.
//
// It fails with diag.LookupFailure for a missing file, a missing
// module of that name, a missing required port, an override of an
// undeclared port, or (via Module.Port) a missing port name.
func ReadModule(path, name string, requiredPorts []string, portTypeOverrides map[string]ir.PortType) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lookupErr(path, "", "", fmt.Sprintf("cannot open header %q: %v", path, err))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	found := false
	mod := &Module{Ports: make(map[string]Port)}

	for scanner.Scan() {
		line := scanner.Text()
		if !found {
			if m := moduleRE.FindStringSubmatch(line); m != nil && m[1] == name {
				found = true
				mod.Name = name
			}
			continue
		}
		if endModuleRE.MatchString(line) {
			break
		}
		if m := portRE.FindStringSubmatch(line); m != nil {
			p, perr := parsePort(m)
			if perr != nil {
				return nil, lookupErr(path, name, "", perr.Error())
			}
			mod.Ports[p.Name] = p
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, lookupErr(path, name, "", fmt.Sprintf("reading %q: %v", path, err))
	}
	if !found {
		return nil, lookupErr(path, name, "", fmt.Sprintf("module %q not found in %q", name, path))
	}

	for _, required := range requiredPorts {
		if _, ok := mod.Ports[required]; !ok {
			return nil, lookupErr(path, name, required, fmt.Sprintf("module %q has no required port %q", name, required))
		}
	}
	for portName, portType := range portTypeOverrides {
		p, ok := mod.Ports[portName]
		if !ok {
			return nil, lookupErr(path, name, portName, fmt.Sprintf("cannot override type of undeclared port %q", portName))
		}
		p.Type = portType
		mod.Ports[portName] = p
	}
	return mod, nil
}

func parsePort(m []string) (Port, error) {
	dir := ir.DirIn
	switch m[1] {
	case "output":
		dir = ir.DirOut
	case "inout":
		dir = ir.DirInOut
	}
	width := uint32(1)
	if m[3] != "" && m[4] != "" {
		hi, err := strconv.ParseUint(m[3], 10, 32)
		if err != nil {
			return Port{}, fmt.Errorf("bad port range: %v", err)
		}
		lo, err := strconv.ParseUint(m[4], 10, 32)
		if err != nil {
			return Port{}, fmt.Errorf("bad port range: %v", err)
		}
		if hi < lo {
			return Port{}, fmt.Errorf("port %q: high bound %d below low bound %d", m[5], hi, lo)
		}
		width = uint32(hi-lo) + 1
	}
	return Port{
		Name:      m[5],
		Direction: dir,
		Width:     width,
		Signed:    strings.TrimSpace(m[2]) == "signed",
		Type:      ir.PortNone,
	}, nil
}

// Port looks up a declared port by name, failing with diag.LookupFailure
// when it is not present.
func (mod *Module) Port(name string) (Port, error) {
	p, ok := mod.Ports[name]
	if !ok {
		return Port{}, lookupErr("", mod.Name, name, fmt.Sprintf("module %q has no port %q", mod.Name, name))
	}
	return p, nil
}

// Populate builds every port ReadModule discovered onto an External
// Generator, so a host program can treat the returned Generator exactly
// like one built programmatically.
func (mod *Module) Populate(g *ir.Generator) error {
	for _, p := range mod.Ports {
		if _, err := g.Port(p.Direction, p.Name, p.Width, p.Type, p.Signed); err != nil {
			return err
		}
	}
	return nil
}

// LookupError is the concrete error ReadModule/Module.Port return for
// every §6 failure mode (missing file, missing module, missing port);
// Diagnostic converts it into the shared diag.Diagnostic shape for a
// caller that wants to route it through diagfmt.
type LookupError struct {
	Path, Module, Port string
	Msg                string
}

func (e *LookupError) Error() string { return e.Msg }

// Diagnostic renders e as a diag.Diagnostic tagged diag.LookupFailure.
// External headers have no source.Span of their own, so the diagnostic
// carries an empty one; diagfmt still prints the message and code.
func (e *LookupError) Diagnostic() diag.Diagnostic {
	return diag.NewError(diag.LookupFailure, source.Span{}, e.Msg)
}

func lookupErr(path, module, port, msg string) error {
	return &LookupError{Path: path, Module: module, Port: port, Msg: msg}
}
