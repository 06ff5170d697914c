package ir

import (
	"runtime"

	"kratos/internal/source"
)

// captureSpan records the Go call site that invoked a host-facing IR
// mutator (Generator.Port, Var.Assign, and so on), skip frames up from
// here. Kratos has no circuit-description source text of its own: the
// host program IS the source, so a diagnostic's "source excerpt" is a
// window into the host's own .go file, read lazily from disk. When the
// file can't be read (a stripped binary, a call from a non-file location)
// the span degrades to an empty virtual one rather than failing the build.
func (c *Context) captureSpan(skip int) source.Span {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return source.Span{}
	}
	return c.spanForLine(file, uint32(line))
}

func (c *Context) spanForLine(file string, line uint32) source.Span {
	c.fsMu.Lock()
	defer c.fsMu.Unlock()

	id, ok := c.fs.GetLatest(file)
	if !ok {
		loaded, err := c.fs.Load(file)
		if err != nil {
			id = c.fs.AddVirtual(file, nil)
		} else {
			id = loaded
		}
	}
	f := c.fs.Get(id)
	start, end := f.LineSpan(line)
	return source.Span{File: id, Start: start, End: end}
}
