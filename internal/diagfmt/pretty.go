package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"kratos/internal/diag"
	"kratos/internal/source"
)

const ruleWidth = 80

// Pretty renders every diagnostic in bag (call bag.Sort() first for a
// stable order) to w in the stderr format of §6: for each diagnostic's
// primary location, a blue rule, the file:line:col header, a source
// excerpt (offending line prefixed '>' in red, ±opts.Context lines of
// context in green), and a closing blue rule.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPrinter(w, fs, opts)
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts

	rule    *color.Color
	sevErr  *color.Color
	sevWarn *color.Color
	sevInfo *color.Color
	ctxLine *color.Color
	badLine *color.Color
	note    *color.Color
}

func newPrinter(w io.Writer, fs *source.FileSet, opts PrettyOpts) *printer {
	p := &printer{
		w:       w,
		fs:      fs,
		opts:    opts,
		rule:    color.New(color.FgBlue),
		sevErr:  color.New(color.FgRed, color.Bold),
		sevWarn: color.New(color.FgYellow, color.Bold),
		sevInfo: color.New(color.FgCyan, color.Bold),
		ctxLine: color.New(color.FgGreen),
		badLine: color.New(color.FgRed),
		note:    color.New(color.FgCyan),
	}
	if !opts.Color {
		for _, c := range []*color.Color{p.rule, p.sevErr, p.sevWarn, p.sevInfo, p.ctxLine, p.badLine, p.note} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) diagnostic(d diag.Diagnostic) {
	p.rule.Fprintln(p.w, strings.Repeat("-", ruleWidth))
	fmt.Fprintln(p.w, p.location(d.Primary))
	p.severityColor(d.Severity).Fprintf(p.w, "%s %s", d.Severity.String(), d.Code.String())
	fmt.Fprintf(p.w, ": %s\n", d.Message)
	p.excerpt(d.Primary)
	p.rule.Fprintln(p.w, strings.Repeat("-", ruleWidth))

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			p.note.Fprintf(p.w, "  note: %s (%s)\n", n.Msg, p.location(n.Span))
		}
	}
}

func (p *printer) severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.sevErr
	case diag.SevWarning:
		return p.sevWarn
	default:
		return p.sevInfo
	}
}

func (p *printer) location(span source.Span) string {
	if p.fs == nil {
		return span.String()
	}
	f := p.fs.Get(span.File)
	if f == nil {
		return span.String()
	}
	start, _ := p.fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(p.opts.PathMode.sourceMode(), p.opts.BaseDir), start.Line, start.Col)
}

// excerpt prints the source window around span: opts.Context lines of
// green context above and below the offending line, which is itself
// prefixed '>' and colored red; every other line is prefixed with two
// spaces to keep the '>' column aligned.
func (p *printer) excerpt(span source.Span) {
	if p.fs == nil {
		return
	}
	f := p.fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := p.fs.Resolve(span)

	ctx := int(p.opts.Context)
	first := start.Line - uint32(ctx)
	if int(start.Line) <= ctx {
		first = 1
	}
	last := end.Line + uint32(ctx)
	if last > f.LineCount() {
		last = f.LineCount()
	}

	for line := first; line <= last; line++ {
		text := p.truncate(f.GetLine(line))
		if line >= start.Line && line <= end.Line {
			p.badLine.Fprintf(p.w, "> %s\n", text)
			continue
		}
		p.ctxLine.Fprintf(p.w, "  %s\n", text)
	}
}

func (p *printer) truncate(line string) string {
	if p.opts.Width == 0 || runewidth.StringWidth(line) <= int(p.opts.Width) {
		return line
	}
	return runewidth.Truncate(line, int(p.opts.Width), "...")
}
