package diag

import (
	"kratos/internal/source"
)

// Note attaches secondary context (e.g. "declared here") to a Diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is the unit of reporting for every error kind in §7: it
// carries the offending span plus whatever secondary spans help explain it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
