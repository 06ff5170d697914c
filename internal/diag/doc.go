// Package diag defines the diagnostic model shared by IR construction
// (internal/ir) and the pass manager (internal/passes).
//
// Diagnostic is the central record: a Severity, a Code (one of the error
// kinds from spec §7: WidthMismatch, SignednessMismatch, NameCollision,
// InvalidAssignmentType, MixedAssignment, UnconnectedSignal,
// StructuralError, LookupFailure), a human-readable Message, the primary
// source.Span recorded when the offending IR node was built, and optional
// Notes pointing at related spans ("declared here").
//
// Producers emit through a Reporter rather than writing to a Bag directly,
// so construction-time checks and passes stay decoupled from how their
// output is collected or displayed. BagReporter collects into a Bag (which
// supports stable Sort and Dedup); DedupReporter filters repeats upstream
// of whatever Reporter it wraps.
//
// internal/diagfmt renders a Bag's contents into the stderr format
// described in spec §6.
package diag
