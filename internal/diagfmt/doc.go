// Package diagfmt renders a diag.Bag to a human-readable stderr report:
// one rule-bordered block per diagnostic, with a colorized source
// excerpt centered on the offending line (§6).
package diagfmt
