// Package passes implements the Kratos pass manager: an ordered pipeline
// of IR rewriting and verification passes run over every Generator in a
// Context, from leaf modules (remove_pass_through_modules) through
// structural cleanup and verification to the two uniquification passes
// and final module-instantiation materialization.
package passes
