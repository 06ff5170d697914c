// Package codegen turns a Generator hierarchy into SystemVerilog source
// text: one module per reachable non-external Generator, in the fixed
// section order (header, ports, parameters, base variables, body,
// footer) described for the pass-manager's final consumer. Emission is
// read-only with respect to the IR except for the EmittedLine stamp a
// debug-mode Generator records on each statement it prints.
package codegen
