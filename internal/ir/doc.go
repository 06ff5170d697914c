// Package ir implements the Kratos circuit intermediate representation:
// Context roots a build and interns constants; Generator is a hardware
// module under construction, owning its ports, variables, parameters and
// statement tree; Var is the tagged-union value-graph vertex (Base,
// Expression, Slice, ConstValue, Port, Parameter, Casted, Concat); Stmt
// is the tagged-union statement node (Assign, If, Switch, Sequential,
// Combinational, ModuleInstantiation).
//
// Diagnostics raised during construction quote the call site of the
// offending factory method in the host Go program, resolved through
// internal/source the same way a parsed source span would be.
package ir
