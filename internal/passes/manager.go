package passes

import (
	"fmt"

	"kratos/internal/ir"
)

// Pass is one stage of the pipeline, run once per invocation of Run over
// every Generator the Context currently knows about (in registration
// order); passes that only care about one Generator at a time still see
// the whole Context so they can walk ir.Context.Generators() themselves.
type Pass struct {
	Name string
	Run  func(ctx *ir.Context) error
}

// Options configures a pipeline run.
type Options struct {
	RunPassThroughElimination bool
	RunIfToCase               bool
	RunFanoutOneWireElim      bool
	HashStrategy              HashStrategy
	Sink                      Sink
}

// DefaultOptions enables every optional pass and the Sequential hash
// strategy.
func DefaultOptions() Options {
	return Options{
		RunPassThroughElimination: true,
		RunIfToCase:               true,
		RunFanoutOneWireElim:      true,
		HashStrategy:              HashSequential,
		Sink:                      NopSink{},
	}
}

// Pipeline returns the 15 passes in their canonical order (§4.4). Passes
// marked optional in the specification are still included; Options
// controls whether they act as a no-op or perform their rewrite.
func Pipeline(opts Options) []Pass {
	return []Pass{
		{"remove_pass_through_modules", func(c *ir.Context) error { return removePassThroughModules(c, opts.RunPassThroughElimination) }},
		{"transform_if_to_case", func(c *ir.Context) error { return transformIfToCase(c, opts.RunIfToCase) }},
		{"fix_assignment_type", fixAssignmentType},
		{"zero_out_stubs", zeroOutStubs},
		{"remove_fanout_one_wires", func(c *ir.Context) error { return removeFanoutOneWires(c, opts.RunFanoutOneWireElim) }},
		{"decouple_generator_ports", decoupleGeneratorPorts},
		{"remove_unused_vars", removeUnusedVars},
		{"verify_assignments", verifyAssignments},
		{"verify_generator_connectivity", verifyGeneratorConnectivity},
		{"check_mixed_assignment", checkMixedAssignment},
		{"merge_wire_assignments", mergeWireAssignments},
		{"hash_generators", func(c *ir.Context) error { return hashGenerators(c, opts.HashStrategy) }},
		{"uniquify_generators", uniquifyGenerators},
		{"uniquify_module_instances", uniquifyModuleInstances},
		{"create_module_instantiation", createModuleInstantiation},
	}
}

// Run executes the pipeline against ctx, sending an Event after every
// pass and aborting immediately on the first error (§4.4 propagation
// rule: "pass-time checks fail run_passes at the offending pass and no
// later pass executes").
func Run(ctx *ir.Context, opts Options) error {
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}
	pipeline := Pipeline(opts)
	total := len(pipeline)
	for i, p := range pipeline {
		err := p.Run(ctx)
		sink.Send(Event{Pass: p.Name, Index: i + 1, Total: total, Err: err})
		if err != nil {
			return fmt.Errorf("pass %q failed: %w", p.Name, err)
		}
	}
	return nil
}

// RunCheckOnly runs only the verification passes (verify_assignments,
// verify_generator_connectivity, check_mixed_assignment), for the
// `kratos check` CLI verb which validates a build without rewriting it.
func RunCheckOnly(ctx *ir.Context, sink Sink) error {
	if sink == nil {
		sink = NopSink{}
	}
	checks := []Pass{
		{"verify_assignments", verifyAssignments},
		{"verify_generator_connectivity", verifyGeneratorConnectivity},
		{"check_mixed_assignment", checkMixedAssignment},
	}
	total := len(checks)
	for i, p := range checks {
		err := p.Run(ctx)
		sink.Send(Event{Pass: p.Name, Index: i + 1, Total: total, Err: err})
		if err != nil {
			return fmt.Errorf("check %q failed: %w", p.Name, err)
		}
	}
	return nil
}
