package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kratos/internal/diag"
	"kratos/internal/diagfmt"
	"kratos/internal/passes"
)

var checkCmd = &cobra.Command{
	Use:   "check <design>",
	Short: "Run only the verification passes and report diagnostics",
	Long:  "Check runs verify_assignments, verify_generator_connectivity, and check_mixed_assignment without rewriting the IR or emitting SystemVerilog.",
	Args:  cobra.ExactArgs(1),
	RunE:  checkExecution,
}

func init() {
	checkCmd.Flags().Int("max-diagnostics", 100, "maximum number of diagnostics to report")
}

func checkExecution(cmd *cobra.Command, args []string) error {
	name := args[0]
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")

	bag := diag.NewBag(maxDiag)
	ctx, root, err := buildExample(name, bag)
	if err != nil {
		return err
	}

	runErr := passes.RunCheckOnly(ctx, passes.NopSink{})

	if bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, bag, ctx.FileSet(), diagfmt.PrettyOpts{
			Color:     resolveColor(cmd),
			Context:   2,
			ShowNotes: true,
		})
	}
	if runErr != nil {
		return runErr
	}
	if bag.HasErrors() {
		return fmt.Errorf("%s: %d diagnostic(s) reported", name, bag.Len())
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", name, root.Name)
	return err
}
