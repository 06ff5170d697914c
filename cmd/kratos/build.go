package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kratos/internal/cache"
	"kratos/internal/codegen"
	"kratos/internal/config"
	"kratos/internal/diag"
	"kratos/internal/diagfmt"
	"kratos/internal/ir"
	"kratos/internal/passes"
	"kratos/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build <design>",
	Short: "Run the pass pipeline over a design and emit SystemVerilog",
	Long:  "Build runs the 15-pass pipeline over a built-in design and writes the generated SystemVerilog to stdout or --out.",
	Args:  cobra.ExactArgs(1),
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().String("out", "", "write emitted SystemVerilog to this path instead of stdout")
	buildCmd.Flags().Bool("debug", false, "stamp emitted statements with their source line")
	buildCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	buildCmd.Flags().Bool("no-cache", false, "skip the structural-hash emission cache")
	buildCmd.Flags().Int("max-diagnostics", 100, "maximum number of diagnostics to report")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	name := args[0]

	outPath, _ := cmd.Flags().GetString("out")
	debug, _ := cmd.Flags().GetBool("debug")
	uiMode, _ := cmd.Flags().GetString("ui")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")

	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("debug") {
		debug = cfg.Emit.Debug
	}

	bag := diag.NewBag(maxDiag)
	ctx, root, err := buildExample(name, bag)
	if err != nil {
		return err
	}
	root.Debug = debug

	diskCache, cacheErr := cache.Open("kratos")
	if cacheErr != nil {
		diskCache = nil
	}
	if noCache {
		diskCache = nil
	}

	useTUI := shouldUseTUI(uiMode)
	var runErr error
	if useTUI {
		runErr = runPassesWithUI("kratos build "+name, cfg, ctx)
	} else {
		runErr = passes.Run(ctx, cfg.PassOptions(passes.NopSink{}))
	}

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

	var source string
	if diskCache != nil && root.HashValid {
		if payload, ok, getErr := diskCache.Get(root.Hash); getErr == nil && ok && payload.DebugStamp == debug {
			source = payload.Source
		}
	}
	if source == "" {
		source, err = codegen.EmitDesign(root)
		if err != nil {
			return fmt.Errorf("emitting %q: %w", name, err)
		}
		if diskCache != nil && root.HashValid {
			_ = diskCache.Put(root.Hash, &cache.Payload{
				Schema:     cache.SchemaVersion,
				RootName:   root.Name,
				Hash:       root.Hash,
				Source:     source,
				DebugStamp: debug,
			})
		}
	}

	if outPath == "" {
		_, err = fmt.Fprint(os.Stdout, source)
		return err
	}
	return os.WriteFile(outPath, []byte(source), 0o644)
}

func shouldUseTUI(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func runPassesWithUI(title string, cfg config.Config, irCtx *ir.Context) error {
	sink := passes.NewChannelSink(len(ui.PassNames))
	outcome := make(chan error, 1)
	go func() {
		outcome <- passes.Run(irCtx, cfg.PassOptions(sink))
		sink.Close()
	}()

	model := ui.NewProgressModel(title, ui.PassNames, sink.Events())
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	runErr := <-outcome
	if uiErr != nil {
		return uiErr
	}
	return runErr
}
