package version

import (
	"fmt"

	"github.com/fatih/color"

	"kratos/internal/cache"
	"kratos/internal/passes"
)

// Version information for the kratos CLI.
// GitCommit, GitMessage and BuildDate can be overridden at build time via
// -ldflags -X. Version cannot: -X only sets a string variable whose
// initializer is a constant, and Version is built from color calls.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// PipelinePasses is the number of passes the pipeline runs (§4.4); optional
// passes count even when disabled, since Pipeline always registers all 15
// and toggles them into no-ops rather than omitting them.
func PipelinePasses() int {
	return len(passes.Pipeline(passes.Options{}))
}

// String reports the CLI version alongside the pipeline shape and cache
// schema a build was compiled against, so a user comparing two kratos
// binaries (or deciding whether to pass --no-cache) can tell from one line
// whether their disk cache is even compatible with this binary's Payload
// layout.
func String() string {
	s := fmt.Sprintf("%s (pipeline: %d passes, cache schema: %d)", Version, PipelinePasses(), cache.SchemaVersion)
	if GitCommit != "" {
		s += fmt.Sprintf(" commit %s", GitCommit)
	}
	if BuildDate != "" {
		s += fmt.Sprintf(" built %s", BuildDate)
	}
	return s
}
