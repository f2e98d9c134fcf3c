// Package main provides the CLI entry point for sar.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richhaase/sar/internal/argv"
	"github.com/richhaase/sar/internal/config"
	"github.com/richhaase/sar/internal/engine"
	"github.com/richhaase/sar/internal/opts"
	"github.com/richhaase/sar/internal/terminal"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	readZero        bool
	commit          bool
	exact           bool
	flagSpec        string
	pagerSpec       string
	fzfSpec         string
	unified         int
	verbose         bool
	noConfig        bool
	internalPreview string
	internalPatch   []string
	shellBlob       string
)

func main() {
	os.Exit(run(os.Args))
}

func run(rawArgs []string) int {
	rootCmd := newRootCmd()

	// Undo the single-blob packing if this is a re-invocation from
	// inside the fuzzy finder.
	args := argv.Reconstruct(rawArgs)
	rootCmd.SetArgs(args[1:])

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sar <pattern> [replace]",
		Short: "sar - interactive search and replace",
		Long: `Search stdin-supplied paths for a pattern and replace matches,
previewing changes as unified diffs before anything is written.

An empty or missing replacement deletes each match. With fzf on PATH
and an interactive terminal, matches route through fuzzy selection.`,
		Args:          cobra.RangeArgs(1, 2),
		RunE:          runResolve,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().BoolVarP(&readZero, "read0", "0", false,
		"Use NUL as the stdin record delimiter")
	rootCmd.Flags().BoolVarP(&commit, "commit", "k", false,
		"Skip preview, write changes to files")
	rootCmd.Flags().BoolVarP(&exact, "exact", "e", false,
		"Match the pattern as a string literal")
	rootCmd.Flags().StringVarP(&flagSpec, "flags", "f", "",
		"Engine flags, one character each: I i m s U x")
	rootCmd.Flags().StringVarP(&pagerSpec, "pager", "p", "",
		"Preview pager; 'never' disables (default: $GIT_PAGER)")
	rootCmd.Flags().StringVar(&fzfSpec, "fzf", "",
		"Extra fzf options; 'never' disables fuzzy selection")
	rootCmd.Flags().IntVarP(&unified, "unified", "u", 3,
		"Unified diff context size")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Log the resolved execution plan")
	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the config file")

	// Re-invocation bookkeeping, never set by users directly.
	rootCmd.Flags().StringVar(&internalPreview, "internal-preview", "", "")
	rootCmd.Flags().StringArrayVar(&internalPatch, "internal-patch", nil, "")
	rootCmd.Flags().StringVarP(&shellBlob, "shell", "c", "", "")
	for _, name := range []string{"internal-preview", "internal-patch", "shell"} {
		_ = rootCmd.Flags().MarkHidden(name)
	}

	return rootCmd
}

func runResolve(cmd *cobra.Command, posArgs []string) error {
	// Disable colors if stderr is not a TTY
	if !terminal.IsStderrTTY() {
		terminal.DisableColors()
	}
	logger := terminal.NewLogger()

	arguments := collectArguments(cmd, posArgs, logger)

	rt := opts.SystemRuntime()
	options, err := opts.Build(rt, arguments)
	if err != nil {
		return err
	}

	if verbose {
		logPlan(logger, options)
	}

	// The scan/render pipeline consumes the resolved plan from here;
	// wiring it up is tracked separately.
	return nil
}

// collectArguments assembles the raw Arguments from positionals, flags
// and the optional config file. Config problems warn and degrade; they
// never abort resolution.
func collectArguments(cmd *cobra.Command, posArgs []string, logger *terminal.Logger) opts.Arguments {
	arguments := opts.Arguments{
		Pattern:         posArgs[0],
		ReadZero:        readZero,
		Commit:          commit,
		Exact:           exact,
		Flags:           flagSpec,
		Pager:           pagerSpec,
		Fzf:             fzfSpec,
		Unified:         unified,
		InternalPreview: internalPreview,
		InternalPatch:   internalPatch,
		Shell:           shellBlob,
	}
	if len(posArgs) > 1 {
		arguments.Replace = posArgs[1]
	}

	if noConfig {
		return arguments
	}

	result, err := config.Load()
	if err != nil {
		logger.Logf(terminal.StyleWarning, "ignoring config file: %v", err)
		return arguments
	}
	for _, warning := range result.Warnings {
		logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
	}

	cfg := result.Config
	if cfg.Pager != nil {
		arguments.PagerDefault = *cfg.Pager
	}
	if cfg.Fzf != nil {
		arguments.FzfDefault = *cfg.Fzf
	}
	if cfg.Unified != nil && !cmd.Flags().Changed("unified") {
		arguments.Unified = *cfg.Unified
	}

	return arguments
}

// logPlan reports the resolved execution plan through the logger.
func logPlan(logger *terminal.Logger, options opts.Options) {
	logger.Logf(terminal.StyleDim, "executable: %s", options.Name)
	logger.Logf(terminal.StyleInfo, "action: %s", options.Action)

	switch eng := options.Engine.(type) {
	case engine.Literal:
		logger.Logf(terminal.StyleInfo, "engine: literal, replace %q", eng.Replace)
	case engine.Regex:
		logger.Logf(terminal.StyleInfo, "engine: regex %s, replace %q", eng.Pattern, eng.Replace)
	}

	if options.Fzf != nil {
		logger.Logf(terminal.StyleDim, "fzf args: %v", options.Fzf)
	}

	switch options.Printer.Kind {
	case opts.PrintStdout:
		logger.Log("printer: stdout", terminal.StyleDim)
	case opts.PrintPager:
		pager := options.Printer.Pager
		logger.Logf(terminal.StyleDim, "printer: pager %s",
			strings.TrimSpace(pager.Program+" "+strings.Join(pager.Args, " ")))
	}

	logger.Logf(terminal.StyleDim, "unified context: %d", options.Unified)
}
