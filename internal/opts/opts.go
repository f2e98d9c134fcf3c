// Package opts resolves raw command-line input into the immutable
// execution plan for a run: which engine matches, which mode the run
// operates in, where output goes, and how sar re-invokes itself from
// inside the fuzzy finder. Resolution happens exactly once, before any
// file is touched; everything downstream trusts the result without
// re-checking.
package opts

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/richhaase/sar/internal/engine"
	"github.com/richhaase/sar/internal/subprocess"
	"github.com/richhaase/sar/internal/terminal"
)

// binaryName is the fallback executable name used when argv[0] cannot
// be canonicalized and PATH lookup fails.
const binaryName = "sar"

// Arguments is the structured command-line input prior to resolution.
// Pattern is always present; everything else is optional, with the
// empty value meaning "not supplied". The Internal* fields and Shell
// are re-invocation bookkeeping only and never set by users directly.
type Arguments struct {
	Pattern  string
	Replace  string
	ReadZero bool
	Commit   bool
	Exact    bool
	Flags    string
	Pager    string
	Fzf      string
	Unified  int

	// Config-file fallbacks, applied below flag and environment values.
	PagerDefault string
	FzfDefault   string

	InternalPreview string
	InternalPatch   []string
	Shell           string
}

// Runtime captures the process-level queries resolution depends on, so
// tests can pin them down without touching global state.
type Runtime struct {
	Argv     []string
	LookPath func(file string) (string, error)
	IsTTY    func() bool
	Getenv   func(key string) string
}

// SystemRuntime returns the Runtime backed by the real process
// environment.
func SystemRuntime() Runtime {
	return Runtime{
		Argv:     os.Args,
		LookPath: exec.LookPath,
		IsTTY:    terminal.IsStdoutTTY,
		Getenv:   os.Getenv,
	}
}

// Action selects the operating mode for a run.
type Action int

const (
	// ActionPreview shows prospective changes without writing them.
	ActionPreview Action = iota
	// ActionCommit writes changes to files immediately.
	ActionCommit
	// ActionFzf routes matches through interactive fuzzy selection first.
	ActionFzf
)

// String returns the action name for logging.
func (a Action) String() string {
	switch a {
	case ActionPreview:
		return "preview"
	case ActionCommit:
		return "commit"
	case ActionFzf:
		return "fzf"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// PrinterKind discriminates the printer variants.
type PrinterKind int

const (
	// PrintStdout writes rendered output directly to standard output.
	PrintStdout PrinterKind = iota
	// PrintPager pipes rendered output through a pager subprocess.
	PrintPager
)

// Printer selects where rendered output goes. Pager is valid only when
// Kind is PrintPager.
type Printer struct {
	Kind  PrinterKind
	Pager subprocess.Command
}

// Options is the fully resolved configuration for one run. Constructed
// once from validated Arguments and immutable thereafter.
type Options struct {
	// Name is the resolved executable path, used to build the shell
	// command line when sar re-invokes itself.
	Name   string
	Action Action
	Engine engine.Engine
	// Fzf holds extra fuzzy-finder arguments. nil means the finder is
	// unavailable or disabled; an empty non-nil slice means enabled
	// with no extra arguments.
	Fzf     []string
	Printer Printer
	Unified int
}

// Build resolves Arguments into Options. Engine construction errors
// (invalid flags, malformed pattern) are fatal; fuzzy-finder and pager
// unavailability degrade silently to Preview and Stdout.
func Build(rt Runtime, args Arguments) (Options, error) {
	if args.Unified < 0 {
		return Options{}, fmt.Errorf("unified context size must be >= 0, got %d", args.Unified)
	}

	flags := engine.Flags(args.Pattern, args.Flags)
	eng, err := engine.Build(args.Pattern, args.Replace, flags, args.Exact)
	if err != nil {
		return Options{}, err
	}

	fzf := resolveFzf(rt, args.Fzf, args.FzfDefault)

	return Options{
		Name:    resolveName(rt),
		Action:  resolveAction(args, fzf),
		Engine:  eng,
		Fzf:     fzf,
		Printer: resolvePrinter(rt, args.Pager, args.PagerDefault),
		Unified: args.Unified,
	}, nil
}

// resolveName canonicalizes argv[0]; if that fails (relative invocation
// of a since-removed binary, empty argv) it falls back to PATH lookup,
// then to the bare binary name.
func resolveName(rt Runtime) string {
	if len(rt.Argv) > 0 && rt.Argv[0] != "" {
		if abs, err := filepath.Abs(rt.Argv[0]); err == nil {
			if resolved, err := filepath.EvalSymlinks(abs); err == nil {
				return resolved
			}
		}
	}
	if path, err := rt.LookPath(binaryName); err == nil {
		return path
	}
	return binaryName
}

// resolveAction applies the mode precedence: explicit commit (or an
// internal patch list) always wins; an internal preview re-invocation
// must not recurse into fzf mode; a missing fuzzy finder degrades to
// preview.
func resolveAction(args Arguments, fzf []string) Action {
	switch {
	case args.Commit || len(args.InternalPatch) > 0:
		return ActionCommit
	case args.InternalPreview != "" || fzf == nil:
		return ActionPreview
	default:
		return ActionFzf
	}
}

// resolveFzf decides fuzzy-finder integration. It requires the fzf
// executable on PATH and an interactive stdout; either missing makes
// the integration unavailable (nil) regardless of the specifier.
func resolveFzf(rt Runtime, spec, fileDefault string) []string {
	if _, err := rt.LookPath("fzf"); err != nil {
		return nil
	}
	if !rt.IsTTY() {
		return nil
	}

	if spec == "" {
		spec = fileDefault
	}
	switch spec {
	case "never":
		return nil
	case "":
		return []string{}
	default:
		return strings.Fields(spec)
	}
}

// resolvePrinter picks the output sink. The specifier comes from the
// flag, then GIT_PAGER, then the config file. "never" or nothing means
// stdout. A pipeline specifier is truncated at the first '|'; only the
// head segment becomes the pager command.
func resolvePrinter(rt Runtime, spec, fileDefault string) Printer {
	val := spec
	if val == "" {
		val = rt.Getenv("GIT_PAGER")
	}
	if val == "" {
		val = fileDefault
	}
	if val == "" || val == "never" {
		return Printer{Kind: PrintStdout}
	}

	head := strings.TrimSpace(strings.SplitN(val, "|", 2)[0])
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return Printer{Kind: PrintStdout}
	}
	return Printer{
		Kind: PrintPager,
		Pager: subprocess.Command{
			Program: fields[0],
			Args:    fields[1:],
			Env:     map[string]string{},
		},
	}
}
