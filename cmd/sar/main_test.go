package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"

	"github.com/richhaase/sar/internal/opts"
	"github.com/richhaase/sar/internal/terminal"
)

func TestRun_ResolvesSuccessfully(t *testing.T) {
	code := run([]string{"sar", "foo", "bar", "--no-config", "--pager", "never"})
	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
}

func TestRun_MissingPattern(t *testing.T) {
	code := run([]string{"sar", "--no-config"})
	if code != 1 {
		t.Errorf("expected exit 1 without a pattern, got %d", code)
	}
}

func TestRun_InvalidExactFlags(t *testing.T) {
	code := run([]string{"sar", "foo", "-e", "-f", "m", "--no-config"})
	if code != 1 {
		t.Errorf("expected exit 1 for invalid exact-mode flag, got %d", code)
	}
}

func TestRun_MalformedPattern(t *testing.T) {
	code := run([]string{"sar", "(unclosed", "--no-config"})
	if code != 1 {
		t.Errorf("expected exit 1 for malformed pattern, got %d", code)
	}
}

func TestRun_ReinvocationForm(t *testing.T) {
	code := run([]string{"sar", "-c", "--no-config\x04foo bar"})
	if code != 0 {
		t.Errorf("expected exit 0 for re-invocation form, got %d", code)
	}
}

// captureArguments executes the root command with the given argv and
// returns the Arguments collectArguments assembled.
func captureArguments(t *testing.T, args []string) opts.Arguments {
	t.Helper()

	var captured opts.Arguments
	cmd := newRootCmd()
	cmd.RunE = func(c *cobra.Command, posArgs []string) error {
		captured = collectArguments(c, posArgs, terminal.NewLogger())
		return nil
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return captured
}

func TestCollectArguments_FlagsAndPositionals(t *testing.T) {
	got := captureArguments(t, []string{
		"foo", "bar",
		"-0", "-k", "-e",
		"-f", "Im",
		"-p", "less -R",
		"--fzf", "never",
		"-u", "7",
		"--no-config",
	})

	if got.Pattern != "foo" || got.Replace != "bar" {
		t.Errorf("positionals not collected: %+v", got)
	}
	if !got.ReadZero || !got.Commit || !got.Exact {
		t.Errorf("boolean flags not collected: %+v", got)
	}
	if got.Flags != "Im" {
		t.Errorf("expected flags 'Im', got %q", got.Flags)
	}
	if got.Pager != "less -R" {
		t.Errorf("expected pager 'less -R', got %q", got.Pager)
	}
	if got.Fzf != "never" {
		t.Errorf("expected fzf 'never', got %q", got.Fzf)
	}
	if got.Unified != 7 {
		t.Errorf("expected unified 7, got %d", got.Unified)
	}
}

func TestCollectArguments_InternalFlags(t *testing.T) {
	got := captureArguments(t, []string{
		"foo",
		"--internal-preview", "marker",
		"--internal-patch", "a.patch",
		"--internal-patch", "b.patch",
		"--no-config",
	})

	if got.InternalPreview != "marker" {
		t.Errorf("expected internal preview marker, got %q", got.InternalPreview)
	}
	if len(got.InternalPatch) != 2 {
		t.Errorf("expected 2 internal patches, got %v", got.InternalPatch)
	}
}

func TestCollectArguments_ReplaceDefaultsToDelete(t *testing.T) {
	got := captureArguments(t, []string{"foo", "--no-config"})

	if got.Replace != "" {
		t.Errorf("expected empty replacement, got %q", got.Replace)
	}
	if got.Unified != 3 {
		t.Errorf("expected default unified 3, got %d", got.Unified)
	}
}

func TestCollectArguments_ConfigDefaults(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME redirection is linux-only")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "sar"), 0755); err != nil {
		t.Fatal(err)
	}
	content := "pager: delta\nfzf: \"--multi\"\nunified: 9\n"
	if err := os.WriteFile(filepath.Join(dir, "sar", "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got := captureArguments(t, []string{"foo"})

	if got.PagerDefault != "delta" {
		t.Errorf("expected pager default 'delta', got %q", got.PagerDefault)
	}
	if got.FzfDefault != "--multi" {
		t.Errorf("expected fzf default '--multi', got %q", got.FzfDefault)
	}
	if got.Unified != 9 {
		t.Errorf("expected config unified 9, got %d", got.Unified)
	}

	// An explicit flag beats the config file value.
	got = captureArguments(t, []string{"foo", "-u", "2"})
	if got.Unified != 2 {
		t.Errorf("expected flag unified 2 to beat config, got %d", got.Unified)
	}
}
