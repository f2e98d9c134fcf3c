// Package subprocess defines descriptors for external programs sar
// delegates to (pager, fuzzy finder). Descriptors are data only; the
// execution layer owns spawning and piping.
package subprocess

// Command describes a single program invocation: the program name, its
// ordered argument list, and environment overrides applied on top of
// the inherited environment. A Command is never mutated after
// construction.
type Command struct {
	Program string
	Args    []string
	Env     map[string]string
}
