// Package engine compiles the user's pattern and flags into exactly one
// matching engine: a multi-literal matcher for exact mode, or a regular
// expression otherwise. The replacement text travels with the compiled
// matcher so downstream stages never look back at the raw arguments.
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Sentinel errors for engine construction. Both are fatal: there is no
// degraded engine to fall back to.
var (
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrPatternCompile = errors.New("pattern compilation failed")
)

// Engine is a compiled matcher plus its replacement text. Exactly one
// of the two implementations is live per run.
type Engine interface {
	// Replacement returns the text substituted for each match; empty
	// means the match is deleted.
	Replacement() string

	sealed()
}

// Compile-time interface checks.
var (
	_ Engine = Literal{}
	_ Engine = Regex{}
)

// Literal matches the pattern as a plain string via an Aho-Corasick
// automaton (exact mode).
type Literal struct {
	Matcher ahocorasick.AhoCorasick
	Replace string
}

// Replacement implements Engine.
func (l Literal) Replacement() string { return l.Replace }

func (Literal) sealed() {}

// Regex matches the pattern as a compiled regular expression.
type Regex struct {
	Pattern *regexp.Regexp
	Replace string
}

// Replacement implements Engine.
func (r Regex) Replacement() string { return r.Replace }

func (Regex) sealed() {}

// Flags computes the effective flag sequence: the automatic case flag
// derived from the pattern, followed by each user-supplied flag
// character in order. Duplicates and conflicts are preserved; flags are
// applied in sequence during engine construction, so the last
// occurrence wins for its dimension.
func Flags(pattern, userFlags string) []string {
	flags := []string{autoFlag(pattern)}
	for _, r := range userFlags {
		flags = append(flags, string(r))
	}
	return flags
}

// autoFlag defaults to case-sensitive matching ("I") when the pattern
// contains any uppercase rune, case-insensitive ("i") otherwise.
func autoFlag(pattern string) string {
	for _, r := range pattern {
		if unicode.IsUpper(r) {
			return "I"
		}
	}
	return "i"
}

// Build compiles pattern into an engine, applying flags in order.
// Exact mode produces a Literal engine and accepts only the case flags;
// regex mode additionally accepts m, s, U and x. An unrecognized flag
// yields ErrInvalidFlags; a malformed regular expression yields a
// wrapped ErrPatternCompile.
func Build(pattern, replace string, flags []string, exact bool) (Engine, error) {
	if exact {
		return buildLiteral(pattern, replace, flags)
	}
	return buildRegex(pattern, replace, flags)
}

func buildLiteral(pattern, replace string, flags []string) (Engine, error) {
	insensitive := false
	for _, flag := range flags {
		switch flag {
		case "I":
			insensitive = false
		case "i":
			insensitive = true
		default:
			return nil, fmt.Errorf("%w: %q is not valid in exact mode", ErrInvalidFlags, flag)
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: insensitive,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	return Literal{Matcher: builder.Build([]string{pattern}), Replace: replace}, nil
}

func buildRegex(pattern, replace string, flags []string) (Engine, error) {
	var insensitive, multiline, dotall, ungreedy, verbose bool
	for _, flag := range flags {
		switch flag {
		case "I":
			insensitive = false
		case "i":
			insensitive = true
		case "m":
			multiline = true
		case "s":
			dotall = true
		case "U":
			ungreedy = true
		case "x":
			verbose = true
		default:
			return nil, fmt.Errorf("%w: unrecognized flag %q", ErrInvalidFlags, flag)
		}
	}

	src := pattern
	if verbose {
		src = stripInsignificantWhitespace(src)
	}

	var mode strings.Builder
	if insensitive {
		mode.WriteByte('i')
	}
	if multiline {
		mode.WriteByte('m')
	}
	if dotall {
		mode.WriteByte('s')
	}
	if ungreedy {
		mode.WriteByte('U')
	}
	if mode.Len() > 0 {
		src = "(?" + mode.String() + ")" + src
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPatternCompile, err)
	}
	return Regex{Pattern: re, Replace: replace}, nil
}

// stripInsignificantWhitespace implements the x flag: unescaped
// whitespace outside character classes is dropped, and an unescaped #
// starts a comment running to end of line. RE2 has no native verbose
// mode, so the pattern is rewritten before compilation.
func stripInsignificantWhitespace(pattern string) string {
	var b strings.Builder
	var escaped, inClass, inComment bool

	for _, r := range pattern {
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
			}
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			b.WriteRune(r)
			escaped = true
		case inClass:
			if r == ']' {
				inClass = false
			}
			b.WriteRune(r)
		case r == '[':
			inClass = true
			b.WriteRune(r)
		case r == '#':
			inComment = true
		case unicode.IsSpace(r):
			// insignificant
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
