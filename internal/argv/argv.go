// Package argv reconstructs the process argument list when sar is
// re-invoked through a shell wrapper. Interactive selectors like fzf
// can only execute a single command string, so sar re-execs itself as
// `sar -c <blob>` where the blob packs the real arguments joined by a
// control byte that never appears in normal shell text.
package argv

import (
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// delimiter joins packed argument segments in the re-invocation blob.
// 0x04 (EOT) is unrepresentable in ordinary shell input, so splitting
// on it cannot collide with user-supplied text.
const delimiter = "\x04"

// Reconstruct detects the re-invocation form and expands it back into a
// plain argument list. The form is recognized when the second argument
// is exactly "-c"; the third argument is then the packed blob. Every
// segment except the last passes through literally. The last segment is
// shell-lexed so embedded quoting and whitespace survive the round
// trip; if lexing fails it contributes no arguments rather than
// aborting the run.
//
// Any other argument list is returned unchanged for normal flag
// parsing.
func Reconstruct(raw []string) []string {
	if len(raw) < 3 || raw[1] != "-c" {
		return raw
	}

	segments := strings.Split(raw[2], delimiter)
	last := len(segments) - 1

	args := make([]string, 0, len(segments)+1)
	args = append(args, raw[0])
	for i, segment := range segments {
		if i == last {
			tokens, err := shellwords.Parse(segment)
			if err != nil {
				continue
			}
			args = append(args, tokens...)
		} else {
			args = append(args, segment)
		}
	}
	return args
}
