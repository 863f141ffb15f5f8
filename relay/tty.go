package relay

import (
	"os"

	"golang.org/x/term"
)

// BothTTY reports whether stdin and stdout are both terminals — the gate spec.md 4.3 requires
// before chat mode may actually render ("only effective when both stdin and stdout are TTYs").
// golang.org/x/term is the standard extension-library answer to "is this fd a terminal"; it sits
// in the same golang.org/x/ family as the teacher's own direct x/crypto and x/net dependencies.
func BothTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
