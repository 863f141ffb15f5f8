package relay

import (
	"fmt"
	"strings"
	"time"
)

// colorCode is a raw ANSI SGR foreground code, in the hand-rolled-escape-sequence style of
// NLipatov-TunGo's terminal colorizer (presentation/ui/tui/internal/bubble_tea colorizer.go /
// value_objects/color.go) rather than a full TUI framework: chat mode decorates lines on an
// ordinary scrolling terminal, it does not own the screen the way a bubbletea program would.
type colorCode int

const (
	colorGreen colorCode = 32
	colorCyan  colorCode = 36
	colorReset           = "\033[0m"
)

func (c colorCode) wrap(s string) string {
	return fmt.Sprintf("\033[%dm%s%s", int(c), s, colorReset)
}

// role names a chat participant. The listener sees itself as Server/You and the peer as
// Client/Remote; the connector mirrors this (spec.md 4.3).
type role struct {
	label string
	color colorCode
}

var (
	roleYou    = role{label: "You", color: colorGreen}
	roleRemote = role{label: "Remote", color: colorCyan}
)

// chatRecord is the ephemeral presentation object spec.md 3 describes: never persisted, built
// fresh per rendered line.
type chatRecord struct {
	timestamp string
	role      role
	payload   string
}

func newChatRecord(r role, payload string) chatRecord {
	return chatRecord{timestamp: time.Now().Format("15:04:05"), role: r, payload: payload}
}

// render formats the record as "<color>[HH:MM:SS Role]<reset> payload", re-emitting the prefix on
// every line of a multi-line payload, and appending a trailing newline if the payload lacks one —
// exactly spec.md 4.3's chat-mode rendering rules.
func (c chatRecord) render() string {
	prefix := c.role.color.wrap(fmt.Sprintf("[%s %s]", c.timestamp, c.role.label))

	body := c.payload
	trailingNewline := strings.HasSuffix(body, "\n")
	body = strings.TrimSuffix(body, "\n")

	lines := strings.Split(body, "\n")
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(prefix)
		b.WriteByte(' ')
		b.WriteString(line)
		if i < len(lines)-1 || trailingNewline {
			b.WriteByte('\n')
		}
	}
	if !trailingNewline {
		b.WriteByte('\n')
	}
	return b.String()
}

// chatEstablishedBanner is the one-time line printed before the relay loop starts in chat mode,
// carried over from clawsec.c's relay_socket_stdio ("[Secure chat established] local=%s
// remote=%s"), which spec.md never names — an original-only feature supplemented here (see
// SPEC_FULL.md 10.9). The listener labels itself Server and the peer Client; the connector
// mirrors this, exactly as clawsec.c's is_server ternary does.
func chatEstablishedBanner(listener bool) string {
	local, remote := "Client", "Server"
	if listener {
		local, remote = "Server", "Client"
	}
	return colorCyan.wrap(fmt.Sprintf("[Secure chat established] local=%s remote=%s", local, remote)) + "\n"
}
