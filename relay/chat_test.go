package relay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatRecordRenderSingleLineAddsTrailingNewline(t *testing.T) {
	rec := newChatRecord(roleYou, "hello")
	out := rec.render()

	require.True(t, strings.HasSuffix(out, "\n"))
	require.Contains(t, out, "You]")
	require.Contains(t, out, "hello")
	require.Equal(t, 1, strings.Count(out, "\n"))
}

func TestChatRecordRenderPreservesExistingTrailingNewline(t *testing.T) {
	rec := newChatRecord(roleRemote, "hello\n")
	out := rec.render()

	require.Equal(t, 1, strings.Count(out, "\n"))
	require.Contains(t, out, "Remote]")
}

func TestChatRecordRenderReprefixesEveryLine(t *testing.T) {
	rec := newChatRecord(roleYou, "line one\nline two\n")
	out := rec.render()

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		require.Contains(t, line, "You]")
	}
	require.Contains(t, lines[0], "line one")
	require.Contains(t, lines[1], "line two")
}

func TestChatRecordColorWrapping(t *testing.T) {
	require.True(t, strings.HasPrefix(colorGreen.wrap("x"), "\033[32m"))
	require.True(t, strings.HasSuffix(colorGreen.wrap("x"), colorReset))
}

func TestChatEstablishedBannerLabelsByListener(t *testing.T) {
	require.Contains(t, chatEstablishedBanner(true), "local=Server remote=Client")
	require.Contains(t, chatEstablishedBanner(false), "local=Client remote=Server")
	require.True(t, strings.HasSuffix(chatEstablishedBanner(true), "\n"))
}
