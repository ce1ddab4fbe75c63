package helpers

import (
	"strings"
	"time"
)

// TimestampLayout is the layout used by FormatTimestamp.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// Command builds an in-game command string such as ":h hello". A leading
// colon on name is optional. Empty args are skipped.
func Command(name string, args ...string) string {
	var b strings.Builder
	b.WriteString(":")
	b.WriteString(strings.TrimPrefix(strings.TrimSpace(name), ":"))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			b.WriteString(" ")
			b.WriteString(a)
		}
	}
	return b.String()
}

// Announce builds a server-wide message command.
func Announce(message string) string { return Command("m", message) }

// Hint builds a hint bar command.
func Hint(message string) string { return Command("h", message) }

// PrivateMessage builds a private message command for one player.
func PrivateMessage(player, message string) string { return Command("pm", player, message) }

// FormatTimestamp formats a PRC log timestamp (Unix seconds) in UTC.
func FormatTimestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(TimestampLayout)
}
