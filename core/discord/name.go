package discord

import (
	"strings"
	"unicode"
)

// maxChannelName is Discord's channel name limit, in runes.
const maxChannelName = 100

// ChannelName applies Discord's text channel rules to a display name:
// lowercase, whitespace runs collapsed to a single dash, at most 100 runes.
func ChannelName(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsSpace(r) {
			dash = true
			continue
		}
		if dash {
			b.WriteByte('-')
			dash = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	out := []rune(b.String())
	if len(out) > maxChannelName {
		out = out[:maxChannelName]
	}
	if len(out) == 0 {
		return "unknown"
	}
	return string(out)
}
