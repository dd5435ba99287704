package telegram

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength keeps each part safely under Telegram's 4096 byte limit.
const MaxMessageLength = 4090

// SplitMessage splits text into parts of at most maxLen bytes. It prefers to cut
// at paragraph breaks, then line breaks, then spaces, and never splits a rune.
func SplitMessage(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(text) > maxLen {
		cut := cutPoint(text, maxLen)
		part := strings.TrimSpace(text[:cut])
		if part != "" {
			parts = append(parts, part)
		}
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

func cutPoint(text string, maxLen int) int {
	window := text[:maxLen]
	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(window, sep); idx > maxLen/2 {
			return idx + len(sep)
		}
	}

	// Hard cut, backed off to a rune boundary.
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(text)
		return size
	}
	return cut
}
