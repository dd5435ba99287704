package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessageShortText(t *testing.T) {
	assert.Equal(t, []string{"hello"}, SplitMessage("  hello \n", MaxMessageLength))
	assert.Nil(t, SplitMessage("   ", MaxMessageLength))
}

func TestSplitMessagePrefersParagraphs(t *testing.T) {
	para := strings.Repeat("a", 60)
	text := para + "\n\n" + para + "\n\n" + para

	parts := SplitMessage(text, 130)

	assert.Equal(t, []string{para + "\n\n" + para, para}, parts)
}

func TestSplitMessageRespectsLimitAndRunes(t *testing.T) {
	text := strings.Repeat("Эфириум", 2000)

	parts := SplitMessage(text, MaxMessageLength)

	assert.Greater(t, len(parts), 1)
	assert.Equal(t, text, strings.Join(parts, ""))
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), MaxMessageLength)
		assert.True(t, utf8.ValidString(p))
	}
}
