package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitShortText(t *testing.T) {
	assert.Equal(t, []string{"Bonjour"}, Split("  Bonjour ", SpeechOptions()))
}

func TestSplitEmptyAndPunctuationOnly(t *testing.T) {
	assert.Empty(t, Split("", SpeechOptions()))
	assert.Empty(t, Split(" ... !? ", SpeechOptions()))
}

func TestSplitKeepsSentencePunctuation(t *testing.T) {
	text := strings.Repeat("a", 60) + ". " + strings.Repeat("b", 60) + "!"
	got := Split(text, SpeechOptions())

	assert.Equal(t, []string{strings.Repeat("a", 60) + ".", strings.Repeat("b", 60) + "!"}, got)
}

func TestSplitRespectsMaxRunes(t *testing.T) {
	text := strings.Repeat("le chat est sur la table, ", 30)
	got := Split(text, SpeechOptions())

	assert.Greater(t, len(got), 1)
	for _, piece := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(piece), 100, piece)
		assert.False(t, strings.HasPrefix(piece, " "))
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(got, " ")))
}

func TestSplitFallsBackToFixedWidth(t *testing.T) {
	word := strings.Repeat("x", 250)
	got := Split(word, Options{MaxRunes: 100})

	assert.Equal(t, []string{strings.Repeat("x", 100), strings.Repeat("x", 100), strings.Repeat("x", 50)}, got)
}

func TestSplitMultibyte(t *testing.T) {
	text := strings.Repeat("日本語のテキスト。", 20)
	got := Split(text, SpeechOptions())

	assert.Greater(t, len(got), 1)
	for _, piece := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(piece), 100)
		assert.True(t, utf8.ValidString(piece))
	}
}

func TestSplitRawIsLossless(t *testing.T) {
	opts := Options{MaxRunes: 20, Separators: SpeechOptions().Separators}
	for _, text := range []string{
		"",
		strings.Repeat("日本語のテキスト。", 10),
		"Hello there. ... How are you today, my friend?\n  -- !! --  ",
		strings.Repeat("x", 45),
	} {
		got := SplitRaw(text, opts)
		assert.Equal(t, text, strings.Join(got, ""))
		for _, piece := range got {
			assert.NotEmpty(t, piece)
			assert.LessOrEqual(t, utf8.RuneCountInString(piece), 20, piece)
		}
	}
}
