package tokenizer

import (
	"unicode/utf8"
)

// CountTokens provides a rough token count estimate: about four ASCII
// characters per token, one token per non-ASCII rune.
func CountTokens(text string) int {
	ascii, other := 0, 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			ascii++
		} else {
			other++
		}
	}
	return max((ascii+3)/4+other, 1)
}

// OutputBudget estimates how many tokens a model needs to restate text in
// another language, clamped to [floor, ceiling].
func OutputBudget(text string, floor, ceiling int) int {
	// Scripts differ a lot in tokens per word, so leave room for doubling.
	n := CountTokens(text)*2 + 64
	return min(max(n, floor), ceiling)
}
