package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 1, CountTokens(""))
	assert.Equal(t, 3, CountTokens("Hello there"))
	assert.Equal(t, 3, CountTokens("こんにちは"[:9]))
	assert.Equal(t, 5, CountTokens("こんにちは"))
}

func TestOutputBudget(t *testing.T) {
	assert.Equal(t, 256, OutputBudget("Hello", 256, 8192))
	assert.Equal(t, 8192, OutputBudget(strings.Repeat("語", 10000), 256, 8192))

	text := strings.Repeat("abcd", 500) // 500 tokens
	assert.Equal(t, 1064, OutputBudget(text, 256, 8192))
}
