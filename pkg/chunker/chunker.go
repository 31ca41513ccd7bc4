package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options controls how text is cut into pieces.
type Options struct {
	MaxRunes int // upper bound on the length of each piece
	// Separators are tried in order. A separator stays attached to the text
	// before it, so punctuation survives the split.
	Separators []string
}

// SpeechOptions returns the settings used for speech synthesis endpoints that
// only accept short inputs: pieces of at most 100 runes, cut at line breaks,
// then sentence and clause punctuation, then spaces.
func SpeechOptions() Options {
	return Options{
		MaxRunes: 100,
		Separators: []string{
			"\n",
			". ", "! ", "? ", "。", "！", "？",
			"; ", ": ", ", ", "、", "，",
			" ",
		},
	}
}

// Split cuts text into trimmed pieces of at most opts.MaxRunes runes. Pieces
// that contain no letters or digits are dropped, since there is nothing in
// them to pronounce.
func Split(text string, opts Options) []string {
	if opts.MaxRunes <= 0 {
		opts.MaxRunes = 100
	}

	var pieces []string
	for _, part := range splitRecursive(text, opts.Separators, opts.MaxRunes) {
		part = strings.TrimSpace(part)
		if !speakable(part) {
			continue
		}
		pieces = append(pieces, part)
	}
	return pieces
}

// SplitRaw cuts text like Split but keeps every rune: pieces are not trimmed
// and none are dropped, so joining them with "" gives back text.
func SplitRaw(text string, opts Options) []string {
	if opts.MaxRunes <= 0 {
		opts.MaxRunes = 100
	}

	var pieces []string
	for _, part := range splitRecursive(text, opts.Separators, opts.MaxRunes) {
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

func splitRecursive(text string, separators []string, maxRunes int) []string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	if len(separators) == 0 {
		return splitFixed(text, maxRunes)
	}

	var result []string
	var current strings.Builder
	currentLen := 0

	for _, part := range strings.SplitAfter(text, separators[0]) {
		partLen := utf8.RuneCountInString(part)
		if currentLen > 0 && currentLen+partLen > maxRunes {
			result = append(result, splitRecursive(current.String(), separators[1:], maxRunes)...)
			current.Reset()
			currentLen = 0
		}
		current.WriteString(part)
		currentLen += partLen
	}

	if currentLen > 0 {
		result = append(result, splitRecursive(current.String(), separators[1:], maxRunes)...)
	}

	return result
}

func splitFixed(text string, maxRunes int) []string {
	var result []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += maxRunes {
		end := i + maxRunes
		if end > len(runes) {
			end = len(runes)
		}
		result = append(result, string(runes[i:end]))
	}
	return result
}

func speakable(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
