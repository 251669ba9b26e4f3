package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type normalizerSequence struct {
	children []Normalizer
}

func (n *normalizerSequence) Normalize(text string) string {
	for _, c := range n.children {
		text = c.Normalize(text)
	}
	return text
}

type nfkcNormalizer struct{}

func (nfkcNormalizer) Normalize(text string) string {
	return norm.NFKC.String(text)
}

type nfkdNormalizer struct{}

func (nfkdNormalizer) Normalize(text string) string {
	return norm.NFKD.String(text)
}

type lowercaseNormalizer struct{}

func (lowercaseNormalizer) Normalize(text string) string {
	return strings.Map(unicode.ToLower, text)
}

// stripAccentsNormalizer decomposes and drops combining marks.
type stripAccentsNormalizer struct{}

func (stripAccentsNormalizer) Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

type prependNormalizer struct {
	prefix string
}

func (n *prependNormalizer) Normalize(text string) string {
	return n.prefix + text
}

type replaceNormalizer struct {
	pattern patternSpec
	content string
}

func (n *replaceNormalizer) Normalize(text string) string {
	return n.pattern.replaceAll(text, n.content)
}

// precompiledNormalizer approximates the SentencePiece precompiled charsmap:
// NFKC plus mapping zero-width joiners to spaces.
type precompiledNormalizer struct{}

func (precompiledNormalizer) Normalize(text string) string {
	return strings.ReplaceAll(norm.NFKC.String(text), "\u200d", " ")
}

type bertNormalizer struct {
	cleanText          bool
	handleChineseChars bool
	stripAccents       bool
	lowercase          bool
}

func (n *bertNormalizer) Normalize(text string) string {
	if n.cleanText {
		text = bertCleanText(text)
	}
	if n.handleChineseChars {
		text = bertSpaceChineseChars(text)
	}
	if n.stripAccents {
		text = stripAccentsNormalizer{}.Normalize(text)
	}
	if n.lowercase {
		text = lowercaseNormalizer{}.Normalize(text)
	}
	return text
}

func bertCleanText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0x0000 || r == 0xFFFD:
		case r == '\t' || r == '\n' || r == '\r' || unicode.Is(unicode.Zs, r):
			sb.WriteByte(' ')
		case unicode.Is(unicode.Cc, r):
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func bertSpaceChineseChars(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if isCJKChar(r) {
			sb.WriteByte(' ')
			sb.WriteRune(r)
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isCJKChar(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF,
		r >= 0x3400 && r <= 0x4DBF,
		r >= 0x20000 && r <= 0x2A6DF,
		r >= 0x2A700 && r <= 0x2B73F,
		r >= 0x2B740 && r <= 0x2B81F,
		r >= 0x2B820 && r <= 0x2CEAF,
		r >= 0xF900 && r <= 0xFAFF,
		r >= 0x2F800 && r <= 0x2FA1F:
		return true
	}
	return false
}
