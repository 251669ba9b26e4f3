package tokenizer

import (
	"strings"
	"unicode"
)

// gpt2SplitPattern is the GPT-2 pre-tokenization regex. The \s+(?!\S)
// branch needs lookahead support.
const gpt2SplitPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

const (
	splitBehaviorIsolated = "Isolated"
	splitBehaviorRemoved  = "Removed"
)

type preTokenizerSequence struct {
	children []PreTokenizer
}

func (p *preTokenizerSequence) PreTokenize(pts *PreTokenizedString) {
	for _, c := range p.children {
		c.PreTokenize(pts)
	}
}

// splitPreTokenizer scans each fragment with a regex. With invert=false the
// text between matches is kept and each matched region is isolated or
// removed per behavior; with invert=true only the matched regions survive.
type splitPreTokenizer struct {
	re       *stageRegex
	invert   bool
	behavior string
}

func (p *splitPreTokenizer) PreTokenize(pts *PreTokenizedString) {
	if !p.re.valid() {
		return
	}
	var next []string
	for _, s := range pts.Splits {
		next = appendRegexSplits(next, p.re, s, p.invert, p.behavior)
	}
	pts.Splits = next
}

// appendRegexSplits walks s with re from the left. Zero-width matches
// advance the cursor by one rune so the scan always terminates.
func appendRegexSplits(dst []string, re *stageRegex, s string, invert bool, behavior string) []string {
	rs := []rune(s)
	cursor := 0
	for cursor < len(rs) {
		ms, me, ok := re.search(rs, cursor)
		if !ok {
			if !invert {
				dst = append(dst, string(rs[cursor:]))
			}
			break
		}
		if invert {
			if me > ms {
				dst = append(dst, string(rs[ms:me]))
			}
		} else {
			if ms > cursor {
				dst = append(dst, string(rs[cursor:ms]))
			}
			if behavior == splitBehaviorIsolated && me > ms {
				dst = append(dst, string(rs[ms:me]))
			}
		}
		cursor = me
		if ms == me {
			cursor++
		}
	}
	return dst
}

// byteLevelPreTokenizer optionally splits by the GPT-2 pattern, then remaps
// every raw byte of every fragment to its visible codepoint.
type byteLevelPreTokenizer struct {
	useRegex bool
	re       *stageRegex
}

func newByteLevelPreTokenizer(useRegex bool) *byteLevelPreTokenizer {
	p := &byteLevelPreTokenizer{useRegex: useRegex}
	if useRegex {
		p.re = compileStageRegex(gpt2SplitPattern)
	}
	return p
}

func (p *byteLevelPreTokenizer) PreTokenize(pts *PreTokenizedString) {
	if p.useRegex && p.re.valid() {
		var next []string
		for _, s := range pts.Splits {
			if s == "" {
				continue
			}
			next = appendRegexSplits(next, p.re, s, false, splitBehaviorIsolated)
		}
		pts.Splits = next
	}
	for i, s := range pts.Splits {
		pts.Splits[i] = visibleString(s)
	}
}

// digitsPreTokenizer isolates each ASCII digit when individualDigits is set.
type digitsPreTokenizer struct {
	individualDigits bool
}

func (p *digitsPreTokenizer) PreTokenize(pts *PreTokenizedString) {
	if !p.individualDigits {
		return
	}
	var next []string
	for _, s := range pts.Splits {
		var current strings.Builder
		for _, r := range s {
			if r >= '0' && r <= '9' {
				if current.Len() > 0 {
					next = append(next, current.String())
					current.Reset()
				}
				next = append(next, string(r))
			} else {
				current.WriteRune(r)
			}
		}
		if current.Len() > 0 {
			next = append(next, current.String())
		}
	}
	pts.Splits = next
}

// metaspacePreTokenizer substitutes spaces with the replacement sentinel
// (conventionally U+2581) so word boundaries become intrinsic to tokens.
type metaspacePreTokenizer struct {
	replacement    string
	addPrefixSpace bool
}

func (p *metaspacePreTokenizer) PreTokenize(pts *PreTokenizedString) {
	for i, s := range pts.Splits {
		if p.addPrefixSpace && !strings.HasPrefix(s, " ") {
			s = " " + s
		}
		pts.Splits[i] = strings.ReplaceAll(s, " ", p.replacement)
	}
}

// bertPreTokenizer splits on whitespace (dropped) and isolates punctuation
// codepoints into single-character fragments.
type bertPreTokenizer struct{}

func (bertPreTokenizer) PreTokenize(pts *PreTokenizedString) {
	var next []string
	for _, s := range pts.Splits {
		var current strings.Builder
		flush := func() {
			if current.Len() > 0 {
				next = append(next, current.String())
				current.Reset()
			}
		}
		for _, r := range s {
			switch {
			case unicode.IsSpace(r):
				flush()
			case isBertPunct(r):
				flush()
				next = append(next, string(r))
			default:
				current.WriteRune(r)
			}
		}
		flush()
	}
	pts.Splits = next
}

// isBertPunct treats the ASCII symbol ranges as punctuation in addition to
// the Unicode P* categories, matching BERT's tokenizer.
func isBertPunct(r rune) bool {
	switch {
	case r >= 33 && r <= 47, r >= 58 && r <= 64, r >= 91 && r <= 96, r >= 123 && r <= 126:
		return true
	}
	return unicode.IsPunct(r)
}

type whitespaceSplitPreTokenizer struct{}

func (whitespaceSplitPreTokenizer) PreTokenize(pts *PreTokenizedString) {
	var next []string
	for _, s := range pts.Splits {
		next = append(next, strings.FieldsFunc(s, unicode.IsSpace)...)
	}
	pts.Splits = next
}
