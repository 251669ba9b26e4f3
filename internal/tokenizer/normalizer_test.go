package tokenizer

import "testing"

func TestNFKCNormalizer(t *testing.T) {
	t.Parallel()

	// U+FB01 LATIN SMALL LIGATURE FI decomposes compatibly to "fi".
	if got := (nfkcNormalizer{}).Normalize("ﬁ"); got != "fi" {
		t.Fatalf("NFKC: got %q want %q", got, "fi")
	}
}

func TestNFKDNormalizer(t *testing.T) {
	t.Parallel()

	got := (nfkdNormalizer{}).Normalize("é")
	if got != "é" {
		t.Fatalf("NFKD: got %q want %q", got, "é")
	}
}

func TestLowercaseNormalizer(t *testing.T) {
	t.Parallel()

	if got := (lowercaseNormalizer{}).Normalize("Hello WORLD"); got != "hello world" {
		t.Fatalf("lowercase: got %q", got)
	}
}

func TestStripAccents(t *testing.T) {
	t.Parallel()

	if got := (stripAccentsNormalizer{}).Normalize("café naïve"); got != "cafe naive" {
		t.Fatalf("strip accents: got %q", got)
	}
}

func TestPrependNormalizer(t *testing.T) {
	t.Parallel()

	n := &prependNormalizer{prefix: "▁"}
	if got := n.Normalize("text"); got != "▁text" {
		t.Fatalf("prepend: got %q", got)
	}
}

func TestReplaceNormalizerLiteral(t *testing.T) {
	t.Parallel()

	n := &replaceNormalizer{pattern: patternSpec{literal: " "}, content: "▁"}
	if got := n.Normalize("a b c"); got != "a▁b▁c" {
		t.Fatalf("replace literal: got %q", got)
	}
}

func TestReplaceNormalizerRegex(t *testing.T) {
	t.Parallel()

	n := &replaceNormalizer{pattern: patternSpec{regex: compileStageRegex(`\s+`)}, content: " "}
	if got := n.Normalize("a  \t b"); got != "a b" {
		t.Fatalf("replace regex: got %q", got)
	}
}

func TestPrecompiledNormalizer(t *testing.T) {
	t.Parallel()

	if got := (precompiledNormalizer{}).Normalize("a\u200db"); got != "a b" {
		t.Fatalf("precompiled must map ZWJ to space, got %q", got)
	}
}

func TestBertNormalizerCleanText(t *testing.T) {
	t.Parallel()

	n := &bertNormalizer{cleanText: true}
	if got := n.Normalize("a\tb\x00c\uFFFDd\ne"); got != "a bcd e" {
		t.Fatalf("clean text: got %q", got)
	}
}

func TestBertNormalizerChineseChars(t *testing.T) {
	t.Parallel()

	n := &bertNormalizer{handleChineseChars: true}
	if got := n.Normalize("ab你好cd"); got != "ab 你  好 cd" {
		t.Fatalf("chinese chars: got %q", got)
	}
}

func TestBertNormalizerLowercaseAndAccents(t *testing.T) {
	t.Parallel()

	n := &bertNormalizer{stripAccents: true, lowercase: true}
	if got := n.Normalize("Café"); got != "cafe" {
		t.Fatalf("bert lowercase+accents: got %q", got)
	}
}

func TestNormalizerSequence(t *testing.T) {
	t.Parallel()

	n := &normalizerSequence{children: []Normalizer{
		lowercaseNormalizer{},
		&prependNormalizer{prefix: "_"},
	}}
	if got := n.Normalize("AB"); got != "_ab" {
		t.Fatalf("sequence order: got %q", got)
	}
}
