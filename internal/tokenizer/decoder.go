package tokenizer

import "strings"

type decoderSequence struct {
	children []Decoder
}

func (d *decoderSequence) Decode(tokens []string) []string {
	for _, c := range d.children {
		tokens = c.Decode(tokens)
	}
	return tokens
}

// byteLevelDecoder maps visible codepoints back to raw bytes; characters
// outside the table pass through unchanged.
type byteLevelDecoder struct{}

func (byteLevelDecoder) Decode(tokens []string) []string {
	for i, t := range tokens {
		var sb strings.Builder
		sb.Grow(len(t))
		for _, r := range t {
			if b, ok := charToByte[r]; ok {
				sb.WriteByte(b)
			} else {
				sb.WriteRune(r)
			}
		}
		tokens[i] = sb.String()
	}
	return tokens
}

// byteFallbackDecoder turns <0xHH> tokens back into the raw byte they
// encode.
type byteFallbackDecoder struct{}

func (byteFallbackDecoder) Decode(tokens []string) []string {
	for i, t := range tokens {
		if b, ok := parseHexByteToken(t); ok {
			tokens[i] = string([]byte{b})
		}
	}
	return tokens
}

func parseHexByteToken(t string) (byte, bool) {
	if len(t) != 6 || !strings.HasPrefix(t, "<0x") || t[5] != '>' {
		return 0, false
	}
	hi, ok1 := hexNibble(t[3])
	lo, ok2 := hexNibble(t[4])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

// hexNibble accepts uppercase hex only, matching the <0xHH> spelling the
// byte-fallback path emits.
func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

type fuseDecoder struct{}

func (fuseDecoder) Decode(tokens []string) []string {
	if len(tokens) <= 1 {
		return tokens
	}
	return []string{strings.Join(tokens, "")}
}

type stripDecoder struct {
	content string
	start   int
	stop    int
}

func (d *stripDecoder) Decode(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}
	if d.start > 0 {
		tokens[0] = strings.TrimPrefix(tokens[0], d.content)
	}
	if d.stop > 0 {
		last := len(tokens) - 1
		tokens[last] = strings.TrimSuffix(tokens[last], d.content)
	}
	return tokens
}

type replaceDecoder struct {
	pattern patternSpec
	content string
}

func (d *replaceDecoder) Decode(tokens []string) []string {
	for i, t := range tokens {
		tokens[i] = d.pattern.replaceAll(t, d.content)
	}
	return tokens
}

// wordPieceCleanup suppresses the space before sentence punctuation and
// around single quotes.
var wordPieceCleanup = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" !", "!",
	" ?", "?",
	" '", "'",
	"' ", "'",
)

// wordPieceDecoder joins tokens with spaces; a token beginning with the
// continuation prefix loses it and fuses with the previous token.
type wordPieceDecoder struct {
	prefix  string
	cleanup bool
}

func (d *wordPieceDecoder) Decode(tokens []string) []string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			if strings.HasPrefix(t, d.prefix) {
				t = strings.TrimPrefix(t, d.prefix)
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t)
	}
	out := sb.String()
	if d.cleanup {
		out = wordPieceCleanup.Replace(out)
	}
	return []string{out}
}

// metaspaceDecoder inverts the metaspace substitution.
type metaspaceDecoder struct {
	replacement    string
	addPrefixSpace bool
}

func (d *metaspaceDecoder) Decode(tokens []string) []string {
	for i, t := range tokens {
		t = strings.ReplaceAll(t, d.replacement, " ")
		if i == 0 && d.addPrefixSpace {
			t = strings.TrimPrefix(t, " ")
		}
		tokens[i] = t
	}
	return tokens
}

// setWordPieceCleanup propagates the clean_up_tokenization_spaces flag into
// any WordPiece decoder, through Sequences.
func setWordPieceCleanup(d Decoder, cleanup bool) {
	switch v := d.(type) {
	case *decoderSequence:
		for _, c := range v.children {
			setWordPieceCleanup(c, cleanup)
		}
	case *wordPieceDecoder:
		v.cleanup = cleanup
	}
}
