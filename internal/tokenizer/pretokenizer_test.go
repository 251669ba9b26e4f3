package tokenizer

import (
	"reflect"
	"testing"
	"time"
)

func pretokenize(p PreTokenizer, fragments ...string) []string {
	pts := &PreTokenizedString{Splits: fragments}
	p.PreTokenize(pts)
	return pts.Splits
}

func TestSplitIsolated(t *testing.T) {
	t.Parallel()

	p := &splitPreTokenizer{re: compileStageRegex(`,`), behavior: splitBehaviorIsolated}
	got := pretokenize(p, "a,b,c")
	want := []string{"a", ",", "b", ",", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("isolated: got %v want %v", got, want)
	}
}

func TestSplitRemoved(t *testing.T) {
	t.Parallel()

	p := &splitPreTokenizer{re: compileStageRegex(`,`), behavior: splitBehaviorRemoved}
	got := pretokenize(p, "a,b,c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("removed: got %v want %v", got, want)
	}
}

func TestSplitInvert(t *testing.T) {
	t.Parallel()

	p := &splitPreTokenizer{re: compileStageRegex(`\d+`), invert: true}
	got := pretokenize(p, "ab12cd345")
	want := []string{"12", "345"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invert: got %v want %v", got, want)
	}
}

func TestSplitZeroWidthTerminates(t *testing.T) {
	t.Parallel()

	// A pattern that matches the empty string at every position must not
	// loop forever; the cursor advances one rune per zero-width match.
	p := &splitPreTokenizer{re: compileStageRegex(`x*`), behavior: splitBehaviorRemoved}
	done := make(chan []string, 1)
	go func() { done <- pretokenize(p, "abc") }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("zero-width scan did not terminate")
	}
}

func TestSplitInvalidRegexIsInert(t *testing.T) {
	t.Parallel()

	p := &splitPreTokenizer{re: compileStageRegex(`(unclosed`), behavior: splitBehaviorIsolated}
	got := pretokenize(p, "abc")
	want := []string{"abc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid regex must be inert: got %v", got)
	}
}

func TestByteLevelRegexSplit(t *testing.T) {
	t.Parallel()

	p := newByteLevelPreTokenizer(true)
	got := pretokenize(p, "Hello world")
	want := []string{"Hello", "Ġworld"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("byte level: got %v want %v", got, want)
	}
}

func TestByteLevelContractions(t *testing.T) {
	t.Parallel()

	p := newByteLevelPreTokenizer(true)
	got := pretokenize(p, "it's here")
	want := []string{"it", "'s", "Ġhere"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("contractions: got %v want %v", got, want)
	}
}

func TestByteLevelNoRegex(t *testing.T) {
	t.Parallel()

	p := newByteLevelPreTokenizer(false)
	got := pretokenize(p, "a b")
	want := []string{"aĠb"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("no-regex byte level: got %v want %v", got, want)
	}
}

func TestDigitsIndividual(t *testing.T) {
	t.Parallel()

	p := &digitsPreTokenizer{individualDigits: true}
	got := pretokenize(p, "ab12cd3")
	want := []string{"ab", "1", "2", "cd", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("digits: got %v want %v", got, want)
	}
}

func TestDigitsGroupedIsIdentity(t *testing.T) {
	t.Parallel()

	p := &digitsPreTokenizer{}
	got := pretokenize(p, "ab12cd")
	want := []string{"ab12cd"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("grouped digits: got %v want %v", got, want)
	}
}

func TestMetaspace(t *testing.T) {
	t.Parallel()

	p := &metaspacePreTokenizer{replacement: "▁", addPrefixSpace: true}
	got := pretokenize(p, "Hello world", "next")
	want := []string{"▁Hello▁world", "▁next"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("metaspace: got %v want %v", got, want)
	}
}

func TestMetaspaceNoPrefix(t *testing.T) {
	t.Parallel()

	p := &metaspacePreTokenizer{replacement: "▁"}
	got := pretokenize(p, "a b")
	want := []string{"a▁b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("metaspace no prefix: got %v want %v", got, want)
	}
}

func TestBertPreTokenizer(t *testing.T) {
	t.Parallel()

	got := pretokenize(bertPreTokenizer{}, "hey, you!")
	want := []string{"hey", ",", "you", "!"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bert: got %v want %v", got, want)
	}
}

func TestWhitespaceSplit(t *testing.T) {
	t.Parallel()

	got := pretokenize(whitespaceSplitPreTokenizer{}, "a \t b\nc")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("whitespace: got %v want %v", got, want)
	}
}

func TestPreTokenizerSequence(t *testing.T) {
	t.Parallel()

	p := &preTokenizerSequence{children: []PreTokenizer{
		whitespaceSplitPreTokenizer{},
		&digitsPreTokenizer{individualDigits: true},
	}}
	got := pretokenize(p, "ab 12")
	want := []string{"ab", "1", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sequence: got %v want %v", got, want)
	}
}
