package tokenizer

import (
	"reflect"
	"testing"
)

func TestByteLevelDecoder(t *testing.T) {
	t.Parallel()

	got := byteLevelDecoder{}.Decode([]string{"Hello", "Ġworld"})
	want := []string{"Hello", " world"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("byte level decode: got %v", got)
	}
}

func TestByteLevelDecoderPassesUnknownRunes(t *testing.T) {
	t.Parallel()

	got := byteLevelDecoder{}.Decode([]string{"已"})
	if got[0] != "已" {
		t.Fatalf("unknown rune must pass through, got %q", got[0])
	}
}

func TestByteFallbackDecoder(t *testing.T) {
	t.Parallel()

	got := byteFallbackDecoder{}.Decode([]string{"<0x41>", "<0xff>", "plain", "<0xFF>"})
	if got[0] != "A" {
		t.Fatalf("<0x41>: got %q", got[0])
	}
	if got[1] != "<0xff>" {
		t.Fatalf("lowercase hex must not decode, got %q", got[1])
	}
	if got[2] != "plain" {
		t.Fatalf("plain token touched: %q", got[2])
	}
	if got[3] != "\xff" {
		t.Fatalf("<0xFF>: got %q", got[3])
	}
}

func TestFuseDecoder(t *testing.T) {
	t.Parallel()

	got := fuseDecoder{}.Decode([]string{"a", "b", "c"})
	if !reflect.DeepEqual(got, []string{"abc"}) {
		t.Fatalf("fuse: got %v", got)
	}
}

func TestStripDecoder(t *testing.T) {
	t.Parallel()

	d := &stripDecoder{content: "▁", start: 1, stop: 1}
	got := d.Decode([]string{"▁Hello", "world▁"})
	want := []string{"Hello", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("strip: got %v", got)
	}
}

func TestReplaceDecoder(t *testing.T) {
	t.Parallel()

	d := &replaceDecoder{pattern: patternSpec{literal: "▁"}, content: " "}
	got := d.Decode([]string{"▁Hello", "▁world"})
	want := []string{" Hello", " world"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("replace: got %v", got)
	}
}

func TestWordPieceDecoder(t *testing.T) {
	t.Parallel()

	d := &wordPieceDecoder{prefix: "##", cleanup: false}
	got := d.Decode([]string{"un", "##believ", "##able", "yes"})
	want := []string{"unbelievable yes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wordpiece: got %v", got)
	}
}

func TestWordPieceDecoderCleanup(t *testing.T) {
	t.Parallel()

	d := &wordPieceDecoder{prefix: "##", cleanup: true}
	got := d.Decode([]string{"hello", ",", "world", "!"})
	want := []string{"hello, world!"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wordpiece cleanup: got %v", got)
	}
}

func TestMetaspaceDecoder(t *testing.T) {
	t.Parallel()

	d := &metaspaceDecoder{replacement: "▁", addPrefixSpace: true}
	got := d.Decode([]string{"▁Hello", "▁world"})
	want := []string{"Hello", " world"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("metaspace decode: got %v", got)
	}
}

func TestDecoderSequence(t *testing.T) {
	t.Parallel()

	d := &decoderSequence{children: []Decoder{
		&metaspaceDecoder{replacement: "▁", addPrefixSpace: true},
		byteFallbackDecoder{},
		fuseDecoder{},
	}}
	got := d.Decode([]string{"▁H", "ello", "<0x21>"})
	if !reflect.DeepEqual(got, []string{"Hello!"}) {
		t.Fatalf("sequence: got %v", got)
	}
}

func TestSetWordPieceCleanupPropagates(t *testing.T) {
	t.Parallel()

	wp := &wordPieceDecoder{prefix: "##", cleanup: true}
	seq := &decoderSequence{children: []Decoder{fuseDecoder{}, wp}}
	setWordPieceCleanup(seq, false)
	if wp.cleanup {
		t.Fatalf("cleanup flag did not propagate through the sequence")
	}
}
