package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func newTestWordPiece(entries map[string]int, unk string) *WordPieceModel {
	v := NewVocab(len(entries))
	for tok, id := range entries {
		v.Add(tok, id)
	}
	return NewWordPieceModel(v, v.ID(unk), "##", 100)
}

func TestWordPieceGreedyLongestPrefix(t *testing.T) {
	t.Parallel()

	m := newTestWordPiece(map[string]int{
		"hello": 0, "##ing": 1, "world": 2, "[UNK]": 100,
	}, "[UNK]")

	if got := m.Tokenize("hello"); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("hello: got %v", got)
	}
	if got := m.Tokenize("helloing"); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("helloing: got %v", got)
	}
}

func TestWordPieceBadWordIsUnk(t *testing.T) {
	t.Parallel()

	m := newTestWordPiece(map[string]int{
		"hello": 0, "[UNK]": 100,
	}, "[UNK]")

	if got := m.Tokenize("xyz"); !reflect.DeepEqual(got, []int{100}) {
		t.Fatalf("xyz: got %v", got)
	}
	// A word with a known prefix but unknown continuation is bad as a whole.
	if got := m.Tokenize("helloxq"); !reflect.DeepEqual(got, []int{100}) {
		t.Fatalf("helloxq: got %v", got)
	}
}

func TestWordPieceMaxInputChars(t *testing.T) {
	t.Parallel()

	m := newTestWordPiece(map[string]int{"a": 0, "[UNK]": 100}, "[UNK]")
	long := strings.Repeat("a", 101)
	if got := m.Tokenize(long); !reflect.DeepEqual(got, []int{100}) {
		t.Fatalf("overlong word: got %v", got)
	}
}

func TestWordPieceContinuationPrefix(t *testing.T) {
	t.Parallel()

	m := newTestWordPiece(map[string]int{
		"un": 0, "##believ": 1, "##able": 2, "[UNK]": 100,
	}, "[UNK]")
	if got := m.Tokenize("unbelievable"); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("unbelievable: got %v", got)
	}
}
