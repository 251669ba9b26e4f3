package tokenizer

import (
	"reflect"
	"testing"
)

func TestTemplateProcessing(t *testing.T) {
	t.Parallel()

	p := &TemplateProcessing{steps: []templateStep{
		{isToken: true, id: 1},
		{},
		{isToken: true, id: 2},
	}}
	enc := &Encoding{InputIDs: []int{10, 11}, AttentionMask: []int{1, 1}}
	p.Process(enc)

	if !reflect.DeepEqual(enc.InputIDs, []int{1, 10, 11, 2}) {
		t.Fatalf("processed ids: got %v", enc.InputIDs)
	}
	if !reflect.DeepEqual(enc.AttentionMask, []int{1, 1, 1, 1}) {
		t.Fatalf("mask: got %v", enc.AttentionMask)
	}
}

func TestTemplateProcessingSkipsUnknownTokens(t *testing.T) {
	t.Parallel()

	p := &TemplateProcessing{steps: []templateStep{
		{isToken: true, id: -1},
		{},
	}}
	enc := &Encoding{InputIDs: []int{5}}
	p.Process(enc)
	if !reflect.DeepEqual(enc.InputIDs, []int{5}) {
		t.Fatalf("unknown token must be skipped: got %v", enc.InputIDs)
	}
}

func TestTemplateLeadingTrailing(t *testing.T) {
	t.Parallel()

	p := &TemplateProcessing{steps: []templateStep{
		{isToken: true, id: 101},
		{},
		{isToken: true, id: 102},
	}}
	if got := p.leadingToken(); got != 101 {
		t.Fatalf("leading: got %d", got)
	}
	if got := p.trailingToken(); got != 102 {
		t.Fatalf("trailing: got %d", got)
	}
}
