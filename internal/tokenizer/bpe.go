package tokenizer

import (
	"cmp"
	"fmt"
	"sync"
	"unicode/utf8"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"
)

// BPEModel segments fragments by rank-ordered pair merging.
type BPEModel struct {
	vocab        *Vocab
	merges       MergeTable
	useByteLevel bool
	byteFallback bool

	mu    sync.RWMutex
	cache map[string][]int
}

func NewBPEModel(vocab *Vocab, merges MergeTable, useByteLevel, byteFallback bool) *BPEModel {
	return &BPEModel{
		vocab:        vocab,
		merges:       merges,
		useByteLevel: useByteLevel,
		byteFallback: byteFallback,
		cache:        make(map[string][]int),
	}
}

func (m *BPEModel) TokenToID(token string) int { return m.vocab.ID(token) }
func (m *BPEModel) IDToToken(id int) string    { return m.vocab.Token(id) }
func (m *BPEModel) VocabSize() int             { return m.vocab.Size() }

func hexByteToken(b byte) string {
	return fmt.Sprintf("<0x%02X>", b)
}

// initialIDs builds the pre-merge id sequence for a fragment.
func (m *BPEModel) initialIDs(text string) []int {
	out := make([]int, 0, len(text))
	if m.useByteLevel {
		for _, b := range []byte(text) {
			if id := m.vocab.ID(string(byteToChar[b])); id >= 0 {
				out = append(out, id)
			}
		}
		return out
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			if id := m.vocab.ID(hexByteToken(text[i])); id >= 0 {
				out = append(out, id)
			}
			i++
			continue
		}
		s := text[i : i+size]
		if id := m.vocab.ID(s); id >= 0 {
			out = append(out, id)
		} else if m.byteFallback {
			for j := 0; j < size; j++ {
				if id := m.vocab.ID(hexByteToken(s[j])); id >= 0 {
					out = append(out, id)
				}
			}
		}
		i += size
	}
	return out
}

// bpeNode is an element of the working sequence; merged-away nodes have an
// empty token.
type bpeNode struct {
	prev, next int
	id         int
	token      string
}

// bpeCandidate is a mergeable adjacent pair keyed by merge rank. left is the
// position of the left node, which preserves sequence order across merges so
// rank ties resolve to the leftmost pair.
type bpeCandidate struct {
	left, right int
	rank        int
	value       string
}

func (m *BPEModel) Tokenize(text string) []int {
	if text == "" {
		return nil
	}
	m.mu.RLock()
	if ids, ok := m.cache[text]; ok {
		m.mu.RUnlock()
		return ids
	}
	m.mu.RUnlock()

	ids := m.initialIDs(text)
	out := m.merge(ids)

	m.mu.Lock()
	m.cache[text] = out
	m.mu.Unlock()
	return out
}

func (m *BPEModel) merge(ids []int) []int {
	nodes := make([]bpeNode, len(ids))
	for i, id := range ids {
		nodes[i] = bpeNode{prev: i - 1, next: i + 1, id: id, token: m.vocab.Token(id)}
	}

	pairwise := func(a, b int) *bpeCandidate {
		if a < 0 || b >= len(nodes) {
			return nil
		}
		rank, ok := m.merges.Rank(nodes[a].id, nodes[b].id)
		if !ok {
			return nil
		}
		return &bpeCandidate{
			left:  a,
			right: b,
			rank:  rank,
			value: nodes[a].token + nodes[b].token,
		}
	}

	agenda := heap.NewWith(func(a, b *bpeCandidate) int {
		if a.rank != b.rank {
			return cmp.Compare(a.rank, b.rank)
		}
		return cmp.Compare(a.left, b.left)
	})
	for i := 0; i+1 < len(nodes); i++ {
		if c := pairwise(i, i+1); c != nil {
			agenda.Push(c)
		}
	}

	for !agenda.Empty() {
		c, _ := agenda.Pop()
		left, right := nodes[c.left], nodes[c.right]
		if left.token == "" || right.token == "" || left.token+right.token != c.value {
			continue
		}

		id := m.vocab.ID(c.value)
		if id < 0 {
			break
		}

		nodes[c.left].id = id
		nodes[c.left].token = c.value
		nodes[c.right].token = ""
		nodes[c.left].next = right.next
		if right.next < len(nodes) {
			nodes[right.next].prev = c.left
		}

		if next := pairwise(nodes[c.left].prev, c.left); next != nil {
			agenda.Push(next)
		}
		if next := pairwise(c.left, nodes[c.left].next); next != nil {
			agenda.Push(next)
		}
	}

	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if n.token != "" {
			out = append(out, n.id)
		}
	}
	return out
}
