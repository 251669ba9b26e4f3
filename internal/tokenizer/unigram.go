package tokenizer

import "math"

// unkFallbackScore is charged for an unknown character when the vocabulary
// declares no unk entry.
const unkFallbackScore = -10.0

// UnigramModel segments fragments by Viterbi search over a scored
// vocabulary. Ids are vocabulary positions; scores are log-probabilities,
// higher is better.
type UnigramModel struct {
	vocab        *Vocab
	scores       []float64
	unkID        int
	byteFallback bool
	maxTokenLen  int
}

func NewUnigramModel(vocab *Vocab, scores []float64, unkID int, byteFallback bool) *UnigramModel {
	maxLen := 0
	for id := range scores {
		if l := len(vocab.Token(id)); l > maxLen {
			maxLen = l
		}
	}
	return &UnigramModel{
		vocab:        vocab,
		scores:       scores,
		unkID:        unkID,
		byteFallback: byteFallback,
		maxTokenLen:  maxLen,
	}
}

func (m *UnigramModel) TokenToID(token string) int { return m.vocab.ID(token) }
func (m *UnigramModel) IDToToken(id int) string    { return m.vocab.Token(id) }
func (m *UnigramModel) VocabSize() int             { return m.vocab.Size() }

func (m *UnigramModel) scoreOf(id int) float64 {
	if id < 0 || id >= len(m.scores) {
		return unkFallbackScore
	}
	return m.scores[id]
}

func (m *UnigramModel) unkScore() float64 {
	if m.unkID < 0 {
		return unkFallbackScore
	}
	return m.scoreOf(m.unkID)
}

// Tokenize runs Viterbi over byte positions. Start positions are scanned
// longest-piece first with strictly-greater updates, so score ties resolve
// toward longer pieces, matching the reference segmentation.
func (m *UnigramModel) Tokenize(text string) []int {
	n := len(text)
	if n == 0 {
		return nil
	}

	best := make([]float64, n+1)
	prev := make([]int, n+1)
	chosen := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(-1)
		prev[i] = -1
		chosen[i] = -1
	}

	for i := 1; i <= n; i++ {
		lo := 0
		if m.maxTokenLen > 0 && i > m.maxTokenLen {
			lo = i - m.maxTokenLen
		}
		for j := lo; j < i; j++ {
			if math.IsInf(best[j], -1) {
				continue
			}
			sub := text[j:i]
			id := m.vocab.ID(sub)
			if id < 0 {
				if !m.byteFallback || i-j != 1 {
					continue
				}
				if hid := m.vocab.ID(hexByteToken(text[j])); hid >= 0 {
					id = hid
				} else if m.unkID >= 0 {
					id = m.unkID
				} else {
					continue
				}
			}
			if score := best[j] + m.scoreOf(id); score > best[i] {
				best[i] = score
				prev[i] = j
				chosen[i] = id
			}
		}

		// No piece covers this position: step over the whole UTF-8
		// character ending here as unk.
		if math.IsInf(best[i], -1) {
			start := i - 1
			for start > 0 && text[start]&0xC0 == 0x80 {
				start--
			}
			best[i] = best[start] + m.unkScore()
			prev[i] = start
			chosen[i] = m.unkID
		}
	}

	var rev []int
	for pos := n; pos > 0; pos = prev[pos] {
		rev = append(rev, chosen[pos])
	}

	out := make([]int, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		id := rev[i]
		if id < 0 {
			continue
		}
		// Merge runs of contiguous unk ids.
		if id == m.unkID && len(out) > 0 && out[len(out)-1] == m.unkID {
			continue
		}
		out = append(out, id)
	}
	return out
}
