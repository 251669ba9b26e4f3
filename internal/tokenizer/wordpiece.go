package tokenizer

// WordPieceModel segments a word by greedy longest-prefix lookup, prefixing
// continuation pieces (typically with "##").
type WordPieceModel struct {
	vocab         *Vocab
	unkID         int
	prefix        string
	maxInputChars int
}

func NewWordPieceModel(vocab *Vocab, unkID int, prefix string, maxInputChars int) *WordPieceModel {
	return &WordPieceModel{
		vocab:         vocab,
		unkID:         unkID,
		prefix:        prefix,
		maxInputChars: maxInputChars,
	}
}

func (m *WordPieceModel) TokenToID(token string) int { return m.vocab.ID(token) }
func (m *WordPieceModel) IDToToken(id int) string    { return m.vocab.Token(id) }
func (m *WordPieceModel) VocabSize() int             { return m.vocab.Size() }

func (m *WordPieceModel) unk() []int {
	if m.unkID < 0 {
		return nil
	}
	return []int{m.unkID}
}

func (m *WordPieceModel) Tokenize(text string) []int {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) > m.maxInputChars {
		return m.unk()
	}

	var out []int
	start := 0
	for start < len(runes) {
		end := len(runes)
		piece := -1
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = m.prefix + sub
			}
			if id := m.vocab.ID(sub); id >= 0 {
				piece = id
				break
			}
			end--
		}
		if piece < 0 {
			return m.unk()
		}
		out = append(out, piece)
		start = end
	}
	return out
}
