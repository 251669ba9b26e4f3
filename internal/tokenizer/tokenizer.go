package tokenizer

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tokay-ml/tokay/internal/tplparser"
)

// Message is a chat message for template rendering.
type Message = tplparser.Message

type specialTokenIDs struct {
	pad, bos, eos, unk int
}

// Tokenizer owns the composed pipeline plus the added-token registry and
// the chat-template renderer. It is immutable after LoadFromJSON; Encode,
// Decode, and ApplyChatTemplate are safe to call concurrently.
type Tokenizer struct {
	normalizer Normalizer
	pre        PreTokenizer
	model      Model
	post       *TemplateProcessing
	decoder    Decoder

	splitter  *addedTokenSplitter
	added     []AddedToken
	addedByID map[int]*AddedToken
	specials  specialTokenIDs

	chatTemplate string
	tmpl         *tplparser.Template
}

func New() *Tokenizer {
	return &Tokenizer{
		addedByID: make(map[int]*AddedToken),
		specials:  specialTokenIDs{pad: -1, bos: -1, eos: -1, unk: -1},
	}
}

// vocabInserter lets added tokens be registered with the model vocabulary
// after construction.
type vocabInserter interface {
	insertToken(content string, id int)
}

func (m *BPEModel) insertToken(content string, id int)       { m.vocab.Add(content, id) }
func (m *WordPieceModel) insertToken(content string, id int) { m.vocab.Add(content, id) }
func (m *UnigramModel) insertToken(content string, id int)   { m.vocab.Add(content, id) }

// LoadFromJSON builds the pipeline from a configuration bundle. It returns
// false when the root is malformed or no model section is present.
func (t *Tokenizer) LoadFromJSON(data []byte) bool {
	return t.loadBundle(data, nil)
}

func (t *Tokenizer) loadBundle(data []byte, extraOverrides map[string]any) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil || probe == nil {
		return false
	}
	var bundle bundleJSON
	if err := json.Unmarshal(data, &bundle); err != nil {
		return false
	}

	modelNode, ok := decodeNode(bundle.Model)
	if !ok {
		return false
	}

	preNode, _ := decodeNode(bundle.PreTokenizer)
	postNode, _ := decodeNode(bundle.PostProcessor)
	decoderNode, _ := decodeNode(bundle.Decoder)

	// Byte-level anywhere in the pipeline turns on the BPE byte path, but a
	// ByteLevel pre-tokenizer already remaps input, so the model must not
	// remap again.
	anyByteLevel := nodeHasByteLevel(preNode) || nodeHasByteLevel(postNode) || nodeHasByteLevel(decoderNode)
	preByteLevel := nodeHasByteLevel(preNode)
	t.model = buildModel(modelNode, anyByteLevel && !preByteLevel)

	if n, ok := decodeNode(bundle.Normalizer); ok {
		t.normalizer = buildNormalizer(n)
	}
	if preNode != nil {
		t.pre = buildPreTokenizer(preNode)
	}
	if decoderNode != nil {
		t.decoder = buildDecoder(decoderNode)
	}
	if t.decoder == nil {
		t.decoder = byteLevelDecoder{}
	}
	if postNode != nil {
		t.post = buildPostProcessor(postNode, t.model.TokenToID)
	}

	t.loadAddedTokens(bundle.AddedTokens)
	t.backfillSpecialsFromTemplate()
	t.applyOverrides(bundle.ConfigOverrides)
	t.applyOverrides(extraOverrides)
	t.splitter = newAddedTokenSplitter(t.added)
	return true
}

func (t *Tokenizer) loadAddedTokens(items []addedTokenJSON) {
	for _, item := range items {
		if item.Content == "" || item.ID == nil {
			continue
		}
		at := AddedToken{
			ID:         *item.ID,
			Content:    item.Content,
			Special:    item.Special,
			LStrip:     item.LStrip,
			RStrip:     item.RStrip,
			Normalized: item.Normalized,
		}
		t.added = append(t.added, at)

		switch at.Content {
		case "[PAD]", "<pad>":
			t.specials.pad = at.ID
		case "[BOS]", "<s>", "<bos>":
			t.specials.bos = at.ID
		case "[EOS]", "</s>", "<eos>":
			t.specials.eos = at.ID
		case "[UNK]", "<unk>":
			t.specials.unk = at.ID
		}

		if ins, ok := t.model.(vocabInserter); ok {
			ins.insertToken(at.Content, at.ID)
		}
	}
	for i := range t.added {
		t.addedByID[t.added[i].ID] = &t.added[i]
	}
}

// backfillSpecialsFromTemplate adopts the post-processor template's leading
// and trailing special tokens when the canonical-spelling scan found none.
func (t *Tokenizer) backfillSpecialsFromTemplate() {
	if t.post == nil {
		return
	}
	if t.specials.bos == -1 {
		t.specials.bos = t.post.leadingToken()
	}
	if t.specials.eos == -1 {
		t.specials.eos = t.post.trailingToken()
	}
}

func (t *Tokenizer) applyOverrides(overrides map[string]any) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["bos_token"]; ok {
		t.specials.bos = t.TokenToID(tokenContent(v))
	}
	if v, ok := overrides["eos_token"]; ok {
		t.specials.eos = t.TokenToID(tokenContent(v))
	}
	if v, ok := overrides["pad_token"]; ok {
		t.specials.pad = t.TokenToID(tokenContent(v))
	}
	if v, ok := overrides["unk_token"]; ok {
		t.specials.unk = t.TokenToID(tokenContent(v))
	}
}

// Encode converts text to token ids. Added tokens are matched in the raw
// text before normalization; only literal runs flow through the pipeline.
func (t *Tokenizer) Encode(text string, addSpecialTokens bool) []int {
	if t.model == nil || text == "" {
		return nil
	}

	var ids []int
	if addSpecialTokens && t.specials.bos != -1 {
		ids = append(ids, t.specials.bos)
	}

	for _, unit := range t.splitter.split(text) {
		if unit.added {
			if id := t.TokenToID(unit.text); id != -1 {
				ids = append(ids, id)
			}
			continue
		}

		s := unit.text
		if t.normalizer != nil {
			s = t.normalizer.Normalize(s)
		}
		if s == "" {
			continue
		}

		pts := &PreTokenizedString{Splits: []string{s}}
		if t.pre != nil {
			t.pre.PreTokenize(pts)
		}
		for _, frag := range pts.Splits {
			ids = append(ids, t.model.Tokenize(frag)...)
		}
	}

	if addSpecialTokens && t.specials.eos != -1 {
		ids = append(ids, t.specials.eos)
	}
	return ids
}

// EncodeFull returns the id sequence with its all-ones attention mask.
func (t *Tokenizer) EncodeFull(text string, addSpecialTokens bool) Encoding {
	ids := t.Encode(text, addSpecialTokens)
	mask := make([]int, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return Encoding{InputIDs: ids, AttentionMask: mask}
}

// Decode maps ids back to text. Ids without a token contribute nothing;
// special added tokens are dropped when skipSpecialTokens is set.
func (t *Tokenizer) Decode(ids []int, skipSpecialTokens bool) string {
	if t.model == nil {
		return ""
	}
	var tokens []string
	for _, id := range ids {
		if skipSpecialTokens {
			if at := t.addedByID[id]; at != nil && at.Special {
				continue
			}
		}
		if s := t.model.IDToToken(id); s != "" {
			tokens = append(tokens, s)
		}
	}
	if t.decoder != nil {
		tokens = t.decoder.Decode(tokens)
	}
	return strings.Join(tokens, "")
}

func (t *Tokenizer) TokenToID(token string) int {
	if t.model == nil {
		return -1
	}
	return t.model.TokenToID(token)
}

func (t *Tokenizer) IDToToken(id int) string {
	if t.model == nil {
		return ""
	}
	return t.model.IDToToken(id)
}

func (t *Tokenizer) VocabSize() int {
	if t.model == nil {
		return 0
	}
	return t.model.VocabSize()
}

func (t *Tokenizer) PadTokenID() int { return t.specials.pad }
func (t *Tokenizer) BosTokenID() int { return t.specials.bos }
func (t *Tokenizer) EosTokenID() int { return t.specials.eos }
func (t *Tokenizer) UnkTokenID() int { return t.specials.unk }

// AddedTokens returns the declared added-token registry.
func (t *Tokenizer) AddedTokens() []AddedToken {
	return t.added
}

// SetChatTemplate installs a chat template; an unparsable template leaves
// rendering disabled.
func (t *Tokenizer) SetChatTemplate(source string) {
	t.chatTemplate = source
	tmpl, err := tplparser.Parse(source)
	if err != nil {
		t.tmpl = nil
		return
	}
	t.tmpl = tmpl
}

func (t *Tokenizer) ChatTemplate() string {
	return t.chatTemplate
}

// ApplyChatTemplate renders messages into a prompt string. It returns ""
// when no template is set or rendering fails.
func (t *Tokenizer) ApplyChatTemplate(messages []Message, addGenerationPrompt bool) string {
	if t.tmpl == nil {
		return ""
	}
	out, err := t.tmpl.Render(tplparser.RenderOptions{
		BOSToken:            t.IDToToken(t.specials.bos),
		EOSToken:            t.IDToToken(t.specials.eos),
		Messages:            messages,
		AddGenerationPrompt: addGenerationPrompt,
	})
	if err != nil {
		return ""
	}
	return out
}

// SetCleanUpTokenizationSpaces toggles the cleanup flag of any WordPiece
// decoder in the chain.
func (t *Tokenizer) SetCleanUpTokenizationSpaces(clean bool) {
	setWordPieceCleanup(t.decoder, clean)
}

// PostProcessor returns the TemplateProcessing built at load, if any.
func (t *Tokenizer) PostProcessor() *TemplateProcessing {
	return t.post
}
