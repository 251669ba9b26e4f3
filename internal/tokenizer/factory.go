package tokenizer

// Stage factories. Each builds one pipeline stage from its configuration
// node; unknown atom types yield nil and are skipped, and a stage whose
// regex fails to compile is inert rather than fatal.

func buildNormalizer(n cfgNode) Normalizer {
	switch n.typ() {
	case "Sequence":
		var children []Normalizer
		for _, c := range n.childNodes("normalizers") {
			if child := buildNormalizer(c); child != nil {
				children = append(children, child)
			}
		}
		return &normalizerSequence{children: children}
	case "NFKC":
		return nfkcNormalizer{}
	case "NFKD":
		return nfkdNormalizer{}
	case "Lowercase":
		return lowercaseNormalizer{}
	case "StripAccents":
		return stripAccentsNormalizer{}
	case "Prepend":
		return &prependNormalizer{prefix: n.str("prepend", "")}
	case "Replace":
		return &replaceNormalizer{pattern: n.pattern("pattern"), content: n.str("content", "")}
	case "Precompiled":
		return precompiledNormalizer{}
	case "BertNormalizer":
		lowercase := n.boolean("lowercase", true)
		// strip_accents follows lowercase unless set explicitly.
		stripAccents := lowercase
		if v, ok := n["strip_accents"].(bool); ok {
			stripAccents = v
		}
		return &bertNormalizer{
			cleanText:          n.boolean("clean_text", true),
			handleChineseChars: n.boolean("handle_chinese_chars", true),
			stripAccents:       stripAccents,
			lowercase:          lowercase,
		}
	}
	return nil
}

func buildPreTokenizer(n cfgNode) PreTokenizer {
	switch n.typ() {
	case "Sequence":
		var children []PreTokenizer
		for _, c := range n.childNodes("pretokenizers") {
			if child := buildPreTokenizer(c); child != nil {
				children = append(children, child)
			}
		}
		return &preTokenizerSequence{children: children}
	case "Split":
		src := n.regexSource("pattern")
		if src == "" {
			return nil
		}
		return &splitPreTokenizer{
			re:       compileStageRegex(src),
			invert:   n.boolean("invert", false),
			behavior: n.str("behavior", splitBehaviorIsolated),
		}
	case "ByteLevel":
		return newByteLevelPreTokenizer(n.boolean("use_regex", true))
	case "Digits":
		return &digitsPreTokenizer{individualDigits: n.boolean("individual_digits", false)}
	case "Metaspace":
		return &metaspacePreTokenizer{
			replacement:    metaspaceReplacement(n),
			addPrefixSpace: n.boolean("add_prefix_space", true),
		}
	case "BertPreTokenizer":
		return bertPreTokenizer{}
	case "Whitespace", "WhitespaceSplit":
		return whitespaceSplitPreTokenizer{}
	}
	return nil
}

// metaspaceReplacement reads the sentinel under either of its two config
// spellings.
func metaspaceReplacement(n cfgNode) string {
	if s := n.str("replacement", ""); s != "" {
		return s
	}
	return n.str("str_rep", "▁")
}

func buildDecoder(n cfgNode) Decoder {
	switch n.typ() {
	case "Sequence":
		var children []Decoder
		for _, c := range n.childNodes("decoders") {
			if child := buildDecoder(c); child != nil {
				children = append(children, child)
			}
		}
		return &decoderSequence{children: children}
	case "Replace":
		return &replaceDecoder{pattern: n.pattern("pattern"), content: n.str("content", "")}
	case "ByteFallback":
		return byteFallbackDecoder{}
	case "ByteLevel":
		return byteLevelDecoder{}
	case "Fuse":
		return fuseDecoder{}
	case "Strip":
		return &stripDecoder{
			content: n.str("content", ""),
			start:   n.integer("start", 0),
			stop:    n.integer("stop", 0),
		}
	case "WordPiece":
		return &wordPieceDecoder{
			prefix:  n.str("prefix", "##"),
			cleanup: n.boolean("cleanup", true),
		}
	case "Metaspace":
		return &metaspaceDecoder{
			replacement:    metaspaceReplacement(n),
			addPrefixSpace: n.boolean("add_prefix_space", true),
		}
	}
	return nil
}

// buildPostProcessor extracts a TemplateProcessing from the post_processor
// node, looking through a Sequence wrapper. resolve maps special-token
// names to ids at load time.
func buildPostProcessor(n cfgNode, resolve func(string) int) *TemplateProcessing {
	switch n.typ() {
	case "TemplateProcessing":
		return buildTemplateSteps(n, resolve)
	case "Sequence":
		for _, c := range n.childNodes("processors") {
			if c.typ() == "TemplateProcessing" {
				return buildTemplateSteps(c, resolve)
			}
		}
	}
	return nil
}

func buildTemplateSteps(n cfgNode, resolve func(string) int) *TemplateProcessing {
	items, ok := n["single"].([]any)
	if !ok {
		return nil
	}
	var steps []templateStep
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if st, ok := m["SpecialToken"].(map[string]any); ok {
			name, _ := st["id"].(string)
			steps = append(steps, templateStep{isToken: true, id: resolve(name)})
			continue
		}
		if _, ok := m["Sequence"]; ok {
			steps = append(steps, templateStep{})
		}
	}
	if steps == nil {
		return nil
	}
	return &TemplateProcessing{steps: steps}
}

// detectModelType implements the auto-detection used when model.type is
// absent: an array vocab is Unigram; an object vocab without merges or with
// a continuing subword prefix is WordPiece; anything else is BPE.
func detectModelType(n cfgNode) string {
	if t := n.typ(); t != "" {
		return t
	}
	switch n["vocab"].(type) {
	case []any:
		return "Unigram"
	case map[string]any:
		if _, hasMerges := n["merges"]; !hasMerges {
			return "WordPiece"
		}
		if _, ok := n["continuing_subword_prefix"]; ok {
			return "WordPiece"
		}
	}
	return "BPE"
}

func buildModel(n cfgNode, useByteLevel bool) Model {
	switch detectModelType(n) {
	case "Unigram":
		return buildUnigramModel(n)
	case "WordPiece":
		return buildWordPieceModel(n)
	default:
		return buildBPEModel(n, useByteLevel)
	}
}

func buildObjectVocab(n cfgNode) *Vocab {
	entries, _ := n["vocab"].(map[string]any)
	vocab := NewVocab(len(entries))
	for token, raw := range entries {
		if id, ok := raw.(float64); ok {
			vocab.Add(token, int(id))
		}
	}
	return vocab
}

func buildBPEModel(n cfgNode, useByteLevel bool) Model {
	vocab := buildObjectVocab(n)

	merges := make(MergeTable)
	if items, ok := n["merges"].([]any); ok {
		rank := 0
		for _, item := range items {
			left, right, ok := mergeParts(item)
			if !ok {
				continue
			}
			l, r := vocab.ID(left), vocab.ID(right)
			if l < 0 || r < 0 {
				continue
			}
			if _, seen := merges[mergePair{l, r}]; seen {
				continue
			}
			merges[mergePair{l, r}] = rank
			rank++
		}
	}

	return NewBPEModel(vocab, merges, useByteLevel, n.boolean("byte_fallback", false))
}

// mergeParts reads one merge entry, either "left right" or [left, right].
func mergeParts(item any) (string, string, bool) {
	switch v := item.(type) {
	case string:
		for i := 0; i < len(v); i++ {
			if v[i] == ' ' {
				return v[:i], v[i+1:], v[:i] != "" && v[i+1:] != ""
			}
		}
	case []any:
		if len(v) >= 2 {
			l, ok1 := v[0].(string)
			r, ok2 := v[1].(string)
			return l, r, ok1 && ok2 && l != "" && r != ""
		}
	}
	return "", "", false
}

func buildWordPieceModel(n cfgNode) Model {
	vocab := buildObjectVocab(n)
	unk := n.str("unk_token", "[UNK]")
	return NewWordPieceModel(
		vocab,
		vocab.ID(unk),
		n.str("continuing_subword_prefix", "##"),
		n.integer("max_input_chars_per_word", 100),
	)
}

func buildUnigramModel(n cfgNode) Model {
	entries, _ := n["vocab"].([]any)
	vocab := NewVocab(len(entries))
	scores := make([]float64, 0, len(entries))
	for _, raw := range entries {
		pair, ok := raw.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		token, ok1 := pair[0].(string)
		score, ok2 := pair[1].(float64)
		if !ok1 || !ok2 {
			continue
		}
		vocab.Add(token, len(scores))
		scores = append(scores, score)
	}

	unkID := n.integer("unk_id", -1)
	if unkID >= len(scores) {
		unkID = -1
	}
	return NewUnigramModel(vocab, scores, unkID, n.boolean("byte_fallback", false))
}

// nodeHasByteLevel reports whether a stage tree mentions a ByteLevel atom,
// directly or inside a Sequence.
func nodeHasByteLevel(n cfgNode) bool {
	if n == nil {
		return false
	}
	if n.typ() == "ByteLevel" {
		return true
	}
	for _, key := range []string{"pretokenizers", "processors", "decoders"} {
		for _, c := range n.childNodes(key) {
			if c.typ() == "ByteLevel" {
				return true
			}
		}
	}
	return false
}
