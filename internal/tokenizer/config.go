package tokenizer

import (
	"strings"

	json "github.com/goccy/go-json"
)

// bundleJSON is the top level of a tokenizer.json configuration bundle.
// Stage sub-trees keep their raw shape; atoms are walked dynamically since
// several keys are polymorphic (pattern, vocab, merges).
type bundleJSON struct {
	Model           json.RawMessage  `json:"model"`
	Normalizer      json.RawMessage  `json:"normalizer"`
	PreTokenizer    json.RawMessage  `json:"pre_tokenizer"`
	PostProcessor   json.RawMessage  `json:"post_processor"`
	Decoder         json.RawMessage  `json:"decoder"`
	AddedTokens     []addedTokenJSON `json:"added_tokens"`
	ConfigOverrides map[string]any   `json:"config_overrides"`
}

type addedTokenJSON struct {
	ID         *int   `json:"id"`
	Content    string `json:"content"`
	Special    bool   `json:"special"`
	LStrip     bool   `json:"lstrip"`
	RStrip     bool   `json:"rstrip"`
	Normalized bool   `json:"normalized"`
}

// cfgNode is one stage node of the configuration tree.
type cfgNode map[string]any

func decodeNode(raw json.RawMessage) (cfgNode, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var n cfgNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false
	}
	return n, true
}

func (n cfgNode) typ() string {
	return n.str("type", "")
}

func (n cfgNode) str(key, def string) string {
	if s, ok := n[key].(string); ok {
		return s
	}
	return def
}

func (n cfgNode) boolean(key string, def bool) bool {
	if b, ok := n[key].(bool); ok {
		return b
	}
	return def
}

func (n cfgNode) integer(key string, def int) int {
	if f, ok := n[key].(float64); ok {
		return int(f)
	}
	return def
}

// childNodes returns the Sequence children stored under key
// (normalizers/pretokenizers/decoders/processors).
func (n cfgNode) childNodes(key string) []cfgNode {
	items, ok := n[key].([]any)
	if !ok {
		return nil
	}
	out := make([]cfgNode, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, cfgNode(m))
		}
	}
	return out
}

// patternSpec is a Replace/Split pattern: a literal string or a compiled
// regex, distinguished by the config shape ({"String": ...} vs
// {"Regex": ...}).
type patternSpec struct {
	literal string
	regex   *stageRegex
}

func (n cfgNode) pattern(key string) patternSpec {
	switch v := n[key].(type) {
	case string:
		return patternSpec{literal: v}
	case map[string]any:
		if s, ok := v["String"].(string); ok {
			return patternSpec{literal: s}
		}
		if s, ok := v["Regex"].(string); ok {
			return patternSpec{regex: compileStageRegex(s)}
		}
	}
	return patternSpec{}
}

// regexSource returns the pattern as regex source text, for stages that
// always compile (Split).
func (n cfgNode) regexSource(key string) string {
	switch v := n[key].(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["Regex"].(string); ok {
			return s
		}
		if s, ok := v["String"].(string); ok {
			return s
		}
	}
	return ""
}

func (p patternSpec) replaceAll(s, content string) string {
	if p.regex != nil {
		return p.regex.replaceAll(s, content)
	}
	if p.literal == "" {
		return s
	}
	return strings.ReplaceAll(s, p.literal, content)
}

// tokenContent reads a config-override token value: either a bare string or
// an object with a content key.
func tokenContent(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["content"].(string); ok {
			return s
		}
	}
	return ""
}
