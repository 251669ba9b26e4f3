package tokenizer

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// FromPretrained loads a tokenizer bundle directory: tokenizer.json plus an
// optional tokenizer_config.json whose chat_template and token overrides
// are merged in.
func FromPretrained(dir string) (*Tokenizer, error) {
	data, err := os.ReadFile(filepath.Join(dir, "tokenizer.json"))
	if err != nil {
		return nil, fmt.Errorf("read tokenizer.json: %w", err)
	}

	var overrides map[string]any
	if raw, err := os.ReadFile(filepath.Join(dir, "tokenizer_config.json")); err == nil {
		if err := json.Unmarshal(raw, &overrides); err != nil {
			return nil, fmt.Errorf("parse tokenizer_config.json: %w", err)
		}
	}

	t := New()
	if !t.loadBundle(data, overrides) {
		return nil, fmt.Errorf("malformed tokenizer.json in %s", dir)
	}
	if tpl, ok := overrides["chat_template"].(string); ok {
		t.SetChatTemplate(tpl)
	}
	return t, nil
}

// LoadFile loads a single tokenizer.json file, or a bundle directory through
// FromPretrained when path is a directory.
func LoadFile(path string) (*Tokenizer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return FromPretrained(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t := New()
	if !t.LoadFromJSON(data) {
		return nil, fmt.Errorf("malformed tokenizer bundle %s", path)
	}
	return t, nil
}
