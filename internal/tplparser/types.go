// Package tplparser renders chat templates: a Jinja-subset engine covering
// the constructs that tokenizer chat templates actually use (for/if blocks,
// expression output, whitespace-control markers, dotted access and a few
// string filters).
package tplparser

// Message is one chat turn. Content is usually a string but templates may
// carry structured blocks.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// RenderOptions is the variable context a template renders against.
type RenderOptions struct {
	BOSToken            string
	EOSToken            string
	Messages            []Message
	AddGenerationPrompt bool
}
