package tplparser

import (
	"fmt"
	"strings"
)

// tagKind distinguishes the three lexical chunks of a template.
type tagKind int

const (
	tagText tagKind = iota
	tagOutput
	tagStmt
)

type tag struct {
	kind  tagKind
	body  string
	trimL bool
	trimR bool
}

// lex splits src into text, {{ output }} and {% statement %} tags,
// recording the whitespace-control markers. Comments ({# ... #}) are
// dropped but their trim markers still apply.
func lex(src string) ([]tag, error) {
	var tags []tag
	for len(src) > 0 {
		open := strings.IndexByte(src, '{')
		if open < 0 || open+1 >= len(src) {
			tags = append(tags, tag{kind: tagText, body: src})
			break
		}
		var kind tagKind
		var closer string
		switch src[open+1] {
		case '{':
			kind, closer = tagOutput, "}}"
		case '%':
			kind, closer = tagStmt, "%}"
		case '#':
			kind, closer = tagStmt, "#}"
		default:
			// A lone brace is plain text; keep scanning after it.
			next := strings.IndexByte(src[open+1:], '{')
			if next < 0 {
				tags = append(tags, tag{kind: tagText, body: src})
				src = ""
				continue
			}
			tags = append(tags, tag{kind: tagText, body: src[:open+1+next]})
			src = src[open+1+next:]
			continue
		}

		if open > 0 {
			tags = append(tags, tag{kind: tagText, body: src[:open]})
		}
		rest := src[open+2:]
		end := strings.Index(rest, closer)
		if end < 0 {
			return nil, fmt.Errorf("unclosed %q tag", src[open:open+2])
		}
		body := rest[:end]
		src = rest[end+len(closer):]

		t := tag{kind: kind}
		if strings.HasPrefix(body, "-") {
			t.trimL = true
			body = body[1:]
		}
		if strings.HasSuffix(body, "-") {
			t.trimR = true
			body = body[:len(body)-1]
		}
		t.body = strings.TrimSpace(body)
		if closer == "#}" {
			t.body = ""
		}
		tags = append(tags, t)
	}

	// Apply whitespace control to the neighbouring text chunks.
	for i, t := range tags {
		if t.kind == tagText {
			continue
		}
		if t.trimL && i > 0 && tags[i-1].kind == tagText {
			tags[i-1].body = strings.TrimRight(tags[i-1].body, " \t\r\n")
		}
		if t.trimR && i+1 < len(tags) && tags[i+1].kind == tagText {
			tags[i+1].body = strings.TrimLeft(tags[i+1].body, " \t\r\n")
		}
	}
	return tags, nil
}

// AST

type node interface{}

type textNode string

type outputNode struct {
	e expr
}

type forNode struct {
	varName string
	list    expr
	body    []node
}

type ifBranch struct {
	cond expr // nil for else
	body []node
}

type ifNode struct {
	branches []ifBranch
}

// Template is a parsed chat template.
type Template struct {
	nodes []node
}

// Parse compiles a template source.
func Parse(src string) (*Template, error) {
	tags, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &treeParser{tags: tags}
	nodes, terminator, err := p.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	if terminator != "" {
		return nil, fmt.Errorf("unexpected %q outside a block", terminator)
	}
	return &Template{nodes: nodes}, nil
}

type treeParser struct {
	tags []tag
	pos  int
}

// parseNodes consumes tags until one of the stop keywords (endfor, endif,
// elif, else) appears at this nesting level. It returns the full body of the
// statement that stopped it (keyword plus any condition), or "".
func (p *treeParser) parseNodes(stop []string) ([]node, string, error) {
	var nodes []node
	for p.pos < len(p.tags) {
		t := p.tags[p.pos]
		p.pos++
		switch t.kind {
		case tagText:
			if t.body != "" {
				nodes = append(nodes, textNode(t.body))
			}
		case tagOutput:
			e, err := parseExpr(t.body)
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, outputNode{e: e})
		case tagStmt:
			if t.body == "" {
				continue
			}
			keyword := strings.Fields(t.body)[0]
			for _, s := range stop {
				if keyword == s {
					return nodes, t.body, nil
				}
			}
			child, err := p.parseStmt(t.body, keyword)
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, child)
		}
	}
	if len(stop) > 0 {
		return nil, "", fmt.Errorf("missing %q", stop[0])
	}
	return nodes, "", nil
}

func (p *treeParser) parseStmt(body, keyword string) (node, error) {
	switch keyword {
	case "for":
		return p.parseFor(body)
	case "if":
		return p.parseIf(body)
	default:
		return nil, fmt.Errorf("unsupported statement %q", keyword)
	}
}

func (p *treeParser) parseFor(body string) (node, error) {
	fields := strings.Fields(body)
	if len(fields) < 4 || fields[0] != "for" || fields[2] != "in" {
		return nil, fmt.Errorf("malformed for statement %q", body)
	}
	list, err := parseExpr(strings.Join(fields[3:], " "))
	if err != nil {
		return nil, err
	}
	inner, term, err := p.parseNodes([]string{"endfor"})
	if err != nil {
		return nil, err
	}
	if term != "endfor" {
		return nil, fmt.Errorf("for block closed by %q", term)
	}
	return &forNode{varName: fields[1], list: list, body: inner}, nil
}

func (p *treeParser) parseIf(body string) (node, error) {
	cond, err := parseExpr(strings.TrimSpace(strings.TrimPrefix(body, "if")))
	if err != nil {
		return nil, err
	}
	out := &ifNode{}
	current := ifBranch{cond: cond}
	for {
		inner, term, err := p.parseNodes([]string{"elif", "else", "endif"})
		if err != nil {
			return nil, err
		}
		current.body = inner
		out.branches = append(out.branches, current)

		keyword := strings.Fields(term)[0]
		switch keyword {
		case "endif":
			return out, nil
		case "else":
			current = ifBranch{}
		case "elif":
			cond, err := parseExpr(strings.TrimSpace(strings.TrimPrefix(term, "elif")))
			if err != nil {
				return nil, err
			}
			current = ifBranch{cond: cond}
		}
	}
}
