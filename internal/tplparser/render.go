package tplparser

import (
	"fmt"
	"strings"
)

// Render executes the template against the option context.
func (t *Template) Render(opts RenderOptions) (string, error) {
	messages := make([]any, len(opts.Messages))
	for i, m := range opts.Messages {
		messages[i] = map[string]any{
			"role":    m.Role,
			"content": m.Content,
		}
	}
	env := map[string]any{
		"messages":              messages,
		"add_generation_prompt": opts.AddGenerationPrompt,
		"bos_token":             opts.BOSToken,
		"eos_token":             opts.EOSToken,
	}

	var sb strings.Builder
	if err := renderNodes(&sb, t.nodes, env); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Render parses and renders a template source in one call.
func Render(source string, opts RenderOptions) (string, error) {
	t, err := Parse(source)
	if err != nil {
		return "", err
	}
	return t.Render(opts)
}

func renderNodes(sb *strings.Builder, nodes []node, env map[string]any) error {
	for _, n := range nodes {
		switch v := n.(type) {
		case textNode:
			sb.WriteString(string(v))
		case outputNode:
			val, err := v.e.eval(env)
			if err != nil {
				return err
			}
			sb.WriteString(stringify(val))
		case *forNode:
			if err := renderFor(sb, v, env); err != nil {
				return err
			}
		case *ifNode:
			if err := renderIf(sb, v, env); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderFor(sb *strings.Builder, n *forNode, env map[string]any) error {
	listVal, err := n.list.eval(env)
	if err != nil {
		return err
	}
	items, ok := listVal.([]any)
	if !ok {
		if listVal == nil {
			return nil
		}
		return fmt.Errorf("for target is not a list")
	}

	savedVar, hadVar := env[n.varName]
	savedLoop, hadLoop := env["loop"]
	for i, item := range items {
		env[n.varName] = item
		env["loop"] = map[string]any{
			"index":  i + 1,
			"index0": i,
			"first":  i == 0,
			"last":   i == len(items)-1,
			"length": len(items),
		}
		if err := renderNodes(sb, n.body, env); err != nil {
			return err
		}
	}
	if hadVar {
		env[n.varName] = savedVar
	} else {
		delete(env, n.varName)
	}
	if hadLoop {
		env["loop"] = savedLoop
	} else {
		delete(env, "loop")
	}
	return nil
}

func renderIf(sb *strings.Builder, n *ifNode, env map[string]any) error {
	for _, b := range n.branches {
		take := b.cond == nil
		if !take {
			v, err := b.cond.eval(env)
			if err != nil {
				return err
			}
			take = truthy(v)
		}
		if take {
			return renderNodes(sb, b.body, env)
		}
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(t)
	}
}
