package tokenizer

// templateStep is one element of a TemplateProcessing single-sequence
// template: either a special-token id or the model's output sequence.
type templateStep struct {
	isToken bool
	id      int
}

// TemplateProcessing inserts declared special tokens around the model
// output and rebuilds the attention mask. Unresolved token ids (-1) are
// skipped silently.
type TemplateProcessing struct {
	steps []templateStep
}

func (p *TemplateProcessing) Process(enc *Encoding) {
	out := make([]int, 0, len(enc.InputIDs)+len(p.steps))
	for _, s := range p.steps {
		if s.isToken {
			if s.id != -1 {
				out = append(out, s.id)
			}
			continue
		}
		out = append(out, enc.InputIDs...)
	}
	enc.InputIDs = out
	enc.AttentionMask = make([]int, len(out))
	for i := range enc.AttentionMask {
		enc.AttentionMask[i] = 1
	}
}

// leadingToken returns the first special-token id of the template, used to
// backfill an unresolved bos slot at load time.
func (p *TemplateProcessing) leadingToken() int {
	if len(p.steps) > 0 && p.steps[0].isToken {
		return p.steps[0].id
	}
	return -1
}

// trailingToken returns the last special-token id of the template.
func (p *TemplateProcessing) trailingToken() int {
	if n := len(p.steps); n > 0 && p.steps[n-1].isToken {
		return p.steps[n-1].id
	}
	return -1
}
