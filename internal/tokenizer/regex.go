package tokenizer

import "github.com/dlclark/regexp2"

// stageRegex wraps regexp2 with rune-offset search. The pre-tokenizer
// patterns need Unicode property classes and lookahead (the GPT-2 pattern's
// trailing-whitespace branch), which the standard library engine cannot
// express. A pattern that fails to compile leaves the wrapper invalid and
// the owning stage becomes the identity.
type stageRegex struct {
	re *regexp2.Regexp
}

func compileStageRegex(pattern string) *stageRegex {
	re, err := regexp2.Compile(pattern, regexp2.RE2)
	if err != nil {
		return &stageRegex{}
	}
	return &stageRegex{re: re}
}

func (r *stageRegex) valid() bool {
	return r != nil && r.re != nil
}

// search finds the first match at or after start. Offsets are rune indices
// into rs.
func (r *stageRegex) search(rs []rune, start int) (int, int, bool) {
	if !r.valid() || start > len(rs) {
		return 0, 0, false
	}
	m, err := r.re.FindRunesMatchStartingAt(rs, start)
	if err != nil || m == nil {
		return 0, 0, false
	}
	return m.Index, m.Index + m.Length, true
}

// replaceAll substitutes every match in s with content.
func (r *stageRegex) replaceAll(s, content string) string {
	if !r.valid() {
		return s
	}
	out, err := r.re.Replace(s, content, -1, -1)
	if err != nil {
		return s
	}
	return out
}
