package tokenizer

import (
	"regexp"
	"sort"
	"strings"
)

// AddedToken is a literal string matched verbatim in the raw input before
// normalization. Special tokens are dropped on decode(skip_special).
type AddedToken struct {
	ID         int
	Content    string
	Special    bool
	LStrip     bool
	RStrip     bool
	Normalized bool
}

// textUnit is one segment of the raw input: either a literal run or an
// added-token occurrence.
type textUnit struct {
	text  string
	added bool
}

// addedTokenSplitter finds added-token occurrences with a single
// length-sorted alternation so the longest alternative wins at a position.
type addedTokenSplitter struct {
	re        *stageRegex
	byContent map[string]*AddedToken
}

func newAddedTokenSplitter(tokens []AddedToken) *addedTokenSplitter {
	byContent := make(map[string]*AddedToken, len(tokens))
	var contents []string
	for i := range tokens {
		t := &tokens[i]
		if t.Normalized {
			continue
		}
		byContent[t.Content] = t
		contents = append(contents, t.Content)
	}
	if len(contents) == 0 {
		return nil
	}

	sort.SliceStable(contents, func(i, j int) bool {
		return len(contents[i]) > len(contents[j])
	})
	escaped := make([]string, len(contents))
	for i, c := range contents {
		escaped[i] = regexp.QuoteMeta(c)
	}

	re := compileStageRegex(strings.Join(escaped, "|"))
	if !re.valid() {
		return nil
	}
	return &addedTokenSplitter{re: re, byContent: byContent}
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// split walks the raw text left to right, emitting alternating literal and
// added-token units. lstrip/rstrip eat ASCII whitespace off the surrounding
// literals.
func (s *addedTokenSplitter) split(text string) []textUnit {
	if text == "" {
		return nil
	}
	if s == nil {
		return []textUnit{{text: text}}
	}

	rs := []rune(text)
	var units []textUnit
	cursor := 0
	for cursor < len(rs) {
		ms, me, ok := s.re.search(rs, cursor)
		if !ok {
			units = append(units, textUnit{text: string(rs[cursor:])})
			break
		}
		match := string(rs[ms:me])
		at := s.byContent[match]

		prefixStart, prefixEnd, nextStart := cursor, ms, me
		if at != nil && at.LStrip {
			for prefixEnd > prefixStart && isASCIISpace(rs[prefixEnd-1]) {
				prefixEnd--
			}
		}
		if at != nil && at.RStrip {
			for nextStart < len(rs) && isASCIISpace(rs[nextStart]) {
				nextStart++
			}
		}

		if prefixEnd > prefixStart {
			units = append(units, textUnit{text: string(rs[prefixStart:prefixEnd])})
		}
		units = append(units, textUnit{text: match, added: true})
		cursor = nextStart
	}
	return units
}
