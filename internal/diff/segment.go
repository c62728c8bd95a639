// Package diff compares plain-text renditions of document content.
//
// Every diff is a sequence of Segments. Concatenating the values of the
// segments that are not Removed reproduces the new text; concatenating
// those that are not Added reproduces the old one.
package diff

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Timeout bounds a single diff when the context carries no deadline. A diff
// cut short is still a valid edit script, just not a minimal one.
const Timeout = 2 * time.Second

// Segment is a run of text that is unchanged, added or removed.
type Segment struct {
	Value   string `json:"value"`
	Added   bool   `json:"added"`
	Removed bool   `json:"removed"`
}

// Unchanged reports whether the segment is common to both texts.
func (s Segment) Unchanged() bool { return !s.Added && !s.Removed }

// Chars diffs a and b rune by rune.
func Chars(a, b string) []Segment {
	return compute(context.Background(), a, b, splitRunes)
}

// Words diffs a and b by words. Whitespace runs and punctuation are tokens
// of their own.
func Words(a, b string) []Segment {
	return compute(context.Background(), a, b, splitWords)
}

// Lines diffs a and b line by line; line breaks stay with their line.
func Lines(a, b string) []Segment {
	return compute(context.Background(), a, b, splitLines)
}

// Sentences diffs a and b treating each sentence as an opaque token.
func Sentences(a, b string) []Segment {
	return compute(context.Background(), a, b, splitSentences)
}

// compute runs a Myers diff over the token streams of a and b. Each distinct
// token is encoded as a single rune so the diff never splits a token.
func compute(ctx context.Context, a, b string, split func(string) []string) []Segment {
	if a == b {
		return []Segment{{Value: a}}
	}

	ta, tb, vocab, ok := encode(split(a), split(b))
	if !ok {
		return replaceAll(a, b)
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = budget(ctx)

	var out []Segment
	for _, d := range dmp.DiffMainRunes(ta, tb, false) {
		s := Segment{Value: decode(d.Text, vocab)}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Added = true
		case diffmatchpatch.DiffDelete:
			s.Removed = true
		}
		out = appendSegment(out, s)
	}
	return out
}

// budget is the time left for one diff. The library treats a zero timeout
// as unlimited, so an expired context still gets a token millisecond.
func budget(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return Timeout
	}
	if d := time.Until(deadline); d > time.Millisecond {
		return d
	}
	return time.Millisecond
}

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
	surrogateGap = surrogateMax - surrogateMin + 1
	maxTokens    = unicode.MaxRune + 1 - surrogateGap
)

func tokenRune(i int) rune {
	if i >= surrogateMin {
		i += surrogateGap
	}
	return rune(i)
}

func tokenIndex(r rune) int {
	if r > surrogateMax {
		return int(r) - surrogateGap
	}
	return int(r)
}

// encode maps every distinct token of a and b to a rune. It reports false
// when the vocabulary does not fit in the rune space.
func encode(a, b []string) ([]rune, []rune, []string, bool) {
	var vocab []string
	ids := make(map[string]rune)
	enc := func(tokens []string) []rune {
		out := make([]rune, len(tokens))
		for i, t := range tokens {
			r, seen := ids[t]
			if !seen {
				r = tokenRune(len(vocab))
				ids[t] = r
				vocab = append(vocab, t)
			}
			out[i] = r
		}
		return out
	}
	ra, rb := enc(a), enc(b)
	return ra, rb, vocab, len(vocab) <= maxTokens
}

func decode(s string, vocab []string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteString(vocab[tokenIndex(r)])
	}
	return b.String()
}

func replaceAll(a, b string) []Segment {
	var out []Segment
	out = appendSegment(out, Segment{Value: a, Removed: true})
	return appendSegment(out, Segment{Value: b, Added: true})
}

// appendSegment merges s into the last segment when both have the same kind.
func appendSegment(out []Segment, s Segment) []Segment {
	if s.Value == "" {
		return out
	}
	if n := len(out); n > 0 && out[n-1].Added == s.Added && out[n-1].Removed == s.Removed {
		out[n-1].Value += s.Value
		return out
	}
	return append(out, s)
}

// Counts returns the number of words in added and removed segments.
func Counts(segs []Segment) (added, removed int) {
	for _, s := range segs {
		switch {
		case s.Added:
			added += len(strings.Fields(s.Value))
		case s.Removed:
			removed += len(strings.Fields(s.Value))
		}
	}
	return added, removed
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func splitWords(s string) []string {
	var out []string
	start := -1
	kind := 0
	for i, r := range s {
		k := runeKind(r)
		if start >= 0 && (k != kind || k == kindOther) {
			out = append(out, s[start:i])
			start = -1
		}
		if start < 0 {
			start, kind = i, k
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

const (
	kindWord = iota + 1
	kindSpace
	kindOther
)

func runeKind(r rune) int {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '\'':
		return kindWord
	case unicode.IsSpace(r):
		return kindSpace
	}
	return kindOther
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitSentences cuts s after every run of '.', '!' or '?'. Whitespace that
// follows a terminator starts the next sentence; a trailing whitespace-only
// fragment is folded into the last sentence so no token is blank.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if !isTerminator(s[i]) {
			continue
		}
		for i+1 < len(s) && isTerminator(s[i+1]) {
			i++
		}
		out = append(out, s[start:i+1])
		start = i + 1
	}
	if start < len(s) {
		rest := s[start:]
		if strings.TrimSpace(rest) == "" && len(out) > 0 {
			out[len(out)-1] += rest
		} else {
			out = append(out, rest)
		}
	}
	return out
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}
