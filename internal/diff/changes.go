package diff

import (
	"regexp"
	"strings"
)

// ChangeType classifies an edit between consecutive versions.
type ChangeType string

const (
	ChangeInitial      ChangeType = "initial"
	ChangeAppend       ChangeType = "append"
	ChangeDeletion     ChangeType = "deletion"
	ChangeModification ChangeType = "modification"
	ChangeUnchanged    ChangeType = "unchanged"
)

// ContextWords is how many unchanged words are kept on each side of a change.
const ContextWords = 10

// Change is the display form of one edit. Segments are trimmed: long
// unchanged runs keep ContextWords words next to each change and an
// ellipsis in place of the rest.
type Change struct {
	Type         ChangeType `json:"type"`
	AddedWords   int        `json:"addedWords"`
	RemovedWords int        `json:"removedWords"`
	Segments     []Segment  `json:"segments"`
}

// Initial reports the whole of text as added.
func Initial(text string) Change {
	c := Change{Type: ChangeInitial}
	if text != "" {
		c.Segments = []Segment{{Value: text, Added: true}}
	}
	c.AddedWords, c.RemovedWords = Counts(c.Segments)
	return c
}

// Changes classifies the edit from before to after.
//
// When one text is a prefix of the other the edit is a pure append or
// deletion and is reported as a context tail plus the added or removed
// suffix. Anything else goes through the word diff.
func Changes(before, after string) Change {
	var c Change
	switch {
	case before == after:
		c = Change{Type: ChangeUnchanged, Segments: []Segment{{Value: head(after, ContextWords)}}}
	case strings.HasPrefix(after, before):
		c = Change{Type: ChangeAppend, Segments: edge(before, Segment{Value: after[len(before):], Added: true})}
	case strings.HasPrefix(before, after):
		c = Change{Type: ChangeDeletion, Segments: edge(after, Segment{Value: before[len(after):], Removed: true})}
	default:
		c = Change{Type: ChangeModification, Segments: truncate(Words(before, after))}
	}
	c.AddedWords, c.RemovedWords = Counts(c.Segments)
	return c
}

func edge(common string, s Segment) []Segment {
	var out []Segment
	if common != "" {
		out = append(out, Segment{Value: tail(common, ContextWords)})
	}
	return append(out, s)
}

// truncate shortens unchanged segments. Changed segments are never cut, so
// word counts over the result match those over the input.
func truncate(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = s
		if !s.Unchanged() {
			continue
		}
		first, last := i == 0, i == len(segs)-1
		switch {
		case first && last:
			out[i].Value = head(s.Value, ContextWords)
		case first:
			out[i].Value = tail(s.Value, ContextWords)
		case last:
			out[i].Value = head(s.Value, ContextWords)
		default:
			out[i].Value = middle(s.Value, ContextWords)
		}
	}
	return out
}

var wordRe = regexp.MustCompile(`\S+`)

const ellipsis = "..."

// tail keeps the last n words of s, with the whitespace around them.
func tail(s string, n int) string {
	idx := wordRe.FindAllStringIndex(s, -1)
	if len(idx) <= n {
		return s
	}
	return ellipsis + " " + s[idx[len(idx)-n][0]:]
}

// head keeps the first n words of s, with the whitespace around them.
func head(s string, n int) string {
	idx := wordRe.FindAllStringIndex(s, -1)
	if len(idx) <= n {
		return s
	}
	return s[:idx[n-1][1]] + " " + ellipsis
}

// middle keeps n words at each end of s.
func middle(s string, n int) string {
	idx := wordRe.FindAllStringIndex(s, -1)
	if len(idx) <= 2*n {
		return s
	}
	return s[:idx[n-1][1]] + " " + ellipsis + " " + s[idx[len(idx)-n][0]:]
}
