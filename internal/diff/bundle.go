package diff

import (
	"context"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Stats summarizes a comparison.
type Stats struct {
	AddedWords   int `json:"addedWords"`
	RemovedWords int `json:"removedWords"`
	AddedLines   int `json:"addedLines"`
	RemovedLines int `json:"removedLines"`
	AddedChars   int `json:"addedChars"`
	RemovedChars int `json:"removedChars"`
}

// Bundle holds every rendition of the difference between two texts.
type Bundle struct {
	Chars     []Segment `json:"chars"`
	Words     []Segment `json:"words"`
	Lines     []Segment `json:"lines"`
	Sentences []Segment `json:"sentences"`
	Unified   string    `json:"unified"`
	Stats     Stats     `json:"stats"`
}

// Compare diffs before against after at every granularity. The context's
// deadline bounds each diff; cancellation is checked between them.
func Compare(ctx context.Context, before, after string) (*Bundle, error) {
	b := &Bundle{}
	steps := []struct {
		dst   *[]Segment
		split func(string) []string
	}{
		{&b.Lines, splitLines},
		{&b.Sentences, splitSentences},
		{&b.Words, splitWords},
		{&b.Chars, splitRunes},
	}
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		*st.dst = compute(ctx, before, after, st.split)
	}

	unified, err := Unified(before, after, "before", "after")
	if err != nil {
		return nil, err
	}
	b.Unified = unified

	b.Stats.AddedWords, b.Stats.RemovedWords = Counts(b.Words)
	for _, s := range b.Lines {
		n := len(splitLines(s.Value))
		switch {
		case s.Added:
			b.Stats.AddedLines += n
		case s.Removed:
			b.Stats.RemovedLines += n
		}
	}
	for _, s := range b.Chars {
		n := len([]rune(s.Value))
		switch {
		case s.Added:
			b.Stats.AddedChars += n
		case s.Removed:
			b.Stats.RemovedChars += n
		}
	}
	return b, nil
}

// Unified renders a unified line diff with three lines of context.
// Identical texts produce an empty string.
func Unified(before, after, fromName, toName string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        unifiedLines(before),
		B:        unifiedLines(after),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}

// unifiedLines terminates every line with "\n" so the last line of a text
// without a trailing newline renders like the others.
func unifiedLines(s string) []string {
	lines := splitLines(s)
	for i, l := range lines {
		if !strings.HasSuffix(l, "\n") {
			lines[i] = l + "\n"
		}
	}
	return lines
}
