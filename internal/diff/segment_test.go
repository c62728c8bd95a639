package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func rebuild(segs []Segment) (before, after string) {
	var b, a strings.Builder
	for _, s := range segs {
		if !s.Added {
			b.WriteString(s.Value)
		}
		if !s.Removed {
			a.WriteString(s.Value)
		}
	}
	return b.String(), a.String()
}

func TestWords_AppendScenario(t *testing.T) {
	got := Words("Hello", "Hello world")
	want := []Segment{
		{Value: "Hello"},
		{Value: " world", Added: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Words mismatch (-want +got):\n%s", diff)
	}
}

func TestWords_Replace(t *testing.T) {
	got := Words("the quick fox", "the slow fox")
	want := []Segment{
		{Value: "the "},
		{Value: "quick", Removed: true},
		{Value: "slow", Added: true},
		{Value: " fox"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Words mismatch (-want +got):\n%s", diff)
	}
	added, removed := Counts(got)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}

func TestIdenticalTextsYieldOneUnchangedSegment(t *testing.T) {
	texts := []string{"", "Hello", "One. Two! Three?", "line 1\nline 2\n"}
	funcs := map[string]func(a, b string) []Segment{
		"chars": Chars, "words": Words, "lines": Lines, "sentences": Sentences,
	}
	for name, fn := range funcs {
		for _, text := range texts {
			got := fn(text, text)
			assert.Equal(t, []Segment{{Value: text}}, got, "%s(%q)", name, text)
			added, removed := Counts(got)
			assert.Zero(t, added)
			assert.Zero(t, removed)
		}
	}
}

func TestSegmentsRebuildBothTexts(t *testing.T) {
	pairs := [][2]string{
		{"", "new text"},
		{"old text", ""},
		{"Hello world", "Hello there, world!"},
		{"a\nb\nc\n", "a\nc\nd"},
		{"First. Second! Third?", "First. Changed! Third? Fourth."},
		{"naïve café", "naive cafe"},
	}
	funcs := map[string]func(a, b string) []Segment{
		"chars": Chars, "words": Words, "lines": Lines, "sentences": Sentences,
	}
	for name, fn := range funcs {
		for _, p := range pairs {
			before, after := rebuild(fn(p[0], p[1]))
			assert.Equal(t, p[0], before, "%s before", name)
			assert.Equal(t, p[1], after, "%s after", name)
		}
	}
}

func TestSegmentsAreMerged(t *testing.T) {
	segs := Chars("abc", "xyz")
	want := []Segment{{Value: "abc", Removed: true}, {Value: "xyz", Added: true}}
	assert.Equal(t, want, segs)
}

func TestLines(t *testing.T) {
	got := Lines("a\nb\nc\n", "a\nB\nc\n")
	want := []Segment{
		{Value: "a\n"},
		{Value: "b\n", Removed: true},
		{Value: "B\n", Added: true},
		{Value: "c\n"},
	}
	assert.Equal(t, want, got)
}

func TestSentences(t *testing.T) {
	got := Sentences("One. Two! Three?", "One. Deux! Three?")
	want := []Segment{
		{Value: "One."},
		{Value: " Two!", Removed: true},
		{Value: " Deux!", Added: true},
		{Value: " Three?"},
	}
	assert.Equal(t, want, got)
}

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"no terminator", []string{"no terminator"}},
		{"Wait... what?!", []string{"Wait...", " what?!"}},
		{"Done.  ", []string{"Done.  "}},
		{"A. B", []string{"A.", " B"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, splitSentences(tc.in), tc.in)
	}
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"Hello", ",", " ", "it's", "  ", "me", "!", "!"}, splitWords("Hello, it's  me!!"))
	assert.Nil(t, splitWords(""))
}
