package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int, prefix string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = prefix + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func TestChanges_Append(t *testing.T) {
	c := Changes("Hello", "Hello world")

	assert.Equal(t, ChangeAppend, c.Type)
	assert.Equal(t, 1, c.AddedWords)
	assert.Zero(t, c.RemovedWords)
	assert.Equal(t, []Segment{{Value: "Hello"}, {Value: " world", Added: true}}, c.Segments)
}

func TestChanges_AppendKeepsTenWordsOfContext(t *testing.T) {
	before := words(30, "w")
	c := Changes(before, before+" tail")

	assert.Equal(t, ChangeAppend, c.Type)
	assert.True(t, strings.HasPrefix(c.Segments[0].Value, "... "))
	assert.Len(t, strings.Fields(strings.TrimPrefix(c.Segments[0].Value, "... ")), ContextWords)
	assert.Equal(t, 1, c.AddedWords)
}

func TestChanges_Deletion(t *testing.T) {
	c := Changes("keep this and drop that", "keep this")

	assert.Equal(t, ChangeDeletion, c.Type)
	assert.Equal(t, 3, c.RemovedWords)
	assert.Zero(t, c.AddedWords)
	assert.Equal(t, []Segment{{Value: "keep this"}, {Value: " and drop that", Removed: true}}, c.Segments)
}

func TestChanges_Modification(t *testing.T) {
	c := Changes("the quick brown fox", "the slow brown fox jumps")

	assert.Equal(t, ChangeModification, c.Type)
	assert.Equal(t, 2, c.AddedWords)
	assert.Equal(t, 1, c.RemovedWords)
}

func TestChanges_ModificationTruncatesLongRuns(t *testing.T) {
	lead := words(25, "x")
	mid := words(25, "y")
	trail := words(25, "z")
	before := lead + " old " + mid + " old " + trail
	after := lead + " new " + mid + " new " + trail

	c := Changes(before, after)

	assert.Equal(t, ChangeModification, c.Type)
	assert.Equal(t, 2, c.AddedWords)
	assert.Equal(t, 2, c.RemovedWords)
	first := c.Segments[0].Value
	last := c.Segments[len(c.Segments)-1].Value
	assert.True(t, strings.HasPrefix(first, "... "), first)
	assert.True(t, strings.HasSuffix(last, " ..."), last)
	for _, s := range c.Segments {
		if s.Unchanged() {
			assert.LessOrEqual(t, len(strings.Fields(s.Value)), 2*ContextWords+1)
		}
	}
}

func TestChanges_Unchanged(t *testing.T) {
	c := Changes("same text", "same text")

	assert.Equal(t, ChangeUnchanged, c.Type)
	assert.Zero(t, c.AddedWords)
	assert.Zero(t, c.RemovedWords)
}

func TestChanges_FastPathAgreesWithWordDiff(t *testing.T) {
	pairs := [][2]string{
		{"Hello", "Hello world"},
		{"one two three", "one two"},
		{"", "fresh start"},
	}
	for _, p := range pairs {
		c := Changes(p[0], p[1])
		added, removed := Counts(Words(p[0], p[1]))
		assert.Equal(t, added, c.AddedWords, "%q -> %q", p[0], p[1])
		assert.Equal(t, removed, c.RemovedWords, "%q -> %q", p[0], p[1])
	}
}

func TestInitial(t *testing.T) {
	c := Initial("three little words")
	assert.Equal(t, ChangeInitial, c.Type)
	assert.Equal(t, 3, c.AddedWords)
	assert.Equal(t, []Segment{{Value: "three little words", Added: true}}, c.Segments)

	empty := Initial("")
	assert.Zero(t, empty.AddedWords)
	assert.Empty(t, empty.Segments)
}

func TestContextHelpers(t *testing.T) {
	s := words(12, "w")
	assert.Equal(t, s, tail(s, 12))
	assert.Equal(t, "... wc wd wl", tail("wa wb wc wd wl", 3))
	assert.Equal(t, "wa wb ...", head("wa wb wc", 2))
	assert.Equal(t, "wa ... wd", middle("wa wb wc wd", 1))
	assert.Equal(t, "wa wb", middle("wa wb", 1))
}
