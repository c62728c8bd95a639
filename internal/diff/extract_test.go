package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"plain string", `"Hello"`, "Hello"},
		{"empty", ``, ""},
		{"null", `null`, ""},
		{"markup", `"<p>Hello <b>bold</b></p><p>next</p>"`, "Hello bold\nnext"},
		{"entities", `"Tom &amp; Jerry &lt;3 &quot;hi&quot;"`, `Tom & Jerry <3 "hi"`},
		{"line break tag", `"one<br>two"`, "one\ntwo"},
		{"blocks", `["first", {"text": "second"}, {"content": "third"}]`, "first\nsecond\nthird"},
		{"nested content", `{"content": [{"text": "a"}, {"content": {"text": "b"}}]}`, "a\nb"},
		{"unknown object", `{"image": "x.png"}`, ""},
		{"number", `42`, "42"},
		{"script dropped", `"<p>keep</p><script>alert(1)</script>"`, "keep"},
		{"not json", `<p>raw</p>`, "raw"},
		{"comparison stays text", `"a < b"`, "a < b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractText(json.RawMessage(tc.content)))
		})
	}
}

func TestStripMarkup_PlainTextUntouched(t *testing.T) {
	assert.Equal(t, "  spaced  text ", StripMarkup("  spaced  text "))
}
