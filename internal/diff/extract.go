package diff

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

// ExtractText renders document content as plain text.
//
// Content is either a string, an array of blocks or an object carrying a
// "text" or "content" field. Blocks are joined with newlines, markup is
// stripped and character entities are decoded. Content that is not JSON
// is treated as a markup string.
func ExtractText(content json.RawMessage) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return StripMarkup(string(content))
	}
	return extract(v)
}

func extract(v any) string {
	switch t := v.(type) {
	case string:
		return StripMarkup(t)
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, block := range t {
			parts = append(parts, extract(block))
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		if text, ok := t["text"]; ok {
			return extract(text)
		}
		if inner, ok := t["content"]; ok {
			return extract(inner)
		}
	}
	return ""
}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true, "hr": true,
}

// StripMarkup removes tags from s and decodes entities. Block-level tags
// become line breaks; script and style bodies are dropped.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	newline, skip := false, false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip {
				continue
			}
			text := z.Text()
			if len(text) == 0 {
				continue
			}
			if newline && b.Len() > 0 {
				b.WriteByte('\n')
			}
			newline = false
			b.Write(text)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				skip = true
			case blockTags[tag]:
				newline = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "script" || tag == "style":
				skip = false
			case blockTags[tag]:
				newline = true
			}
		}
	}
}
