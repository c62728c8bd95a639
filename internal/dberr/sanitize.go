package dberr

import (
	"fmt"
	"strings"
)

const (
	maxPreviewParams = 4
	maxPreviewRunes  = 32
)

// preview renders a short, truncated view of statement parameters so that
// logs and error messages never carry full document bodies or secrets.
func preview(params []any) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, maxPreviewParams+1)
	for i, p := range params {
		if i == maxPreviewParams {
			parts = append(parts, fmt.Sprintf("+%d more", len(params)-maxPreviewParams))
			break
		}
		parts = append(parts, previewValue(p))
	}
	return "params=[" + strings.Join(parts, ", ") + "]"
}

func previewValue(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(t))
	case string:
		s = t
	default:
		s = fmt.Sprint(t)
	}
	r := []rune(s)
	if len(r) > maxPreviewRunes {
		return fmt.Sprintf("%q...", string(r[:maxPreviewRunes]))
	}
	return fmt.Sprintf("%q", s)
}
