package utils

import "strings"

const ellipsis = "..."

// Preview flattens s onto a single line and cuts it to limit runes.
// Response bodies and profile summaries are multi-line, which breaks console log output.
func Preview(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit]), " ") + ellipsis
}
