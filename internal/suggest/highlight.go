package suggest

import (
	"html"
	"regexp"
	"strings"
)

// Highlight wraps the first case-insensitive occurrence of query inside
// text with <mark> tags. The query is treated as a literal string, never
// as a pattern, and every output segment is HTML-escaped so the result
// is safe to render directly.
func Highlight(text, query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return html.EscapeString(text)
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(q))
	if err != nil {
		return html.EscapeString(text)
	}

	loc := re.FindStringIndex(text)
	if loc == nil {
		return html.EscapeString(text)
	}

	return html.EscapeString(text[:loc[0]]) +
		"<mark>" + html.EscapeString(text[loc[0]:loc[1]]) + "</mark>" +
		html.EscapeString(text[loc[1]:])
}
