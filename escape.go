package mustache

import "strings"

// escapeHTML escapes the four characters HTML text content and
// double-quoted attribute values are unsafe with. It deliberately leaves
// apostrophes alone — unlike html/template.HTMLEscapeString, which also
// escapes ' — because the data model's escaping contract (spec §4.6)
// matches every reference Mustache implementation's behavior, not Go's
// stdlib template escaper; using html/template here would silently
// produce output the spec's own test fixtures don't expect.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
