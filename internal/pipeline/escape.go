package pipeline

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes &, <, >, " and ' so text renders verbatim.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

var attrEscaper = strings.NewReplacer(`"`, "&quot;", "<", "&lt;", ">", "&gt;")

// escapeAttr escapes a value for a double-quoted attribute.
// Ampersands are kept as written so resolved URLs stay byte-identical.
func escapeAttr(value string) string {
	return attrEscaper.Replace(value)
}
