package pipeline

import (
	"regexp"
	"strings"
)

var (
	// ```lang\n body ``` ; the closing fence may follow body text on the same line.
	fencePattern = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")

	// #, ##, ### followed by a space at line start.
	headingPattern = regexp.MustCompile(`(?m)^(#{1,3}) (.*)$`)

	// "> " at line start.
	blockquotePattern = regexp.MustCompile(`(?m)^> (.*)$`)
)

// stashFences replaces fenced code blocks with block tokens.
// The trimmed body is escaped exactly once here; no later pass sees it.
func stashFences(c *conversion, doc *document) {
	text := doc.text
	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		lang := ""
		if m[2] >= 0 {
			lang = text[m[2]:m[3]]
		}
		code := strings.TrimSpace(text[m[4]:m[5]])

		b.WriteString(text[last:start])
		if start > 0 && text[start-1] != '\n' {
			b.WriteByte('\n')
		}
		b.WriteString(c.stash.put(c.renderCode(code, lang), true))
		if end < len(text) && text[end] != '\n' {
			b.WriteByte('\n')
		}
		last = end
	}
	b.WriteString(text[last:])
	doc.text = b.String()
}

// renderCode renders one fenced block, highlighted when possible.
func (c *conversion) renderCode(code, lang string) string {
	if h := c.engine.cfg.Highlighter; h != nil && lang != "" {
		if out, ok := h.Highlight(code, lang); ok {
			return out
		}
	}
	return "<pre><code>" + EscapeHTML(code) + "</code></pre>"
}

// rewriteHeadings turns "# x", "## x", "### x" into <h1>..<h3>.
func rewriteHeadings(_ *conversion, doc *document) {
	doc.text = headingPattern.ReplaceAllStringFunc(doc.text, func(line string) string {
		m := headingPattern.FindStringSubmatch(line)
		tag := "h" + string(rune('0'+len(m[1])))
		return "<" + tag + ">" + m[2] + "</" + tag + ">"
	})
}

// rewriteBlockquotes wraps each "> " line in its own <blockquote>.
// Consecutive quote lines are not merged.
func rewriteBlockquotes(_ *conversion, doc *document) {
	doc.text = blockquotePattern.ReplaceAllString(doc.text, "<blockquote>$1</blockquote>")
}
