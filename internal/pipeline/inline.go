package pipeline

import (
	"regexp"
	"strings"
)

var (
	inlineCodePattern = regexp.MustCompile("`([^`\n]+)`")
	boldPattern       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(.*?)\*`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	// Leading "- " or "* " of an unordered list item; kept out of emphasis matching.
	bulletPrefix = regexp.MustCompile(`^[-*]\s+`)
)

// stashInlineCode replaces `code` spans with escaped, stashed <code> elements.
func stashInlineCode(c *conversion, doc *document) {
	if !strings.Contains(doc.text, "`") {
		return
	}
	doc.text = inlineCodePattern.ReplaceAllStringFunc(doc.text, func(match string) string {
		code := match[1 : len(match)-1]
		return c.stash.put("<code>"+EscapeHTML(code)+"</code>", false)
	})
}

// rewriteEmphasis converts **bold** and then *italic*, one line at a time.
// Bold must run first: the single-asterisk pattern would otherwise take one
// half of each bold delimiter pair.
func rewriteEmphasis(_ *conversion, doc *document) {
	if !strings.Contains(doc.text, "*") {
		return
	}

	lines := strings.Split(doc.text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "*") {
			continue
		}
		prefix := bulletPrefix.FindString(line)
		rest := line[len(prefix):]
		rest = boldPattern.ReplaceAllString(rest, "<strong>$1</strong>")
		rest = italicPattern.ReplaceAllString(rest, "<em>$1</em>")
		lines[i] = prefix + rest
	}
	doc.text = strings.Join(lines, "\n")
}

// rewriteLinks converts [text](url) into anchors opened in a new browsing
// context without leaking opener or referrer.
func rewriteLinks(_ *conversion, doc *document) {
	if !strings.Contains(doc.text, "](") {
		return
	}
	doc.text = linkPattern.ReplaceAllStringFunc(doc.text, func(match string) string {
		m := linkPattern.FindStringSubmatch(match)
		return `<a href="` + escapeAttr(m[2]) + `" target="_blank" rel="noopener noreferrer">` + m[1] + `</a>`
	})
}
