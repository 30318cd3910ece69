package pipeline

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
)

// DefaultCollapsibleTemplate is the fragment emitted for a ">>> Title" ... "<<<" section.
const DefaultCollapsibleTemplate = `<div class="article-collapsible">
    <div class="collapsible-header">
        <h3>{{.Title}}</h3>
        <span class="collapsible-icon"></span>
    </div>
    <div class="collapsible-content">
        <div class="collapsible-content-inner">
            {{.Body}}
        </div>
    </div>
</div>`

var (
	collapsibleStart = regexp.MustCompile(`^>>>[ \t]*(\S.*?)[ \t]*$`)
	collapsibleEnd   = regexp.MustCompile(`^<<<[ \t]*$`)
)

// collapsibleData feeds the fragment template. Both fields are already HTML.
type collapsibleData struct {
	Title template.HTML
	Body  template.HTML
}

// extractCollapsibles replaces every terminated section with a block token.
// Sections nest: an inner start line must be closed before the outer end line
// counts. When the nesting never balances, the start pairs with the next end
// line and any start lines in between stay body text. A start line with no
// end line after it stays literal text.
func extractCollapsibles(c *conversion, doc *document) {
	if !strings.Contains(doc.text, ">>>") {
		return
	}

	lines := strings.Split(doc.text, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		m := collapsibleStart.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}
		end := matchingEnd(lines, i+1)
		if end < 0 {
			end = nextEnd(lines, i+1)
		}
		if end < 0 {
			out = append(out, lines[i])
			continue
		}

		body := strings.TrimSpace(strings.Join(lines[i+1:end], "\n"))
		out = append(out, c.renderCollapsible(m[1], body, doc))
		i = end
	}

	doc.text = strings.Join(out, "\n")
}

// matchingEnd returns the index of the end line closing a section opened just
// before from, or -1 when the section is never closed.
func matchingEnd(lines []string, from int) int {
	depth := 0
	for j := from; j < len(lines); j++ {
		switch {
		case collapsibleStart.MatchString(lines[j]):
			depth++
		case collapsibleEnd.MatchString(lines[j]):
			if depth == 0 {
				return j
			}
			depth--
		}
	}
	return -1
}

// nextEnd returns the index of the first end line at or after from, or -1.
func nextEnd(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		if collapsibleEnd.MatchString(lines[j]) {
			return j
		}
	}
	return -1
}

// renderCollapsible converts the body and stashes the finished fragment.
func (c *conversion) renderCollapsible(title, body string, doc *document) string {
	articleID := doc.articleID
	if c.engine.cfg.DetachedCollapsibles {
		articleID = ""
	}
	inner := c.render(body, articleID, true)

	var buf bytes.Buffer
	data := collapsibleData{
		Title: template.HTML(c.renderInline(title)), // #nosec G203 -- dialect output
		Body:  template.HTML(inner),                 // #nosec G203 -- dialect output
	}
	if err := c.engine.collapsible.Execute(&buf, data); err != nil {
		// Template fields are fixed; keep the source on the off chance it fails.
		return ">>> " + title + "\n" + body + "\n<<<"
	}
	return c.stash.put(buf.String(), true)
}
