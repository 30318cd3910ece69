package pipeline

import "strings"

// blockPrefixes are the line starts that mark a line as already block-level.
var blockPrefixes = []string{
	"<h",
	"<ul",
	"<ol",
	"<li",
	"<pre",
	"<blockquote",
	"<figure",
	"<div",
}

// wrapParagraphs joins runs of bare text lines into <p> elements.
// A run ends at a blank line, a block-level line, a block token or the end
// of the buffer. A block token in the middle of a line splits the line so the
// fragment never lands inside a <p>. Every line is trimmed; blank lines are
// dropped from the output.
func wrapParagraphs(c *conversion, doc *document) {
	lines := strings.Split(doc.text, "\n")
	out := make([]string, 0, len(lines))
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, "<p>"+strings.Join(run, " ")+"</p>")
		run = run[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case isBlockLine(trimmed) || c.stash.isBlockLine(trimmed):
			flush()
			out = append(out, trimmed)
		default:
			for _, seg := range c.stash.splitBlocks(trimmed) {
				if seg.block {
					flush()
					out = append(out, seg.text)
				} else if seg.text != "" {
					run = append(run, seg.text)
				}
			}
		}
	}
	flush()

	doc.text = strings.Join(out, "\n")
}

func isBlockLine(line string) bool {
	if !strings.HasPrefix(line, "<") {
		return false
	}
	for _, p := range blockPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
