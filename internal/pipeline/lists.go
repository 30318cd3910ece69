package pipeline

import (
	"regexp"
	"strings"
)

var (
	orderedItem   = regexp.MustCompile(`^\d+\.\s+(.+)$`)
	unorderedItem = regexp.MustCompile(`^[-*]\s+(.+)$`)
)

// groupOrderedLists wraps runs of "<n>. item" lines in one <ol>.
// Source numbers are not carried over; items render in line order.
func groupOrderedLists(_ *conversion, doc *document) {
	doc.text = groupRuns(doc.text, orderedItem, "ol")
}

// groupUnorderedLists wraps runs of "- item" / "* item" lines in one <ul>.
func groupUnorderedLists(_ *conversion, doc *document) {
	doc.text = groupRuns(doc.text, unorderedItem, "ul")
}

// groupRuns buffers consecutive lines matching item and flushes each run as
// <tag><li>..</li>\n<li>..</li></tag> when a non-matching line or the end of
// the buffer is reached.
func groupRuns(text string, item *regexp.Regexp, tag string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, "<"+tag+">"+strings.Join(run, "\n")+"</"+tag+">")
		run = run[:0]
	}

	for _, line := range lines {
		if m := item.FindStringSubmatch(line); m != nil {
			run = append(run, "<li>"+m[1]+"</li>")
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}
