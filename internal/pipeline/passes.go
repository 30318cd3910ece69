package pipeline

import (
	"regexp"
)

// pass is one linear scan-and-rewrite stage.
type pass struct {
	name  string
	apply func(c *conversion, doc *document)
}

// defaultPasses returns the conversion pipeline in execution order.
//
// Ordering constraints:
//   - fences run before everything else that reads text, so code is never
//     re-interpreted (and a fenced example of ">>>" stays literal);
//   - collapsibles run before images so nested bodies resolve their own images;
//   - inline code is stashed before emphasis so asterisks in code survive;
//   - emphasis matches bold before italic;
//   - ordered lists are grouped before unordered lists;
//   - paragraphs run last and only wrap lines no earlier pass claimed.
func defaultPasses() []pass {
	return []pass{
		{name: "normalize", apply: normalize},
		{name: "fences", apply: stashFences},
		{name: "collapsibles", apply: extractCollapsibles},
		{name: "images", apply: resolveImages},
		{name: "inline-code", apply: stashInlineCode},
		{name: "headings", apply: rewriteHeadings},
		{name: "emphasis", apply: rewriteEmphasis},
		{name: "links", apply: rewriteLinks},
		{name: "blockquotes", apply: rewriteBlockquotes},
		{name: "ordered-lists", apply: groupOrderedLists},
		{name: "unordered-lists", apply: groupUnorderedLists},
		{name: "paragraphs", apply: wrapParagraphs},
	}
}

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// normalize converts \r\n and \r to \n and removes reserved placeholder runes.
// Nested bodies already carry stash tokens and are left untouched.
func normalize(_ *conversion, doc *document) {
	if doc.nested {
		return
	}
	doc.text = stripReserved(crlfOrCR.ReplaceAllString(doc.text, "\n"))
}
