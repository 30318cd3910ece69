// Package md2blog converts the blog's Markdown dialect to HTML fragments and
// back, and summarizes article sources.
//
// # Quick Start
//
//	conv, err := md2blog.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := conv.Convert("# Hello\n\nWorld", "hello-world")
//
// Convert never fails: malformed or unmatched syntax stays in the output as
// literal text. The article id is used to resolve bare image filenames to
// the article's image directory and may be empty.
//
// # Dialect
//
// Supported constructs, applied as an ordered list of passes:
//
//   - fenced code (```lang ... ```), escaped exactly once
//   - collapsible sections (">>> Title" ... "<<<"), converted recursively
//   - images: ![alt](path) and [IMAGE:path|alt]
//   - inline code, headings (#, ##, ###), **bold**, *italic*, [links](url)
//   - one <blockquote> per "> " line
//   - ordered (1.) and unordered (- or *) lists
//   - paragraphs from runs of remaining text lines
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2blog.NewConverter(
//	    md2blog.WithImageBase("/static/images/"),
//	    md2blog.WithHighlighting("github"),
//	    md2blog.WithAssetPath("/path/to/custom/assets"),
//	)
//
// A Converter is immutable after construction and safe for concurrent use.
//
// # Reverse Sync
//
// ToMarkdown maps an HTML fragment produced by the rich-text editor back to
// the dialect. It covers the constructs above and drops anything else.
package md2blog
