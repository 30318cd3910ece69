// Package pipeline implements the Markdown dialect conversion engine.
//
// The engine turns the blog's Markdown dialect into an HTML fragment through
// an ordered list of named passes. Each pass scans the whole buffer top to
// bottom and rewrites the constructs it owns before the next pass runs:
//
//  1. normalize      line endings, reserved placeholder runes removed
//  2. fences         fenced code blocks escaped (or highlighted) and stashed
//  3. collapsibles   ">>> Title" ... "<<<" sections, body converted recursively
//  4. images         [IMAGE:path|alt] and ![alt](path) resolved to figures
//  5. inline-code    `code` spans escaped and stashed
//  6. headings       #, ##, ### at line start
//  7. emphasis       **bold** before *italic*
//  8. links          [text](url)
//  9. blockquotes    one <blockquote> per "> " line
//  10. ordered-lists / unordered-lists   consecutive item lines grouped
//  11. paragraphs    remaining bare text lines wrapped in <p>
//
// Output produced by a pass that later passes must not touch (code, figures,
// collapsible fragments) is moved into a stash and replaced by a placeholder
// token built from Unicode Private Use Area runes. The tokens pass through
// every regular rewrite unchanged and are expanded once, after the last pass.
//
// The package also provides the inverse HTML to Markdown converter used for
// rich-text editor sync, optional chroma syntax highlighting for fenced code,
// and a goldmark-based article analysis (word count, read time, excerpt).
package pipeline
