package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Compress 3+ newlines to one blank line.
var multipleBlankLines = regexp.MustCompile(`\n{3,}`)

// ToMarkdown converts an HTML fragment back into the Markdown dialect.
//
// This is a best-effort sync for the rich-text editor, not a general
// HTML-to-Markdown converter. Supported: h1-h6, p, strong/b, em/i, a, img,
// code, pre, ul/ol/li, blockquote, br, plus the figure and collapsible
// fragments the engine itself emits. Other elements are dropped and their
// children kept; script and style are dropped entirely.
func ToMarkdown(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	w := &mdWriter{}
	for _, n := range nodes {
		w.block(n)
	}

	out := multipleBlankLines.ReplaceAllString(w.b.String(), "\n\n")
	return strings.TrimSpace(out)
}

type mdWriter struct {
	b strings.Builder
}

// block writes a node in block context.
func (w *mdWriter) block(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			w.b.WriteString(n.Data)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level, _ := strconv.Atoi(n.Data[1:])
		w.b.WriteString(strings.Repeat("#", level) + " " + inline(n) + "\n\n")
	case atom.P:
		w.b.WriteString(inline(n) + "\n\n")
	case atom.Pre:
		w.b.WriteString("```" + codeLanguage(n) + "\n" + strings.Trim(textContent(n), "\n") + "\n```\n\n")
	case atom.Ul, atom.Ol:
		w.list(n)
	case atom.Blockquote:
		w.blockquote(n)
	case atom.Figure:
		if img := findElement(n, atom.Img); img != nil {
			w.b.WriteString(imageMarkdown(img) + "\n\n")
		}
	case atom.Div:
		if hasClass(n, "article-collapsible") {
			w.collapsible(n)
			return
		}
		w.children(n)
	case atom.Script, atom.Style:
	default:
		if isInlineElement(n) {
			w.b.WriteString(inline(n))
			return
		}
		w.children(n)
	}
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.block(c)
	}
}

func (w *mdWriter) list(n *html.Node) {
	ordered := n.DataAtom == atom.Ol
	i := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		marker := "- "
		if ordered {
			marker = strconv.Itoa(i) + ". "
			i++
		}
		w.b.WriteString(marker + strings.TrimSpace(inline(c)) + "\n")
	}
	w.b.WriteString("\n")
}

// blockquote prefixes every non-empty rendered line with "> ".
func (w *mdWriter) blockquote(n *html.Node) {
	inner := &mdWriter{}
	if hasBlockChild(n) {
		inner.children(n)
	} else {
		inner.b.WriteString(inline(n))
	}
	for _, line := range strings.Split(strings.TrimSpace(inner.b.String()), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w.b.WriteString("> " + line + "\n")
	}
	w.b.WriteString("\n")
}

// collapsible maps the engine's collapsible fragment back to ">>> Title" ... "<<<".
func (w *mdWriter) collapsible(n *html.Node) {
	title := ""
	if header := findClass(n, "collapsible-header"); header != nil {
		if h := findElement(header, atom.H3); h != nil {
			title = strings.TrimSpace(inline(h))
		}
	}

	inner := &mdWriter{}
	if content := findClass(n, "collapsible-content-inner"); content != nil {
		inner.children(content)
	}
	body := multipleBlankLines.ReplaceAllString(strings.TrimSpace(inner.b.String()), "\n\n")

	w.b.WriteString(">>> " + title + "\n" + body + "\n<<<\n\n")
}

// inline renders the children of n as a single line of Markdown.
func inline(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(&b, c)
	}
	return b.String()
}

func writeInline(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		b.WriteString("**" + inline(n) + "**")
	case atom.Em, atom.I:
		b.WriteString("*" + inline(n) + "*")
	case atom.A:
		b.WriteString("[" + inline(n) + "](" + attr(n, "href") + ")")
	case atom.Img:
		b.WriteString(imageMarkdown(n))
	case atom.Code:
		b.WriteString("`" + textContent(n) + "`")
	case atom.Br:
		b.WriteString("\n")
	case atom.Script, atom.Style:
	case atom.P:
		// Paragraphs inside list items or quotes collapse into the line.
		b.WriteString(strings.TrimSpace(inline(n)))
	default:
		b.WriteString(inline(n))
	}
}

func imageMarkdown(img *html.Node) string {
	return "![" + attr(img, "alt") + "](" + attr(img, "src") + ")"
}

// codeLanguage reads a "language-xxx" class from pre or its code child.
func codeLanguage(pre *html.Node) string {
	for _, n := range []*html.Node{pre, findElement(pre, atom.Code)} {
		if n == nil {
			continue
		}
		for _, class := range strings.Fields(attr(n, "class")) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findElement returns the first descendant element with the given atom.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// findClass returns the first descendant element carrying class.
func findClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !isInlineElement(c) {
			return true
		}
	}
	return false
}

func isInlineElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Strong, atom.B, atom.Em, atom.I, atom.A, atom.Img, atom.Code, atom.Br, atom.Span:
		return true
	}
	return false
}
