package pipeline

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// CodeHighlighter renders a fenced code block for a language tag.
// ok is false when the language is unknown; the engine then falls back to
// plain escaped code.
type CodeHighlighter interface {
	Highlight(code, lang string) (html string, ok bool)
}

// ChromaHighlighter highlights code with chroma using CSS classes, so the
// page stylesheet controls colours (see CSS).
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter for a chroma style name.
// Unknown names fall back to chroma's default style.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	return &ChromaHighlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight implements CodeHighlighter.
func (h *ChromaHighlighter) Highlight(code, lang string) (string, bool) {
	lexer := lexers.Get(strings.ToLower(lang))
	if lexer == nil {
		return "", false
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", false
	}
	return buf.String(), true
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *ChromaHighlighter) CSS() string {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return ""
	}
	return buf.String()
}
