package pipeline

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Default resolution settings, matching the published site layout
// (posts live two levels below the site root).
const (
	DefaultImageBase = "../../blog/images/"
	DefaultImagesDir = "blog/images"
)

// ErrCollapsibleTemplate indicates the collapsible fragment template is invalid.
var ErrCollapsibleTemplate = errors.New("invalid collapsible template")

// Config holds the immutable settings of an Engine.
type Config struct {
	// ImageBase is prefixed to relative image paths. A trailing slash is added when missing.
	ImageBase string
	// ImagesDir is the canonical images directory segment; paths containing it are kept verbatim.
	ImagesDir string
	// DetachedCollapsibles converts collapsible bodies without the article id,
	// so bare image filenames inside them resolve against ImageBase only.
	DetachedCollapsibles bool
	// Highlighter renders fenced code that carries a language tag. Nil keeps plain escaped code.
	Highlighter CodeHighlighter
	// CollapsibleTemplate overrides the collapsible fragment (html/template syntax,
	// fields .Title and .Body). Empty uses DefaultCollapsibleTemplate.
	CollapsibleTemplate string
}

// Engine converts the Markdown dialect to HTML.
// An Engine holds no per-conversion state and is safe for concurrent use.
type Engine struct {
	cfg         Config
	passes      []pass
	collapsible *template.Template
}

// NewEngine creates an Engine, filling defaults for empty settings.
// Returns ErrCollapsibleTemplate if a custom collapsible template does not parse.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.ImageBase == "" {
		cfg.ImageBase = DefaultImageBase
	}
	if !strings.HasSuffix(cfg.ImageBase, "/") {
		cfg.ImageBase += "/"
	}
	if cfg.ImagesDir == "" {
		cfg.ImagesDir = DefaultImagesDir
	}
	cfg.ImagesDir = strings.Trim(cfg.ImagesDir, "/")

	src := cfg.CollapsibleTemplate
	if src == "" {
		src = DefaultCollapsibleTemplate
	}
	tmpl, err := template.New("collapsible").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollapsibleTemplate, err)
	}

	return &Engine{
		cfg:         cfg,
		passes:      defaultPasses(),
		collapsible: tmpl,
	}, nil
}

// Convert renders markdown to an HTML fragment. articleID may be empty; it is
// used to resolve bare image filenames to the article's image directory.
// Convert never fails: unmatched or malformed syntax is kept as literal text.
func (e *Engine) Convert(markdown, articleID string) string {
	c := &conversion{engine: e, stash: &stash{}}
	out := c.render(markdown, articleID, false)
	return strings.TrimSpace(c.stash.expand(out))
}

// PassNames lists the pipeline passes in execution order.
func (e *Engine) PassNames() []string {
	names := make([]string, len(e.passes))
	for i, p := range e.passes {
		names[i] = p.name
	}
	return names
}

// conversion is the state of one top-level Convert call.
// Nested collapsible bodies share it so their stash tokens expand together.
type conversion struct {
	engine *Engine
	stash  *stash
}

// document is the buffer a pass rewrites.
type document struct {
	text      string
	articleID string
	nested    bool // body of a collapsible section
}

// render runs every pass over text and returns the buffer with stash tokens unexpanded.
func (c *conversion) render(text, articleID string, nested bool) string {
	doc := &document{text: text, articleID: articleID, nested: nested}
	for _, p := range c.engine.passes {
		p.apply(c, doc)
	}
	return doc.text
}

// renderInline applies the inline passes to a single fragment of text.
// Used for collapsible titles, which are not full documents.
func (c *conversion) renderInline(text string) string {
	doc := &document{text: text}
	stashInlineCode(c, doc)
	rewriteEmphasis(c, doc)
	rewriteLinks(c, doc)
	return doc.text
}
