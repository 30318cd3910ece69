package md2blog

import (
	"fmt"
	"strings"

	"github.com/yourmoontg/go-md2blog/internal/assets"
	"github.com/yourmoontg/go-md2blog/internal/pipeline"
)

// Compile-time interface implementation check.
var _ pipeline.CodeHighlighter = (*pipeline.ChromaHighlighter)(nil)

// Converter renders the Markdown dialect to HTML, maps editor HTML back to
// the dialect and summarizes article sources.
// Create with NewConverter; a Converter is safe for concurrent use.
type Converter struct {
	cfg         converterConfig
	engine      *pipeline.Engine
	analyzer    *pipeline.Analyzer
	highlighter *pipeline.ChromaHighlighter // nil when highlighting is off
}

// Stats summarizes an article's Markdown source.
type Stats struct {
	Words       int    `json:"words"`
	ReadMinutes int    `json:"readMinutes"`
	Title       string `json:"title,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithImageBase, WithHighlighting).
// Returns error if the asset path or the collapsible template is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			imageBase: DefaultImageBase,
			imagesDir: DefaultImagesDir,
		},
		analyzer: pipeline.NewAnalyzer(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if strings.ContainsAny(c.cfg.imageBase, "\"<> \t\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidImageBase, c.cfg.imageBase)
	}

	tmpl, err := c.resolveCollapsibleTemplate()
	if err != nil {
		return nil, err
	}

	if c.cfg.highlight {
		c.highlighter = pipeline.NewChromaHighlighter(c.cfg.highlightStyle)
	}

	engineCfg := pipeline.Config{
		ImageBase:            c.cfg.imageBase,
		ImagesDir:            c.cfg.imagesDir,
		DetachedCollapsibles: c.cfg.detachedCollapsibles,
		CollapsibleTemplate:  tmpl,
	}
	// Assigned only when set: a nil *ChromaHighlighter in the interface would not be nil.
	if c.highlighter != nil {
		engineCfg.Highlighter = c.highlighter
	}

	c.engine, err = pipeline.NewEngine(engineCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	return c, nil
}

// resolveCollapsibleTemplate returns the fragment source: the explicit
// option, then the asset directory, then the built-in fragment.
func (c *Converter) resolveCollapsibleTemplate() (string, error) {
	if c.cfg.collapsibleTemplate != "" {
		return c.cfg.collapsibleTemplate, nil
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	src, err := resolver.LoadTemplate(assets.CollapsibleTemplateName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return strings.TrimSpace(src), nil
}

// Convert renders markdown to an HTML fragment. articleID may be empty.
// Recovers from internal panics: the input is then returned as escaped
// paragraphs, so Convert never fails.
func (c *Converter) Convert(markdown, articleID string) (html string) {
	defer func() {
		if r := recover(); r != nil {
			html = escapedParagraphs(markdown)
		}
	}()
	return c.engine.Convert(markdown, articleID)
}

// ToMarkdown converts an HTML fragment back to the dialect (best effort).
func (c *Converter) ToMarkdown(fragment string) (markdown string) {
	defer func() {
		if r := recover(); r != nil {
			markdown = strings.TrimSpace(fragment)
		}
	}()
	return pipeline.ToMarkdown(fragment)
}

// Analyze returns word count, estimated read time, first heading and an
// excerpt candidate for an article source.
func (c *Converter) Analyze(markdown string) Stats {
	s := c.analyzer.Analyze(markdown)
	return Stats{
		Words:       s.Words,
		ReadMinutes: s.ReadMinutes,
		Title:       s.Title,
		Excerpt:     s.Excerpt,
	}
}

// HighlightCSS returns the stylesheet for highlighted code, or "" when
// highlighting is off.
func (c *Converter) HighlightCSS() string {
	if c.highlighter == nil {
		return ""
	}
	return c.highlighter.CSS()
}

// Passes lists the conversion passes in execution order.
func (c *Converter) Passes() []string {
	return c.engine.PassNames()
}

// EscapeHTML escapes text for verbatim display in HTML.
func EscapeHTML(text string) string {
	return pipeline.EscapeHTML(text)
}

// escapedParagraphs is the last-resort rendering: blank-line separated
// blocks as escaped paragraphs.
func escapedParagraphs(markdown string) string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, "<p>"+pipeline.EscapeHTML(block)+"</p>")
		}
	}
	return strings.Join(out, "\n")
}
