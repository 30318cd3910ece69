package md2blog

import (
	"github.com/yourmoontg/go-md2blog/internal/pipeline"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	imageBase            string
	imagesDir            string
	detachedCollapsibles bool
	highlight            bool
	highlightStyle       string
	assetPath            string
	collapsibleTemplate  string
}

// Defaults matching the published site layout.
const (
	DefaultImageBase = pipeline.DefaultImageBase
	DefaultImagesDir = pipeline.DefaultImagesDir
)

// WithImageBase sets the prefix for relative image paths.
// A trailing slash is added when missing.
func WithImageBase(base string) Option {
	return func(c *Converter) {
		c.cfg.imageBase = base
	}
}

// WithImagesDir sets the directory segment that marks a path as already
// pointing into the images tree. Such paths are kept verbatim.
func WithImagesDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.imagesDir = dir
	}
}

// WithDetachedCollapsibles restores the legacy behavior where collapsible
// bodies are converted without the article id, so bare image filenames inside
// them resolve against the image base only.
func WithDetachedCollapsibles(detached bool) Option {
	return func(c *Converter) {
		c.cfg.detachedCollapsibles = detached
	}
}

// WithHighlighting enables chroma syntax highlighting for fenced code with a
// language tag. An empty style selects pipeline.DefaultHighlightStyle.
func WithHighlighting(style string) Option {
	return func(c *Converter) {
		c.cfg.highlight = true
		c.cfg.highlightStyle = style
	}
}

// WithAssetPath loads the collapsible fragment from a custom asset
// directory (templates/collapsible.html), falling back to the built-in one.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithCollapsibleTemplate sets the collapsible fragment directly
// (html/template syntax with .Title and .Body). Takes precedence over
// WithAssetPath.
func WithCollapsibleTemplate(src string) Option {
	return func(c *Converter) {
		c.cfg.collapsibleTemplate = src
	}
}
