package site

import (
	"fmt"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/assets"
)

// Preview renders local articles for the editor, with the preview
// stylesheet injected. Nothing is written to disk.
type Preview struct {
	b   *Builder
	css string
}

// NewPreview loads the preview stylesheet from the builder's asset path.
func NewPreview(b *Builder) (*Preview, error) {
	resolver, err := assets.NewAssetResolver(b.opts.AssetPath)
	if err != nil {
		return nil, err
	}
	css, err := resolver.LoadStyle(assets.PreviewStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading preview style: %w", err)
	}
	return &Preview{b: b, css: css}, nil
}

// Page renders the article id from the local catalog and sources.
func (p *Preview) Page(id string) (string, error) {
	catalog, err := articles.Load(p.b.CatalogPath())
	if err != nil {
		return "", err
	}
	a, ok := catalog.Find(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", articles.ErrArticleNotFound, id)
	}
	markdown, err := p.b.LoadSource(id)
	if err != nil {
		return "", err
	}
	page, err := p.b.Render(a, markdown)
	if err != nil {
		return "", err
	}
	return InjectCSS(page, p.css), nil
}
