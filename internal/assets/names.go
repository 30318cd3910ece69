package assets

// Built-in asset names.
const (
	// PostTemplateName is the page shell stamped by the site builder.
	PostTemplateName = "post"

	// CollapsibleTemplateName is the fragment rendered for ">>> Title" sections.
	CollapsibleTemplateName = "collapsible"

	// ArticleScaffoldName is the Markdown written for a new article.
	ArticleScaffoldName = "article"

	// PreviewStyleName is the stylesheet injected into local previews.
	PreviewStyleName = "preview"
)
