// Package assets provides the page shell, fragments, scaffolds and styles
// used to build and preview blog articles.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter, the site builder and
// the preview server. It tries the custom FilesystemLoader first, falling
// back to EmbeddedLoader if the asset is not found, so a blog can override
// only the post shell and keep the other defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # e.g. preview.css
//	├── templates/
//	│   └── {name}.html          # post.html, collapsible.html
//	└── scaffolds/
//	    └── {name}.md            # article.md, the new-article skeleton
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
