package pipeline

import (
	"regexp"
	"strings"
)

var (
	// [IMAGE:path] or [IMAGE:path|alt]
	imageTagPattern = regexp.MustCompile(`\[IMAGE:([^|\]]+)(?:\|([^\]]+))?\]`)

	// ![alt](path)
	imageMarkdownPattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

	// URI scheme such as https:, data:, mailto:. Two letters minimum so a
	// Windows drive letter ("C:\") is not mistaken for a scheme.
	uriSchemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]+:`)
)

const figureTemplate = `<figure class="article-image">
    <img src="%SRC%" alt="%ALT%" loading="lazy">
</figure>`

// resolveImages replaces both image syntaxes with stashed figures,
// bracket-tag form first.
func resolveImages(c *conversion, doc *document) {
	if !strings.Contains(doc.text, "[") {
		return
	}

	doc.text = imageTagPattern.ReplaceAllStringFunc(doc.text, func(match string) string {
		m := imageTagPattern.FindStringSubmatch(match)
		return c.figure(m[1], m[2], doc.articleID)
	})

	doc.text = imageMarkdownPattern.ReplaceAllStringFunc(doc.text, func(match string) string {
		m := imageMarkdownPattern.FindStringSubmatch(match)
		return c.figure(m[2], m[1], doc.articleID)
	})
}

// figure builds the <figure> fragment and stashes it.
// An empty alt falls back to the raw path.
func (c *conversion) figure(rawPath, alt, articleID string) string {
	path := strings.TrimSpace(rawPath)
	alt = strings.TrimSpace(alt)
	if alt == "" {
		alt = path
	}

	src := ResolveImagePath(path, articleID, c.engine.cfg.ImageBase, c.engine.cfg.ImagesDir)
	out := strings.NewReplacer("%SRC%", escapeAttr(src), "%ALT%", escapeAttr(alt)).Replace(figureTemplate)
	return c.stash.put(out, true)
}

// ResolveImagePath maps an image path written in an article to the URL used
// in the rendered page. Rules, first match wins:
//
//  1. absolute URL (scheme or "//") or site-absolute path ("/...") is kept;
//  2. a path already containing imagesDir is kept, backslashes turned into slashes;
//  3. a bare filename with a known article id goes to base + id + "/" + name;
//  4. anything else has backslashes turned into slashes and is appended to base.
//
// base must end with a slash.
func ResolveImagePath(path, articleID, base, imagesDir string) string {
	if uriSchemePattern.MatchString(path) || strings.HasPrefix(path, "/") {
		return path
	}

	slashed := strings.ReplaceAll(path, `\`, "/")
	if imagesDir != "" && strings.Contains(slashed, imagesDir) {
		return slashed
	}

	if articleID != "" && !strings.ContainsAny(path, `/\`) {
		return base + articleID + "/" + path
	}

	return base + slashed
}
