// Package importer recovers article metadata and Markdown from post pages
// that were already built, so they can be edited again.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/fileutil"
)

// Sentinel errors.
var (
	ErrNotAPost     = errors.New("page has no article body")
	ErrMissingField = errors.New("cannot recover article field")
	ErrSourceExists = errors.New("article markdown already exists")
)

// InverseConverter maps an HTML fragment back to the Markdown dialect.
type InverseConverter interface {
	ToMarkdown(fragment string) string
}

// Result is a recovered article.
type Result struct {
	Article  articles.Article
	Markdown string
}

// datedName matches built page names: 2025-01-02-some-id.html.
var datedName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.html?$`)

// Parse reads a built post page. name is the page's file name; it supplies
// the id and date when the page's meta tags lack them.
func Parse(r io.Reader, name string, conv InverseConverter) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("parsing page: %w", err)
	}

	body := doc.Find("#article-body").First()
	if body.Length() == 0 {
		return Result{}, ErrNotAPost
	}
	fragment, err := body.Html()
	if err != nil {
		return Result{}, fmt.Errorf("reading article body: %w", err)
	}

	base := path.Base(filepath.ToSlash(name))
	var nameDate, nameID string
	if m := datedName.FindStringSubmatch(base); m != nil {
		nameDate, nameID = m[1], m[2]
	}

	a := articles.Article{
		ID:          firstNonEmpty(meta(doc, "name", "article-id"), nameID),
		Title:       strings.TrimSpace(doc.Find("#article-title").First().Text()),
		Date:        firstNonEmpty(meta(doc, "name", "article-date"), nameDate),
		Tags:        articles.ParseTags(meta(doc, "name", "article-tags")),
		Excerpt:     meta(doc, "name", "description"),
		ContentFile: path.Join("blog", articles.PostsDir, base),
		Status:      articles.StatusPublished,
		Icon:        iconFromImage(meta(doc, "property", "og:image")),
	}
	if a.Title == "" {
		a.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if a.Excerpt == a.Title {
		a.Excerpt = ""
	}
	if n, err := strconv.Atoi(meta(doc, "name", "article-read-time")); err == nil && n > 0 {
		a.ReadTime = n
	}

	switch {
	case a.ID == "":
		return Result{}, fmt.Errorf("%w: id (no article-id meta and %q is not <date>-<id>.html)", ErrMissingField, base)
	case a.Date == "":
		return Result{}, fmt.Errorf("%w: date", ErrMissingField)
	case a.Title == "":
		return Result{}, fmt.Errorf("%w: title", ErrMissingField)
	}
	if err := a.Validate(); err != nil {
		return Result{}, err
	}

	return Result{Article: a, Markdown: conv.ToMarkdown(fragment) + "\n"}, nil
}

// ImportFile parses a built page and stores it in the blog directory:
// the Markdown goes to content/<id>.md and the article is added to the
// catalog when missing. An existing source is only replaced with overwrite.
func ImportFile(page, blogDir string, conv InverseConverter, overwrite bool) (Result, bool, error) {
	f, err := os.Open(page) // #nosec G304 -- user-selected page
	if err != nil {
		return Result{}, false, fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := Parse(f, page, conv)
	if err != nil {
		return Result{}, false, err
	}

	source := filepath.Join(blogDir, filepath.FromSlash(articles.MarkdownPath(res.Article.ID)))
	if !overwrite && fileutil.FileExists(source) {
		return Result{}, false, fmt.Errorf("%w: %s", ErrSourceExists, source)
	}
	if err := fileutil.WriteFileAtomic(source, []byte(res.Markdown), 0o644); err != nil {
		return Result{}, false, err
	}

	catalogPath := filepath.Join(blogDir, articles.CatalogFile)
	catalog, err := articles.Load(catalogPath)
	if err != nil {
		return Result{}, false, err
	}
	if _, ok := catalog.Find(res.Article.ID); ok {
		return res, false, nil
	}
	if err := catalog.Add(res.Article); err != nil {
		return Result{}, false, err
	}
	if err := catalog.Save(catalogPath); err != nil {
		return Result{}, false, err
	}
	return res, true, nil
}

// meta returns the trimmed content of <meta attr="key">.
func meta(doc *goquery.Document, attr, key string) string {
	content, _ := doc.Find(`meta[` + attr + `="` + key + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// iconFromImage keeps the file name of a social card image under assets/icons.
func iconFromImage(url string) string {
	if url == "" || !strings.Contains(url, "/assets/icons/") {
		return articles.DefaultIcon
	}
	return path.Base(url)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
