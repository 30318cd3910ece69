// Package articles models the blog catalog (articles.json) and the rules for
// creating, updating and removing its entries.
package articles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/yourmoontg/go-md2blog/internal/fileutil"
)

// Sentinel errors for catalog operations.
var (
	ErrCatalogParse    = errors.New("failed to parse article catalog")
	ErrArticleNotFound = errors.New("article not found")
	ErrDuplicateID     = errors.New("article id already exists")
	ErrInvalidArticle  = errors.New("invalid article")
)

// Blog tree layout, relative to the blog directory.
const (
	CatalogFile = "articles.json"
	ContentDir  = "content"
	PostsDir    = "posts"
	ImagesDir   = "images"
)

// Status is the publication state of an article.
type Status string

// Known statuses.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Article is one catalog entry.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Tags        []string `json:"tags"`
	Excerpt     string   `json:"excerpt"`
	ContentFile string   `json:"contentFile"` // blog/posts/<date>-<id>.html
	Status      Status   `json:"status"`
	ReadTime    int      `json:"readTime"` // minutes
	Icon        string   `json:"icon"`
}

// Catalog is the content of articles.json.
type Catalog struct {
	Articles []Article `json:"articles"`
}

// MarkdownPath returns the source path of an article relative to the blog directory.
func MarkdownPath(id string) string {
	return path.Join(ContentDir, id+".md")
}

// Parse decodes a catalog. Missing tag lists decode as empty.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if len(bytes.TrimSpace(data)) == 0 {
		return &c, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogParse, err)
	}
	for i := range c.Articles {
		if c.Articles[i].Tags == nil {
			c.Articles[i].Tags = []string{}
		}
	}
	return &c, nil
}

// Load reads a catalog file. A missing file yields an empty catalog.
func Load(file string) (*Catalog, error) {
	data, err := os.ReadFile(file) // #nosec G304 -- catalog path comes from config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the catalog with two-space indentation and a trailing
// newline. HTML characters in titles are kept as-is.
func (c *Catalog) Marshal() ([]byte, error) {
	out := Catalog{Articles: c.Articles}
	if out.Articles == nil {
		out.Articles = []Article{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the catalog atomically.
func (c *Catalog) Save(file string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(file, data, 0o644)
}

// Find returns the article with the given id.
func (c *Catalog) Find(id string) (Article, bool) {
	if i := c.index(id); i >= 0 {
		return c.Articles[i], true
	}
	return Article{}, false
}

func (c *Catalog) index(id string) int {
	for i := range c.Articles {
		if c.Articles[i].ID == id {
			return i
		}
	}
	return -1
}

// Add validates and inserts a, keeping the catalog sorted newest first.
func (c *Catalog) Add(a Article) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if c.index(a.ID) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateID, a.ID)
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	c.Articles = append(c.Articles, a)
	c.Sort()
	return nil
}

// Update merges the non-zero fields of patch into the article with the given
// id. The id never changes. Returns the merged article.
func (c *Catalog) Update(id string, patch Article) (Article, error) {
	i := c.index(id)
	if i < 0 {
		return Article{}, fmt.Errorf("%w: %q", ErrArticleNotFound, id)
	}

	merged := c.Articles[i]
	if patch.Title != "" {
		merged.Title = patch.Title
	}
	if patch.Date != "" {
		merged.Date = patch.Date
	}
	if patch.Tags != nil {
		merged.Tags = patch.Tags
	}
	if patch.Excerpt != "" {
		merged.Excerpt = patch.Excerpt
	}
	if patch.ContentFile != "" {
		merged.ContentFile = patch.ContentFile
	}
	if patch.Status != "" {
		merged.Status = patch.Status
	}
	if patch.ReadTime != 0 {
		merged.ReadTime = patch.ReadTime
	}
	if patch.Icon != "" {
		merged.Icon = patch.Icon
	}
	merged.ID = id

	if err := merged.Validate(); err != nil {
		return Article{}, err
	}
	c.Articles[i] = merged
	return merged, nil
}

// Remove deletes the article with the given id and returns it.
func (c *Catalog) Remove(id string) (Article, error) {
	i := c.index(id)
	if i < 0 {
		return Article{}, fmt.Errorf("%w: %q", ErrArticleNotFound, id)
	}
	removed := c.Articles[i]
	c.Articles = append(c.Articles[:i], c.Articles[i+1:]...)
	return removed, nil
}

// Sort orders articles by date, newest first. Equal dates keep their order.
// ISO dates compare correctly as strings.
func (c *Catalog) Sort() {
	sort.SliceStable(c.Articles, func(i, j int) bool {
		return c.Articles[i].Date > c.Articles[j].Date
	})
}

// Filter returns the articles with the given status, or all when status is empty.
func (c *Catalog) Filter(status Status) []Article {
	if status == "" {
		return append([]Article(nil), c.Articles...)
	}
	var out []Article
	for _, a := range c.Articles {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}
