// Package store keeps the blog catalog, article sources and images in a
// GitHub repository through the contents API.
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/github"
)

// ErrInvalidImageName rejects image names that are not plain file names.
var ErrInvalidImageName = errors.New("invalid image name")

// Repository layout.
const (
	CatalogPath = "blog/articles.json"
	ContentRoot = "blog/content"
	ImagesRoot  = "blog/images"

	// ImageURLBase is how article pages reference uploaded images.
	ImageURLBase = "../../blog/images/"
)

// Commit messages.
const (
	msgCreated        = "Created article: %s"
	msgAdded          = "Added article: %s"
	msgUpdated        = "Updated article: %s"
	msgDeleted        = "Deleted article: %s"
	msgImage          = "Added image: %s"
	msgCatalogUpdated = "Updated article list"
)

var imageNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._ -]*$`)

// Contents is the subset of the GitHub client the store needs.
type Contents interface {
	GetFile(ctx context.Context, path string) (*github.File, error)
	FileSHA(ctx context.Context, path string) (string, error)
	PutFile(ctx context.Context, path string, content []byte, message, sha string) (string, error)
	DeleteFile(ctx context.Context, path, message, sha string) error
}

var _ Contents = (*github.Client)(nil)

// Store reads and writes articles in the repository.
type Store struct {
	gh Contents
}

// New creates a Store over a contents client.
func New(gh Contents) *Store {
	return &Store{gh: gh}
}

// ContentPath returns the repository path of an article's Markdown.
func ContentPath(id string) string {
	return path.Join(ContentRoot, id+".md")
}

// Catalog fetches articles.json. A missing catalog is empty.
func (s *Store) Catalog(ctx context.Context) (*articles.Catalog, error) {
	f, err := s.gh.GetFile(ctx, CatalogPath)
	if errors.Is(err, github.ErrNotFound) {
		return &articles.Catalog{}, nil
	}
	if err != nil {
		return nil, err
	}
	return articles.Parse(f.Content)
}

// SaveCatalog writes articles.json. message defaults to "Updated article list".
func (s *Store) SaveCatalog(ctx context.Context, c *articles.Catalog, message string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if message == "" {
		message = msgCatalogUpdated
	}
	return s.put(ctx, CatalogPath, data, message)
}

// Markdown fetches an article's source. A missing file is github.ErrNotFound.
func (s *Store) Markdown(ctx context.Context, id string) (string, error) {
	f, err := s.gh.GetFile(ctx, ContentPath(id))
	if err != nil {
		return "", err
	}
	return string(f.Content), nil
}

// SaveMarkdown writes an article's source.
func (s *Store) SaveMarkdown(ctx context.Context, id, markdown, message string) error {
	if message == "" {
		message = fmt.Sprintf(msgUpdated, id)
	}
	return s.put(ctx, ContentPath(id), []byte(markdown), message)
}

// Create adds a new article: its Markdown first, then the catalog entry.
func (s *Store) Create(ctx context.Context, a articles.Article, markdown string) (articles.Article, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return articles.Article{}, err
	}
	if err := catalog.Add(a); err != nil {
		return articles.Article{}, err
	}

	if err := s.SaveMarkdown(ctx, a.ID, markdown, fmt.Sprintf(msgCreated, a.Title)); err != nil {
		return articles.Article{}, err
	}
	if err := s.SaveCatalog(ctx, catalog, fmt.Sprintf(msgAdded, a.Title)); err != nil {
		return articles.Article{}, err
	}

	created, _ := catalog.Find(a.ID)
	return created, nil
}

// Update merges patch into the article with the given id and replaces its
// Markdown. The id never changes.
func (s *Store) Update(ctx context.Context, id string, patch articles.Article, markdown string) (articles.Article, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return articles.Article{}, err
	}
	updated, err := catalog.Update(id, patch)
	if err != nil {
		return articles.Article{}, err
	}

	name := patch.Title
	if name == "" {
		name = id
	}
	message := fmt.Sprintf(msgUpdated, name)

	if err := s.SaveMarkdown(ctx, id, markdown, message); err != nil {
		return articles.Article{}, err
	}
	if err := s.SaveCatalog(ctx, catalog, message); err != nil {
		return articles.Article{}, err
	}
	return updated, nil
}

// Delete removes an article's Markdown, when present, and its catalog entry.
func (s *Store) Delete(ctx context.Context, id string) (articles.Article, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return articles.Article{}, err
	}
	removed, err := catalog.Remove(id)
	if err != nil {
		return articles.Article{}, err
	}
	message := fmt.Sprintf(msgDeleted, removed.Title)

	sha, err := s.gh.FileSHA(ctx, ContentPath(id))
	if err != nil {
		return articles.Article{}, err
	}
	if sha != "" {
		if err := s.gh.DeleteFile(ctx, ContentPath(id), message, sha); err != nil {
			return articles.Article{}, err
		}
	}

	if err := s.SaveCatalog(ctx, catalog, message); err != nil {
		return articles.Article{}, err
	}
	return removed, nil
}

// Image is an uploaded image.
type Image struct {
	Path string // repository path
	URL  string // reference for article Markdown
}

// UploadImage stores data as blog/images/<id>/<name>, replacing an existing file.
func (s *Store) UploadImage(ctx context.Context, articleID, name string, data []byte) (Image, error) {
	if !imageNamePattern.MatchString(name) || name != path.Base(name) {
		return Image{}, fmt.Errorf("%w: %q", ErrInvalidImageName, name)
	}

	repoPath := path.Join(ImagesRoot, articleID, name)
	if err := s.put(ctx, repoPath, data, fmt.Sprintf(msgImage, name)); err != nil {
		return Image{}, err
	}

	return Image{
		Path: repoPath,
		URL:  ImageURLBase + articleID + "/" + name,
	}, nil
}

// put writes a file, looking up its SHA first so existing files are updated.
func (s *Store) put(ctx context.Context, repoPath string, data []byte, message string) error {
	sha, err := s.gh.FileSHA(ctx, repoPath)
	if err != nil {
		return err
	}
	_, err = s.gh.PutFile(ctx, repoPath, data, message, sha)
	return err
}
