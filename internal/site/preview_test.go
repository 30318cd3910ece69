package site

import (
	"errors"
	"strings"
	"testing"

	"github.com/yourmoontg/go-md2blog/internal/articles"
)

func TestPreview_Page(t *testing.T) {
	t.Parallel()

	dir := newTestBlog(t,
		[]articles.Article{article("hello", "2025-01-02", 3)},
		map[string]string{"hello": "Body text"},
	)
	p, err := NewPreview(newTestBuilder(t, Options{BlogDir: dir}))
	if err != nil {
		t.Fatalf("NewPreview() error = %v", err)
	}

	page, err := p.Page("hello")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if !strings.Contains(page, "<p>Body text</p>") {
		t.Errorf("page is missing the body: %q", page)
	}
	if !strings.Contains(page, ".article-page") {
		t.Error("page is missing the preview stylesheet")
	}
}

func TestPreview_Page_Errors(t *testing.T) {
	t.Parallel()

	dir := newTestBlog(t, []articles.Article{article("nosrc", "2025-01-02", 3)}, nil)
	p, err := NewPreview(newTestBuilder(t, Options{BlogDir: dir}))
	if err != nil {
		t.Fatalf("NewPreview() error = %v", err)
	}

	if _, err := p.Page("missing"); !errors.Is(err, articles.ErrArticleNotFound) {
		t.Errorf("Page(missing) error = %v, want ErrArticleNotFound", err)
	}
	if _, err := p.Page("nosrc"); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Page(nosrc) error = %v, want ErrSourceNotFound", err)
	}
}
