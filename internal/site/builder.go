// Package site builds the static post pages of the blog from the catalog
// and the Markdown sources.
package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	md2blog "github.com/yourmoontg/go-md2blog"
	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/assets"
	"github.com/yourmoontg/go-md2blog/internal/dateutil"
	"github.com/yourmoontg/go-md2blog/internal/fileutil"
)

// Sentinel errors for builds.
var (
	ErrTemplateNotFound = errors.New("post template not found")
	ErrSourceNotFound   = errors.New("article markdown not found")
	ErrBuildFailed      = errors.New("some articles failed to build")
)

// LocalTemplateFile is the shell looked up in the blog directory when no
// template is configured.
const LocalTemplateFile = "post-template.html"

// Converter renders and analyzes article sources.
type Converter interface {
	Convert(markdown, articleID string) string
	Analyze(markdown string) md2blog.Stats
}

// Options configures a Builder.
type Options struct {
	BlogDir     string
	BaseURL     string
	TitleSuffix string
	DefaultIcon string
	Locale      string
	DateFormat  string
	Template    string // explicit shell path; empty = <BlogDir>/post-template.html, then built-in
	AssetPath   string // custom assets directory
	ExtraCSS    string // injected into every page, e.g. highlighting styles
	Workers     int    // BuildAll concurrency; 0 = GOMAXPROCS
	Logger      zerolog.Logger
}

// Builder stamps converted articles into the post shell.
// The shell is loaded once; a Builder is safe for concurrent use.
type Builder struct {
	conv  Converter
	opts  Options
	shell string
}

// Result describes one written page.
type Result struct {
	ID     string
	Output string
}

// Failure records an article that could not be built.
type Failure struct {
	ID  string
	Err error
}

// Summary reports a batch build.
type Summary struct {
	Built  []Result
	Failed []Failure
}

// NewBuilder loads the post shell and returns a Builder.
func NewBuilder(conv Converter, opts Options) (*Builder, error) {
	if opts.BlogDir == "" {
		opts.BlogDir = "blog"
	}
	if opts.DefaultIcon == "" {
		opts.DefaultIcon = articles.DefaultIcon
	}
	if opts.Locale == "" {
		opts.Locale = dateutil.LocaleRU
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	shell, err := loadShell(opts)
	if err != nil {
		return nil, err
	}

	return &Builder{conv: conv, opts: opts, shell: shell}, nil
}

// loadShell resolves the post template: the configured file, then the blog
// directory's post-template.html, then the asset directory or built-in shell.
func loadShell(opts Options) (string, error) {
	if opts.Template != "" {
		data, err := os.ReadFile(opts.Template) // #nosec G304 -- template path comes from config
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
		}
		return string(data), nil
	}

	local := filepath.Join(opts.BlogDir, LocalTemplateFile)
	if fileutil.FileExists(local) {
		data, err := os.ReadFile(local) // #nosec G304 -- inside the blog directory
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", local, err)
		}
		return string(data), nil
	}

	resolver, err := assets.NewAssetResolver(opts.AssetPath)
	if err != nil {
		return "", err
	}
	shell, err := resolver.LoadTemplate(assets.PostTemplateName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}
	return shell, nil
}

// Render converts markdown and stamps it with a's metadata.
// A zero ReadTime is replaced by the estimate for markdown.
func (b *Builder) Render(a articles.Article, markdown string) (string, error) {
	date, err := dateutil.FormatLong(a.Date, b.opts.DateFormat, b.opts.Locale)
	if err != nil {
		return "", fmt.Errorf("article %q: %w", a.ID, err)
	}

	readTime := a.ReadTime
	if readTime <= 0 {
		readTime = b.conv.Analyze(markdown).ReadMinutes
	}

	page := b.stamp(b.shell, PageData{
		Article:  a,
		Body:     b.conv.Convert(markdown, a.ID),
		Date:     date,
		ReadTime: readTime,
		Locale:   b.opts.Locale,
	})
	return InjectCSS(page, b.opts.ExtraCSS), nil
}

// CatalogPath returns the local articles.json path.
func (b *Builder) CatalogPath() string {
	return filepath.Join(b.opts.BlogDir, articles.CatalogFile)
}

// SourcePath returns the local Markdown path of an article.
func (b *Builder) SourcePath(id string) string {
	return filepath.Join(b.opts.BlogDir, filepath.FromSlash(articles.MarkdownPath(id)))
}

// OutputPath returns where the page of a is written.
func (b *Builder) OutputPath(a articles.Article) string {
	file := a.ContentFile
	if file == "" {
		file = articles.ContentFile(a.Date, a.ID)
	}
	name := filepath.Base(filepath.FromSlash(file))
	return filepath.Join(b.opts.BlogDir, articles.PostsDir, name)
}

// LoadSource reads the Markdown of an article.
func (b *Builder) LoadSource(id string) (string, error) {
	data, err := os.ReadFile(b.SourcePath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, b.SourcePath(id))
		}
		return "", fmt.Errorf("reading source: %w", err)
	}
	return string(data), nil
}

// Build renders one article of the local catalog and writes its page.
func (b *Builder) Build(ctx context.Context, id string) (Result, error) {
	catalog, err := articles.Load(b.CatalogPath())
	if err != nil {
		return Result{}, err
	}
	a, ok := catalog.Find(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q in %s", articles.ErrArticleNotFound, id, b.CatalogPath())
	}
	return b.buildArticle(ctx, a)
}

func (b *Builder) buildArticle(ctx context.Context, a articles.Article) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	markdown, err := b.LoadSource(a.ID)
	if err != nil {
		return Result{}, err
	}

	page, err := b.Render(a, markdown)
	if err != nil {
		return Result{}, err
	}

	out := b.OutputPath(a)
	if err := fileutil.WriteFileAtomic(out, []byte(page), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", out, err)
	}

	b.opts.Logger.Debug().Str("article", a.ID).Str("output", out).Msg("built")
	return Result{ID: a.ID, Output: out}, nil
}

// BuildAll builds every catalog article in parallel. Failures do not stop
// the batch; they are collected in the summary, and ErrBuildFailed is
// returned when there is at least one.
func (b *Builder) BuildAll(ctx context.Context) (Summary, error) {
	catalog, err := articles.Load(b.CatalogPath())
	if err != nil {
		return Summary{}, err
	}

	var (
		mu      sync.Mutex
		summary Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for _, a := range catalog.Articles {
		g.Go(func() error {
			res, err := b.buildArticle(gctx, a)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.opts.Logger.Warn().Str("article", a.ID).Err(err).Msg("build failed")
				summary.Failed = append(summary.Failed, Failure{ID: a.ID, Err: err})
				return nil
			}
			summary.Built = append(summary.Built, res)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(summary.Built, func(i, j int) bool { return summary.Built[i].ID < summary.Built[j].ID })
	sort.Slice(summary.Failed, func(i, j int) bool { return summary.Failed[i].ID < summary.Failed[j].ID })

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if len(summary.Failed) > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrBuildFailed, len(summary.Failed), len(catalog.Articles))
	}
	return summary, nil
}
