// Package server is the HTTP backend of the article editor: live preview,
// rich-text sync, autosaved drafts and the articles stored on GitHub.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	md2blog "github.com/yourmoontg/go-md2blog"
	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/drafts"
	"github.com/yourmoontg/go-md2blog/internal/store"
)

// Request limits.
const (
	MaxDocumentSize = 5 << 20  // markdown or HTML per request
	MaxImageSize    = 10 << 20 // uploaded image
	shutdownTimeout = 10 * time.Second
	readTimeout     = 30 * time.Second
)

// Renderer converts between the Markdown dialect and HTML.
type Renderer interface {
	Convert(markdown, articleID string) string
	ToMarkdown(fragment string) string
	Analyze(markdown string) md2blog.Stats
}

// Articles is the remote article repository.
type Articles interface {
	Catalog(ctx context.Context) (*articles.Catalog, error)
	Markdown(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, a articles.Article, markdown string) (articles.Article, error)
	Update(ctx context.Context, id string, patch articles.Article, markdown string) (articles.Article, error)
	Delete(ctx context.Context, id string) (articles.Article, error)
	UploadImage(ctx context.Context, articleID, name string, data []byte) (store.Image, error)
}

// Drafts is the autosave store.
type Drafts interface {
	Get(id string) (drafts.Draft, error)
	Put(d drafts.Draft) (drafts.Draft, error)
	Delete(id string) error
	List() ([]drafts.Draft, error)
}

// Pages renders local articles as full pages.
type Pages interface {
	Page(id string) (string, error)
}

// Options wires the server's collaborators. Articles and Pages may be nil;
// their endpoints then answer 503.
type Options struct {
	Renderer Renderer
	Drafts   Drafts
	Articles Articles
	Pages    Pages
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Server serves the editor API.
type Server struct {
	opts   Options
	engine *gin.Engine
}

var (
	_ Articles = (*store.Store)(nil)
	_ Drafts   = (*drafts.Store)(nil)
)

// errUnavailable marks endpoints whose backend is not configured.
var errUnavailable = errors.New("not configured")

// New builds the router.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(opts.Logger))

	s := &Server{opts: opts, engine: engine}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	s.engine.GET("/preview/:id", s.handlePage)

	api := s.engine.Group("/api")
	api.POST("/preview", s.handlePreview)
	api.POST("/markdown", s.handleMarkdown)

	api.GET("/drafts", s.handleListDrafts)
	api.GET("/drafts/:id", s.handleGetDraft)
	api.PUT("/drafts/:id", s.handlePutDraft)
	api.DELETE("/drafts/:id", s.handleDeleteDraft)

	api.GET("/articles", s.handleListArticles)
	api.POST("/articles", s.handleCreateArticle)
	api.GET("/articles/:id", s.handleGetArticle)
	api.PUT("/articles/:id", s.handleUpdateArticle)
	api.DELETE("/articles/:id", s.handleDeleteArticle)
	api.POST("/articles/:id/images", s.handleUploadImage)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("addr", addr).Msg("editor backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
