package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	md2blog "github.com/yourmoontg/go-md2blog"
	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/dateutil"
	"github.com/yourmoontg/go-md2blog/internal/drafts"
	"github.com/yourmoontg/go-md2blog/internal/github"
	"github.com/yourmoontg/go-md2blog/internal/site"
	"github.com/yourmoontg/go-md2blog/internal/store"
)

type previewRequest struct {
	Markdown  string `json:"markdown"`
	ArticleID string `json:"articleId"`
}

type previewResponse struct {
	HTML  string        `json:"html"`
	Stats md2blog.Stats `json:"stats"`
}

type markdownRequest struct {
	HTML string `json:"html"`
}

type markdownResponse struct {
	Markdown string `json:"markdown"`
}

// articleRequest is the editor form.
type articleRequest struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	Excerpt  string   `json:"excerpt"`
	ReadTime int      `json:"readTime"`
	Status   string   `json:"status"`
	Icon     string   `json:"icon"`
	Markdown string   `json:"markdown"`
}

type articleResponse struct {
	Article  articles.Article `json:"article"`
	Markdown string           `json:"markdown"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// bindJSON decodes a size-limited JSON body, answering 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxDocumentSize)
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// fail maps an error to a status and a JSON error body.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, articles.ErrArticleNotFound),
		errors.Is(err, github.ErrNotFound),
		errors.Is(err, drafts.ErrNoDraft),
		errors.Is(err, site.ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, articles.ErrDuplicateID),
		errors.Is(err, github.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, articles.ErrInvalidArticle),
		errors.Is(err, store.ErrInvalidImageName),
		errors.Is(err, drafts.ErrInvalidID),
		errors.Is(err, dateutil.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, github.ErrNoToken),
		errors.Is(err, github.ErrUnauthorized),
		errors.Is(err, github.ErrForbidden),
		errors.Is(err, github.ErrRequest):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handlePreview(c *gin.Context) {
	var req previewRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, previewResponse{
		HTML:  s.opts.Renderer.Convert(req.Markdown, req.ArticleID),
		Stats: s.opts.Renderer.Analyze(req.Markdown),
	})
}

func (s *Server) handleMarkdown(c *gin.Context) {
	var req markdownRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, markdownResponse{Markdown: s.opts.Renderer.ToMarkdown(req.HTML)})
}

func (s *Server) handlePage(c *gin.Context) {
	if s.opts.Pages == nil {
		fail(c, errUnavailable)
		return
	}
	page, err := s.opts.Pages.Page(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) handleListDrafts(c *gin.Context) {
	list, err := s.opts.Drafts.List()
	if err != nil {
		fail(c, err)
		return
	}
	if list == nil {
		list = []drafts.Draft{}
	}
	c.JSON(http.StatusOK, gin.H{"drafts": list})
}

func (s *Server) handleGetDraft(c *gin.Context) {
	d, err := s.opts.Drafts.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handlePutDraft(c *gin.Context) {
	var d drafts.Draft
	if !bindJSON(c, &d) {
		return
	}
	d.ID = c.Param("id")
	saved, err := s.opts.Drafts.Put(d)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleDeleteDraft(c *gin.Context) {
	if err := s.opts.Drafts.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// remote returns the article repository or answers 503.
func (s *Server) remote(c *gin.Context) (Articles, bool) {
	if s.opts.Articles == nil {
		fail(c, fmt.Errorf("remote articles %w: no GitHub token", errUnavailable))
		return nil, false
	}
	return s.opts.Articles, true
}

func (s *Server) handleListArticles(c *gin.Context) {
	repo, ok := s.remote(c)
	if !ok {
		return
	}
	catalog, err := repo.Catalog(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	list := catalog.Articles
	if list == nil {
		list = []articles.Article{}
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

func (s *Server) handleGetArticle(c *gin.Context) {
	repo, ok := s.remote(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	catalog, err := repo.Catalog(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	a, found := catalog.Find(id)
	if !found {
		fail(c, articles.ErrArticleNotFound)
		return
	}

	markdown, err := repo.Markdown(ctx, id)
	if err != nil && !errors.Is(err, github.ErrNotFound) {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, articleResponse{Article: a, Markdown: markdown})
}

func (s *Server) handleCreateArticle(c *gin.Context) {
	repo, ok := s.remote(c)
	if !ok {
		return
	}
	var req articleRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := articles.NewArticle(articles.Draft{
		Title:    req.Title,
		ID:       req.ID,
		Date:     req.Date,
		Tags:     strings.Join(req.Tags, ","),
		Excerpt:  req.Excerpt,
		ReadTime: req.ReadTime,
		Status:   req.Status,
		Icon:     req.Icon,
	}, s.opts.Now())
	if err != nil {
		fail(c, err)
		return
	}

	created, err := repo.Create(c.Request.Context(), a, req.Markdown)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, articleResponse{Article: created, Markdown: req.Markdown})
}

func (s *Server) handleUpdateArticle(c *gin.Context) {
	repo, ok := s.remote(c)
	if !ok {
		return
	}
	var req articleRequest
	if !bindJSON(c, &req) {
		return
	}
	id := c.Param("id")

	patch := articles.Article{
		Title:    strings.TrimSpace(req.Title),
		Tags:     req.Tags,
		Excerpt:  strings.TrimSpace(req.Excerpt),
		Status:   articles.Status(req.Status),
		ReadTime: req.ReadTime,
	}
	if req.Icon != "" {
		patch.Icon = articles.IconFile(req.Icon)
	}
	if req.Date != "" {
		date, err := dateutil.ResolveDate(req.Date, s.opts.Now())
		if err != nil {
			fail(c, err)
			return
		}
		patch.Date = date
		patch.ContentFile = articles.ContentFile(date, id)
	}

	updated, err := repo.Update(c.Request.Context(), id, patch, req.Markdown)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, articleResponse{Article: updated, Markdown: req.Markdown})
}

func (s *Server) handleDeleteArticle(c *gin.Context) {
	repo, ok := s.remote(c)
	if !ok {
		return
	}
	removed, err := repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": removed.ID})
}

func (s *Server) handleUploadImage(c *gin.Context) {
	repo, ok := s.remote(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing file: " + err.Error()})
		return
	}
	if fh.Size > MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "image too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize))
	if err != nil {
		fail(c, err)
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = fh.Filename
	}
	img, err := repo.UploadImage(c.Request.Context(), c.Param("id"), name, data)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"path":     img.Path,
		"url":      img.URL,
		"markdown": "![" + name + "](" + img.URL + ")",
	})
}
