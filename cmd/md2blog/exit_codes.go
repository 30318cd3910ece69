package main

import (
	"errors"
	"os"

	md2blog "github.com/yourmoontg/go-md2blog"
	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/config"
	"github.com/yourmoontg/go-md2blog/internal/dateutil"
	"github.com/yourmoontg/go-md2blog/internal/github"
	"github.com/yourmoontg/go-md2blog/internal/importer"
	"github.com/yourmoontg/go-md2blog/internal/site"
	"github.com/yourmoontg/go-md2blog/internal/store"
)

// Exit codes for the md2blog CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command succeeded
	ExitGeneral = 1 // General/unexpected error, partial batch failure
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitRemote  = 4 // GitHub API errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Remote errors (exit 4)
	if errors.Is(err, github.ErrNoToken) ||
		errors.Is(err, github.ErrNotFound) ||
		errors.Is(err, github.ErrUnauthorized) ||
		errors.Is(err, github.ErrForbidden) ||
		errors.Is(err, github.ErrConflict) ||
		errors.Is(err, github.ErrRequest) {
		return ExitRemote
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, site.ErrSourceNotFound) ||
		errors.Is(err, site.ErrTemplateNotFound) ||
		errors.Is(err, importer.ErrSourceExists) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2blog.ErrInvalidAssetPath) ||
		errors.Is(err, md2blog.ErrInvalidTemplate) ||
		errors.Is(err, md2blog.ErrInvalidImageBase) ||
		errors.Is(err, articles.ErrArticleNotFound) ||
		errors.Is(err, articles.ErrDuplicateID) ||
		errors.Is(err, articles.ErrInvalidArticle) ||
		errors.Is(err, articles.ErrCatalogParse) ||
		errors.Is(err, dateutil.ErrInvalidDate) ||
		errors.Is(err, store.ErrInvalidImageName) ||
		errors.Is(err, importer.ErrNotAPost) ||
		errors.Is(err, importer.ErrMissingField) {
		return ExitUsage
	}

	return ExitGeneral
}
