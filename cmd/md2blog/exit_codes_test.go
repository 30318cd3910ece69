package main

// Notes:
// - exitCodeFor: we test sentinel errors from every package the CLI calls,
//   plus wrapped errors to verify the errors.Is() chain.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	md2blog "github.com/yourmoontg/go-md2blog"
	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/config"
	"github.com/yourmoontg/go-md2blog/internal/dateutil"
	"github.com/yourmoontg/go-md2blog/internal/github"
	"github.com/yourmoontg/go-md2blog/internal/importer"
	"github.com/yourmoontg/go-md2blog/internal/site"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Remote errors (exit 4)
		{"no token", github.ErrNoToken, ExitRemote},
		{"unauthorized", github.ErrUnauthorized, ExitRemote},
		{"forbidden", github.ErrForbidden, ExitRemote},
		{"conflict", github.ErrConflict, ExitRemote},
		{"request", github.ErrRequest, ExitRemote},
		{"api error", &github.APIError{StatusCode: 404, Message: "Not Found", Err: github.ErrNotFound}, ExitRemote},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"source not found", site.ErrSourceNotFound, ExitIO},
		{"template not found", site.ErrTemplateNotFound, ExitIO},
		{"source exists", importer.ErrSourceExists, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"invalid asset path", md2blog.ErrInvalidAssetPath, ExitUsage},
		{"invalid image base", md2blog.ErrInvalidImageBase, ExitUsage},
		{"article not found", articles.ErrArticleNotFound, ExitUsage},
		{"duplicate id", articles.ErrDuplicateID, ExitUsage},
		{"invalid article", articles.ErrInvalidArticle, ExitUsage},
		{"invalid date", dateutil.ErrInvalidDate, ExitUsage},
		{"not a post", importer.ErrNotAPost, ExitUsage},
		{"wrapped usage", fmt.Errorf("parsing: %w", ErrUsage), ExitUsage},

		// General errors (exit 1)
		{"build failed", site.ErrBuildFailed, ExitGeneral},
		{"doctor failed", errDoctorFailed, ExitGeneral},
		{"unknown error", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}
	for _, code := range []int{ExitIO, ExitRemote} {
		if code >= 126 {
			t.Errorf("custom exit code %d must be below 126", code)
		}
	}
}
