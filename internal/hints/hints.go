// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/http"
	"os"
	"strings"

	"github.com/yourmoontg/go-md2blog/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForNoToken returns hints for a missing GitHub token.
func ForNoToken() string {
	var hints []string
	hints = append(hints, "set MD2BLOG_GITHUB_TOKEN (or GITHUB_TOKEN) to a token with repo scope")
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		hints = append(hints, "in GitHub Actions pass secrets.GITHUB_TOKEN through env")
	}
	return formatHints(hints)
}

// ForGitHubStatus returns a hint for a GitHub API status code.
func ForGitHubStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return format("the token is invalid or expired; create a new one")
	case http.StatusForbidden:
		return format("check the token has repo scope, or wait for the rate limit to reset")
	case http.StatusNotFound:
		return format("check github.owner, github.repo and github.branch in the config")
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return format("the file changed remotely; pull and retry")
	}
	return ""
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2blog/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2blog") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForArticleNotFound suggests how to find valid article ids.
func ForArticleNotFound() string {
	return format("run 'md2blog list' to see article ids")
}

// ForBlogDir returns hints when the blog directory is missing.
func ForBlogDir(dir string) string {
	return format("no blog directory at " + dir + "; use --blog-dir or MD2BLOG_BLOG_DIR")
}

// ForListen returns hints for server bind errors.
func ForListen() string {
	var hints []string
	hints = append(hints, "choose another port with --addr")
	if IsInContainer() {
		hints = append(hints, "inside containers listen on 0.0.0.0")
	}
	return formatHints(hints)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
