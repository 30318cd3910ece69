package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourmoontg/go-md2blog/internal/dateutil"
	"github.com/yourmoontg/go-md2blog/internal/fileutil"
	"github.com/yourmoontg/go-md2blog/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxURLLength         = 2048 // Browser limit
	MaxSuffixLength      = 100  // " - Moon"
	MaxIconLength        = 100  // "icon-brain.svg"
	MaxDateFormatLength  = dateutil.MaxDateFormatLength
	MaxGitHubNameLength  = 100 // GitHub owner/repo limit
	MaxBranchLength      = 255
	MaxStyleNameLength   = 50
	MaxRequestsPerSecond = 100
)

// Defaults for the published blog.
const (
	DefaultBlogDir           = "blog"
	DefaultBaseURL           = "https://yourmoontg.github.io"
	DefaultTitleSuffix       = " - Moon"
	DefaultIcon              = "icon-brain.svg"
	DefaultLocale            = dateutil.LocaleRU
	DefaultOwner             = "YourMoonTG"
	DefaultRepo              = "yourmoontg.github.io"
	DefaultBranch            = "main"
	DefaultAPIURL            = "https://api.github.com"
	DefaultRequestsPerSecond = 5
	DefaultAddr              = "127.0.0.1:8080"
	DefaultDraftsPath        = "drafts.db"
	DefaultHighlightStyle    = "github"
)

// Config holds all configuration for building, publishing and previewing.
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Render RenderConfig `yaml:"render"`
	GitHub GitHubConfig `yaml:"github"`
	Server ServerConfig `yaml:"server"`
}

// SiteConfig describes the local blog tree and page metadata.
type SiteConfig struct {
	BlogDir     string `yaml:"blogDir"`     // holds articles.json, content/, posts/, images/
	BaseURL     string `yaml:"baseURL"`     // canonical site origin
	TitleSuffix string `yaml:"titleSuffix"` // appended to page titles
	DefaultIcon string `yaml:"defaultIcon"` // og:image fallback
	Locale      string `yaml:"locale"`      // month names: ru | en
	DateFormat  string `yaml:"dateFormat"`  // long date tokens, e.g. "D MMMM YYYY"
	Template    string `yaml:"template"`    // post shell path; empty = blog/post-template.html, then built-in
	AssetPath   string `yaml:"assetPath"`   // custom assets directory (styles/, templates/, scaffolds/)
}

// RenderConfig holds converter options.
type RenderConfig struct {
	ImageBase            string `yaml:"imageBase"`
	ImagesDir            string `yaml:"imagesDir"`
	DetachedCollapsibles bool   `yaml:"detachedCollapsibles"`
	Highlight            bool   `yaml:"highlight"`
	HighlightStyle       string `yaml:"highlightStyle"`
}

// GitHubConfig locates the repository that stores the blog.
// The token is never read from the file; it comes from the environment.
type GitHubConfig struct {
	Owner             string  `yaml:"owner"`
	Repo              string  `yaml:"repo"`
	Branch            string  `yaml:"branch"`
	APIURL            string  `yaml:"apiURL"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// ServerConfig configures the editor backend.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	DraftsPath string `yaml:"draftsPath"` // relative paths resolve against the blog directory
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for callers that build
// or modify a Config in code (CLI flags, environment overrides).
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"site.blogDir", c.Site.BlogDir, MaxPathLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"site.titleSuffix", c.Site.TitleSuffix, MaxSuffixLength},
		{"site.defaultIcon", c.Site.DefaultIcon, MaxIconLength},
		{"site.dateFormat", c.Site.DateFormat, MaxDateFormatLength},
		{"site.template", c.Site.Template, MaxPathLength},
		{"site.assetPath", c.Site.AssetPath, MaxPathLength},
		{"render.imageBase", c.Render.ImageBase, MaxURLLength},
		{"render.imagesDir", c.Render.ImagesDir, MaxPathLength},
		{"render.highlightStyle", c.Render.HighlightStyle, MaxStyleNameLength},
		{"github.owner", c.GitHub.Owner, MaxGitHubNameLength},
		{"github.repo", c.GitHub.Repo, MaxGitHubNameLength},
		{"github.branch", c.GitHub.Branch, MaxBranchLength},
		{"github.apiURL", c.GitHub.APIURL, MaxURLLength},
		{"server.addr", c.Server.Addr, MaxURLLength},
		{"server.draftsPath", c.Server.DraftsPath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Site.BlogDir == "" {
		return fmt.Errorf("%w: site.blogDir: required", ErrInvalidValue)
	}
	if !fileutil.IsURL(c.Site.BaseURL) {
		return fmt.Errorf("%w: site.baseURL: must start with http:// or https://, got %q", ErrInvalidValue, c.Site.BaseURL)
	}
	if !dateutil.IsSupportedLocale(c.Site.Locale) {
		return fmt.Errorf("%w: site.locale: must be ru or en, got %q", ErrInvalidValue, c.Site.Locale)
	}
	if err := dateutil.ValidateFormat(c.Site.DateFormat); err != nil {
		return fmt.Errorf("%w: site.dateFormat: %v", ErrInvalidValue, err)
	}

	if c.GitHub.Owner == "" || c.GitHub.Repo == "" || c.GitHub.Branch == "" {
		return fmt.Errorf("%w: github.owner, github.repo and github.branch are required", ErrInvalidValue)
	}
	if strings.ContainsAny(c.GitHub.Owner+c.GitHub.Repo, "/ ") {
		return fmt.Errorf("%w: github.owner and github.repo must not contain slashes or spaces", ErrInvalidValue)
	}
	if !fileutil.IsURL(c.GitHub.APIURL) {
		return fmt.Errorf("%w: github.apiURL: must start with http:// or https://, got %q", ErrInvalidValue, c.GitHub.APIURL)
	}
	if c.GitHub.RequestsPerSecond <= 0 || c.GitHub.RequestsPerSecond > MaxRequestsPerSecond {
		return fmt.Errorf("%w: github.requestsPerSecond: must be in (0, %d], got %g",
			ErrInvalidValue, MaxRequestsPerSecond, c.GitHub.RequestsPerSecond)
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("%w: server.addr: %v", ErrInvalidValue, err)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration of the published blog.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BlogDir:     DefaultBlogDir,
			BaseURL:     DefaultBaseURL,
			TitleSuffix: DefaultTitleSuffix,
			DefaultIcon: DefaultIcon,
			Locale:      DefaultLocale,
			DateFormat:  dateutil.DefaultLongFormat,
		},
		Render: RenderConfig{
			ImageBase:      "../../blog/images/",
			ImagesDir:      "blog/images",
			HighlightStyle: DefaultHighlightStyle,
		},
		GitHub: GitHubConfig{
			Owner:             DefaultOwner,
			Repo:              DefaultRepo,
			Branch:            DefaultBranch,
			APIURL:            DefaultAPIURL,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Server: ServerConfig{
			Addr:       DefaultAddr,
			DraftsPath: DefaultDraftsPath,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-md2blog", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name.
// Tries the current directory, then ~/.config/go-md2blog/, .yaml before .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
