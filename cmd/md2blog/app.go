package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	md2blog "github.com/yourmoontg/go-md2blog"
	"github.com/yourmoontg/go-md2blog/internal/config"
	"github.com/yourmoontg/go-md2blog/internal/fileutil"
	"github.com/yourmoontg/go-md2blog/internal/github"
	"github.com/yourmoontg/go-md2blog/internal/hints"
	"github.com/yourmoontg/go-md2blog/internal/logging"
	"github.com/yourmoontg/go-md2blog/internal/site"
	"github.com/yourmoontg/go-md2blog/internal/store"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")

	// errHelpShown stops a command after -h printed its usage.
	errHelpShown = errors.New("help shown")
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// maxWorkers caps --workers for batch builds.
const maxWorkers = 64

// app carries the resolved configuration shared by all commands.
type app struct {
	cfg   *config.Config
	token string
	log   zerolog.Logger
	env   *Environment
}

// parseArgs parses a command's flags. -h prints usage to stdout.
func parseArgs(fs *flag.FlagSet, args []string, env *Environment, usage func(io.Writer)) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(env.Stdout)
			return nil, errHelpShown
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// newApp resolves configuration: CLI flags > env vars > config file > defaults.
func newApp(f commonFlags, env *Environment) (*app, error) {
	envCfg := loadEnvConfig()
	if !f.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg := config.DefaultConfig()
	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeCommonFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		token: envCfg.Token,
		log:   logging.New(env.Stderr, logging.LevelFromFlags(f.quiet, f.verbose)),
		env:   env,
	}, nil
}

// mergeCommonFlags applies CLI flags to config. CLI values override config values.
func mergeCommonFlags(f commonFlags, cfg *config.Config) {
	if f.blogDir != "" {
		cfg.Site.BlogDir = f.blogDir
	}
}

// blogDir returns the blog directory, failing with a hint when it is missing.
func (a *app) blogDir() (string, error) {
	dir := a.cfg.Site.BlogDir
	if !fileutil.DirExists(dir) {
		return "", fmt.Errorf("%w: blog directory %s%s", os.ErrNotExist, dir, hints.ForBlogDir(dir))
	}
	return dir, nil
}

// converter builds the shared engine from the render settings.
func (a *app) converter(highlight bool) (*md2blog.Converter, error) {
	r := a.cfg.Render
	opts := []md2blog.Option{
		md2blog.WithImageBase(r.ImageBase),
		md2blog.WithImagesDir(r.ImagesDir),
		md2blog.WithDetachedCollapsibles(r.DetachedCollapsibles),
		md2blog.WithAssetPath(a.cfg.Site.AssetPath),
	}
	if highlight || r.Highlight {
		opts = append(opts, md2blog.WithHighlighting(r.HighlightStyle))
	}
	return md2blog.NewConverter(opts...)
}

// builder returns a site builder stamping pages with conv's output.
func (a *app) builder(conv *md2blog.Converter, workers int) (*site.Builder, error) {
	s := a.cfg.Site
	return site.NewBuilder(conv, site.Options{
		BlogDir:     s.BlogDir,
		BaseURL:     s.BaseURL,
		TitleSuffix: s.TitleSuffix,
		DefaultIcon: s.DefaultIcon,
		Locale:      s.Locale,
		DateFormat:  s.DateFormat,
		Template:    s.Template,
		AssetPath:   s.AssetPath,
		ExtraCSS:    conv.HighlightCSS(),
		Workers:     workers,
		Logger:      a.log,
	})
}

// githubClient returns a contents API client for the configured repository.
func (a *app) githubClient() *github.Client {
	gh := a.cfg.GitHub
	opts := []github.Option{
		github.WithToken(a.token),
		github.WithBaseURL(gh.APIURL),
		github.WithBranch(gh.Branch),
		github.WithRateLimit(gh.RequestsPerSecond),
		github.WithLogger(a.log),
	}
	if a.env.HTTPClient != nil {
		opts = append(opts, github.WithHTTPClient(a.env.HTTPClient))
	}
	return github.NewClient(gh.Owner, gh.Repo, opts...)
}

// remote returns the article store on GitHub. Fails before any request
// when no token is configured.
func (a *app) remote() (*store.Store, error) {
	if a.token == "" {
		return nil, fmt.Errorf("%w%s", github.ErrNoToken, hints.ForNoToken())
	}
	return store.New(a.githubClient()), nil
}

// localPath joins a slash-separated blog-relative path onto the blog directory.
func (a *app) localPath(rel string) string {
	return filepath.Join(a.cfg.Site.BlogDir, filepath.FromSlash(rel))
}

// readInput reads a file, or stdin for "-".
func readInput(path string, env *Environment) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-selected input
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), nil
}

// writeOutput writes content to a file, or stdout for "" and "-".
func writeOutput(path, content string, env *Environment) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(env.Stdout, content)
		return err
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	return nil
}

// validateWorkers checks the --workers value.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: --workers must be between 0 and %d, got %d", ErrUsage, maxWorkers, n)
	}
	return nil
}
