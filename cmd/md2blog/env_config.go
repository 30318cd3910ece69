package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yourmoontg/go-md2blog/internal/config"
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // MD2BLOG_CONFIG: config name or path
	BlogDir    string // MD2BLOG_BLOG_DIR: local blog directory
	Token      string // MD2BLOG_GITHUB_TOKEN, then GITHUB_TOKEN
	Addr       string // MD2BLOG_ADDR: editor server address
}

// knownEnvVars lists valid MD2BLOG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2BLOG_CONFIG":       true,
	"MD2BLOG_BLOG_DIR":     true,
	"MD2BLOG_GITHUB_TOKEN": true,
	"MD2BLOG_ADDR":         true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2BLOG_CONFIG"),
		BlogDir:    os.Getenv("MD2BLOG_BLOG_DIR"),
		Token:      os.Getenv("MD2BLOG_GITHUB_TOKEN"),
		Addr:       os.Getenv("MD2BLOG_ADDR"),
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}
	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2BLOG_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2BLOG_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values over the loaded config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeCommonFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.BlogDir != "" {
		cfg.Site.BlogDir = env.BlogDir
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
}
