package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel().

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yourmoontg/go-md2blog/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("MD2BLOG_CONFIG", "/etc/md2blog.yaml")
		t.Setenv("MD2BLOG_BLOG_DIR", "/srv/blog")
		t.Setenv("MD2BLOG_GITHUB_TOKEN", "own")
		t.Setenv("MD2BLOG_ADDR", ":9000")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/etc/md2blog.yaml" {
			t.Errorf("ConfigPath = %q", cfg.ConfigPath)
		}
		if cfg.BlogDir != "/srv/blog" {
			t.Errorf("BlogDir = %q", cfg.BlogDir)
		}
		if cfg.Token != "own" {
			t.Errorf("Token = %q, want own", cfg.Token)
		}
		if cfg.Addr != ":9000" {
			t.Errorf("Addr = %q", cfg.Addr)
		}
	})

	t.Run("GITHUB_TOKEN fallback", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("GITHUB_TOKEN", "actions")

		if got := loadEnvConfig().Token; got != "actions" {
			t.Errorf("Token = %q, want actions", got)
		}
	})

	t.Run("own token wins", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("GITHUB_TOKEN", "actions")
		t.Setenv("MD2BLOG_GITHUB_TOKEN", "own")

		if got := loadEnvConfig().Token; got != "own" {
			t.Errorf("Token = %q, want own", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MD2BLOG_BLOG_DIR", "blog")
	t.Setenv("MD2BLOG_TOKEN", "typo")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "MD2BLOG_TOKEN") {
		t.Errorf("expected a warning for MD2BLOG_TOKEN, got %q", out)
	}
	if strings.Contains(out, "MD2BLOG_BLOG_DIR") {
		t.Errorf("known variable reported: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides file values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Site.BlogDir = "from-file"

	applyEnvConfig(&envConfig{BlogDir: "from-env", Addr: ":9000"}, cfg)

	if cfg.Site.BlogDir != "from-env" {
		t.Errorf("BlogDir = %q, want from-env", cfg.Site.BlogDir)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Server.Addr)
	}

	applyEnvConfig(&envConfig{}, cfg)
	if cfg.Site.BlogDir != "from-env" {
		t.Errorf("empty env changed BlogDir to %q", cfg.Site.BlogDir)
	}
}

// ---------------------------------------------------------------------------
// TestNewApp_Precedence - flags > env > file > defaults
// ---------------------------------------------------------------------------

func TestNewApp_Precedence(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cfgPath := dir + "/site.yaml"
	writeFile(t, cfgPath, "site:\n  blogDir: from-file\n  locale: en\n")

	env, _, _ := testEnv("")

	a, err := newApp(commonFlags{config: cfgPath}, env)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.cfg.Site.BlogDir != "from-file" || a.cfg.Site.Locale != "en" {
		t.Errorf("file values not applied: %+v", a.cfg.Site)
	}

	t.Setenv("MD2BLOG_BLOG_DIR", "from-env")
	a, err = newApp(commonFlags{config: cfgPath}, env)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.cfg.Site.BlogDir != "from-env" {
		t.Errorf("BlogDir = %q, want from-env", a.cfg.Site.BlogDir)
	}

	a, err = newApp(commonFlags{config: cfgPath, blogDir: "from-flag"}, env)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.cfg.Site.BlogDir != "from-flag" {
		t.Errorf("BlogDir = %q, want from-flag", a.cfg.Site.BlogDir)
	}

	t.Setenv("MD2BLOG_CONFIG", cfgPath)
	a, err = newApp(commonFlags{}, env)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.cfg.Site.Locale != "en" {
		t.Error("MD2BLOG_CONFIG was not loaded")
	}
}

// ---------------------------------------------------------------------------
// TestConfigCommand - Effective configuration as YAML
// ---------------------------------------------------------------------------

func TestConfigCommand(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MD2BLOG_ADDR", "127.0.0.1:9999")
	t.Setenv("MD2BLOG_GITHUB_TOKEN", "secret-token")

	env, stdout, stderr := testEnv("")
	if code := cli(t, env, "config", "-b", "my-blog"); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	out := stdout.String()
	for _, want := range []string{"blogDir: my-blog", "127.0.0.1:9999", "owner: "} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret-token") {
		t.Error("config output leaks the token")
	}
}
