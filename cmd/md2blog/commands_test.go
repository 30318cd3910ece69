package main

// Notes:
// - Commands run end to end through runMain against a temporary blog
//   directory. Remote commands talk to an in-memory contents API.
// - All tests call isolateEnv and so cannot run in parallel.

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourmoontg/go-md2blog/internal/articles"
)

// newBlog returns an empty blog directory.
func newBlog(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "blog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return dir
}

// mustRun runs args and fails the test on a non-zero exit code.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	env, stdout, stderr := testEnv("")
	if code := cli(t, env, args...); code != ExitSuccess {
		t.Fatalf("md2blog %s: exit code %d\nstderr: %s", strings.Join(args, " "), code, stderr)
	}
	return stdout.String()
}

// ---------------------------------------------------------------------------
// TestConvert - Markdown to HTML fragment
// ---------------------------------------------------------------------------

func TestConvert_Stdin(t *testing.T) {
	isolateEnv(t)

	env, stdout, stderr := testEnv("Hello **world**\n")
	if code := cli(t, env, "convert", "-"); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout.String(), "<strong>world</strong>") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestConvert_FileToOutput(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "my-post.md")
	out := filepath.Join(dir, "out", "my-post.html")
	writeFile(t, in, "# Title\n\nText\n")

	mustRun(t, "convert", in, "-o", out)

	html := readFile(t, out)
	if !strings.Contains(html, "Title") || !strings.Contains(html, "Text") {
		t.Errorf("output = %q", html)
	}
}

func TestConvert_Highlight(t *testing.T) {
	isolateEnv(t)

	env, stdout, stderr := testEnv("```go\nfunc main() {}\n```\n")
	if code := cli(t, env, "convert", "--highlight", "-"); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout.String(), "<style>") {
		t.Errorf("highlighted output has no stylesheet: %q", stdout)
	}
}

func TestConvert_MissingFile(t *testing.T) {
	isolateEnv(t)

	env, _, stderr := testEnv("")
	code := cli(t, env, "convert", filepath.Join(t.TempDir(), "nope.md"))
	if code != ExitIO {
		t.Errorf("exit code = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(stderr.String(), "failed to read input") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestToMarkdown(t *testing.T) {
	isolateEnv(t)

	env, stdout, stderr := testEnv("<p>Hello <strong>world</strong></p>")
	if code := cli(t, env, "tomd", "-"); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if got := strings.TrimSpace(stdout.String()); got != "Hello **world**" {
		t.Errorf("tomd = %q, want %q", got, "Hello **world**")
	}
}

// ---------------------------------------------------------------------------
// TestLocalWorkflow - new, list, build, import
// ---------------------------------------------------------------------------

func TestLocalWorkflow(t *testing.T) {
	isolateEnv(t)
	blog := newBlog(t)

	out := mustRun(t, "new", "-b", blog, "--tags", "go, web", "--status", "published", "Hello World")
	source := filepath.Join(blog, "content", "hello-world.md")
	if strings.TrimSpace(out) != source {
		t.Errorf("new printed %q, want %q", out, source)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("scaffold not written: %v", err)
	}

	catalog, err := articles.Load(filepath.Join(blog, articles.CatalogFile))
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	a, ok := catalog.Find("hello-world")
	if !ok {
		t.Fatal("article not added to the catalog")
	}
	if a.Date != "2025-03-14" || a.Status != articles.StatusPublished {
		t.Errorf("article = %+v", a)
	}
	if strings.Join(a.Tags, ",") != "go,web" {
		t.Errorf("tags = %v", a.Tags)
	}

	mustRun(t, "new", "-b", blog, "--id", "second", "Second post")

	t.Run("new duplicate", func(t *testing.T) {
		env, _, _ := testEnv("")
		if code := cli(t, env, "new", "-b", blog, "Hello World"); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("list table", func(t *testing.T) {
		out := mustRun(t, "list", "-b", blog)
		if !strings.HasPrefix(out, "DATE") {
			t.Errorf("missing header: %q", out)
		}
		if !strings.Contains(out, "hello-world") || !strings.Contains(out, "second") {
			t.Errorf("list = %q", out)
		}
	})

	t.Run("list json filtered", func(t *testing.T) {
		out := mustRun(t, "list", "-b", blog, "--json", "--status", "draft")
		var got articles.Catalog
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if len(got.Articles) != 1 || got.Articles[0].ID != "second" {
			t.Errorf("articles = %+v", got.Articles)
		}
	})

	t.Run("list bad status", func(t *testing.T) {
		env, _, _ := testEnv("")
		if code := cli(t, env, "list", "-b", blog, "--status", "archived"); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	page := filepath.Join(blog, "posts", "2025-03-14-hello-world.html")

	t.Run("build one", func(t *testing.T) {
		out := mustRun(t, "build", "-b", blog, "hello-world")
		if !strings.Contains(out, "hello-world -> "+page) {
			t.Errorf("build output = %q", out)
		}
		html := readFile(t, page)
		if !strings.Contains(html, "Hello World") {
			t.Errorf("page has no title: %q", html)
		}
	})

	t.Run("build all", func(t *testing.T) {
		out := mustRun(t, "build", "-b", blog, "--all")
		if !strings.Contains(out, "2 built, 0 failed") {
			t.Errorf("build output = %q", out)
		}
	})

	t.Run("build unknown id", func(t *testing.T) {
		env, _, stderr := testEnv("")
		code := cli(t, env, "build", "-b", blog, "nope")
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "md2blog list") {
			t.Errorf("missing hint: %q", stderr)
		}
	})

	t.Run("import built page", func(t *testing.T) {
		other := newBlog(t)
		out := mustRun(t, "import", "-b", other, page)
		if !strings.Contains(out, filepath.Join(other, "content", "hello-world.md")) {
			t.Errorf("import output = %q", out)
		}
		imported, err := articles.Load(filepath.Join(other, articles.CatalogFile))
		if err != nil {
			t.Fatalf("loading catalog: %v", err)
		}
		if _, ok := imported.Find("hello-world"); !ok {
			t.Error("imported article missing from catalog")
		}

		env, _, _ := testEnv("")
		if code := cli(t, env, "import", "-b", other, page); code != ExitIO {
			t.Errorf("second import exit code = %d, want %d", code, ExitIO)
		}
		mustRun(t, "import", "-b", other, "--overwrite", page)
	})
}

func TestBuild_MissingBlogDir(t *testing.T) {
	isolateEnv(t)

	env, _, stderr := testEnv("")
	code := cli(t, env, "build", "-b", filepath.Join(t.TempDir(), "none"), "--all")
	if code != ExitIO {
		t.Errorf("exit code = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(stderr.String(), "--blog-dir") {
		t.Errorf("missing hint: %q", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRemoteWorkflow - publish, pull, upload-image, delete
// ---------------------------------------------------------------------------

func TestRemote_NoToken(t *testing.T) {
	isolateEnv(t)

	for _, args := range [][]string{
		{"pull"},
		{"publish", "x"},
		{"delete", "x"},
		{"list", "--remote"},
	} {
		env, _, stderr := testEnv("")
		if code := cli(t, env, args...); code != ExitRemote {
			t.Errorf("%v: exit code = %d, want %d", args, code, ExitRemote)
		}
		if !strings.Contains(stderr.String(), "MD2BLOG_GITHUB_TOKEN") {
			t.Errorf("%v: missing token hint: %q", args, stderr)
		}
	}
}

func TestRemoteWorkflow(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MD2BLOG_GITHUB_TOKEN", "test-token")

	fake, apiURL := newFakeGitHub(t)
	blog := newBlog(t)
	cfg := writeRemoteConfig(t, t.TempDir(), blog, apiURL)

	mustRun(t, "new", "-c", cfg, "--date", "2025-01-02", "First post")
	writeFile(t, filepath.Join(blog, "content", "first-post.md"), "Remote body\n")

	t.Run("publish creates", func(t *testing.T) {
		out := mustRun(t, "publish", "-c", cfg, "first-post")
		if strings.TrimSpace(out) != "published first-post" {
			t.Errorf("publish output = %q", out)
		}
		body, ok := fake.file("blog/content/first-post.md")
		if !ok || body != "Remote body\n" {
			t.Errorf("remote markdown = %q, %v", body, ok)
		}
		catalog, ok := fake.file("blog/articles.json")
		if !ok || !strings.Contains(catalog, `"first-post"`) {
			t.Errorf("remote catalog = %q", catalog)
		}
	})

	t.Run("publish updates", func(t *testing.T) {
		writeFile(t, filepath.Join(blog, "content", "first-post.md"), "Edited body\n")
		mustRun(t, "publish", "-c", cfg, "first-post")
		if body, _ := fake.file("blog/content/first-post.md"); body != "Edited body\n" {
			t.Errorf("remote markdown = %q", body)
		}
	})

	t.Run("list remote", func(t *testing.T) {
		out := mustRun(t, "list", "-c", cfg, "--remote")
		if !strings.Contains(out, "first-post") {
			t.Errorf("list = %q", out)
		}
	})

	t.Run("pull", func(t *testing.T) {
		fake.put("blog/content/first-post.md", "Pulled body\n")
		out := mustRun(t, "pull", "-c", cfg)
		if !strings.Contains(out, "1 articles, 1 sources pulled") {
			t.Errorf("pull output = %q", out)
		}
		if got := readFile(t, filepath.Join(blog, "content", "first-post.md")); got != "Pulled body\n" {
			t.Errorf("local source = %q", got)
		}
	})

	t.Run("upload image", func(t *testing.T) {
		img := filepath.Join(t.TempDir(), "chart.png")
		writeFile(t, img, "png-bytes")

		out := mustRun(t, "upload-image", "-c", cfg, "first-post", img)
		if strings.TrimSpace(out) != "![chart.png](../../blog/images/first-post/chart.png)" {
			t.Errorf("upload output = %q", out)
		}
		if data, ok := fake.file("blog/images/first-post/chart.png"); !ok || data != "png-bytes" {
			t.Errorf("remote image = %q, %v", data, ok)
		}
		if got := readFile(t, filepath.Join(blog, "images", "first-post", "chart.png")); got != "png-bytes" {
			t.Errorf("local copy = %q", got)
		}
	})

	t.Run("upload bad name", func(t *testing.T) {
		img := filepath.Join(t.TempDir(), "chart.png")
		writeFile(t, img, "png-bytes")

		env, _, _ := testEnv("")
		if code := cli(t, env, "upload-image", "-c", cfg, "--name", "../x.png", "first-post", img); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("delete local", func(t *testing.T) {
		out := mustRun(t, "delete", "-c", cfg, "--local", "first-post")
		if strings.TrimSpace(out) != "deleted first-post" {
			t.Errorf("delete output = %q", out)
		}
		if _, ok := fake.file("blog/content/first-post.md"); ok {
			t.Error("remote markdown still present")
		}
		if _, err := os.Stat(filepath.Join(blog, "content", "first-post.md")); !os.IsNotExist(err) {
			t.Errorf("local source still present: %v", err)
		}
		local, err := articles.Load(filepath.Join(blog, articles.CatalogFile))
		if err != nil {
			t.Fatalf("loading catalog: %v", err)
		}
		if _, ok := local.Find("first-post"); ok {
			t.Error("article still in the local catalog")
		}
	})

	t.Run("delete unknown", func(t *testing.T) {
		env, _, _ := testEnv("")
		if code := cli(t, env, "delete", "-c", cfg, "first-post"); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})
}
