package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// testEnv returns an environment writing to buffers.
func testEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// isolateEnv clears variables read by the CLI. Tests calling it cannot run
// in parallel.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"MD2BLOG_CONFIG", "MD2BLOG_BLOG_DIR", "MD2BLOG_GITHUB_TOKEN", "MD2BLOG_ADDR", "GITHUB_TOKEN"} {
		t.Setenv(name, "")
	}
}

// cli runs md2blog with args and returns the exit code and outputs.
func cli(t *testing.T, env *Environment, args ...string) int {
	t.Helper()
	return runMain(append([]string{"md2blog"}, args...), env)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// fakeGitHub is an in-memory contents API for owner/repo.
type fakeGitHub struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, string) {
	t.Helper()
	f := &fakeGitHub{files: map[string][]byte{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func (f *fakeGitHub) file(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	return string(data), ok
}

func (f *fakeGitHub) put(path, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = []byte(content)
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/repos/owner/repo" {
		_, _ = io.WriteString(w, `{"full_name":"owner/repo"}`)
		return
	}
	path, ok := strings.CutPrefix(r.URL.Path, "/repos/owner/repo/contents/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Not Found"}`)
		return
	}
	sha := "sha-" + path

	switch r.Method {
	case http.MethodGet:
		data, exists := f.files[path]
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"path": path, "sha": sha, "encoding": "base64",
			"content": base64.StdEncoding.EncodeToString(data),
		})
	case http.MethodPut:
		var req struct {
			Content string `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		data, _ := base64.StdEncoding.DecodeString(req.Content)
		f.files[path] = data
		_ = json.NewEncoder(w).Encode(map[string]any{"content": map[string]string{"sha": sha}})
	case http.MethodDelete:
		delete(f.files, path)
		_, _ = io.WriteString(w, `{"commit":{}}`)
	}
}

// writeRemoteConfig writes a config pointing the GitHub client at apiURL.
func writeRemoteConfig(t *testing.T, dir, blogDir, apiURL string) string {
	t.Helper()
	path := filepath.Join(dir, "md2blog.yaml")
	writeFile(t, path, fmt.Sprintf(`site:
  blogDir: %s
github:
  owner: owner
  repo: repo
  branch: main
  apiURL: %s
  requestsPerSecond: 100
`, blogDir, apiURL))
	return path
}
