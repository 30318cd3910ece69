package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/fileutil"
	"github.com/yourmoontg/go-md2blog/internal/hints"
	"github.com/yourmoontg/go-md2blog/internal/site"
)

// errDoctorFailed makes doctor exit non-zero when a check failed.
var errDoctorFailed = errors.New("doctor found errors")

// doctorCheckTimeout bounds the GitHub repository check.
const doctorCheckTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Blog     blogInfo   `json:"blog"`
	GitHub   githubInfo `json:"github"`
	Env      envInfo    `json:"environment"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// blogInfo holds local blog checks.
type blogInfo struct {
	Dir            string   `json:"dir"`
	Exists         bool     `json:"exists"`
	Articles       int      `json:"articles"`
	MissingSources []string `json:"missing_sources,omitempty"`
	Template       string   `json:"template"` // "config", "local" or "built-in"
}

// githubInfo holds repository checks.
type githubInfo struct {
	Repo      string `json:"repo"`
	Branch    string `json:"branch"`
	Token     bool   `json:"token"`
	Reachable bool   `json:"reachable"`
	Checked   bool   `json:"checked"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
}

// runDoctor checks the blog directory, the configuration and GitHub access.
func runDoctor(ctx context.Context, args []string, env *Environment) error {
	f := &doctorFlags{}
	if _, err := parseArgs(newDoctorFlagSet(f), args, env, printDoctorUsage); err != nil {
		return err
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}

	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Container: hints.IsInContainer(),
			CI:        os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "",
		},
	}
	checkBlog(a, result)
	checkGitHub(ctx, a, result, f.offline)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return errDoctorFailed
	}
	return nil
}

// checkBlog verifies the blog directory, its catalog and sources.
func checkBlog(a *app, r *doctorResult) {
	s := a.cfg.Site
	r.Blog.Dir = s.BlogDir
	r.Blog.Exists = fileutil.DirExists(s.BlogDir)
	if !r.Blog.Exists {
		r.Errors = append(r.Errors, fmt.Sprintf("blog directory %s not found", s.BlogDir))
		return
	}

	switch {
	case s.Template != "":
		r.Blog.Template = "config"
		if !fileutil.FileExists(s.Template) {
			r.Errors = append(r.Errors, fmt.Sprintf("template %s not found", s.Template))
		}
	case fileutil.FileExists(filepath.Join(s.BlogDir, site.LocalTemplateFile)):
		r.Blog.Template = "local"
	default:
		r.Blog.Template = "built-in"
	}

	catalog, err := articles.Load(a.localPath(articles.CatalogFile))
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
		return
	}
	r.Blog.Articles = len(catalog.Articles)
	for _, art := range catalog.Articles {
		if err := art.Validate(); err != nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("article %s: %v", art.ID, err))
		}
		if !fileutil.FileExists(a.localPath(articles.MarkdownPath(art.ID))) {
			r.Blog.MissingSources = append(r.Blog.MissingSources, art.ID)
		}
	}
	if n := len(r.Blog.MissingSources); n > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d articles have no Markdown source; run 'md2blog pull'", n))
	}
}

// checkGitHub verifies the token and, unless offline, repository access.
func checkGitHub(ctx context.Context, a *app, r *doctorResult, offline bool) {
	client := a.githubClient()
	r.GitHub.Repo = client.Repo()
	r.GitHub.Branch = client.Branch()
	r.GitHub.Token = client.HasToken()

	if !r.GitHub.Token {
		r.Warnings = append(r.Warnings, "no GitHub token: pull, publish and delete are unavailable")
		return
	}
	if offline {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, doctorCheckTimeout)
	defer cancel()
	r.GitHub.Checked = true
	if err := client.CheckRepo(ctx); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("repository %s: %v", r.GitHub.Repo, err))
		return
	}
	r.GitHub.Reachable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2blog doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Blog")
	if r.Blog.Exists {
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Blog.Dir)
		fmt.Fprintf(w, "  [OK] Articles: %d\n", r.Blog.Articles)
		fmt.Fprintf(w, "  [OK] Template: %s\n", r.Blog.Template)
	} else {
		fmt.Fprintf(w, "  [ERROR] Directory: %s not found\n", r.Blog.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "GitHub")
	fmt.Fprintf(w, "  [OK] Repository: %s (%s)\n", r.GitHub.Repo, r.GitHub.Branch)
	switch {
	case !r.GitHub.Token:
		fmt.Fprintln(w, "  [WARN] Token: not set")
	case r.GitHub.Reachable:
		fmt.Fprintln(w, "  [OK] Token: accepted")
	case r.GitHub.Checked:
		fmt.Fprintln(w, "  [ERROR] Token: repository not reachable")
	default:
		fmt.Fprintln(w, "  [OK] Token: set (not checked)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
