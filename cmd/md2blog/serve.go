package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourmoontg/go-md2blog/internal/drafts"
	"github.com/yourmoontg/go-md2blog/internal/hints"
	"github.com/yourmoontg/go-md2blog/internal/logging"
	"github.com/yourmoontg/go-md2blog/internal/server"
	"github.com/yourmoontg/go-md2blog/internal/site"
)

// runServe starts the editor backend until interrupted.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f := &serveFlags{}
	if _, err := parseArgs(newServeFlagSet(f), args, env, printServeUsage); err != nil {
		return err
	}

	a, err := newApp(f.common, env)
	if err != nil {
		return err
	}

	addr := a.cfg.Server.Addr
	if f.addr != "" {
		addr = f.addr
	}
	draftsPath := a.cfg.Server.DraftsPath
	if f.drafts != "" {
		draftsPath = f.drafts
	} else if !filepath.IsAbs(draftsPath) {
		draftsPath = filepath.Join(a.cfg.Site.BlogDir, draftsPath)
	}

	conv, err := a.converter(false)
	if err != nil {
		return err
	}
	b, err := a.builder(conv, 0)
	if err != nil {
		return err
	}
	preview, err := site.NewPreview(b)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(draftsPath), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	store, err := drafts.Open(draftsPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	log := a.log
	if f.jsonLog {
		log = logging.NewJSON(env.Stderr, logging.LevelFromFlags(f.common.quiet, f.common.verbose))
	}

	opts := server.Options{
		Renderer: conv,
		Drafts:   store,
		Pages:    preview,
		Logger:   log,
		Now:      env.Now,
	}
	if a.token != "" {
		remote, err := a.remote()
		if err != nil {
			return err
		}
		opts.Articles = remote
	} else {
		log.Warn().Msg("no GitHub token: remote article endpoints are disabled")
	}

	log.Info().Str("drafts", draftsPath).Str("blog", a.cfg.Site.BlogDir).Msg("starting editor backend")
	if err := server.New(opts).ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("%w%s", err, hints.ForListen())
	}
	return nil
}
